package memory

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// activeTaken повторяет частичный уникальный индекс PostgreSQL:
// у клиента может быть только одна запись со статусом active.
func (s *Storage) activeTaken(sub models.Subscription) bool {
	if sub.Status != models.SubscriptionActive {
		return false
	}
	for id, other := range s.subscriptions {
		if id != sub.ID && other.UserID == sub.UserID && other.Status == models.SubscriptionActive {
			return true
		}
	}
	return false
}

// CreateSubscription добавляет подписку.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.memory.CreateSubscription"
	return s.write(ctx, op, func() error {
		if s.activeTaken(sub) {
			return fmt.Errorf("%s: %w", op, models.ErrDuplicateActiveSubscription)
		}
		s.subscriptions[sub.ID] = sub
		return nil
	})
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.memory.GetSubscription"
	var out *models.Subscription
	err := s.read(ctx, op, func() error {
		sub, ok := s.subscriptions[id]
		if !ok {
			return fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		out = &sub
		return nil
	})
	return out, err
}

func (s *Storage) listSubscriptions(ctx context.Context, op string, keep func(*models.Subscription) bool) ([]*models.Subscription, error) {
	var out []*models.Subscription
	err := s.read(ctx, op, func() error {
		all := sortedValues(s.subscriptions, func(a, b *models.Subscription) int {
			return byCreated(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
		})
		out = make([]*models.Subscription, 0, len(all))
		for _, sub := range all {
			if keep(sub) {
				out = append(out, sub)
			}
		}
		return nil
	})
	return out, err
}

// ListSubscriptions возвращает все подписки в порядке создания.
func (s *Storage) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.memory.ListSubscriptions", func(*models.Subscription) bool { return true })
}

// ListSubscriptionsByUser возвращает подписки клиента.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.memory.ListSubscriptionsByUser", func(sub *models.Subscription) bool {
		return sub.UserID == userID
	})
}

// ListSubscriptionsByPackage возвращает подписки на пакет.
func (s *Storage) ListSubscriptionsByPackage(ctx context.Context, packageID string) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.memory.ListSubscriptionsByPackage", func(sub *models.Subscription) bool {
		return sub.PackageID == packageID
	})
}

// ListSubscriptionsByStatus возвращает подписки с заданным хранимым статусом.
func (s *Storage) ListSubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.memory.ListSubscriptionsByStatus", func(sub *models.Subscription) bool {
		return sub.Status == status
	})
}

// UpdateSubscription перезаписывает подписку.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.memory.UpdateSubscription"
	return s.write(ctx, op, func() error {
		if _, ok := s.subscriptions[sub.ID]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		if s.activeTaken(sub) {
			return fmt.Errorf("%s: %w", op, models.ErrDuplicateActiveSubscription)
		}
		s.subscriptions[sub.ID] = sub
		return nil
	})
}
