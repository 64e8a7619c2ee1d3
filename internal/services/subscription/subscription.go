// Package services реализует жизненный цикл подписок: создание вместе с
// записями о выручке, частичное обновление, отмену и выборки с вычисленным статусом.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/metrics"
	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Repository описывает хранилище, необходимое движку подписок.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	ListSubscriptions(ctx context.Context) ([]*models.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	CreateTransaction(ctx context.Context, tx models.Transaction) error
}

// SubscriptionService движок жизненного цикла подписок.
type SubscriptionService struct {
	repo Repository
	log  *slog.Logger
	loc  *time.Location
	now  func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// Даты из запросов разбираются в часовом поясе loc.
func NewSubscriptionService(repo Repository, log *slog.Logger, loc *time.Location) *SubscriptionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SubscriptionService{
		repo: repo,
		log:  log,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *SubscriptionService) parseDate(value string) (time.Time, error) {
	t, err := period.ParseDate(value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return t, nil
}

// Create оформляет подписку клиента на пакет. Проверка на действующую подписку,
// сама подписка и записи о выручке сохраняются одной транзакцией.
func (s *SubscriptionService) Create(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error) {
	startDate, err := s.parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	var created models.Subscription
	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		now := s.now()

		user, err := s.repo.GetUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		if !user.IsTrainee() {
			return models.ErrInvalidScope
		}
		pkg, err := s.repo.GetPackage(ctx, req.PackageID)
		if err != nil {
			return err
		}
		var delivery *models.Product
		if req.DeliveryProductID != nil && *req.DeliveryProductID != "" {
			if delivery, err = s.repo.GetProduct(ctx, *req.DeliveryProductID); err != nil {
				return err
			}
		}

		if err := s.releaseEnded(ctx, user.ID, now); err != nil {
			return err
		}

		created = models.Subscription{
			ID:            uuid.NewString(),
			UserID:        user.ID,
			PackageID:     pkg.ID,
			StartDate:     startDate,
			EndDate:       period.AddDays(startDate, pkg.Duration),
			Status:        models.SubscriptionActive,
			PaymentStatus: req.PaymentStatus,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.CreateSubscription(ctx, created); err != nil {
			return err
		}

		if req.PaymentStatus != models.PaymentPaid {
			return nil
		}
		if err := s.recordRevenue(ctx, subscriptionRevenue(user, pkg, startDate, now)); err != nil {
			return err
		}
		if delivery != nil {
			return s.recordRevenue(ctx, deliveryRevenue(user, delivery, startDate, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionsCreated.WithLabelValues(string(created.PaymentStatus)).Inc()
	s.log.Info("created new subscription",
		sl.ID("subscription_id", created.ID),
		sl.ID("user_id", created.UserID),
		slog.String("end_date", period.DateKey(created.EndDate)))
	return &created, nil
}

// releaseEnded проверяет, что у клиента нет действующей подписки. Записи,
// которые хранятся как active, но уже закончились, переводятся в expired.
func (s *SubscriptionService) releaseEnded(ctx context.Context, userID string, now time.Time) error {
	subs, err := s.repo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.IsCurrentlyActive(now) {
			return models.ErrDuplicateActiveSubscription
		}
		if sub.Status == models.SubscriptionActive {
			sub.Status = models.SubscriptionExpired
			sub.UpdatedAt = now
			if err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SubscriptionService) recordRevenue(ctx context.Context, tx models.Transaction) error {
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return err
	}
	metrics.TransactionsRecorded.WithLabelValues(string(tx.Type)).Inc()
	return nil
}

func subscriptionRevenue(user *models.User, pkg *models.Package, date, now time.Time) models.Transaction {
	category := pkg.Category
	return models.Transaction{
		ID:          uuid.NewString(),
		UserID:      &user.ID,
		Type:        models.TransactionSubscription,
		Amount:      pkg.Price,
		Date:        date,
		Description: fmt.Sprintf("Subscription %s - %s", pkg.Name, user.Name),
		Category:    &category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func deliveryRevenue(user *models.User, product *models.Product, date, now time.Time) models.Transaction {
	category := models.DeliveryCategory
	return models.Transaction{
		ID:          uuid.NewString(),
		UserID:      &user.ID,
		Type:        models.TransactionDelivery,
		Amount:      product.Price,
		Date:        date,
		Description: fmt.Sprintf("Delivery %s - %s", product.Name, user.Name),
		Category:    &category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Update применяет частичное изменение. Дата окончания из пакета не пересчитывается.
// Переход оплаты pending -> paid записывает выручку датой изменения.
func (s *SubscriptionService) Update(ctx context.Context, id string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	var (
		startDate, endDate *time.Time
	)
	if patch.StartDate != nil {
		t, err := s.parseDate(*patch.StartDate)
		if err != nil {
			return nil, err
		}
		startDate = &t
	}
	if patch.EndDate != nil {
		t, err := s.parseDate(*patch.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = &t
	}

	var updated models.Subscription
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		now := s.now()
		sub, err := s.repo.GetSubscription(ctx, id)
		if err != nil {
			return err
		}
		previousPayment := sub.PaymentStatus

		if startDate != nil {
			sub.StartDate = *startDate
		}
		if endDate != nil {
			sub.EndDate = *endDate
		}
		if patch.Status != nil {
			sub.Status = *patch.Status
		}
		if patch.PaymentStatus != nil {
			sub.PaymentStatus = *patch.PaymentStatus
		}
		if !sub.EndDate.After(sub.StartDate) {
			return fmt.Errorf("%w: end date must be after start date", models.ErrInvalidInput)
		}
		sub.UpdatedAt = now
		if err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
			return err
		}
		updated = *sub

		if previousPayment == models.PaymentPending && sub.PaymentStatus == models.PaymentPaid {
			return s.recordLatePayment(ctx, sub, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated subscription", sl.ID("subscription_id", id))
	return &updated, nil
}

// recordLatePayment записывает выручку за подписку, оплаченную после оформления.
// Если пакет или клиент уже удалены, записать сумму не из чего, и запись пропускается.
func (s *SubscriptionService) recordLatePayment(ctx context.Context, sub *models.Subscription, now time.Time) error {
	pkg, err := s.repo.GetPackage(ctx, sub.PackageID)
	if err != nil {
		s.log.Warn("package missing, revenue not recorded", sl.ID("subscription_id", sub.ID), sl.Err(err))
		return nil
	}
	user, err := s.repo.GetUser(ctx, sub.UserID)
	if err != nil {
		s.log.Warn("trainee missing, revenue not recorded", sl.ID("subscription_id", sub.ID), sl.Err(err))
		return nil
	}
	return s.recordRevenue(ctx, subscriptionRevenue(user, pkg, now, now))
}

// Cancel отменяет подписку. Повторная отмена ничего не меняет и не считается ошибкой.
// Связанные записи журнала не трогаются.
func (s *SubscriptionService) Cancel(ctx context.Context, id string) (*models.Subscription, error) {
	var (
		result  models.Subscription
		changed bool
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		sub, err := s.repo.GetSubscription(ctx, id)
		if err != nil {
			return err
		}
		if sub.Status == models.SubscriptionCancelled {
			result = *sub
			return nil
		}
		sub.Status = models.SubscriptionCancelled
		sub.UpdatedAt = s.now()
		if err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
			return err
		}
		result = *sub
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.SubscriptionsCancelled.Inc()
		s.log.Info("cancelled subscription", sl.ID("subscription_id", id))
	}
	return &result, nil
}

// Get возвращает подписку с вычисленным статусом.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*models.SubscriptionView, error) {
	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	view := models.NewSubscriptionView(sub, s.now())
	return &view, nil
}

// List возвращает подписки, отфильтрованные по вычисленному статусу.
// Пустой фильтр возвращает все подписки.
func (s *SubscriptionService) List(ctx context.Context, status models.SubscriptionStatus) ([]models.SubscriptionView, error) {
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(subs, status), nil
}

// ListByUser возвращает подписки клиента.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID string) ([]models.SubscriptionView, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(subs, ""), nil
}

func (s *SubscriptionService) views(subs []*models.Subscription, status models.SubscriptionStatus) []models.SubscriptionView {
	now := s.now()
	out := make([]models.SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		view := models.NewSubscriptionView(sub, now)
		if status != "" && view.EffectiveStatus != status {
			continue
		}
		out = append(out, view)
	}
	return out
}
