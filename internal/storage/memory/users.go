package memory

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

func (s *Storage) usernameTaken(username *string, exceptID string) bool {
	if username == nil {
		return false
	}
	for id, u := range s.users {
		if id != exceptID && u.Username != nil && *u.Username == *username {
			return true
		}
	}
	return false
}

// CreateUser добавляет пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.memory.CreateUser"
	return s.write(ctx, op, func() error {
		if s.usernameTaken(user.Username, user.ID) {
			return fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
		}
		s.users[user.ID] = user
		return nil
	})
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.memory.GetUser"
	var out *models.User
	err := s.read(ctx, op, func() error {
		u, ok := s.users[id]
		if !ok {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		out = &u
		return nil
	})
	return out, err
}

// GetUserByUsername возвращает сотрудника по логину.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.GetUserByUsername"
	var out *models.User
	err := s.read(ctx, op, func() error {
		for _, u := range s.users {
			if u.Username != nil && *u.Username == username {
				out = &u
				return nil
			}
		}
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	})
	return out, err
}

// ListUsers возвращает сотрудников (systemUsers=true) или клиентов в порядке создания.
func (s *Storage) ListUsers(ctx context.Context, systemUsers bool) ([]*models.User, error) {
	const op = "storage.memory.ListUsers"
	var out []*models.User
	err := s.read(ctx, op, func() error {
		all := sortedValues(s.users, func(a, b *models.User) int {
			return byCreated(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
		})
		out = make([]*models.User, 0, len(all))
		for _, u := range all {
			if u.IsSystemUser == systemUsers {
				out = append(out, u)
			}
		}
		return nil
	})
	return out, err
}

// UpdateUser перезаписывает пользователя.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) error {
	const op = "storage.memory.UpdateUser"
	return s.write(ctx, op, func() error {
		if _, ok := s.users[user.ID]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		if s.usernameTaken(user.Username, user.ID) {
			return fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
		}
		s.users[user.ID] = user
		return nil
	})
}

// DeleteUser удаляет пользователя вместе с его подписками.
// Операции журнала сохраняются без привязки к пользователю.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.memory.DeleteUser"
	return s.write(ctx, op, func() error {
		if _, ok := s.users[id]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		delete(s.users, id)
		for subID, sub := range s.subscriptions {
			if sub.UserID == id {
				delete(s.subscriptions, subID)
			}
		}
		for txID, tx := range s.transactions {
			if tx.UserID != nil && *tx.UserID == id {
				tx.UserID = nil
				s.transactions[txID] = tx
			}
		}
		return nil
	})
}
