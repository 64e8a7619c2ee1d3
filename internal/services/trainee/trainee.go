// Package services реализует работу с клиентами зала. Сервис видит только
// записи, у которых IsSystemUser == false.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Repository описывает хранилище клиентов.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, systemUsers bool) ([]*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
}

// TraineeService управляет карточками клиентов.
type TraineeService struct {
	repo Repository
	log  *slog.Logger
	loc  *time.Location
	now  func() time.Time
}

// NewTraineeService создает новый экземпляр TraineeService.
func NewTraineeService(repo Repository, log *slog.Logger, loc *time.Location) *TraineeService {
	if loc == nil {
		loc = time.UTC
	}
	return &TraineeService{
		repo: repo,
		log:  log,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *TraineeService) birthDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := period.ParseDate(*value, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return &t, nil
}

// Create регистрирует нового клиента.
func (s *TraineeService) Create(ctx context.Context, req models.TraineeRequest) (*models.User, error) {
	birth, err := s.birthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := models.User{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            req.Email,
		Role:             models.RoleUser,
		Gender:           req.Gender,
		Phone:            req.Phone,
		BirthDate:        birth,
		EmergencyContact: req.EmergencyContact,
		Address:          req.Address,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("registered trainee", sl.ID("user_id", user.ID))
	return &user, nil
}

// Get возвращает клиента. Сотрудник через этот путь не находится.
func (s *TraineeService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsTrainee() {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// List возвращает всех клиентов.
func (s *TraineeService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, false)
}

// Update перезаписывает карточку клиента.
func (s *TraineeService) Update(ctx context.Context, id string, req models.TraineeRequest) (*models.User, error) {
	birth, err := s.birthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	var updated models.User
	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.traineeForWrite(ctx, id)
		if err != nil {
			return err
		}
		user.Name = req.Name
		user.Email = req.Email
		user.Gender = req.Gender
		user.Phone = req.Phone
		user.BirthDate = birth
		user.EmergencyContact = req.EmergencyContact
		user.Address = req.Address
		user.Notes = req.Notes
		user.UpdatedAt = s.now()
		if err := s.repo.UpdateUser(ctx, *user); err != nil {
			return err
		}
		updated = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("updated trainee", sl.ID("user_id", id))
	return &updated, nil
}

// Delete удаляет клиента вместе с историей подписок, если ни одна из них
// сейчас не действует. Записи журнала остаются без привязки к клиенту.
func (s *TraineeService) Delete(ctx context.Context, id string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.traineeForWrite(ctx, id); err != nil {
			return err
		}
		subs, err := s.repo.ListSubscriptionsByUser(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		for _, sub := range subs {
			if sub.IsCurrentlyActive(now) {
				return models.ErrHasActiveSubscription
			}
		}
		return s.repo.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("deleted trainee", sl.ID("user_id", id))
	return nil
}

// traineeForWrite загружает запись и отказывает, если это сотрудник.
func (s *TraineeService) traineeForWrite(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsTrainee() {
		return nil, models.ErrInvalidScope
	}
	return user, nil
}
