// Package services реализует управление сотрудниками, то есть системными
// пользователями с логином и паролем.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/password"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Repository описывает хранилище сотрудников.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, systemUsers bool) ([]*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// UserService управляет учетными записями сотрудников.
type UserService struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo Repository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Create заводит сотрудника. Пароль обязателен и хранится только в виде хэша.
func (s *UserService) Create(ctx context.Context, req models.StaffRequest) (*models.User, error) {
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", models.ErrInvalidInput)
	}
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	username := req.Username
	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Username:     &username,
		PasswordHash: &hash,
		IsSystemUser: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
			return err
		}
		return s.repo.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("created staff user", sl.ID("user_id", user.ID), slog.String("role", user.Role))
	return &user, nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	existing, err := s.repo.GetUserByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != exceptID:
		return models.ErrUsernameTaken
	case err == nil, errors.Is(err, models.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Get возвращает сотрудника. Клиент зала через этот путь не находится.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsTrainee() {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// GetByUsername ищет сотрудника по логину.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.IsTrainee() {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// List возвращает всех сотрудников.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, true)
}

// Update перезаписывает данные сотрудника. Пустой пароль оставляет прежний хэш.
func (s *UserService) Update(ctx context.Context, id string, req models.StaffRequest) (*models.User, error) {
	var hash *string
	if req.Password != "" {
		h, err := password.GetHash(req.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	var updated models.User
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.staffForWrite(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureUsernameFree(ctx, req.Username, id); err != nil {
			return err
		}
		username := req.Username
		user.Name = req.Name
		user.Email = req.Email
		user.Role = req.Role
		user.Gender = req.Gender
		user.Phone = req.Phone
		user.Username = &username
		if hash != nil {
			user.PasswordHash = hash
		}
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
	s.log.Info("updated staff user", sl.ID("user_id", id))
	return &updated, nil
}

// Delete удаляет сотрудника.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.staffForWrite(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("deleted staff user", sl.ID("user_id", id))
	return nil
}

func (s *UserService) staffForWrite(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsTrainee() {
		return nil, models.ErrInvalidScope
	}
	return user, nil
}
