// Package services содержит вход и выход сотрудников, проверку JWT
// и создание учетной записи администратора при первом запуске.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-manager/internal/lib/password"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// UserRepository описывает контракт для работы с сотрудниками в базе данных.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя по логину или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по идентификатору.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) error
}

// Revoker хранит идентификаторы отозванных токенов.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService отвечает за вход, выход и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	revoker  Revoker
	log      *slog.Logger
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, revoker Revoker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		revoker:  revoker,
		log:      log,
		now:      time.Now,
	}
}

// Login проверяет пароль сотрудника и выпускает JWT.
// Неизвестный логин и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.Principal, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !user.IsSystemUser || user.PasswordHash == nil {
		return "", nil, models.ErrInvalidCredentials
	}
	if err := password.CompareHash(*user.PasswordHash, rawPassword); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, username, user.Role)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("staff user logged in", sl.ID("user_id", user.ID))
	return token, &models.Principal{UserID: user.ID, Username: username, Role: user.Role}, nil
}

// ValidateToken проверяет JWT и возвращает сотрудника, от имени которого он выпущен.
// Отозванный токен считается недействительным. Доступ и роль определяются
// текущей записью сотрудника, а не содержимым токена.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errors.New("token revoked")
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errors.New("token owner no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsSystemUser {
		return nil, errors.New("token owner is not a staff user")
	}

	username := claims.Username
	if user.Username != nil {
		username = *user.Username
	}
	return &models.Principal{
		UserID:   user.ID,
		Username: username,
		Role:     user.Role,
	}, nil
}

// Logout отзывает токен до окончания его срока действия.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	s.log.Info("staff user logged out", sl.ID("user_id", claims.UserID))
	return nil
}

// EnsureAdmin создает администратора из конфига, если логин еще свободен.
// Без пароля в конфиге ничего не создается.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.Admin) error {
	const op = "services.auth.EnsureAdmin"
	log := s.log.With(slog.String("op", op))

	if cfg.AdminPassword == "" {
		log.Warn("admin password is not configured, bootstrap skipped")
		return nil
	}
	_, err := s.users.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	username := cfg.AdminUsername
	admin := models.User{
		ID:           uuid.NewString(),
		Name:         cfg.AdminName,
		Role:         models.RoleAdmin,
		Gender:       models.GenderMale,
		Username:     &username,
		PasswordHash: &hash,
		IsSystemUser: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("created admin account", slog.String("username", username))
	return nil
}
