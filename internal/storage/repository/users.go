package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const userColumns = `id, name, email, role, gender, phone, birth_date, emergency_contact,
	address, notes, username, password_hash, is_system_user, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var (
		u                              models.User
		email, notes, username, passwd sql.NullString
		birthDate                      sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &email, &u.Role, &u.Gender, &u.Phone, &birthDate,
		&u.EmergencyContact, &u.Address, &notes, &username, &passwd, &u.IsSystemUser,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Email = stringPtr(email)
	u.Notes = stringPtr(notes)
	u.Username = stringPtr(username)
	u.PasswordHash = stringPtr(passwd)
	if birthDate.Valid {
		u.BirthDate = &birthDate.Time
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := s.conn(ctx).ExecContext(ctx, query,
		user.ID, user.Name, nullString(user.Email), user.Role, user.Gender, user.Phone, user.BirthDate,
		user.EmergencyContact, user.Address, nullString(user.Notes), nullString(user.Username),
		nullString(user.PasswordHash), user.IsSystemUser, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает сотрудника по логину.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает сотрудников или клиентов в порядке создания.
func (s *Storage) ListUsers(ctx context.Context, systemUsers bool) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT `+userColumns+` FROM users
			  WHERE is_system_user = $1
			  ORDER BY created_at, id`, systemUsers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateUser перезаписывает пользователя.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $2, email = $3, role = $4, gender = $5, phone = $6, birth_date = $7,
			      emergency_contact = $8, address = $9, notes = $10, username = $11,
			      password_hash = $12, is_system_user = $13, updated_at = $14
			  WHERE id = $1`
	res, err := s.conn(ctx).ExecContext(ctx, query,
		user.ID, user.Name, nullString(user.Email), user.Role, user.Gender, user.Phone, user.BirthDate,
		user.EmergencyContact, user.Address, nullString(user.Notes), nullString(user.Username),
		nullString(user.PasswordHash), user.IsSystemUser, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := affected(res, models.ErrUserNotFound); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteUser удаляет пользователя. Подписки удаляются каскадно,
// в журнале операций ссылка на пользователя обнуляется.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res, models.ErrUserNotFound); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
