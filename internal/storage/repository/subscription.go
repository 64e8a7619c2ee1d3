package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const subscriptionColumns = `id, user_id, package_id, start_date, end_date, status, payment_status,
	created_at, updated_at`

func scanSubscription(row scanner) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PackageID, &sub.StartDate, &sub.EndDate,
		&sub.Status, &sub.PaymentStatus, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription сохраняет подписку. Вторая запись active для того же
// клиента отклоняется уникальным индексом.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.conn(ctx).ExecContext(ctx, query, sub.ID, sub.UserID, sub.PackageID, sub.StartDate,
		sub.EndDate, sub.Status, sub.PaymentStatus, sub.CreatedAt, sub.UpdatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sub, err := scanSubscription(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func (s *Storage) listSubscriptions(ctx context.Context, op, where string, args ...any) ([]*models.Subscription, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ` + where + ` ORDER BY created_at, id`
	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ListSubscriptions возвращает все подписки.
func (s *Storage) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.ListSubscriptions", "")
}

// ListSubscriptionsByUser возвращает подписки клиента.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.ListSubscriptionsByUser", "WHERE user_id = $1", userID)
}

// ListSubscriptionsByPackage возвращает подписки на пакет.
func (s *Storage) ListSubscriptionsByPackage(ctx context.Context, packageID string) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.ListSubscriptionsByPackage", "WHERE package_id = $1", packageID)
}

// ListSubscriptionsByStatus возвращает подписки с заданным хранимым статусом.
func (s *Storage) ListSubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error) {
	return s.listSubscriptions(ctx, "storage.ListSubscriptionsByStatus", "WHERE status = $1", status)
}

// UpdateSubscription перезаписывает подписку.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE subscriptions
			  SET user_id = $2, package_id = $3, start_date = $4, end_date = $5, status = $6,
			      payment_status = $7, updated_at = $8
			  WHERE id = $1`,
		sub.ID, sub.UserID, sub.PackageID, sub.StartDate, sub.EndDate, sub.Status, sub.PaymentStatus, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := affected(res, models.ErrSubscriptionNotFound); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
