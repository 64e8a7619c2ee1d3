package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const transactionColumns = `id, user_id, type, amount, date, description, category, created_at, updated_at`

func scanTransaction(row scanner) (*models.Transaction, error) {
	var (
		tx               models.Transaction
		userID, category sql.NullString
	)
	if err := row.Scan(&tx.ID, &userID, &tx.Type, &tx.Amount, &tx.Date, &tx.Description, &category,
		&tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}
	tx.UserID = stringPtr(userID)
	tx.Category = stringPtr(category)
	return &tx, nil
}

// CreateTransaction сохраняет запись журнала.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (` + transactionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.conn(ctx).ExecContext(ctx, query, tx.ID, nullString(tx.UserID), tx.Type, tx.Amount,
		tx.Date, tx.Description, nullString(tx.Category), tx.CreatedAt, tx.UpdatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTransaction возвращает запись журнала по ID.
func (s *Storage) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	const op = "storage.GetTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := scanTransaction(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTransactionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}

func (s *Storage) listTransactions(ctx context.Context, op, query string, args ...any) ([]*models.Transaction, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ListTransactions возвращает весь журнал, новые записи первыми.
func (s *Storage) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return s.listTransactions(ctx, "storage.ListTransactions",
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id`)
}

// ListTransactionsByRange возвращает записи с датой в [start, end] по индексу по дате.
func (s *Storage) ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	return s.listTransactions(ctx, "storage.ListTransactionsByRange",
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date, id`, start, end)
}

// DeleteTransaction удаляет запись журнала.
func (s *Storage) DeleteTransaction(ctx context.Context, id string) error {
	const op = "storage.DeleteTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res, models.ErrTransactionNotFound); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
