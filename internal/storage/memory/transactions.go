package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// CreateTransaction добавляет запись журнала.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	const op = "storage.memory.CreateTransaction"
	return s.write(ctx, op, func() error {
		s.transactions[tx.ID] = tx
		return nil
	})
}

// GetTransaction возвращает запись журнала по ID.
func (s *Storage) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	const op = "storage.memory.GetTransaction"
	var out *models.Transaction
	err := s.read(ctx, op, func() error {
		tx, ok := s.transactions[id]
		if !ok {
			return fmt.Errorf("%s: %w", op, models.ErrTransactionNotFound)
		}
		out = &tx
		return nil
	})
	return out, err
}

// ListTransactions возвращает весь журнал, новые записи первыми.
func (s *Storage) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	const op = "storage.memory.ListTransactions"
	var out []*models.Transaction
	err := s.read(ctx, op, func() error {
		out = sortedValues(s.transactions, func(a, b *models.Transaction) int {
			if c := b.Date.Compare(a.Date); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		return nil
	})
	return out, err
}

// ListTransactionsByRange возвращает записи с датой в [start, end] по возрастанию даты.
func (s *Storage) ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	const op = "storage.memory.ListTransactionsByRange"
	var out []*models.Transaction
	err := s.read(ctx, op, func() error {
		for _, tx := range s.transactions {
			if tx.Date.Before(start) || tx.Date.After(end) {
				continue
			}
			out = append(out, &tx)
		}
		slices.SortFunc(out, func(a, b *models.Transaction) int {
			if c := a.Date.Compare(b.Date); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		return nil
	})
	return out, err
}

// DeleteTransaction удаляет запись журнала.
func (s *Storage) DeleteTransaction(ctx context.Context, id string) error {
	const op = "storage.memory.DeleteTransaction"
	return s.write(ctx, op, func() error {
		if _, ok := s.transactions[id]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrTransactionNotFound)
		}
		delete(s.transactions, id)
		return nil
	})
}
