// Package services реализует финансовый журнал: расходы, продажи товаров,
// просмотр и удаление записей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/metrics"
	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Repository описывает хранилище журнала.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) error
	CreateTransaction(ctx context.Context, tx models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)
	ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// LedgerService ведет журнал операций.
type LedgerService struct {
	repo Repository
	log  *slog.Logger
	loc  *time.Location
	now  func() time.Time
}

// NewLedgerService создает новый экземпляр LedgerService.
func NewLedgerService(repo Repository, log *slog.Logger, loc *time.Location) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{
		repo: repo,
		log:  log,
		loc:  loc,
		now:  time.Now,
	}
}

// RecordExpense записывает расход. Сумма всегда сохраняется отрицательной,
// какой бы знак ни пришел в запросе. Пустая дата означает текущий момент.
func (s *LedgerService) RecordExpense(ctx context.Context, req models.ExpenseRequest) (*models.Transaction, error) {
	now := s.now()
	date := now
	if req.Date != "" {
		d, err := period.ParseDate(req.Date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		date = d
	}

	category := req.Category
	tx := models.Transaction{
		ID:          uuid.NewString(),
		Type:        models.TransactionExpense,
		Amount:      -math.Abs(req.Amount),
		Date:        date,
		Description: req.Description,
		Category:    &category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	metrics.TransactionsRecorded.WithLabelValues(string(tx.Type)).Inc()
	s.log.Info("recorded expense", sl.ID("transaction_id", tx.ID), slog.String("category", category))
	return &tx, nil
}

// RecordSale продает товар: уменьшает остаток и пишет выручку одной транзакцией.
// Остаток услуги доставки не уменьшается.
func (s *LedgerService) RecordSale(ctx context.Context, productID string, req models.SaleRequest) (*models.Sale, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", models.ErrInvalidInput)
	}

	var sale models.Sale
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		now := s.now()
		product, err := s.repo.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsDelivery() {
			if product.Stock < req.Quantity {
				return models.ErrInsufficientStock
			}
			product.Stock -= req.Quantity
			product.UpdatedAt = now
			if err := s.repo.UpdateProduct(ctx, *product); err != nil {
				return err
			}
		}

		category := product.Category
		tx := models.Transaction{
			ID:          uuid.NewString(),
			Type:        models.TransactionProduct,
			Amount:      float64(req.Quantity) * product.Price,
			Date:        now,
			Description: saleDescription(product, req),
			Category:    &category,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		sale = models.Sale{Product: product, Transaction: &tx}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(models.TransactionProduct)).Inc()
	s.log.Info("recorded sale",
		sl.ID("product_id", productID),
		sl.ID("transaction_id", sale.Transaction.ID),
		slog.Int("quantity", req.Quantity))
	return &sale, nil
}

func saleDescription(product *models.Product, req models.SaleRequest) string {
	desc := fmt.Sprintf("Sale %d %s", req.Quantity, product.Name)
	switch {
	case req.CustomerName != "" && req.CustomerPhone != "":
		return fmt.Sprintf("%s - %s (%s)", desc, req.CustomerName, req.CustomerPhone)
	case req.CustomerName != "":
		return desc + " - " + req.CustomerName
	default:
		return desc
	}
}

// Get возвращает запись журнала по ID.
func (s *LedgerService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// List возвращает весь журнал, новые записи первыми.
func (s *LedgerService) List(ctx context.Context) ([]*models.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// ListByRange возвращает записи с датой в [start, end].
func (s *LedgerService) ListByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", models.ErrInvalidInput)
	}
	return s.repo.ListTransactionsByRange(ctx, start, end)
}

// Delete удаляет запись журнала. Остатки товаров и подписки не меняются.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted transaction", sl.ID("transaction_id", id))
	return nil
}
