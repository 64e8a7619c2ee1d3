// Package services реализует финансовую аналитику: сводки по журналу операций,
// показатели главной страницы, выручку по дням и ленту последних событий.
package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const (
	defaultRevenueWindow = 30
	defaultActivityLimit = 5
)

// Repository описывает чтения, которые нужны аналитике.
type Repository interface {
	ListUsers(ctx context.Context, systemUsers bool) ([]*models.User, error)
	ListPackages(ctx context.Context) ([]*models.Package, error)
	ListSubscriptions(ctx context.Context) ([]*models.Subscription, error)
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)
	ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
}

// FinanceService считает агрегаты по журналу операций. Собственного состояния
// не хранит, каждый вызов перечитывает хранилище.
type FinanceService struct {
	repo Repository
	log  *slog.Logger
	loc  *time.Location
	now  func() time.Time
}

// NewFinanceService создает новый экземпляр FinanceService.
func NewFinanceService(repo Repository, log *slog.Logger, loc *time.Location) *FinanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &FinanceService{
		repo: repo,
		log:  log,
		loc:  loc,
		now:  time.Now,
	}
}

// Summary считает сводку по операциям с датой в [start, end] включительно.
func (s *FinanceService) Summary(ctx context.Context, start, end time.Time) (*models.FinancialSummary, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", models.ErrInvalidInput)
	}
	txs, err := s.repo.ListTransactionsByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return summarize(txs, s.loc), nil
}

// summarize сворачивает журнал без побочных эффектов. Доставка попадает только в TotalRevenue.
func summarize(txs []*models.Transaction, loc *time.Location) *models.FinancialSummary {
	sum := models.NewFinancialSummary()
	for _, tx := range txs {
		magnitude := tx.Amount
		if magnitude < 0 {
			magnitude = -magnitude
		}
		if tx.Amount > 0 {
			sum.TotalRevenue += magnitude
			switch tx.Type {
			case models.TransactionSubscription:
				sum.SubscriptionRevenue += magnitude
			case models.TransactionProduct:
				sum.ProductRevenue += magnitude
			}
			sum.RevenueByDay[period.DateKey(tx.Date.In(loc))] += magnitude
			continue
		}
		sum.TotalExpenses += magnitude
		if tx.Category != nil {
			sum.ExpensesByCategory[*tx.Category] += magnitude
		}
	}
	return sum
}

// DashboardStats возвращает показатели главной страницы. Ошибки чтения
// логируются, а вызывающий получает нулевые показатели.
func (s *FinanceService) DashboardStats(ctx context.Context) models.DashboardStats {
	const op = "services.finance.DashboardStats"
	log := s.log.With(slog.String("op", op))

	stats, err := s.dashboardStats(ctx)
	if err != nil {
		log.Error("failed to compute dashboard stats", sl.Err(err))
		return models.EmptyDashboardStats()
	}
	return stats
}

func (s *FinanceService) dashboardStats(ctx context.Context) (models.DashboardStats, error) {
	now := s.now().In(s.loc)
	stats := models.EmptyDashboardStats()

	trainees, err := s.repo.ListUsers(ctx, false)
	if err != nil {
		return stats, err
	}
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return stats, err
	}
	monthly, err := s.Summary(ctx, period.StartOfMonth(now), period.EndOfMonth(now))
	if err != nil {
		return stats, err
	}

	members := make(map[string]struct{})
	for _, sub := range subs {
		if !sub.IsCurrentlyActive(now) {
			if !sub.EndDate.After(now) || sub.Status == models.SubscriptionExpired {
				stats.ExpiredSubscriptions++
			}
			continue
		}
		stats.ActiveSubscriptions++
		members[sub.UserID] = struct{}{}
		if days := sub.DaysRemaining(now); days >= 0 && days <= models.ExpiringWindowDays {
			stats.ExpiringSubscriptions++
		}
	}

	stats.TotalTrainees = len(trainees)
	stats.ActiveMembers = len(members)
	stats.MonthlyRevenue = monthly.TotalRevenue
	stats.MonthlyExpenses = monthly.TotalExpenses
	stats.MonthlySubscriptionRevenue = monthly.SubscriptionRevenue
	stats.MonthlyProductRevenue = monthly.ProductRevenue
	stats.ExpensesByCategory = monthly.ExpensesByCategory
	stats.NetIncome = monthly.TotalRevenue - monthly.TotalExpenses
	return stats, nil
}

// DailyRevenue возвращает выручку за последние windowDays дней, включая сегодня.
// Старые дни идут первыми, дни без операций заполняются нулем.
func (s *FinanceService) DailyRevenue(ctx context.Context, windowDays int) ([]models.DailyRevenue, error) {
	if windowDays <= 0 {
		windowDays = defaultRevenueWindow
	}
	today := period.StartOfDay(s.now().In(s.loc))
	first := period.AddDays(today, -(windowDays - 1))

	summary, err := s.Summary(ctx, first, period.EndOfDay(today))
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyRevenue, 0, windowDays)
	for i := range windowDays {
		key := period.DateKey(period.AddDays(first, i))
		out = append(out, models.DailyRevenue{Date: key, Revenue: summary.RevenueByDay[key]})
	}
	return out, nil
}

// RecentActivities объединяет новые подписки и записи журнала, новые первыми.
func (s *FinanceService) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Activity, 0, len(subs)+len(txs))
	for _, sub := range subs {
		out = append(out, models.Activity{
			Kind:        models.ActivitySubscription,
			ID:          sub.ID,
			Description: fmt.Sprintf("New subscription: %s - %s", names.user(sub.UserID), names.pkg(sub.PackageID)),
			Date:        sub.CreatedAt,
		})
	}
	for _, tx := range txs {
		amount := tx.Amount
		out = append(out, models.Activity{
			Kind:        models.ActivityTransaction,
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      &amount,
			Date:        tx.Date,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Activity) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(a.ID, b.ID))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type nameIndex struct {
	users    map[string]string
	packages map[string]string
}

func (n nameIndex) user(id string) string {
	if name, ok := n.users[id]; ok {
		return name
	}
	return "Unknown"
}

func (n nameIndex) pkg(id string) string {
	if name, ok := n.packages[id]; ok {
		return name
	}
	return "Unknown"
}

func (s *FinanceService) names(ctx context.Context) (nameIndex, error) {
	idx := nameIndex{users: map[string]string{}, packages: map[string]string{}}
	users, err := s.repo.ListUsers(ctx, false)
	if err != nil {
		return idx, err
	}
	for _, u := range users {
		idx.users[u.ID] = u.Name
	}
	pkgs, err := s.repo.ListPackages(ctx)
	if err != nil {
		return idx, err
	}
	for _, p := range pkgs {
		idx.packages[p.ID] = p.Name
	}
	return idx, nil
}
