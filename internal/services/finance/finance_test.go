package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/memory"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListUsers(ctx context.Context, systemUsers bool) ([]*models.User, error) {
	args := m.Called(ctx, systemUsers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) ListPackages(ctx context.Context) ([]*models.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *RepoMock) ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T, now time.Time) (*FinanceService, *memory.Storage) {
	t.Helper()
	store := memory.New()
	svc := NewFinanceService(store, newNoopLogger(), time.UTC)
	svc.now = func() time.Time { return now }
	return svc, store
}

func addTx(t *testing.T, store *memory.Storage, id string, typ models.TransactionType, amount float64, date time.Time, category *string) {
	t.Helper()
	require.NoError(t, store.CreateTransaction(context.Background(), models.Transaction{
		ID: id, Type: typ, Amount: amount, Date: date, Description: id, Category: category,
		CreatedAt: date, UpdatedAt: date,
	}))
}

func seedLedger(t *testing.T, store *memory.Storage) {
	addTx(t, store, "sub-1", models.TransactionSubscription, 300, day(1), strPtr("monthly"))
	addTx(t, store, "prod-1", models.TransactionProduct, 40, day(3), strPtr("drinks"))
	addTx(t, store, "deliv-1", models.TransactionDelivery, 50, day(3), strPtr(models.DeliveryCategory))
	addTx(t, store, "rent-1", models.TransactionExpense, -1000, day(5), strPtr("rent"))
	addTx(t, store, "misc-1", models.TransactionExpense, -20, day(20), nil)
	addTx(t, store, "sub-2", models.TransactionSubscription, 300, day(20).Add(15*time.Hour), strPtr("monthly"))
}

func TestSummary(t *testing.T) {
	svc, store := newService(t, day(31))
	seedLedger(t, store)

	got, err := svc.Summary(context.Background(), day(1), day(31))
	require.NoError(t, err)

	assert.Equal(t, 690.0, got.TotalRevenue)
	assert.Equal(t, 1020.0, got.TotalExpenses)
	assert.Equal(t, 600.0, got.SubscriptionRevenue)
	assert.Equal(t, 40.0, got.ProductRevenue)
	assert.Equal(t, map[string]float64{"rent": 1000}, got.ExpensesByCategory)
	assert.Equal(t, map[string]float64{
		"2024-01-01": 300,
		"2024-01-03": 90,
		"2024-01-20": 300,
	}, got.RevenueByDay)

	// доставка учитывается только в общей выручке
	assert.Equal(t, got.TotalRevenue-50, got.SubscriptionRevenue+got.ProductRevenue)
}

func TestSummary_TotalEqualsBucketsWithoutDelivery(t *testing.T) {
	svc, store := newService(t, day(31))
	addTx(t, store, "s", models.TransactionSubscription, 300, day(2), nil)
	addTx(t, store, "p", models.TransactionProduct, 25.5, day(2), nil)

	got, err := svc.Summary(context.Background(), day(1), day(31))
	require.NoError(t, err)
	assert.Equal(t, got.SubscriptionRevenue+got.ProductRevenue, got.TotalRevenue)
}

func TestSummary_AdditiveOverDisjointRanges(t *testing.T) {
	svc, store := newService(t, day(31))
	seedLedger(t, store)
	ctx := context.Background()

	whole, err := svc.Summary(ctx, day(1), day(31))
	require.NoError(t, err)
	left, err := svc.Summary(ctx, day(1), day(4).Add(-time.Nanosecond))
	require.NoError(t, err)
	right, err := svc.Summary(ctx, day(4), day(31))
	require.NoError(t, err)

	assert.Equal(t, whole.TotalRevenue, left.TotalRevenue+right.TotalRevenue)
	assert.Equal(t, whole.TotalExpenses, left.TotalExpenses+right.TotalExpenses)
	assert.Equal(t, whole.SubscriptionRevenue, left.SubscriptionRevenue+right.SubscriptionRevenue)
	assert.Equal(t, whole.ProductRevenue, left.ProductRevenue+right.ProductRevenue)

	merged := map[string]float64{}
	for _, part := range []map[string]float64{left.RevenueByDay, right.RevenueByDay} {
		for k, v := range part {
			merged[k] += v
		}
	}
	assert.Equal(t, whole.RevenueByDay, merged)
}

func TestSummary_Errors(t *testing.T) {
	svc, _ := newService(t, day(31))
	_, err := svc.Summary(context.Background(), day(10), day(1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	repo := new(RepoMock)
	boom := errors.New("db down")
	repo.On("ListTransactionsByRange", mock.Anything, day(1), day(2)).Return(nil, boom).Once()
	svc = NewFinanceService(repo, newNoopLogger(), nil)
	_, err = svc.Summary(context.Background(), day(1), day(2))
	assert.ErrorIs(t, err, boom)
	repo.AssertExpectations(t)
}

func TestDashboardStats_EmptyStore(t *testing.T) {
	svc, _ := newService(t, day(15))

	got := svc.DashboardStats(context.Background())
	assert.Equal(t, models.EmptyDashboardStats(), got)
}

func TestDashboardStats_ReadFailureYieldsZeros(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListUsers", mock.Anything, false).Return(nil, errors.New("connection reset")).Once()

	svc := NewFinanceService(repo, newNoopLogger(), time.UTC)
	got := svc.DashboardStats(context.Background())

	assert.Equal(t, models.EmptyDashboardStats(), got)
	assert.NotNil(t, got.ExpensesByCategory)
	repo.AssertExpectations(t)
}

func TestDashboardStats(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newService(t, now)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		require.NoError(t, store.CreateUser(ctx, models.User{ID: id, Name: id, Gender: models.GenderMale}))
	}
	require.NoError(t, store.CreateUser(ctx, models.User{ID: "staff", Name: "staff", IsSystemUser: true, Role: models.RoleAdmin}))

	subs := []models.Subscription{
		{ID: "s1", UserID: "t1", EndDate: now.AddDate(0, 0, 20), Status: models.SubscriptionActive},
		{ID: "s2", UserID: "t2", EndDate: now.AddDate(0, 0, 3), Status: models.SubscriptionActive},
		{ID: "s3", UserID: "t3", EndDate: now.AddDate(0, 0, -2), Status: models.SubscriptionActive},
		{ID: "s4", UserID: "t4", EndDate: now.AddDate(0, 0, 10), Status: models.SubscriptionCancelled},
		{ID: "s5", UserID: "t4", EndDate: now.AddDate(0, 0, -40), Status: models.SubscriptionExpired},
	}
	for _, sub := range subs {
		sub.StartDate = sub.EndDate.AddDate(0, 0, -30)
		require.NoError(t, store.CreateSubscription(ctx, sub))
	}

	addTx(t, store, "jan-sub", models.TransactionSubscription, 300, day(2), strPtr("monthly"))
	addTx(t, store, "jan-prod", models.TransactionProduct, 60, day(10), nil)
	addTx(t, store, "jan-rent", models.TransactionExpense, -200, day(5), strPtr("rent"))
	addTx(t, store, "dec-sub", models.TransactionSubscription, 300, day(1).AddDate(0, 0, -3), nil)

	got := svc.DashboardStats(ctx)

	assert.Equal(t, models.DashboardStats{
		TotalTrainees:              4,
		ActiveMembers:              2,
		ActiveSubscriptions:        2,
		ExpiredSubscriptions:       2,
		ExpiringSubscriptions:      1,
		MonthlyRevenue:             360,
		MonthlyExpenses:            200,
		MonthlySubscriptionRevenue: 300,
		MonthlyProductRevenue:      60,
		ExpensesByCategory:         map[string]float64{"rent": 200},
		NetIncome:                  160,
	}, got)
}

func TestDailyRevenue(t *testing.T) {
	now := time.Date(2024, 1, 20, 18, 30, 0, 0, time.UTC)
	svc, store := newService(t, now)
	addTx(t, store, "old", models.TransactionSubscription, 300, day(16), nil)
	addTx(t, store, "in-1", models.TransactionSubscription, 300, day(18), nil)
	addTx(t, store, "in-2", models.TransactionProduct, 20, day(18).Add(10*time.Hour), nil)
	addTx(t, store, "expense", models.TransactionExpense, -75, day(19), strPtr("other"))
	addTx(t, store, "today", models.TransactionDelivery, 50, day(20).Add(9*time.Hour), nil)

	got, err := svc.DailyRevenue(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []models.DailyRevenue{
		{Date: "2024-01-18", Revenue: 320},
		{Date: "2024-01-19", Revenue: 0},
		{Date: "2024-01-20", Revenue: 50},
	}, got)

	all, err := svc.DailyRevenue(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 30)
	assert.Equal(t, "2023-12-22", all[0].Date)
	assert.Equal(t, "2024-01-20", all[29].Date)
}

func TestRecentActivities(t *testing.T) {
	svc, store := newService(t, day(31))
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, models.User{ID: "t1", Name: "Ali", Gender: models.GenderMale}))
	require.NoError(t, store.CreatePackage(ctx, models.Package{ID: "p1", Name: "Monthly", Price: 300, Duration: 30}))
	require.NoError(t, store.CreateSubscription(ctx, models.Subscription{
		ID: "s1", UserID: "t1", PackageID: "p1", Status: models.SubscriptionActive,
		StartDate: day(10), EndDate: day(10).AddDate(0, 0, 30), CreatedAt: day(10).Add(time.Hour),
	}))
	require.NoError(t, store.CreateSubscription(ctx, models.Subscription{
		ID: "s2", UserID: "gone", PackageID: "p-gone", Status: models.SubscriptionCancelled,
		StartDate: day(2), EndDate: day(3), CreatedAt: day(2),
	}))
	addTx(t, store, "tx-1", models.TransactionSubscription, 300, day(10), nil)
	addTx(t, store, "tx-2", models.TransactionExpense, -100, day(12), strPtr("rent"))
	addTx(t, store, "tx-3", models.TransactionProduct, 20, day(1), nil)

	got, err := svc.RecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)

	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"tx-2", "s1", "tx-1", "s2", "tx-3"}, ids)

	assert.Equal(t, models.ActivitySubscription, got[1].Kind)
	assert.Equal(t, "New subscription: Ali - Monthly", got[1].Description)
	assert.Nil(t, got[1].Amount)
	assert.Equal(t, "New subscription: Unknown - Unknown", got[3].Description)
	require.NotNil(t, got[0].Amount)
	assert.Equal(t, -100.0, *got[0].Amount)

	limited, err := svc.RecentActivities(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
