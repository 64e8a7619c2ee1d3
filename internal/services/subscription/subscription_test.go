package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/memory"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixture struct {
	store    *memory.Storage
	svc      *SubscriptionService
	trainee  models.User
	monthly  models.Package
	delivery models.Product
	now      time.Time
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	f := &fixture{
		store:    store,
		svc:      NewSubscriptionService(store, newNoopLogger(), time.UTC),
		trainee:  models.User{ID: "trainee-1", Name: "Ali", Gender: models.GenderMale, Role: models.RoleUser},
		monthly:  models.Package{ID: "pkg-monthly", Name: "Monthly", Price: 300, Duration: 30, Category: "monthly"},
		delivery: models.Product{ID: "prod-delivery", Name: "Delivery", Price: 50, Stock: 999999, Category: models.DeliveryCategory},
		now:      now,
	}
	f.svc.now = func() time.Time { return f.now }

	require.NoError(t, store.CreateUser(ctx, f.trainee))
	require.NoError(t, store.CreatePackage(ctx, f.monthly))
	require.NoError(t, store.CreateProduct(ctx, f.delivery))
	return f
}

func (f *fixture) request(start string, payment models.PaymentStatus) models.SubscriptionRequest {
	return models.SubscriptionRequest{
		UserID:        f.trainee.ID,
		PackageID:     f.monthly.ID,
		StartDate:     start,
		PaymentStatus: payment,
	}
}

func (f *fixture) transactions(t *testing.T) []*models.Transaction {
	t.Helper()
	txs, err := f.store.ListTransactions(context.Background())
	require.NoError(t, err)
	return txs
}

func TestCreate_MonthlyPaid(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	sub, err := f.svc.Create(context.Background(), f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), sub.EndDate)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, models.PaymentPaid, sub.PaymentStatus)

	txs := f.transactions(t)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionSubscription, txs[0].Type)
	assert.Equal(t, 300.0, txs[0].Amount)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), txs[0].Date)
	require.NotNil(t, txs[0].Category)
	assert.Equal(t, "monthly", *txs[0].Category)
	require.NotNil(t, txs[0].UserID)
	assert.Equal(t, f.trainee.ID, *txs[0].UserID)
}

func TestCreate_DuplicateActiveLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.request("2024-01-10", models.PaymentPaid))
	require.ErrorIs(t, err, models.ErrDuplicateActiveSubscription)

	subs, err := f.store.ListSubscriptionsByUser(ctx, f.trainee.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Len(t, f.transactions(t), 1)
}

// failingLedger отказывает в записи операций, остальное берет из хранилища в памяти.
type failingLedger struct {
	*memory.Storage
	err error
}

func (l *failingLedger) CreateTransaction(context.Context, models.Transaction) error {
	return l.err
}

func TestCreate_LedgerFailureRollsBackSubscription(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ledgerErr := errors.New("ledger unavailable")
	svc := NewSubscriptionService(&failingLedger{Storage: f.store, err: ledgerErr}, newNoopLogger(), time.UTC)
	svc.now = func() time.Time { return f.now }

	_, err := svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.ErrorIs(t, err, ledgerErr)

	subs, err := f.store.ListSubscriptionsByUser(ctx, f.trainee.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.Empty(t, f.transactions(t))

	// после отката клиент свободен для новой подписки
	_, err = f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)
}

func TestCreate_ExpiringStillBlocks(t *testing.T) {
	// 2024-01-31 is five days away: the first subscription is expiring, not released.
	f := newFixture(t, time.Date(2024, 1, 26, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.Create(context.Background(), f.request("2024-01-01", models.PaymentPending))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.request("2024-01-26", models.PaymentPending))
	assert.ErrorIs(t, err, models.ErrDuplicateActiveSubscription)
}

func TestCreate_AfterCancelOrExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled subscription releases trainee", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
		first, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, first.ID)
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.request("2024-01-05", models.PaymentPaid))
		assert.NoError(t, err)
	})

	t.Run("ended subscription is stored as expired", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		first, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
		require.NoError(t, err)

		f.now = time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
		_, err = f.svc.Create(ctx, f.request("2024-02-02", models.PaymentPaid))
		require.NoError(t, err)

		old, err := f.store.GetSubscription(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionExpired, old.Status)
	})
}

func TestCreate_WithDelivery(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	req := f.request("2024-01-01", models.PaymentPaid)
	req.DeliveryProductID = &f.delivery.ID

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	byType := map[models.TransactionType]float64{}
	for _, tx := range f.transactions(t) {
		byType[tx.Type] += tx.Amount
	}
	assert.Equal(t, map[models.TransactionType]float64{
		models.TransactionSubscription: 300,
		models.TransactionDelivery:     50,
	}, byType)
}

func TestCreate_PendingRecordsNoRevenue(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	req := f.request("2024-01-01", models.PaymentPending)
	req.DeliveryProductID = &f.delivery.ID

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, f.transactions(t))
}

func TestCreate_Errors(t *testing.T) {
	ctx := context.Background()
	missing := "missing"

	tests := []struct {
		name    string
		mutate  func(t *testing.T, f *fixture, req *models.SubscriptionRequest)
		wantErr error
	}{
		{
			name:    "unknown trainee",
			mutate:  func(_ *testing.T, _ *fixture, req *models.SubscriptionRequest) { req.UserID = "nobody" },
			wantErr: models.ErrUserNotFound,
		},
		{
			name:    "unknown package",
			mutate:  func(_ *testing.T, _ *fixture, req *models.SubscriptionRequest) { req.PackageID = "nothing" },
			wantErr: models.ErrPackageNotFound,
		},
		{
			name:    "unknown delivery product",
			mutate:  func(_ *testing.T, _ *fixture, req *models.SubscriptionRequest) { req.DeliveryProductID = &missing },
			wantErr: models.ErrProductNotFound,
		},
		{
			name:    "malformed start date",
			mutate:  func(_ *testing.T, _ *fixture, req *models.SubscriptionRequest) { req.StartDate = "01/01/2024" },
			wantErr: models.ErrInvalidInput,
		},
		{
			name: "system user cannot subscribe",
			mutate: func(t *testing.T, f *fixture, req *models.SubscriptionRequest) {
				staff := models.User{ID: "staff-1", Name: "Desk", IsSystemUser: true, Role: models.RoleUser}
				require.NoError(t, f.store.CreateUser(ctx, staff))
				req.UserID = staff.ID
			},
			wantErr: models.ErrInvalidScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			req := f.request("2024-01-01", models.PaymentPaid)
			tt.mutate(t, f, &req)

			sub, err := f.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, sub)
			assert.Empty(t, f.transactions(t))
		})
	}
}

func TestCreate_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, models.ErrDuplicateActiveSubscription)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Len(t, f.transactions(t), 1)
}

func TestUpdate_PendingToPaidRecordsRevenue(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPending))
	require.NoError(t, err)

	f.now = time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC)
	paid := models.PaymentPaid
	updated, err := f.svc.Update(ctx, sub.ID, models.SubscriptionPatch{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, sub.EndDate, updated.EndDate)

	txs := f.transactions(t)
	require.Len(t, txs, 1)
	assert.Equal(t, f.now, txs[0].Date)
	assert.Equal(t, 300.0, txs[0].Amount)

	// paid -> paid again records nothing new
	_, err = f.svc.Update(ctx, sub.ID, models.SubscriptionPatch{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Len(t, f.transactions(t), 1)
}

func TestUpdate_EndDateNotRederived(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)

	f.monthly.Duration = 60
	require.NoError(t, f.store.UpdatePackage(ctx, f.monthly))

	start := "2024-01-02"
	updated, err := f.svc.Update(ctx, sub.ID, models.SubscriptionPatch{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), updated.EndDate)
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "missing", models.SubscriptionPatch{})
	assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)

	sub, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)
	end := "2023-12-01"
	_, err = f.svc.Update(ctx, sub.ID, models.SubscriptionPatch{EndDate: &end})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCancel_Idempotent(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)

	first, err := f.svc.Cancel(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCancelled, first.Status)

	f.now = f.now.Add(time.Hour)
	second, err := f.svc.Cancel(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Len(t, f.transactions(t), 1, "cancel must not touch ledger")

	_, err = f.svc.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)
}

func TestList_EffectiveStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	ctx := context.Background()

	seed := []models.Subscription{
		{ID: "expiring", UserID: "u1", EndDate: now.AddDate(0, 0, 5), Status: models.SubscriptionActive},
		{ID: "active", UserID: "u2", EndDate: now.AddDate(0, 0, 8), Status: models.SubscriptionActive},
		{ID: "expired", UserID: "u3", EndDate: now.AddDate(0, 0, -1), Status: models.SubscriptionActive},
		{ID: "cancelled", UserID: "u4", EndDate: now.AddDate(0, 0, 20), Status: models.SubscriptionCancelled},
		{ID: "cancelled-ended", UserID: "u5", EndDate: now.AddDate(0, 0, -3), Status: models.SubscriptionCancelled},
		{ID: "pending", UserID: "u6", EndDate: now.AddDate(0, 0, 3), Status: models.SubscriptionPending},
		{ID: "pending-later", UserID: "u7", EndDate: now.AddDate(0, 0, 20), Status: models.SubscriptionPending},
	}
	for _, sub := range seed {
		sub.StartDate = sub.EndDate.AddDate(0, 0, -30)
		require.NoError(t, f.store.CreateSubscription(ctx, sub))
	}

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	got := map[string]models.SubscriptionStatus{}
	for _, v := range all {
		got[v.ID] = v.EffectiveStatus
	}
	assert.Equal(t, map[string]models.SubscriptionStatus{
		"expiring":        models.SubscriptionExpiring,
		"active":          models.SubscriptionActive,
		"expired":         models.SubscriptionExpired,
		"cancelled":       models.SubscriptionCancelled,
		"cancelled-ended": models.SubscriptionExpired,
		"pending":         models.SubscriptionExpiring,
		"pending-later":   models.SubscriptionPending,
	}, got)

	expiring, err := f.svc.List(ctx, models.SubscriptionExpiring)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	days := map[string]int{}
	for _, v := range expiring {
		days[v.ID] = v.DaysRemaining
	}
	assert.Equal(t, map[string]int{"expiring": 5, "pending": 3}, days)
}

func TestCreate_PendingInExpiringWindowDoesNotBlock(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	ctx := context.Background()

	require.NoError(t, f.store.CreateSubscription(ctx, models.Subscription{
		ID:        "pending-old",
		UserID:    f.trainee.ID,
		PackageID: f.monthly.ID,
		StartDate: now.AddDate(0, 0, -25),
		EndDate:   now.AddDate(0, 0, 5),
		Status:    models.SubscriptionPending,
	}))

	view, err := f.svc.Get(ctx, "pending-old")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionExpiring, view.EffectiveStatus)

	_, err = f.svc.Create(ctx, f.request("2024-06-15", models.PaymentPaid))
	require.NoError(t, err)
}

func TestGetAndListByUser(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.request("2024-01-01", models.PaymentPaid))
	require.NoError(t, err)

	view, err := f.svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, view.DaysRemaining)
	assert.Equal(t, models.SubscriptionActive, view.EffectiveStatus)

	views, err := f.svc.ListByUser(ctx, f.trainee.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = f.svc.ListByUser(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)
}
