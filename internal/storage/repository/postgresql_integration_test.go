//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

func TestStorage_Subscriptions(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	trainee := factory.CreateTrainee(t, "Ali")
	pkg := factory.CreatePackage(t, "Monthly", 300, 30)

	tests := []struct {
		name    string
		sub     models.Subscription
		wantErr error
	}{
		{
			name: "first active subscription",
			sub:  factory.NewSubscription(trainee.ID, pkg.ID, models.SubscriptionActive),
		},
		{
			name:    "second active subscription is rejected by index",
			sub:     factory.NewSubscription(trainee.ID, pkg.ID, models.SubscriptionActive),
			wantErr: models.ErrDuplicateActiveSubscription,
		},
		{
			name: "cancelled subscription does not conflict",
			sub:  factory.NewSubscription(trainee.ID, pkg.ID, models.SubscriptionCancelled),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storage.CreateSubscription(ctx, tt.sub)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := storage.GetSubscription(ctx, tt.sub.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.sub.Status, got.Status)
			assert.True(t, tt.sub.EndDate.Equal(got.EndDate))
		})
	}

	byUser, err := storage.ListSubscriptionsByUser(ctx, trainee.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	active, err := storage.ListSubscriptionsByStatus(ctx, models.SubscriptionActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestStorage_WithinTxRollback(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	boom := errors.New("boom")
	now := time.Now().UTC()
	txID := uuid.NewString()

	err := storage.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, storage.CreateTransaction(ctx, models.Transaction{
			ID: txID, Type: models.TransactionProduct, Amount: 25, Date: now, CreatedAt: now, UpdatedAt: now,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = storage.GetTransaction(ctx, txID)
	assert.ErrorIs(t, err, models.ErrTransactionNotFound)
}

func TestStorage_UsernameUniqueAndStockCheck(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	now := time.Now().UTC()
	username := "desk"

	staff := models.User{ID: uuid.NewString(), Name: "Desk", Role: models.RoleUser, Gender: models.GenderFemale,
		Username: &username, IsSystemUser: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, storage.CreateUser(ctx, staff))

	staff.ID = uuid.NewString()
	assert.ErrorIs(t, storage.CreateUser(ctx, staff), models.ErrUsernameTaken)

	product := models.Product{ID: uuid.NewString(), Name: "Water", Price: 5, Stock: 1, Category: "drinks",
		CreatedAt: now, UpdatedAt: now}
	require.NoError(t, storage.CreateProduct(ctx, product))
	product.Stock = -1
	assert.ErrorIs(t, storage.UpdateProduct(ctx, product), models.ErrInsufficientStock)
}

func TestStorage_TransactionsByRange(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	dates := []time.Time{start.Add(-time.Hour), start, end, end.Add(time.Hour)}
	for _, d := range dates {
		require.NoError(t, storage.CreateTransaction(ctx, models.Transaction{
			ID: uuid.NewString(), Type: models.TransactionSubscription, Amount: 300, Date: d,
			CreatedAt: d, UpdatedAt: d,
		}))
	}

	got, err := storage.ListTransactionsByRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 300.0, got[0].Amount, 0.001)
}
