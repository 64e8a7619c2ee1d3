//go:build integration

package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/gym-manager/internal/migrations"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const pgPort nat.Port = "5432/tcp"

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(pgPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "gym",
			"POSTGRES_USER":     "gym",
			"POSTGRES_PASSWORD": "gym",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(pgPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://gym:gym@%s:%s/gym?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err, "failed to connect to database")
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))
	require.NoError(t, CheckDatabaseReady(ctx, storage))
	return storage
}

// TestDataFactory создаёт тестовые записи через публичные методы хранилища.
type TestDataFactory struct {
	storage *Storage
	now     time.Time
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage, now: time.Now().UTC().Truncate(time.Second)}
}

// CreateTrainee создаёт клиента.
func (f *TestDataFactory) CreateTrainee(t *testing.T, name string) models.User {
	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      models.RoleUser,
		Gender:    models.GenderMale,
		Phone:     "+10000000",
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.storage.CreateUser(context.Background(), u))
	return u
}

// CreatePackage создаёт пакет.
func (f *TestDataFactory) CreatePackage(t *testing.T, name string, price float64, duration int) models.Package {
	p := models.Package{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Duration:  duration,
		Category:  "monthly",
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.storage.CreatePackage(context.Background(), p))
	return p
}

// NewSubscription строит подписку без сохранения.
func (f *TestDataFactory) NewSubscription(userID, packageID string, status models.SubscriptionStatus) models.Subscription {
	return models.Subscription{
		ID:            uuid.NewString(),
		UserID:        userID,
		PackageID:     packageID,
		StartDate:     f.now,
		EndDate:       f.now.AddDate(0, 0, 30),
		Status:        status,
		PaymentStatus: models.PaymentPaid,
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	}
}
