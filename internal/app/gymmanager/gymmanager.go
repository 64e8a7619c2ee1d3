// Package gymmanager собирает HTTP-приложение панели управления залом.
package gymmanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gym-manager/internal/cache"
	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/gym-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/migrations"
	authservice "github.com/magabrotheeeer/gym-manager/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/gym-manager/internal/services/catalog"
	financeservice "github.com/magabrotheeeer/gym-manager/internal/services/finance"
	ledgerservice "github.com/magabrotheeeer/gym-manager/internal/services/ledger"
	subservice "github.com/magabrotheeeer/gym-manager/internal/services/subscription"
	traineeservice "github.com/magabrotheeeer/gym-manager/internal/services/trainee"
	userservice "github.com/magabrotheeeer/gym-manager/internal/services/user"
	"github.com/magabrotheeeer/gym-manager/internal/storage/memory"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// Store объединяет все хранилищные интерфейсы сервисов.
// Ему удовлетворяют и repository.Storage, и memory.Storage.
type Store interface {
	subservice.Repository
	financeservice.Repository
	catalogservice.Repository
	traineeservice.Repository
	userservice.Repository
	ledgerservice.Repository
	authservice.UserRepository
}

// Services сервисы, которые обслуживают маршруты.
type Services struct {
	Auth          *authservice.AuthService
	Subscriptions *subservice.SubscriptionService
	Finance       *financeservice.FinanceService
	Catalog       *catalogservice.CatalogService
	Trainees      *traineeservice.TraineeService
	Users         *userservice.UserService
	Ledger        *ledgerservice.LedgerService
	DB            health.Pinger
	Location      *time.Location
}

// NewServices создает сервисы поверх общего хранилища.
func NewServices(store Store, jwtMaker jwt.Maker, revoker authservice.Revoker, loc *time.Location, logger *slog.Logger) *Services {
	return &Services{
		Auth:          authservice.NewAuthService(store, jwtMaker, revoker, logger),
		Subscriptions: subservice.NewSubscriptionService(store, logger, loc),
		Finance:       financeservice.NewFinanceService(store, logger, loc),
		Catalog:       catalogservice.NewCatalogService(store, logger),
		Trainees:      traineeservice.NewTraineeService(store, logger, loc),
		Users:         userservice.NewUserService(store, logger),
		Ledger:        ledgerservice.NewLedgerService(store, logger, loc),
		Location:      loc,
	}
}

// App HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New подключает хранилище и кэш, применяет миграции и собирает маршруты.
// Пустая строка подключения к базе включает хранилище в памяти.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "gymmanager.New"

	var (
		store Store
		db    *repository.Storage
	)
	if cfg.StorageConnectionString == "" {
		logger.Warn("storage connection string is empty, using in-memory storage")
		store = memory.New()
	} else {
		var err error
		db, err = repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		closeStorage(db, logger)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	services := NewServices(store, jwtMaker, cacheRedis, cfg.Gym.Location(), logger)
	if db != nil {
		services.DB = db.DB
	}

	if err := services.Auth.EnsureAdmin(ctx, cfg.Admin); err != nil {
		closeStorage(db, logger)
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	closeStorage(a.db, a.logger)
	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close cache", sl.Err(cerr))
	}
	return err
}

func closeStorage(db *repository.Storage, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close storage", sl.Err(err))
	}
}
