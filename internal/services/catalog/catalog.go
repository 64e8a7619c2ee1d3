// Package services реализует каталог зала: тарифные пакеты и товары ресепшена.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Repository описывает хранилище каталога.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreatePackage(ctx context.Context, pkg models.Package) error
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	ListPackages(ctx context.Context) ([]*models.Package, error)
	UpdatePackage(ctx context.Context, pkg models.Package) error
	DeletePackage(ctx context.Context, id string) error
	ListSubscriptionsByPackage(ctx context.Context, packageID string) ([]*models.Subscription, error)

	CreateProduct(ctx context.Context, product models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// CatalogService управляет пакетами и товарами.
type CatalogService struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo Repository, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// CreatePackage добавляет тарифный пакет.
func (s *CatalogService) CreatePackage(ctx context.Context, req models.PackageRequest) (*models.Package, error) {
	now := s.now()
	pkg := models.Package{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, err
	}
	s.log.Info("created package", sl.ID("package_id", pkg.ID))
	return &pkg, nil
}

// GetPackage возвращает пакет по ID.
func (s *CatalogService) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	return s.repo.GetPackage(ctx, id)
}

// ListPackages возвращает все пакеты.
func (s *CatalogService) ListPackages(ctx context.Context) ([]*models.Package, error) {
	return s.repo.ListPackages(ctx)
}

// UpdatePackage перезаписывает поля пакета. Даты окончания уже оформленных
// подписок от этого не меняются.
func (s *CatalogService) UpdatePackage(ctx context.Context, id string, req models.PackageRequest) (*models.Package, error) {
	var updated models.Package
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		pkg, err := s.repo.GetPackage(ctx, id)
		if err != nil {
			return err
		}
		pkg.Name = req.Name
		pkg.Description = req.Description
		pkg.Price = req.Price
		pkg.Duration = req.Duration
		pkg.Category = req.Category
		pkg.UpdatedAt = s.now()
		if err := s.repo.UpdatePackage(ctx, *pkg); err != nil {
			return err
		}
		updated = *pkg
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("updated package", sl.ID("package_id", id))
	return &updated, nil
}

// DeletePackage удаляет пакет, если на него нет действующих подписок.
// Истекающая подписка тоже считается действующей.
func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetPackage(ctx, id); err != nil {
			return err
		}
		subs, err := s.repo.ListSubscriptionsByPackage(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		for _, sub := range subs {
			if sub.IsCurrentlyActive(now) {
				return models.ErrPackageInUse
			}
		}
		return s.repo.DeletePackage(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("deleted package", sl.ID("package_id", id))
	return nil
}
