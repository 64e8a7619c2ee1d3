package memory

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// CreatePackage добавляет пакет.
func (s *Storage) CreatePackage(ctx context.Context, pkg models.Package) error {
	const op = "storage.memory.CreatePackage"
	return s.write(ctx, op, func() error {
		s.packages[pkg.ID] = pkg
		return nil
	})
}

// GetPackage возвращает пакет по ID.
func (s *Storage) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	const op = "storage.memory.GetPackage"
	var out *models.Package
	err := s.read(ctx, op, func() error {
		p, ok := s.packages[id]
		if !ok {
			return fmt.Errorf("%s: %w", op, models.ErrPackageNotFound)
		}
		out = &p
		return nil
	})
	return out, err
}

// ListPackages возвращает пакеты в порядке создания.
func (s *Storage) ListPackages(ctx context.Context) ([]*models.Package, error) {
	const op = "storage.memory.ListPackages"
	var out []*models.Package
	err := s.read(ctx, op, func() error {
		out = sortedValues(s.packages, func(a, b *models.Package) int {
			return byCreated(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
		})
		return nil
	})
	return out, err
}

// UpdatePackage перезаписывает пакет.
func (s *Storage) UpdatePackage(ctx context.Context, pkg models.Package) error {
	const op = "storage.memory.UpdatePackage"
	return s.write(ctx, op, func() error {
		if _, ok := s.packages[pkg.ID]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrPackageNotFound)
		}
		s.packages[pkg.ID] = pkg
		return nil
	})
}

// DeletePackage удаляет пакет. Подписки на него остаются в истории.
func (s *Storage) DeletePackage(ctx context.Context, id string) error {
	const op = "storage.memory.DeletePackage"
	return s.write(ctx, op, func() error {
		if _, ok := s.packages[id]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrPackageNotFound)
		}
		delete(s.packages, id)
		return nil
	})
}

// CreateProduct добавляет товар.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) error {
	const op = "storage.memory.CreateProduct"
	return s.write(ctx, op, func() error {
		s.products[product.ID] = product
		return nil
	})
}

// GetProduct возвращает товар по ID.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.memory.GetProduct"
	var out *models.Product
	err := s.read(ctx, op, func() error {
		p, ok := s.products[id]
		if !ok {
			return fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		out = &p
		return nil
	})
	return out, err
}

// ListProducts возвращает товары в порядке создания.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.memory.ListProducts"
	var out []*models.Product
	err := s.read(ctx, op, func() error {
		out = sortedValues(s.products, func(a, b *models.Product) int {
			return byCreated(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
		})
		return nil
	})
	return out, err
}

// UpdateProduct перезаписывает товар. Отрицательный остаток не допускается.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product) error {
	const op = "storage.memory.UpdateProduct"
	return s.write(ctx, op, func() error {
		if _, ok := s.products[product.ID]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		if product.Stock < 0 {
			return fmt.Errorf("%s: %w", op, models.ErrInsufficientStock)
		}
		s.products[product.ID] = product
		return nil
	})
}

// DeleteProduct удаляет товар.
func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	const op = "storage.memory.DeleteProduct"
	return s.write(ctx, op, func() error {
		if _, ok := s.products[id]; !ok {
			return fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		delete(s.products, id)
		return nil
	})
}
