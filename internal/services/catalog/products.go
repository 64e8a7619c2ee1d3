package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// CreateProduct добавляет товар.
func (s *CatalogService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	now := s.now()
	product := models.Product{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Price:     req.Price,
		Stock:     req.Stock,
		Category:  req.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("created product", sl.ID("product_id", product.ID))
	return &product, nil
}

// GetProduct возвращает товар по ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// ListProducts возвращает все товары.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx)
}

// UpdateProduct перезаписывает поля товара.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req models.ProductRequest) (*models.Product, error) {
	var updated models.Product
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		product, err := s.repo.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		product.Name = req.Name
		product.Price = req.Price
		product.Stock = req.Stock
		product.Category = req.Category
		product.UpdatedAt = s.now()
		if err := s.repo.UpdateProduct(ctx, *product); err != nil {
			return err
		}
		updated = *product
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("updated product", sl.ID("product_id", id))
	return &updated, nil
}

// DeleteProduct удаляет товар. Записи о прошлых продажах остаются в журнале.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted product", sl.ID("product_id", id))
	return nil
}
