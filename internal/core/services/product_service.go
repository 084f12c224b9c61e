package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/middleware"
)

// productService implements the product catalog. Orders snapshot product
// names and prices into their line items, so catalog edits never rewrite
// history.
type productService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

// Ensure productService implements the portssvc.ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct adds a product to the catalog.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID: uuid.NewString(),
		Name:      req.Name,
		Price:     req.Price,
		Type:      req.Type,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

// UpdateProduct applies a partial update to a catalog entry.
func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, updaterUserID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.Type != nil {
		product.Type = *req.Type
	}
	product.LastUpdatedAt = time.Now().UTC()
	product.LastUpdatedBy = updaterUserID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Product updated", slog.String("product_id", productID))
	return product, nil
}

// GetProductByID retrieves a specific product.
func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find product by ID", slog.String("error", err.Error()), slog.String("product_id", productID))
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	return product, nil
}

// ListProducts retrieves a paginated product list.
func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, portsrepo.ListProductsParams{
		Type:   params.Type,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// DeleteProduct removes a product from the catalog. Existing orders keep
// their snapshotted line items.
func (s *productService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Product deleted", slog.String("product_id", productID))
	return nil
}
