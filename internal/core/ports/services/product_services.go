package services

import (
	"context"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/bingopos/bingo_backend/internal/dto"
)

// ProductSvcFacade defines catalog CRUD. Products carry no cross-entity
// invariants; orders copy name and price into their own line items.
type ProductSvcFacade interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)

	// GetProductByID retrieves a specific product by its unique identifier.
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts retrieves a paginated list of products.
	ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error)

	// UpdateProduct updates an existing product's details.
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)

	// DeleteProduct removes a product from the catalog.
	DeleteProduct(ctx context.Context, productID string) error
}
