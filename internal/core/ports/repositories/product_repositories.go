package repositories

import (
	"context"

	"github.com/bingopos/bingo_backend/internal/core/domain"
)

// ListProductsParams holds the filters for listing products.
type ListProductsParams struct {
	Type   string // Empty means no filter
	Limit  int
	Offset int
}

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductByID retrieves a specific product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts retrieves a paginated list of products.
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates an existing product's details.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeleteProduct removes a product from the catalog.
	DeleteProduct(ctx context.Context, productID string) error
}

// ProductRepositoryFacade combines all product-related repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
