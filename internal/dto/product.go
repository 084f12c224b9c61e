package dto

import (
	"time"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a new product.
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Type  string          `json:"type"`
}

// UpdateProductRequest defines the fields allowed for updating a product.
type UpdateProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Type  *string          `json:"type"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Type          string          `json:"type"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Price:         p.Price,
		Type:          p.Type,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListProductResponse converts a slice of domain.Product to ProductResponse DTOs
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = ToProductResponse(&p)
	}
	return res
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Type   string `form:"type"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListProductsResponse wraps the list of products.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}
