package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	"github.com/bingopos/bingo_backend/internal/models"
)

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(db *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository{Pool: db}}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

// Helper to convert domain.Product to models.Product
func toModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID: d.ProductID,
		Name:      d.Name,
		Price:     d.Price,
		Type:      d.Type,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Product to domain.Product
func toDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID: m.ProductID,
		Name:      m.Name,
		Price:     m.Price,
		Type:      m.Type,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const productColumns = `product_id, name, price, type, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&m.Price,
		&m.Type,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	modelProduct := toModelProduct(product)
	query := `
		INSERT INTO products (product_id, name, price, type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.Name,
		modelProduct.Price,
		modelProduct.Type,
		modelProduct.CreatedAt,
		modelProduct.CreatedBy,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	modelProduct := toModelProduct(product)
	query := `
		UPDATE products SET
			name = $2,
			price = $3,
			type = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE product_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.Name,
		modelProduct.Price,
		modelProduct.Type,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	modelProduct, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	domainProduct := toDomainProduct(modelProduct)
	return &domainProduct, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, params portsrepo.ListProductsParams) ([]domain.Product, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if params.Type != "" {
		query += ` WHERE type = $1`
		args = append(args, params.Type)
	}
	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, toDomainProduct(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating product rows: %w", err)
	}
	return products, nil
}

func (r *PgxProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1;`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
