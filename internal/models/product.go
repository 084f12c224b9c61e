package models

import "github.com/shopspring/decimal"

// Product represents a row of the products table.
type Product struct {
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Type      string          `db:"type"`
	AuditFields
}
