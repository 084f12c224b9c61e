package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Orders copy the name and price into their line
// items at creation time, so later product edits never affect existing orders.
type Product struct {
	ProductID string          `json:"productID"` // Primary Key (UUID)
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Type      string          `json:"type"` // Free-form category (e.g. "drink", "snack")
	AuditFields
}
