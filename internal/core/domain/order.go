package domain

import (
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle stage of an order. It drives which ledger
// effects are permitted; transitions are enforced by the order service.
type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "NEW"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusFinished OrderStatus = "FINISHED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// IsValid reports whether s is one of the defined order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPaid, OrderStatusFinished, OrderStatusCanceled:
		return true
	}
	return false
}

// OrderLine is a single line item of an order. The product's name and unit
// price are copied in at creation time; lines are immutable once the order exists.
type OrderLine struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

// Order represents a customer order. MemberID is nil for cash/external
// settlement; such orders never touch the member balance ledger.
// The creation time lives in AuditFields.CreatedAt as an explicit column (the
// API's "date" field); it is never derived from the identifier's bytes.
type Order struct {
	OrderID  string          `json:"orderID"`  // Primary Key (UUID)
	MemberID *string         `json:"memberID"` // Weak, lookup-only reference; nil = paid outside the system
	Details  []OrderLine     `json:"details"`
	Total    decimal.Decimal `json:"total"`
	Status   OrderStatus     `json:"status"`
	Note     string          `json:"note"`
	AuditFields
}
