package models

import "github.com/shopspring/decimal"

// OrderLine mirrors a single element of the details JSONB column.
type OrderLine struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

// Order represents a row of the orders table. Details is serialized to the
// details JSONB column; MemberID uses a pointer for the nullable foreign key.
type Order struct {
	OrderID  string          `db:"order_id"`
	MemberID *string         `db:"member_id"`
	Details  []OrderLine     `db:"details"`
	Total    decimal.Decimal `db:"total"`
	Status   string          `db:"status"`
	Note     string          `db:"note"`
	AuditFields
}
