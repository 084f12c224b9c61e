package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member represents a row of the members table.
// Note: Birthday and PINHash use pointers for nullable columns.
type Member struct {
	MemberID string          `db:"member_id"`
	Name     string          `db:"name"`
	Abbr     string          `db:"abbr"`
	Gender   string          `db:"gender"`
	Birthday *time.Time      `db:"birthday"`
	Tel      string          `db:"tel"`
	Number   string          `db:"number"`
	Balance  decimal.Decimal `db:"balance"`
	IsStaff  bool            `db:"is_staff"`
	PINHash  *string         `db:"pin_hash"`
	AuditFields
}
