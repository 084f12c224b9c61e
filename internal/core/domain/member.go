package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member represents a shop member with an optional prepaid balance.
// Balance is only ever mutated through ledger operations (top-up, or the
// order lifecycle's debit/credit); profile fields carry no invariants.
type Member struct {
	MemberID string          `json:"memberID"` // Primary Key (UUID), immutable
	Name     string          `json:"name"`
	Abbr     string          `json:"abbr"` // Short name used for quick lookup at the counter
	Gender   string          `json:"gender"`
	Birthday *time.Time      `json:"birthday"`
	Tel      string          `json:"tel"`
	Number   string          `json:"number"`  // Customer-facing member number, unique
	Balance  decimal.Decimal `json:"balance"` // Prepaid credit; never negative after a committed transition
	IsStaff  bool            `json:"isStaff"`
	PINHash  string          `json:"-"` // bcrypt hash, set for staff members only
	AuditFields
}
