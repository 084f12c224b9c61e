package services

import (
	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeOrderTotal returns the sum of unitPrice × quantity over all line
// items. It is the pricing policy applied when the caller does not supply an
// explicit total; pure, no side effects.
func ComputeOrderTotal(details []domain.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range details {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return total
}
