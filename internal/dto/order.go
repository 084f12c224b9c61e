package dto

import (
	"time"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is a single line item of a create-order request.
type OrderLineRequest struct {
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest defines the data needed to create a new order.
// Total is optional; when absent it is computed from the line items.
type CreateOrderRequest struct {
	MemberID *string            `json:"memberID"`
	Details  []OrderLineRequest `json:"details" binding:"required,min=1,dive"`
	Total    *decimal.Decimal   `json:"total"`
	Note     string             `json:"note"`
}

// UpdateOrderStatusRequest defines the target status for a transition.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,orderstatus"`
}

// UpdateOrderMemberRequest re-links an order to a member; nil detaches it.
type UpdateOrderMemberRequest struct {
	MemberID *string `json:"memberID"`
}

// OrderLineResponse mirrors domain.OrderLine.
type OrderLineResponse struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

// OrderResponse defines the data returned for an order.
// Date is the order's creation time (kept under the legacy field name).
type OrderResponse struct {
	OrderID       string              `json:"orderID"`
	MemberID      *string             `json:"memberID"`
	Details       []OrderLineResponse `json:"details"`
	Total         decimal.Decimal     `json:"total"`
	Status        domain.OrderStatus  `json:"status"`
	Note          string              `json:"note"`
	Date          time.Time           `json:"date"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToOrderResponse converts a domain.Order to OrderResponse DTO
func ToOrderResponse(o *domain.Order) OrderResponse {
	details := make([]OrderLineResponse, len(o.Details))
	for i, line := range o.Details {
		details[i] = OrderLineResponse{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}
	return OrderResponse{
		OrderID:       o.OrderID,
		MemberID:      o.MemberID,
		Details:       details,
		Total:         o.Total,
		Status:        o.Status,
		Note:          o.Note,
		Date:          o.CreatedAt,
		LastUpdatedAt: o.LastUpdatedAt,
	}
}

// ToListOrderResponse converts a slice of domain.Order to OrderResponse DTOs
func ToListOrderResponse(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, len(orders))
	for i, o := range orders {
		res[i] = ToOrderResponse(&o)
	}
	return res
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	MemberID *string `form:"memberId"`
	Status   *string `form:"status"`
	Limit    int     `form:"limit,default=20"`
	Offset   int     `form:"offset,default=0"`
}

// ListOrdersResponse wraps the list of orders.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
