package services

import (
	"context"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/bingopos/bingo_backend/internal/dto"
)

// OrderReaderSvc defines read operations for order data
type OrderReaderSvc interface {
	// GetOrderByID retrieves a specific order by its unique identifier.
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// ListOrders retrieves a paginated list of orders, newest first.
	ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error)
}

// OrderLifecycleSvc is the sole entry point for anything that changes an
// order's money or status. All other entity mutations bypass it.
type OrderLifecycleSvc interface {
	// CreateOrder creates a new order, computing the total from its line
	// items when no explicit total is supplied. When a member is attached and
	// has sufficient balance the order is auto-settled (created as PAID);
	// otherwise creation degrades to a NEW order and never fails on funds.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, error)

	// UpdateOrderStatus transitions the order through the status state
	// machine, firing the matching ledger effect exactly once.
	UpdateOrderStatus(ctx context.Context, orderID string, target domain.OrderStatus, userID string) (*domain.Order, error)

	// AssignOrderMember re-links an order to a member (nil detaches) while
	// the order is still NEW.
	AssignOrderMember(ctx context.Context, orderID string, memberID *string, userID string) (*domain.Order, error)
}

// OrderSvcFacade combines all order-related service interfaces.
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderLifecycleSvc
}
