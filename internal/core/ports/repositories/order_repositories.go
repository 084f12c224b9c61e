package repositories

import (
	"context"
	"time"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ListOrdersParams holds the filters for listing orders.
type ListOrdersParams struct {
	MemberID *string
	Status   *domain.OrderStatus
	Limit    int
	Offset   int
}

// OrderReader defines read operations for order data
type OrderReader interface {
	// FindOrderByID retrieves a specific order by its unique identifier.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// ListOrders retrieves a paginated list of orders, newest first.
	ListOrders(ctx context.Context, params ListOrdersParams) ([]domain.Order, error)
}

// OrderWriter defines write operations for order data
type OrderWriter interface {
	// UpdateOrderMember re-links an order to a member (or detaches it when
	// memberID is nil). Only a NEW order is updated: the write is guarded by
	// the status so it cannot race a concurrent transition. Returns
	// apperrors.ErrConflict if the order exists but is no longer NEW, and
	// apperrors.ErrNotFound if it does not exist.
	UpdateOrderMember(ctx context.Context, orderID string, memberID *string, userID string, now time.Time) error
}

// OrderTransactionSupport defines the order writes that participate in the
// lifecycle manager's transaction, so a ledger mutation and the order write
// either commit together or not at all.
type OrderTransactionSupport interface {
	// SaveOrderInTx persists a new order within the given transaction.
	SaveOrderInTx(ctx context.Context, tx pgx.Tx, order domain.Order) error

	// FindOrderByIDForUpdate retrieves an order and locks its row for the
	// duration of the transaction, serializing concurrent transitions on the
	// same order.
	FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error)

	// UpdateOrderStatusInTx sets the order's status guarded by the expected
	// prior status. Returns apperrors.ErrConflict if the stored status no
	// longer matches expected.
	UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, expected, target domain.OrderStatus, userID string, now time.Time) error
}

// OrderRepositoryFacade combines all order-related repository interfaces.
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderTransactionSupport
}

// OrderRepositoryWithTx extends OrderRepositoryFacade with transaction capabilities
type OrderRepositoryWithTx interface {
	OrderRepositoryFacade
	TransactionManager
}
