package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/middleware"
)

// balanceEffect is the ledger side of a status transition.
type balanceEffect int

const (
	effectNone balanceEffect = iota
	effectDebit
	effectCredit
)

// allowedTransitions is the order status state machine. A missing (from, to)
// pair means the transition is unsupported. Effects apply only to orders with
// a member attached; cash/external orders pass through with no ledger
// interaction, and NEW -> CANCELED never touches the ledger (an unpaid order
// has no funds to return).
var allowedTransitions = map[domain.OrderStatus]map[domain.OrderStatus]balanceEffect{
	domain.OrderStatusNew: {
		domain.OrderStatusPaid:     effectDebit,
		domain.OrderStatusCanceled: effectNone,
	},
	domain.OrderStatusPaid: {
		domain.OrderStatusNew:      effectCredit,
		domain.OrderStatusFinished: effectNone,
	},
	domain.OrderStatusFinished: {
		domain.OrderStatusPaid: effectNone,
	},
}

// orderService is the order lifecycle manager: the sole entry point for
// anything that changes an order's money or status. Every operation runs in a
// single database transaction; the order row lock taken by
// FindOrderByIDForUpdate serializes concurrent transitions on the same order,
// and the ledger's conditional single-statement updates keep balance
// mutations linearizable.
type orderService struct {
	orderRepo  portsrepo.OrderRepositoryWithTx
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewOrderService creates a new order lifecycle service.
func NewOrderService(orderRepo portsrepo.OrderRepositoryWithTx, memberRepo portsrepo.MemberRepositoryFacade) portssvc.OrderSvcFacade {
	return &orderService{
		orderRepo:  orderRepo,
		memberRepo: memberRepo,
	}
}

// Ensure orderService implements the portssvc.OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// CreateOrder creates a new order. When no explicit total is supplied it is
// computed from the line items. When a member is attached, auto-settlement is
// attempted: a successful debit creates the order as PAID; an insufficient
// balance or a missing member degrades to a NEW order, never a failure.
func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Details) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one line item", apperrors.ErrValidation)
	}

	details := make([]domain.OrderLine, len(req.Details))
	for i, line := range req.Details {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for line %q", apperrors.ErrValidation, line.Name)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must not be negative for line %q", apperrors.ErrValidation, line.Name)
		}
		details[i] = domain.OrderLine{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}

	var total = decimal.Zero
	if req.Total != nil {
		if req.Total.IsNegative() {
			return nil, fmt.Errorf("%w: total must not be negative", apperrors.ErrValidation)
		}
		total = *req.Total
	} else {
		total = ComputeOrderTotal(details)
	}

	now := time.Now().UTC()
	order := domain.Order{
		OrderID:  uuid.NewString(),
		MemberID: req.MemberID,
		Details:  details,
		Total:    total,
		Status:   domain.OrderStatusNew,
		Note:     req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.orderRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.orderRepo.Rollback(ctx, tx)
	}()

	debited := false
	if req.MemberID != nil {
		err := s.memberRepo.TryDebitBalanceInTx(ctx, tx, *req.MemberID, total, creatorUserID, now)
		switch {
		case err == nil:
			order.Status = domain.OrderStatusPaid
			debited = true
		case errors.Is(err, apperrors.ErrInsufficientBalance), errors.Is(err, apperrors.ErrNotFound):
			// Auto-settlement degrades to an unpaid order; the explicit
			// status transition can settle it later.
			logger.Info("Auto-settlement skipped, order created unpaid",
				slog.String("member_id", *req.MemberID), slog.String("reason", err.Error()))
		default:
			return nil, fmt.Errorf("failed to debit member %s: %w", *req.MemberID, err)
		}
	}

	if err := s.orderRepo.SaveOrderInTx(ctx, tx, order); err != nil {
		if !debited {
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
		// The auto-settle debit already ran inside this transaction; rolling
		// back reverts it together with the failed insert. If the rollback
		// cannot be confirmed the debit may have stuck without an order.
		if rbErr := s.orderRepo.Rollback(ctx, tx); rbErr != nil {
			logger.Error("Order save failed after auto-settle debit and rollback could not be confirmed",
				slog.String("order_id", order.OrderID),
				slog.String("member_id", *req.MemberID),
				slog.String("amount", total.String()),
				slog.String("write_error", err.Error()),
				slog.String("rollback_error", rbErr.Error()))
			return nil, fmt.Errorf("%w: order %s", apperrors.ErrPartialCommit, order.OrderID)
		}
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := s.orderRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	logger.Info("Order created",
		slog.String("order_id", order.OrderID),
		slog.String("status", string(order.Status)),
		slog.String("total", order.Total.String()))
	return &order, nil
}

// UpdateOrderStatus transitions the order through the status state machine.
// The order row is locked for the duration of the transaction, so of two
// concurrent calls on the same order exactly one wins; the other evaluates the
// table against the already-updated status. The matching ledger effect fires
// at most once per transition, in the same transaction as the status write.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, target domain.OrderStatus, userID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", apperrors.ErrValidation, target)
	}

	now := time.Now().UTC()

	tx, err := s.orderRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.orderRepo.Rollback(ctx, tx)
	}()

	order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}

	effect, ok := allowedTransitions[order.Status][target]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrUnsupportedStatusTransfer, order.Status, target)
	}

	ledgerTouched := false
	if order.MemberID != nil {
		switch effect {
		case effectDebit:
			if err := s.memberRepo.TryDebitBalanceInTx(ctx, tx, *order.MemberID, order.Total, userID, now); err != nil {
				return nil, fmt.Errorf("debit of %s for order %s: %w", order.Total, orderID, err)
			}
			ledgerTouched = true
		case effectCredit:
			if err := s.memberRepo.CreditBalanceInTx(ctx, tx, *order.MemberID, order.Total, userID, now); err != nil {
				return nil, fmt.Errorf("credit of %s for order %s: %w", order.Total, orderID, err)
			}
			ledgerTouched = true
		}
	}

	if err := s.orderRepo.UpdateOrderStatusInTx(ctx, tx, orderID, order.Status, target, userID, now); err != nil {
		if !ledgerTouched {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
		// The ledger already moved inside this transaction; rolling back
		// reverts both writes together. If the rollback cannot be confirmed
		// the ledger and the order may be desynchronized and the amounts must
		// be reconciled manually.
		if rbErr := s.orderRepo.Rollback(ctx, tx); rbErr != nil {
			logger.Error("Order status write failed after ledger mutation and rollback could not be confirmed",
				slog.String("order_id", orderID),
				slog.String("member_id", *order.MemberID),
				slog.String("amount", order.Total.String()),
				slog.String("write_error", err.Error()),
				slog.String("rollback_error", rbErr.Error()))
			return nil, fmt.Errorf("%w: order %s", apperrors.ErrPartialCommit, orderID)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := s.orderRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit status transition for order %s: %w", orderID, err)
	}

	order.Status = target
	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID

	logger.Info("Order status updated",
		slog.String("order_id", orderID),
		slog.String("status", string(target)))
	return order, nil
}

// AssignOrderMember re-links an order to a member (nil detaches it). Only NEW
// orders may be re-linked: once funds have moved, changing the member would
// break the refund path. The status check here is only a fast precondition
// for a clear error message; the repository's status-guarded write is what
// enforces the restriction against a concurrent transition.
func (s *orderService) AssignOrderMember(ctx context.Context, orderID string, memberID *string, userID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}

	if order.Status != domain.OrderStatusNew {
		return nil, fmt.Errorf("%w: member can only change while the order is NEW, current status is %s", apperrors.ErrConflict, order.Status)
	}

	if memberID != nil {
		if _, err := s.memberRepo.FindMemberByID(ctx, *memberID); err != nil {
			return nil, fmt.Errorf("failed to find member %s: %w", *memberID, err)
		}
	}

	now := time.Now().UTC()
	if err := s.orderRepo.UpdateOrderMember(ctx, orderID, memberID, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update order member: %w", err)
	}

	order.MemberID = memberID
	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID

	logger.Info("Order member updated", slog.String("order_id", orderID))
	return order, nil
}

// GetOrderByID retrieves a specific order.
func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find order by ID", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, fmt.Errorf("failed to find order by ID %s: %w", orderID, err)
	}
	return order, nil
}

// ListOrders retrieves a paginated list of orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error) {
	repoParams := portsrepo.ListOrdersParams{
		MemberID: params.MemberID,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if params.Status != nil {
		status := domain.OrderStatus(*params.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown order status %q", apperrors.ErrValidation, *params.Status)
		}
		repoParams.Status = &status
	}

	orders, err := s.orderRepo.ListOrders(ctx, repoParams)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
