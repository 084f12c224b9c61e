package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	"github.com/bingopos/bingo_backend/internal/models"
)

type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(db *pgxpool.Pool) portsrepo.OrderRepositoryWithTx {
	return &PgxOrderRepository{BaseRepository{Pool: db}}
}

// Ensure PgxOrderRepository implements portsrepo.OrderRepositoryWithTx
var _ portsrepo.OrderRepositoryWithTx = (*PgxOrderRepository)(nil)

// Helper to convert domain.Order to models.Order
func toModelOrder(d domain.Order) models.Order {
	details := make([]models.OrderLine, len(d.Details))
	for i, line := range d.Details {
		details[i] = models.OrderLine{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}
	return models.Order{
		OrderID:  d.OrderID,
		MemberID: d.MemberID,
		Details:  details,
		Total:    d.Total,
		Status:   string(d.Status),
		Note:     d.Note,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Order to domain.Order
func toDomainOrder(m models.Order) domain.Order {
	details := make([]domain.OrderLine, len(m.Details))
	for i, line := range m.Details {
		details[i] = domain.OrderLine{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}
	return domain.Order{
		OrderID:  m.OrderID,
		MemberID: m.MemberID,
		Details:  details,
		Total:    m.Total,
		Status:   domain.OrderStatus(m.Status),
		Note:     m.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const orderColumns = `order_id, member_id, details, total, status, note, created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID,
		&m.MemberID,
		&m.Details,
		&m.Total,
		&m.Status,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxOrderRepository) SaveOrderInTx(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	modelOrder := toModelOrder(order)
	query := `
		INSERT INTO orders (order_id, member_id, details, total, status, note, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		modelOrder.OrderID,
		modelOrder.MemberID,
		modelOrder.Details,
		modelOrder.Total,
		modelOrder.Status,
		modelOrder.Note,
		modelOrder.CreatedAt,
		modelOrder.CreatedBy,
		modelOrder.LastUpdatedAt,
		modelOrder.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1;`
	modelOrder, err := scanOrder(r.Pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID %s: %w", orderID, err)
	}
	domainOrder := toDomainOrder(modelOrder)
	return &domainOrder, nil
}

// FindOrderByIDForUpdate locks the order row until the surrounding
// transaction finishes, so concurrent status transitions on the same order
// queue up behind each other.
func (r *PgxOrderRepository) FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 FOR UPDATE;`
	modelOrder, err := scanOrder(tx.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID %s for update: %w", orderID, err)
	}
	domainOrder := toDomainOrder(modelOrder)
	return &domainOrder, nil
}

// UpdateOrderStatusInTx writes the new status guarded by the expected prior
// status, so a transition that lost a race fails instead of overwriting.
func (r *PgxOrderRepository) UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, expected, target domain.OrderStatus, userID string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE order_id = $1 AND status = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, orderID, string(expected), string(target), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", apperrors.ErrConflict, orderID, expected)
	}
	return nil
}

// UpdateOrderMember re-links the order guarded by the NEW status. The guard
// lives in the statement itself so a status transition that commits between
// the caller's read and this write cannot have its refund routed to a member
// who never paid.
func (r *PgxOrderRepository) UpdateOrderMember(ctx context.Context, orderID string, memberID *string, userID string, now time.Time) error {
	query := `
		UPDATE orders
		SET member_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, orderID, memberID, now, userID, string(domain.OrderStatusNew))
	if err != nil {
		return fmt.Errorf("failed to update member of order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1);`
		if err := r.Pool.QueryRow(ctx, checkQuery, orderID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check existence of order %s: %w", orderID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: order %s is no longer %s", apperrors.ErrConflict, orderID, domain.OrderStatusNew)
	}
	return nil
}

func (r *PgxOrderRepository) ListOrders(ctx context.Context, params portsrepo.ListOrdersParams) ([]domain.Order, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	conditions := ""
	if params.MemberID != nil {
		conditions = fmt.Sprintf(` WHERE member_id = $%d`, len(args)+1)
		args = append(args, *params.MemberID)
	}
	if params.Status != nil {
		if conditions == "" {
			conditions = fmt.Sprintf(` WHERE status = $%d`, len(args)+1)
		} else {
			conditions += fmt.Sprintf(` AND status = $%d`, len(args)+1)
		}
		args = append(args, string(*params.Status))
	}
	query += conditions + fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, toDomainOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating order rows: %w", err)
	}
	return orders, nil
}
