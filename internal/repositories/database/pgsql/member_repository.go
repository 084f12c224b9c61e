package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	"github.com/bingopos/bingo_backend/internal/models"
)

const uniqueViolationCode = "23505"

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(db *pgxpool.Pool) portsrepo.MemberRepositoryWithTx {
	return &PgxMemberRepository{BaseRepository{Pool: db}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryWithTx
var _ portsrepo.MemberRepositoryWithTx = (*PgxMemberRepository)(nil)

// Helper to convert domain.Member to models.Member
func toModelMember(d domain.Member) models.Member {
	var pinHash *string
	if d.PINHash != "" {
		pinHash = &d.PINHash
	}
	return models.Member{
		MemberID: d.MemberID,
		Name:     d.Name,
		Abbr:     d.Abbr,
		Gender:   d.Gender,
		Birthday: d.Birthday,
		Tel:      d.Tel,
		Number:   d.Number,
		Balance:  d.Balance,
		IsStaff:  d.IsStaff,
		PINHash:  pinHash,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Member to domain.Member
func toDomainMember(m models.Member) domain.Member {
	var pinHash string
	if m.PINHash != nil {
		pinHash = *m.PINHash
	}
	return domain.Member{
		MemberID: m.MemberID,
		Name:     m.Name,
		Abbr:     m.Abbr,
		Gender:   m.Gender,
		Birthday: m.Birthday,
		Tel:      m.Tel,
		Number:   m.Number,
		Balance:  m.Balance,
		IsStaff:  m.IsStaff,
		PINHash:  pinHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const memberColumns = `member_id, name, abbr, gender, birthday, tel, number, balance, is_staff, pin_hash, created_at, created_by, last_updated_at, last_updated_by`

func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.Name,
		&m.Abbr,
		&m.Gender,
		&m.Birthday,
		&m.Tel,
		&m.Number,
		&m.Balance,
		&m.IsStaff,
		&m.PINHash,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	modelMember := toModelMember(member)
	query := `
		INSERT INTO members (member_id, name, abbr, gender, birthday, tel, number, balance, is_staff, pin_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelMember.MemberID,
		modelMember.Name,
		modelMember.Abbr,
		modelMember.Gender,
		modelMember.Birthday,
		modelMember.Tel,
		modelMember.Number,
		modelMember.Balance,
		modelMember.IsStaff,
		modelMember.PINHash,
		modelMember.CreatedAt,
		modelMember.CreatedBy,
		modelMember.LastUpdatedAt,
		modelMember.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

// UpdateMember rewrites the member's profile fields. Balance is deliberately
// not part of the statement; it moves only through the ledger methods.
func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	modelMember := toModelMember(member)
	query := `
		UPDATE members SET
			name = $2,
			abbr = $3,
			gender = $4,
			birthday = $5,
			tel = $6,
			number = $7,
			is_staff = $8,
			pin_hash = $9,
			last_updated_at = $10,
			last_updated_by = $11
		WHERE member_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelMember.MemberID,
		modelMember.Name,
		modelMember.Abbr,
		modelMember.Gender,
		modelMember.Birthday,
		modelMember.Tel,
		modelMember.Number,
		modelMember.IsStaff,
		modelMember.PINHash,
		modelMember.LastUpdatedAt,
		modelMember.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to update member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	modelMember, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}
	domainMember := toDomainMember(modelMember)
	return &domainMember, nil
}

func (r *PgxMemberRepository) FindMemberByNumber(ctx context.Context, number string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE number = $1;`
	modelMember, err := scanMember(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by number: %w", err)
	}
	domainMember := toDomainMember(modelMember)
	return &domainMember, nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, params portsrepo.ListMembersParams) ([]domain.Member, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + memberColumns + ` FROM members`
	args := []any{}
	if params.Name != "" {
		query += ` WHERE name ILIKE $1 OR abbr ILIKE $1`
		args = append(args, "%"+params.Name+"%")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, toDomainMember(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating member rows: %w", err)
	}
	return members, nil
}

// TryDebitBalanceInTx performs the conditional debit in a single statement:
// the balance check and the decrement are indivisible, so two concurrent
// debits can never both pass a check against the same starting balance.
func (r *PgxMemberRepository) TryDebitBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1 AND balance >= $2;
	`
	cmdTag, err := tx.Exec(ctx, query, memberID, amount, now, userID)
	if err != nil {
		return fmt.Errorf("failed to debit member %s: %w", memberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Zero rows means either the member does not exist or the balance
		// cannot cover the amount; tell the two apart for the caller.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE member_id = $1);`, memberID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check member %s existence: %w", memberID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

func (r *PgxMemberRepository) CreditBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, memberID, amount, now, userID)
	if err != nil {
		return fmt.Errorf("failed to credit member %s: %w", memberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMemberRepository) AdjustBalance(ctx context.Context, memberID string, amount decimal.Decimal, userID string, now time.Time) (*domain.Member, error) {
	query := `
		UPDATE members
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1
		RETURNING ` + memberColumns + `;`
	modelMember, err := scanMember(r.Pool.QueryRow(ctx, query, memberID, amount, now, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to adjust balance of member %s: %w", memberID, err)
	}
	domainMember := toDomainMember(modelMember)
	return &domainMember, nil
}
