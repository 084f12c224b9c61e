package repositories

import (
	"context"
	"time"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListMembersParams holds the filters for listing members.
type ListMembersParams struct {
	// Name filters by case-insensitive substring match against the member's
	// name or abbreviation. Empty means no filter.
	Name   string
	Limit  int
	Offset int
}

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a specific member by its unique identifier.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByNumber retrieves a member by its customer-facing number.
	FindMemberByNumber(ctx context.Context, number string) (*domain.Member, error)

	// ListMembers retrieves a paginated list of members, optionally filtered by name/abbr.
	ListMembers(ctx context.Context, params ListMembersParams) ([]domain.Member, error)
}

// MemberWriter defines write operations for member profile data.
// Balance is deliberately excluded: it moves only through MemberLedger.
type MemberWriter interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMember updates an existing member's profile fields.
	UpdateMember(ctx context.Context, member domain.Member) error
}

// MemberLedger defines the atomic, conditional balance mutations on a single
// member row. Every method is a single indivisible statement at the storage
// layer; the balance check and the decrement of TryDebitBalanceInTx are never
// separable from a concurrent caller's point of view.
type MemberLedger interface {
	// TryDebitBalanceInTx decrements the member's balance by amount only if
	// the current balance covers it. Returns apperrors.ErrInsufficientBalance
	// when it does not, apperrors.ErrNotFound when the member is missing; the
	// balance is untouched in both cases.
	TryDebitBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, amount decimal.Decimal, userID string, now time.Time) error

	// CreditBalanceInTx increments the member's balance by amount.
	// Returns apperrors.ErrNotFound when the member is missing.
	CreditBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, amount decimal.Decimal, userID string, now time.Time) error

	// AdjustBalance increments the member's balance outside any surrounding
	// transaction (top-ups). Returns the member with the updated balance.
	AdjustBalance(ctx context.Context, memberID string, amount decimal.Decimal, userID string, now time.Time) (*domain.Member, error)
}

// MemberRepositoryFacade combines all member-related repository interfaces.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	MemberLedger
}

// MemberRepositoryWithTx extends MemberRepositoryFacade with transaction capabilities
type MemberRepositoryWithTx interface {
	MemberRepositoryFacade
	TransactionManager
}
