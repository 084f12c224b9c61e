package services

import (
	"context"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// MemberReaderSvc defines read operations for member data
type MemberReaderSvc interface {
	// GetMemberByID retrieves a specific member by its unique identifier.
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembers retrieves a paginated list of members, optionally filtered
	// by a case-insensitive substring of the name or abbreviation.
	ListMembers(ctx context.Context, params dto.ListMembersParams) ([]domain.Member, error)
}

// MemberWriterSvc defines write operations for member profile data
type MemberWriterSvc interface {
	// CreateMember persists a new member.
	CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorUserID string) (*domain.Member, error)

	// UpdateMember updates an existing member's profile fields.
	UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, userID string) (*domain.Member, error)
}

// MemberLedgerSvc defines balance operations outside the order lifecycle.
type MemberLedgerSvc interface {
	// TopUpBalance credits the member's prepaid balance by amount (> 0).
	TopUpBalance(ctx context.Context, memberID string, amount decimal.Decimal, userID string) (*domain.Member, error)
}

// MemberAuthenticatorSvc verifies staff credentials.
type MemberAuthenticatorSvc interface {
	// AuthenticateStaff checks the member number and PIN of a staff member.
	// Returns apperrors.ErrUnauthorized on any credential mismatch.
	AuthenticateStaff(ctx context.Context, number, pin string) (*domain.Member, error)
}

// MemberSvcFacade combines all member-related service interfaces.
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
	MemberLedgerSvc
	MemberAuthenticatorSvc
}
