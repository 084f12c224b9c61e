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
	"github.com/bingopos/bingo_backend/internal/utils"
)

// memberService implements member CRUD, the prepaid balance ledger entry
// points that do not run inside an order transaction, and staff
// authentication.
type memberService struct {
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade) portssvc.MemberSvcFacade {
	return &memberService{memberRepo: memberRepo}
}

// Ensure memberService implements the portssvc.MemberSvcFacade interface
var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// CreateMember registers a member, optionally with an opening balance. Staff
// members must supply a PIN, stored only as a bcrypt hash.
func (s *memberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorUserID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balance := decimal.Zero
	if req.Balance != nil {
		if req.Balance.IsNegative() {
			return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
		}
		balance = *req.Balance
	}

	var pinHash string
	if req.IsStaff {
		if req.PIN == nil || *req.PIN == "" {
			return nil, fmt.Errorf("%w: staff members require a PIN", apperrors.ErrValidation)
		}
	}
	if req.PIN != nil && *req.PIN != "" {
		hash, err := utils.HashPIN(*req.PIN)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		pinHash = hash
	}

	now := time.Now().UTC()
	member := domain.Member{
		MemberID: uuid.NewString(),
		Name:     req.Name,
		Abbr:     req.Abbr,
		Gender:   req.Gender,
		Birthday: req.Birthday,
		Tel:      req.Tel,
		Number:   req.Number,
		Balance:  balance,
		IsStaff:  req.IsStaff,
		PINHash:  pinHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: member number %s already exists", apperrors.ErrDuplicate, req.Number)
		}
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	logger.Info("Member created", slog.String("member_id", member.MemberID))
	return &member, nil
}

// UpdateMember applies a partial update to a member's profile. Balance is
// never touched here; money moves only through the ledger operations.
func (s *memberService) UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, updaterUserID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Abbr != nil {
		member.Abbr = *req.Abbr
	}
	if req.Gender != nil {
		member.Gender = *req.Gender
	}
	if req.Birthday != nil {
		member.Birthday = req.Birthday
	}
	if req.Tel != nil {
		member.Tel = *req.Tel
	}
	if req.Number != nil {
		member.Number = *req.Number
	}
	if req.IsStaff != nil {
		member.IsStaff = *req.IsStaff
	}
	if req.PIN != nil && *req.PIN != "" {
		hash, err := utils.HashPIN(*req.PIN)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		member.PINHash = hash
	}
	member.LastUpdatedAt = time.Now().UTC()
	member.LastUpdatedBy = updaterUserID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		return nil, fmt.Errorf("failed to update member %s: %w", memberID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Member updated", slog.String("member_id", memberID))
	return member, nil
}

// GetMemberByID retrieves a specific member.
func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find member by ID", slog.String("error", err.Error()), slog.String("member_id", memberID))
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}
	return member, nil
}

// ListMembers retrieves a paginated member list, optionally filtered by a
// case-insensitive match on name or abbreviation.
func (s *memberService) ListMembers(ctx context.Context, params dto.ListMembersParams) ([]domain.Member, error) {
	members, err := s.memberRepo.ListMembers(ctx, portsrepo.ListMembersParams{
		Name:   params.Name,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// TopUpBalance credits a positive amount onto the member's prepaid balance.
func (s *memberService) TopUpBalance(ctx context.Context, memberID string, amount decimal.Decimal, userID string) (*domain.Member, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: top-up amount must be positive", apperrors.ErrValidation)
	}

	member, err := s.memberRepo.AdjustBalance(ctx, memberID, amount, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to top up member %s: %w", memberID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Member balance topped up",
		slog.String("member_id", memberID),
		slog.String("amount", amount.String()))
	return member, nil
}

// dummyPINHash is compared against on the failure paths that never reach a
// real hash, so an unknown number costs the same bcrypt work as a wrong PIN
// and response timing does not reveal whether a number exists.
var dummyPINHash, _ = utils.HashPIN("0000")

// AuthenticateStaff verifies a staff member's number and PIN. All failure
// modes collapse to ErrUnauthorized so the response does not leak which part
// was wrong.
func (s *memberService) AuthenticateStaff(ctx context.Context, number, pin string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.CheckPIN(pin, dummyPINHash)
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find member by number: %w", err)
	}

	if !member.IsStaff || member.PINHash == "" {
		utils.CheckPIN(pin, dummyPINHash)
		logger.Warn("Login attempt for non-staff member", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !utils.CheckPIN(pin, member.PINHash) {
		logger.Warn("Login attempt with wrong PIN", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return member, nil
}
