package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/core/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/utils"
)

// --- Mock MemberRepository ---
type MockMemberRepository struct {
	mock.Mock
}

// Ensure MockMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*MockMemberRepository)(nil)

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMemberByNumber(ctx context.Context, number string) (*domain.Member, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, params portsrepo.ListMembersParams) ([]domain.Member, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) TryDebitBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, memberID, amount, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) CreditBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, memberID, amount, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) AdjustBalance(ctx context.Context, memberID string, amount decimal.Decimal, userID string, now time.Time) (*domain.Member, error) {
	args := m.Called(ctx, memberID, amount, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// --- Test Suite Setup ---
type MemberServiceTestSuite struct {
	suite.Suite
	mockMemberRepo *MockMemberRepository
	service        portssvc.MemberSvcFacade
	userID         string
}

func (suite *MemberServiceTestSuite) SetupTest() {
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.service = services.NewMemberService(suite.mockMemberRepo)
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *MemberServiceTestSuite) TestCreateMember_Success() {
	ctx := context.Background()
	opening := decimal.NewFromInt(50)
	req := dto.CreateMemberRequest{
		Name:    "Alice Zhang",
		Abbr:    "az",
		Number:  "M-1001",
		Balance: &opening,
	}

	suite.mockMemberRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.Name == "Alice Zhang" && m.Balance.Equal(opening) && m.MemberID != ""
	})).Return(nil).Once()

	member, err := suite.service.CreateMember(ctx, req, suite.userID)

	suite.NoError(err)
	suite.True(member.Balance.Equal(opening))
	suite.Equal(suite.userID, member.CreatedBy)
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_NegativeOpeningBalance() {
	negative := decimal.NewFromInt(-10)
	req := dto.CreateMemberRequest{Name: "Bob", Number: "M-1002", Balance: &negative}

	_, err := suite.service.CreateMember(context.Background(), req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "SaveMember")
}

func (suite *MemberServiceTestSuite) TestCreateMember_StaffRequiresPIN() {
	req := dto.CreateMemberRequest{Name: "Carol", Number: "M-1003", IsStaff: true}

	_, err := suite.service.CreateMember(context.Background(), req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MemberServiceTestSuite) TestCreateMember_StaffPINIsHashed() {
	ctx := context.Background()
	pin := "4321"
	req := dto.CreateMemberRequest{Name: "Dana", Number: "M-1004", IsStaff: true, PIN: &pin}

	suite.mockMemberRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.PINHash != "" && m.PINHash != pin && utils.CheckPIN(pin, m.PINHash)
	})).Return(nil).Once()

	_, err := suite.service.CreateMember(ctx, req, suite.userID)

	suite.NoError(err)
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_DuplicateNumber() {
	ctx := context.Background()
	req := dto.CreateMemberRequest{Name: "Eve", Number: "M-1001"}

	suite.mockMemberRepo.On("SaveMember", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateMember(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *MemberServiceTestSuite) TestUpdateMember_PartialUpdate() {
	ctx := context.Background()
	memberID := uuid.NewString()
	existing := &domain.Member{
		MemberID: memberID,
		Name:     "Old Name",
		Tel:      "111",
		Number:   "M-1001",
		Balance:  decimal.NewFromInt(30),
	}
	newName := "New Name"

	suite.mockMemberRepo.On("FindMemberByID", ctx, memberID).Return(existing, nil).Once()
	suite.mockMemberRepo.On("UpdateMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		// Untouched fields survive; balance is never written through here.
		return m.Name == newName && m.Tel == "111" && m.Balance.Equal(decimal.NewFromInt(30))
	})).Return(nil).Once()

	member, err := suite.service.UpdateMember(ctx, memberID, dto.UpdateMemberRequest{Name: &newName}, suite.userID)

	suite.NoError(err)
	suite.Equal(newName, member.Name)
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestUpdateMember_NotFound() {
	ctx := context.Background()
	memberID := uuid.NewString()
	suite.mockMemberRepo.On("FindMemberByID", ctx, memberID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateMember(ctx, memberID, dto.UpdateMemberRequest{}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MemberServiceTestSuite) TestTopUpBalance_Success() {
	ctx := context.Background()
	memberID := uuid.NewString()
	amount := decimal.NewFromInt(25)
	updated := &domain.Member{MemberID: memberID, Balance: decimal.NewFromInt(75)}

	suite.mockMemberRepo.On("AdjustBalance", ctx, memberID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(amount)
	}), suite.userID, mock.Anything).Return(updated, nil).Once()

	member, err := suite.service.TopUpBalance(ctx, memberID, amount, suite.userID)

	suite.NoError(err)
	suite.True(member.Balance.Equal(decimal.NewFromInt(75)))
}

func (suite *MemberServiceTestSuite) TestTopUpBalance_RejectsNonPositiveAmounts() {
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := suite.service.TopUpBalance(context.Background(), uuid.NewString(), amount, suite.userID)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "AdjustBalance")
}

func (suite *MemberServiceTestSuite) TestListMembers_PassesNameFilter() {
	ctx := context.Background()
	suite.mockMemberRepo.On("ListMembers", ctx, portsrepo.ListMembersParams{Name: "zh", Limit: 10, Offset: 0}).
		Return([]domain.Member{{Name: "Zhang"}}, nil).Once()

	members, err := suite.service.ListMembers(ctx, dto.ListMembersParams{Name: "zh", Limit: 10})

	suite.NoError(err)
	suite.Len(members, 1)
}

// --- AuthenticateStaff ---

func (suite *MemberServiceTestSuite) staffMember(pin string) *domain.Member {
	hash, err := utils.HashPIN(pin)
	suite.Require().NoError(err)
	return &domain.Member{
		MemberID: uuid.NewString(),
		Number:   "M-9001",
		IsStaff:  true,
		PINHash:  hash,
	}
}

func (suite *MemberServiceTestSuite) TestAuthenticateStaff_Success() {
	ctx := context.Background()
	staff := suite.staffMember("1234")
	suite.mockMemberRepo.On("FindMemberByNumber", ctx, staff.Number).Return(staff, nil).Once()

	member, err := suite.service.AuthenticateStaff(ctx, staff.Number, "1234")

	suite.NoError(err)
	suite.Equal(staff.MemberID, member.MemberID)
}

func (suite *MemberServiceTestSuite) TestAuthenticateStaff_WrongPIN() {
	ctx := context.Background()
	staff := suite.staffMember("1234")
	suite.mockMemberRepo.On("FindMemberByNumber", ctx, staff.Number).Return(staff, nil).Once()

	_, err := suite.service.AuthenticateStaff(ctx, staff.Number, "9999")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MemberServiceTestSuite) TestAuthenticateStaff_NotStaff() {
	ctx := context.Background()
	member := &domain.Member{MemberID: uuid.NewString(), Number: "M-1001"}
	suite.mockMemberRepo.On("FindMemberByNumber", ctx, member.Number).Return(member, nil).Once()

	_, err := suite.service.AuthenticateStaff(ctx, member.Number, "1234")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MemberServiceTestSuite) TestAuthenticateStaff_UnknownNumber() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByNumber", ctx, "M-0000").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateStaff(ctx, "M-0000", "1234")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// Unknown number, non-staff member, and wrong PIN must be indistinguishable
// from the outside: same sentinel, same message, and every path pays for a
// bcrypt comparison so timing does not leak which check failed.
func (suite *MemberServiceTestSuite) TestAuthenticateStaff_FailuresAreIndistinguishable() {
	ctx := context.Background()
	staff := suite.staffMember("1234")
	nonStaff := &domain.Member{MemberID: uuid.NewString(), Number: "M-1001"}

	suite.mockMemberRepo.On("FindMemberByNumber", ctx, "M-0000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMemberRepo.On("FindMemberByNumber", ctx, nonStaff.Number).Return(nonStaff, nil).Once()
	suite.mockMemberRepo.On("FindMemberByNumber", ctx, staff.Number).Return(staff, nil).Once()

	_, unknownErr := suite.service.AuthenticateStaff(ctx, "M-0000", "1234")
	_, nonStaffErr := suite.service.AuthenticateStaff(ctx, nonStaff.Number, "1234")
	_, wrongPINErr := suite.service.AuthenticateStaff(ctx, staff.Number, "9999")

	suite.ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	suite.ErrorIs(nonStaffErr, apperrors.ErrUnauthorized)
	suite.ErrorIs(wrongPINErr, apperrors.ErrUnauthorized)
	suite.Equal(wrongPINErr.Error(), unknownErr.Error())
	suite.Equal(wrongPINErr.Error(), nonStaffErr.Error())
}

// --- Run Test Suite ---
func TestMemberService(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
