package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	"github.com/bingopos/bingo_backend/internal/core/domain"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/handlers"
	"github.com/bingopos/bingo_backend/internal/platform/config"
	"github.com/bingopos/bingo_backend/internal/utils"
)

// --- Mock MemberService ---
type MockMemberService struct {
	mock.Mock
}

var _ portssvc.MemberSvcFacade = (*MockMemberService)(nil)

func (m *MockMemberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) ListMembers(ctx context.Context, params dto.ListMembersParams) ([]domain.Member, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorUserID string) (*domain.Member, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, userID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) TopUpBalance(ctx context.Context, memberID string, amount decimal.Decimal, userID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, amount, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) AuthenticateStaff(ctx context.Context, number, pin string) (*domain.Member, error) {
	args := m.Called(ctx, number, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// --- Mock ProductService ---
type MockProductService struct {
	mock.Mock
}

var _ portssvc.ProductSvcFacade = (*MockProductService)(nil)

func (m *MockProductService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

func (m *MockOrderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, target domain.OrderStatus, userID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, target, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) AssignOrderMember(ctx context.Context, orderID string, memberID *string, userID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, memberID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// --- Test Suite Setup ---
type OrderHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	cfg               *config.Config
	mockMemberService *MockMemberService
	mockOrderService  *MockOrderService
	userID            string
}

func (suite *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "bingo-backend-test",
		LoginRateLimit:    "100-M",
		IsProduction:      true, // skip swagger routes
	}
	suite.mockMemberService = new(MockMemberService)
	suite.mockOrderService = new(MockOrderService)
	suite.userID = uuid.NewString()

	handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Member:  suite.mockMemberService,
		Product: new(MockProductService),
		Order:   suite.mockOrderService,
	})
}

func (suite *OrderHandlerTestSuite) authedRequest(method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")

	token, err := utils.GenerateJWT(suite.userID, suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (suite *OrderHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *OrderHandlerTestSuite) TestCreateOrder_Success() {
	memberID := uuid.NewString()
	created := &domain.Order{
		OrderID:  uuid.NewString(),
		MemberID: &memberID,
		Details:  []domain.OrderLine{{Name: "Espresso", UnitPrice: decimal.NewFromFloat(3.50), Quantity: 2}},
		Total:    decimal.NewFromFloat(7.00),
		Status:   domain.OrderStatusPaid,
	}

	suite.mockOrderService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(r dto.CreateOrderRequest) bool {
		return len(r.Details) == 1 && r.MemberID != nil && *r.MemberID == memberID
	}), suite.userID).Return(created, nil).Once()

	body := dto.CreateOrderRequest{
		MemberID: &memberID,
		Details:  []dto.OrderLineRequest{{Name: "Espresso", UnitPrice: decimal.NewFromFloat(3.50), Quantity: 2}},
	}
	w := suite.serve(suite.authedRequest(http.MethodPost, "/api/v1/orders", body))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.OrderResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.OrderID, resp.OrderID)
	suite.Equal(domain.OrderStatusPaid, resp.Status)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_MissingDetails_Rejected() {
	body := map[string]any{"note": "no lines"}
	w := suite.serve(suite.authedRequest(http.MethodPost, "/api/v1/orders", body))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "CreateOrder")
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_Unauthenticated() {
	body := dto.CreateOrderRequest{
		Details: []dto.OrderLineRequest{{Name: "Espresso", UnitPrice: decimal.NewFromFloat(3.50), Quantity: 1}},
	}
	var buf bytes.Buffer
	suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders", &buf)
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "CreateOrder")
}

func (suite *OrderHandlerTestSuite) TestGetOrder_NotFound() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("GetOrderByID", mock.Anything, orderID).
		Return(nil, fmt.Errorf("failed to find order: %w", apperrors.ErrNotFound)).Once()

	w := suite.serve(suite.authedRequest(http.MethodGet, "/api/v1/orders/"+orderID, nil))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrderHandlerTestSuite) TestUpdateOrderStatus_UnsupportedTransition() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, domain.OrderStatusFinished, suite.userID).
		Return(nil, fmt.Errorf("%w: NEW -> FINISHED", apperrors.ErrUnsupportedStatusTransfer)).Once()

	body := dto.UpdateOrderStatusRequest{Status: domain.OrderStatusFinished}
	w := suite.serve(suite.authedRequest(http.MethodPut, "/api/v1/orders/"+orderID+"/status", body))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderHandlerTestSuite) TestUpdateOrderStatus_InsufficientBalance() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, domain.OrderStatusPaid, suite.userID).
		Return(nil, fmt.Errorf("debit failed: %w", apperrors.ErrInsufficientBalance)).Once()

	body := dto.UpdateOrderStatusRequest{Status: domain.OrderStatusPaid}
	w := suite.serve(suite.authedRequest(http.MethodPut, "/api/v1/orders/"+orderID+"/status", body))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *OrderHandlerTestSuite) TestUpdateOrderStatus_UnknownStatus_FailsBinding() {
	orderID := uuid.NewString()
	body := map[string]string{"status": "SHIPPED"}
	w := suite.serve(suite.authedRequest(http.MethodPut, "/api/v1/orders/"+orderID+"/status", body))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "UpdateOrderStatus")
}

func (suite *OrderHandlerTestSuite) TestUpdateOrderMember_ConflictWhenNotNew() {
	orderID := uuid.NewString()
	memberID := uuid.NewString()
	suite.mockOrderService.On("AssignOrderMember", mock.Anything, orderID, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: member can only change while the order is NEW", apperrors.ErrConflict)).Once()

	body := dto.UpdateOrderMemberRequest{MemberID: &memberID}
	w := suite.serve(suite.authedRequest(http.MethodPut, "/api/v1/orders/"+orderID+"/member", body))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderHandlerTestSuite) TestListOrders_Success() {
	orders := []domain.Order{
		{OrderID: uuid.NewString(), Total: decimal.NewFromFloat(9.00), Status: domain.OrderStatusNew},
		{OrderID: uuid.NewString(), Total: decimal.NewFromFloat(3.50), Status: domain.OrderStatusPaid},
	}
	suite.mockOrderService.On("ListOrders", mock.Anything, mock.MatchedBy(func(p dto.ListOrdersParams) bool {
		return p.Limit == 20 && p.Offset == 0
	})).Return(orders, nil).Once()

	w := suite.serve(suite.authedRequest(http.MethodGet, "/api/v1/orders", nil))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListOrdersResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Orders, 2)
}

func (suite *OrderHandlerTestSuite) TestLogin_Success() {
	staff := &domain.Member{MemberID: uuid.NewString(), Number: "M-9001", IsStaff: true}
	suite.mockMemberService.On("AuthenticateStaff", mock.Anything, "M-9001", "1234").Return(staff, nil).Once()

	body := dto.LoginRequest{Number: "M-9001", PIN: "1234"}
	var buf bytes.Buffer
	suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", &buf)
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEmpty(resp.Token)
}

func (suite *OrderHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockMemberService.On("AuthenticateStaff", mock.Anything, "M-9001", "0000").
		Return(nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)).Once()

	body := dto.LoginRequest{Number: "M-9001", PIN: "0000"}
	var buf bytes.Buffer
	suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", &buf)
	req.Header.Set("Content-Type", "application/json")

	w := suite.serve(req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestOrderHandler(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}
