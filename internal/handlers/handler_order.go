package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/middleware"
)

// orderHandler handles HTTP requests related to orders.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

// newOrderHandler creates a new orderHandler.
func newOrderHandler(os portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{
		orderService: os,
	}
}

// registerOrderRoutes registers all order-related routes.
func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := newOrderHandler(orderService)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id/status", h.updateOrderStatus)
		orders.PUT("/:id/member", h.updateOrderMember)
	}
}

// writeOrderError maps order service failures onto HTTP statuses. The money
// errors get their own statuses so the till UI can react to each case.
func writeOrderError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnsupportedStatusTransfer):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPartialCommit):
		logger.Error("Partial commit reported to client", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order update could not be completed; balances may need reconciliation"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}

// createOrder godoc
// @Summary Create a new order
// @Description Creates an order from its line items; when a member is attached and has sufficient balance the order is settled immediately
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create order"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create order request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		writeOrderError(c, logger, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// listOrders godoc
// @Summary List orders
// @Description Retrieves a paginated order list, newest first, optionally filtered by member and status
// @Tags orders
// @Produce  json
// @Param   memberId query string false "Filter by member ID"
// @Param   status query string false "Filter by order status"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list orders"
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, dto.ListOrdersResponse{Orders: dto.ToListOrderResponse(orders)})
}

// getOrder godoc
// @Summary Get an order by ID
// @Description Retrieves details for a specific order
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve order"
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("id")

	order, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		writeOrderError(c, logger, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// updateOrderStatus godoc
// @Summary Transition an order's status
// @Description Moves the order through the status state machine, debiting or refunding the member balance as the transition requires
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   status body dto.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Unsupported status transition"
// @Failure 422 {object} map[string]string "Member balance not enough"
// @Failure 500 {object} map[string]string "Failed to update order status"
// @Security BearerAuth
// @Router /orders/{id}/status [put]
func (h *orderHandler) updateOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("id")

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, userID)
	if err != nil {
		writeOrderError(c, logger, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// updateOrderMember godoc
// @Summary Re-link an order to a member
// @Description Attaches the order to another member, or detaches it when memberID is null; only NEW orders can be re-linked
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   member body dto.UpdateOrderMemberRequest true "Member to attach (null to detach)"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Order or member not found"
// @Failure 409 {object} map[string]string "Order is no longer NEW"
// @Failure 500 {object} map[string]string "Failed to update order member"
// @Security BearerAuth
// @Router /orders/{id}/member [put]
func (h *orderHandler) updateOrderMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("id")

	var req dto.UpdateOrderMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.orderService.AssignOrderMember(c.Request.Context(), orderID, req.MemberID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update order member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order member"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
