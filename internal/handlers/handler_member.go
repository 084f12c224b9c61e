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

// memberHandler handles HTTP requests related to members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
	orderService  portssvc.OrderReaderSvc
}

// newMemberHandler creates a new memberHandler.
func newMemberHandler(ms portssvc.MemberSvcFacade, os portssvc.OrderReaderSvc) *memberHandler {
	return &memberHandler{
		memberService: ms,
		orderService:  os,
	}
}

// registerMemberRoutes registers all member-related routes.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade, orderService portssvc.OrderReaderSvc) {
	h := newMemberHandler(memberService, orderService)

	members := rg.Group("/members")
	{
		members.POST("", h.createMember)
		members.GET("", h.listMembers)
		members.GET("/:id", h.getMember)
		members.PUT("/:id", h.updateMember)
		members.POST("/:id/topup", h.topUpMember)
		members.GET("/:id/orders", h.listMemberOrders)
	}
}

// createMember godoc
// @Summary Create a new member
// @Description Registers a new member, optionally with an opening balance
// @Tags members
// @Accept  json
// @Produce  json
// @Param   member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Member number already exists"
// @Failure 500 {object} map[string]string "Failed to create member"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create member request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List members
// @Description Retrieves a paginated member list, optionally filtered by a case-insensitive name or abbreviation match
// @Tags members
// @Produce  json
// @Param   name query string false "Substring to match against name or abbr"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListMembersResponse
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListMembersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list members", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: dto.ToListMemberResponse(members)})
}

// getMember godoc
// @Summary Get a member by ID
// @Description Retrieves details for a specific member, including the current balance
// @Tags members
// @Produce  json
// @Param   id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to retrieve member"
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Error("Failed to get member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a member
// @Description Applies a partial update to a member's profile fields; balance cannot be changed here
// @Tags members
// @Accept  json
// @Produce  json
// @Param   id path string true "Member ID"
// @Param   member body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 409 {object} map[string]string "Member number already exists"
// @Failure 500 {object} map[string]string "Failed to update member"
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), memberID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// topUpMember godoc
// @Summary Top up a member's balance
// @Description Credits a positive amount onto the member's prepaid balance
// @Tags members
// @Accept  json
// @Produce  json
// @Param   id path string true "Member ID"
// @Param   topup body dto.TopUpRequest true "Amount to credit"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to top up member"
// @Security BearerAuth
// @Router /members/{id}/topup [post]
func (h *memberHandler) topUpMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.memberService.TopUpBalance(c.Request.Context(), memberID, req.Amount, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to top up member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to top up member"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// listMemberOrders godoc
// @Summary List a member's orders
// @Description Retrieves the orders attached to a member, newest first
// @Tags members
// @Produce  json
// @Param   id path string true "Member ID"
// @Param   status query string false "Filter by order status"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to list orders"
// @Security BearerAuth
// @Router /members/{id}/orders [get]
func (h *memberHandler) listMemberOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	// 404 on an unknown member rather than an empty list.
	if _, err := h.memberService.GetMemberByID(c.Request.Context(), memberID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Error("Failed to get member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		return
	}

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	params.MemberID = &memberID

	orders, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list member orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, dto.ListOrdersResponse{Orders: dto.ToListOrderResponse(orders)})
}
