package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/middleware"
	"github.com/bingopos/bingo_backend/internal/platform/config"
	"github.com/bingopos/bingo_backend/internal/utils"
)

// authHandler handles staff authentication.
type authHandler struct {
	memberService portssvc.MemberAuthenticatorSvc
	cfg           *config.Config
}

func newAuthHandler(ms portssvc.MemberAuthenticatorSvc, cfg *config.Config) *authHandler {
	return &authHandler{
		memberService: ms,
		cfg:           cfg,
	}
}

// registerAuthRoutes registers the public login route, rate limited per
// client IP to slow down PIN guessing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Member, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		// Fall back to a conservative default rather than starting unlimited.
		rate = limiter.Rate{Period: time.Minute, Limit: 10}
	}
	loginLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth", middleware.RateLimit(loginLimiter))
	{
		auth.POST("/login", h.login)
	}
}

// login godoc
// @Summary Staff login
// @Description Authenticates a staff member by number and PIN and issues a JWT
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Staff credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	member, err := h.memberService.AuthenticateStaff(c.Request.Context(), req.Number, req.PIN)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Failed to authenticate staff", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	expiresAt := time.Now().Add(h.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(member.MemberID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info("Staff member logged in", slog.String("member_id", member.MemberID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
