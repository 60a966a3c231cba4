package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
	"github.com/nexacrm/crm_backend/internal/platform/config"
	"github.com/nexacrm/crm_backend/internal/utils"
)

// authHandler handles login and registration.
type authHandler struct {
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

func newAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{userService: us, cfg: cfg}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, extra ...gin.HandlerFunc) {
	h := newAuthHandler(services.User, cfg)

	auth := r.Group("/api/v1/auth")
	for _, mw := range extra {
		auth.Use(mw)
	}
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
	}
}

// login godoc
// @Summary Authenticate a user
// @Description Verifies credentials and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 401 {object} dto.Envelope
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}

	user, err := h.userService.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, dto.Fail("invalid username or password"))
			return
		}
		respondError(c, err, "failed to authenticate")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Login failed: bad password", slog.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, dto.Fail("invalid username or password"))
		return
	}

	token, err := utils.GenerateJWT(user.ID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		respondError(c, err, "failed to issue token")
		return
	}

	logger.Info("User logged in", slog.Int64("user_id", user.ID))
	c.JSON(http.StatusOK, dto.OK(dto.LoginResponse{Token: token}))
}

// register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 409 {object} dto.Envelope
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "failed to register user")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToUserResponse(user)))
}
