package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// userHandler exposes user account management endpoints.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers user management routes, gated on the Users
// module. Self-registration lives under the auth routes instead.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", middleware.RequirePermission(authz, "Users", domain.ActionView), h.listUsers)
		users.GET("/:user_id", middleware.RequirePermission(authz, "Users", domain.ActionView), h.getUser)
		users.PUT("/:user_id", middleware.RequirePermission(authz, "Users", domain.ActionUpdate), h.updateUser)
		users.DELETE("/:user_id", middleware.RequirePermission(authz, "Users", domain.ActionDelete), h.deleteUser)
	}

	rg.GET("/me", h.me)
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.Envelope{data=[]dto.UserResponse}
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	params := bindListParams(c)
	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponses(users)))
}

// getUser godoc
// @Summary Get one user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// updateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /users/{user_id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	actorID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), userID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Soft-deletes the user; existing activity-log references stay intact
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /users/{user_id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	actorID, _, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), userID, actorID); err != nil {
		respondError(c, err, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": true}))
}

// me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Security BearerAuth
// @Router /me [get]
func (h *userHandler) me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("authentication required"))
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}
