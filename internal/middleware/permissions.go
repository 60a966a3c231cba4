package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// branchIDKey is the key used to store the request's branch scope.
const branchIDKey = contextKey("branchID")

// GetBranchIDFromContext retrieves the branch the request is scoped to, as
// set by RequirePermission or ResolveBranch.
func GetBranchIDFromContext(c *gin.Context) (int64, bool) {
	v, exists := c.Get(string(branchIDKey))
	if !exists {
		return 0, false
	}
	branchID, ok := v.(int64)
	return branchID, ok
}

// branchIDFromRequest reads the branch scope from the X-Branch-ID header,
// falling back to the branch_id route parameter.
func branchIDFromRequest(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-Branch-ID")
	if raw == "" {
		raw = c.Param("branch_id")
	}
	if raw == "" {
		return 0, false
	}
	branchID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || branchID <= 0 {
		return 0, false
	}
	return branchID, true
}

// ResolveBranch extracts and stores the branch scope without a permission
// check. Used by endpoints that are branch-scoped but gated elsewhere.
func ResolveBranch() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchID, ok := branchIDFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail("branch context required: set the X-Branch-ID header or branch_id parameter"))
			return
		}
		c.Set(string(branchIDKey), branchID)
		c.Next()
	}
}

// RequirePermission gates a route on the caller holding module:action in the
// branch the request is scoped to. A missing branch context is a 400; a
// resolved-but-insufficient permission set is a 403 naming the missing code.
func RequirePermission(authz portssvc.AuthorizationSvcFacade, module string, action domain.PermissionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("authentication required"))
			return
		}
		branchID, ok := branchIDFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail("branch context required: set the X-Branch-ID header or branch_id parameter"))
			return
		}

		if err := authz.RequirePermission(c.Request.Context(), userID, branchID, module, action); err != nil {
			status := apperrors.StatusCode(err)
			if status == http.StatusForbidden {
				logger.Warn("Permission denied",
					slog.Int64("user_id", userID),
					slog.Int64("branch_id", branchID),
					slog.String("permission", domain.PermissionCode(module, action)))
				c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail(err.Error()))
				return
			}
			logger.Error("Permission check failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(status, dto.Fail("failed to verify permissions"))
			return
		}

		c.Set(string(branchIDKey), branchID)
		c.Next()
	}
}
