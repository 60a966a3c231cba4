package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// bindingErrorMessage turns a ShouldBindJSON error into a client-facing
// message. Validator failures name the offending field and rule instead of
// dumping the struct path.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		return "Invalid request: " + strings.Join(parts, "; ")
	}
	return "Invalid request format: " + err.Error()
}

// respondError writes the envelope error response for err, mapping the app
// error taxonomy to HTTP statuses. Internal errors get a generic message so
// database details never leak to clients.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, dto.Fail(fallback))
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()))
	c.JSON(status, dto.Fail(err.Error()))
}

// parseIDParam parses a positive int64 route parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// requestScope pulls the authenticated user and branch scope set by the
// middleware chain. Routes using it must sit behind AuthMiddleware and either
// RequirePermission or ResolveBranch.
func requestScope(c *gin.Context) (userID, branchID int64, ok bool) {
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("authentication required"))
		return 0, 0, false
	}
	branchID, ok = middleware.GetBranchIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Fail("branch context required"))
		return 0, 0, false
	}
	return userID, branchID, true
}

// bindListParams binds pagination query parameters with defaults.
func bindListParams(c *gin.Context) dto.ListParams {
	params := dto.ListParams{Limit: 20}
	_ = c.ShouldBindQuery(&params)
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params
}
