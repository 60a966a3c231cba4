package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// activityLogHandler exposes the branch-wide activity feed.
type activityLogHandler struct {
	logService portssvc.ActivityLogSvcFacade
}

func newActivityLogHandler(als portssvc.ActivityLogSvcFacade) *activityLogHandler {
	return &activityLogHandler{logService: als}
}

// registerActivityLogRoutes registers the branch feed, gated on the Leads
// module since the feed is dominated by lead-tracked entities.
func registerActivityLogRoutes(rg *gin.RouterGroup, logService portssvc.ActivityLogSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newActivityLogHandler(logService)

	rg.GET("/activity-logs", middleware.RequirePermission(authz, "Leads", domain.ActionView), h.listBranchLog)
}

// listBranchLog godoc
// @Summary List the branch's activity feed
// @Description Entries are rendered: embedded ID markers are resolved to display names
// @Tags activity-logs
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.Envelope{data=[]dto.ActivityLogEntryResponse}
// @Security BearerAuth
// @Router /activity-logs [get]
func (h *activityLogHandler) listBranchLog(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	params := bindListParams(c)
	entries, err := h.logService.ListBranchLog(c.Request.Context(), branchID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "failed to list activity log")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToActivityLogEntryResponses(entries)))
}
