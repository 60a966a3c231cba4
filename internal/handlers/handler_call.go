package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// callHandler exposes call CRUD endpoints.
type callHandler struct {
	callService portssvc.CallSvcFacade
}

func newCallHandler(cs portssvc.CallSvcFacade) *callHandler {
	return &callHandler{callService: cs}
}

// registerCallRoutes registers call routes gated on the Calls module.
func registerCallRoutes(rg *gin.RouterGroup, callService portssvc.CallSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newCallHandler(callService)

	calls := rg.Group("/calls")
	{
		calls.POST("", middleware.RequirePermission(authz, "Calls", domain.ActionCreate), h.createCall)
		calls.GET("/:call_id", middleware.RequirePermission(authz, "Calls", domain.ActionView), h.getCall)
		calls.PUT("/:call_id", middleware.RequirePermission(authz, "Calls", domain.ActionUpdate), h.updateCall)
		calls.DELETE("/:call_id", middleware.RequirePermission(authz, "Calls", domain.ActionDelete), h.deleteCall)
	}
}

// createCall godoc
// @Summary Create a call under a lead
// @Tags calls
// @Accept json
// @Produce json
// @Param call body dto.CreateCallRequest true "Call data"
// @Success 201 {object} dto.Envelope{data=dto.CallResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /calls [post]
func (h *callHandler) createCall(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	call, err := h.callService.CreateCall(c.Request.Context(), branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to create call")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToCallResponse(call)))
}

// getCall godoc
// @Summary Get one call
// @Tags calls
// @Produce json
// @Param call_id path int true "Call ID"
// @Success 200 {object} dto.Envelope{data=dto.CallResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /calls/{call_id} [get]
func (h *callHandler) getCall(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	callID, ok := parseIDParam(c, "call_id")
	if !ok {
		return
	}
	call, err := h.callService.GetCall(c.Request.Context(), callID, branchID)
	if err != nil {
		respondError(c, err, "failed to get call")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToCallResponse(call)))
}

// updateCall godoc
// @Summary Update a call
// @Tags calls
// @Accept json
// @Produce json
// @Param call_id path int true "Call ID"
// @Param call body dto.UpdateCallRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.CallResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /calls/{call_id} [put]
func (h *callHandler) updateCall(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	callID, ok := parseIDParam(c, "call_id")
	if !ok {
		return
	}
	var req dto.UpdateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	call, err := h.callService.UpdateCall(c.Request.Context(), callID, branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to update call")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToCallResponse(call)))
}

// deleteCall godoc
// @Summary Delete a call
// @Tags calls
// @Produce json
// @Param call_id path int true "Call ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /calls/{call_id} [delete]
func (h *callHandler) deleteCall(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	callID, ok := parseIDParam(c, "call_id")
	if !ok {
		return
	}
	if err := h.callService.DeleteCall(c.Request.Context(), callID, branchID, actorID); err != nil {
		respondError(c, err, "failed to delete call")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": true}))
}
