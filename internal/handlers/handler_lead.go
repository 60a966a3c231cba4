package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// leadHandler exposes lead CRUD plus the lead's rendered activity trail.
type leadHandler struct {
	leadService     portssvc.LeadSvcFacade
	taskService     portssvc.TaskSvcFacade
	callService     portssvc.CallSvcFacade
	reminderService portssvc.ReminderSvcFacade
	logService      portssvc.ActivityLogSvcFacade
}

func newLeadHandler(ls portssvc.LeadSvcFacade, ts portssvc.TaskSvcFacade, cs portssvc.CallSvcFacade, rs portssvc.ReminderSvcFacade, als portssvc.ActivityLogSvcFacade) *leadHandler {
	return &leadHandler{leadService: ls, taskService: ts, callService: cs, reminderService: rs, logService: als}
}

// registerLeadRoutes registers lead routes gated on the Leads module. Nested
// listings of a lead's tasks, calls and reminders sit here too so clients can
// render a lead page without joining across top-level collections.
func registerLeadRoutes(rg *gin.RouterGroup, leadService portssvc.LeadSvcFacade, taskService portssvc.TaskSvcFacade, callService portssvc.CallSvcFacade, reminderService portssvc.ReminderSvcFacade, logService portssvc.ActivityLogSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newLeadHandler(leadService, taskService, callService, reminderService, logService)

	leads := rg.Group("/leads")
	{
		leads.POST("", middleware.RequirePermission(authz, "Leads", domain.ActionCreate), h.createLead)
		leads.GET("", middleware.RequirePermission(authz, "Leads", domain.ActionView), h.listLeads)
		leads.GET("/:lead_id", middleware.RequirePermission(authz, "Leads", domain.ActionView), h.getLead)
		leads.PUT("/:lead_id", middleware.RequirePermission(authz, "Leads", domain.ActionUpdate), h.updateLead)
		leads.DELETE("/:lead_id", middleware.RequirePermission(authz, "Leads", domain.ActionDelete), h.deleteLead)
		leads.GET("/:lead_id/logs", middleware.RequirePermission(authz, "Leads", domain.ActionView), h.listLeadLogs)
		leads.GET("/:lead_id/tasks", middleware.RequirePermission(authz, "Tasks", domain.ActionView), h.listLeadTasks)
		leads.GET("/:lead_id/calls", middleware.RequirePermission(authz, "Calls", domain.ActionView), h.listLeadCalls)
		leads.GET("/:lead_id/reminders", middleware.RequirePermission(authz, "Reminders", domain.ActionView), h.listLeadReminders)
	}
}

// createLead godoc
// @Summary Create a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body dto.CreateLeadRequest true "Lead data"
// @Success 201 {object} dto.Envelope{data=dto.LeadResponse}
// @Security BearerAuth
// @Router /leads [post]
func (h *leadHandler) createLead(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	lead, err := h.leadService.CreateLead(c.Request.Context(), branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to create lead")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToLeadResponse(lead)))
}

// listLeads godoc
// @Summary List the branch's leads
// @Tags leads
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.Envelope{data=[]dto.LeadResponse}
// @Security BearerAuth
// @Router /leads [get]
func (h *leadHandler) listLeads(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	params := bindListParams(c)
	leads, err := h.leadService.ListLeads(c.Request.Context(), branchID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "failed to list leads")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToLeadResponses(leads)))
}

// getLead godoc
// @Summary Get one lead
// @Tags leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} dto.Envelope{data=dto.LeadResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /leads/{lead_id} [get]
func (h *leadHandler) getLead(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	lead, err := h.leadService.GetLead(c.Request.Context(), leadID, branchID)
	if err != nil {
		respondError(c, err, "failed to get lead")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToLeadResponse(lead)))
}

// updateLead godoc
// @Summary Update a lead
// @Description Diffs the update against the stored lead and logs the changes; an update that changes nothing writes nothing
// @Tags leads
// @Accept json
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Param lead body dto.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.LeadResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /leads/{lead_id} [put]
func (h *leadHandler) updateLead(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	var req dto.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	lead, err := h.leadService.UpdateLead(c.Request.Context(), leadID, branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to update lead")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToLeadResponse(lead)))
}

// deleteLead godoc
// @Summary Delete a lead
// @Tags leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /leads/{lead_id} [delete]
func (h *leadHandler) deleteLead(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	if err := h.leadService.DeleteLead(c.Request.Context(), leadID, branchID, actorID); err != nil {
		respondError(c, err, "failed to delete lead")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": true}))
}

// listLeadLogs godoc
// @Summary List a lead's activity log
// @Description Entries are rendered: embedded ID markers are resolved to display names
// @Tags leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.Envelope{data=[]dto.ActivityLogEntryResponse}
// @Security BearerAuth
// @Router /leads/{lead_id}/logs [get]
func (h *leadHandler) listLeadLogs(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	params := bindListParams(c)
	entries, err := h.logService.ListEntityLog(c.Request.Context(), leadID, branchID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "failed to list activity log")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToActivityLogEntryResponses(entries)))
}

// listLeadTasks godoc
// @Summary List a lead's tasks
// @Tags leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} dto.Envelope{data=[]dto.TaskResponse}
// @Security BearerAuth
// @Router /leads/{lead_id}/tasks [get]
func (h *leadHandler) listLeadTasks(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	tasks, err := h.taskService.ListLeadTasks(c.Request.Context(), leadID, branchID)
	if err != nil {
		respondError(c, err, "failed to list lead tasks")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToTaskResponses(tasks)))
}

// listLeadCalls godoc
// @Summary List a lead's calls
// @Tags leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} dto.Envelope{data=[]dto.CallResponse}
// @Security BearerAuth
// @Router /leads/{lead_id}/calls [get]
func (h *leadHandler) listLeadCalls(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	calls, err := h.callService.ListLeadCalls(c.Request.Context(), leadID, branchID)
	if err != nil {
		respondError(c, err, "failed to list lead calls")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToCallResponses(calls)))
}

// listLeadReminders godoc
// @Summary List a lead's reminders
// @Tags leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} dto.Envelope{data=[]dto.ReminderResponse}
// @Security BearerAuth
// @Router /leads/{lead_id}/reminders [get]
func (h *leadHandler) listLeadReminders(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "lead_id")
	if !ok {
		return
	}
	reminders, err := h.reminderService.ListLeadReminders(c.Request.Context(), leadID, branchID)
	if err != nil {
		respondError(c, err, "failed to list lead reminders")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToReminderResponses(reminders)))
}
