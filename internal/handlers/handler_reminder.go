package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// reminderHandler exposes reminder CRUD endpoints.
type reminderHandler struct {
	reminderService portssvc.ReminderSvcFacade
}

func newReminderHandler(rs portssvc.ReminderSvcFacade) *reminderHandler {
	return &reminderHandler{reminderService: rs}
}

// registerReminderRoutes registers reminder routes gated on the Reminders module.
func registerReminderRoutes(rg *gin.RouterGroup, reminderService portssvc.ReminderSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newReminderHandler(reminderService)

	reminders := rg.Group("/reminders")
	{
		reminders.POST("", middleware.RequirePermission(authz, "Reminders", domain.ActionCreate), h.createReminder)
		reminders.GET("/:reminder_id", middleware.RequirePermission(authz, "Reminders", domain.ActionView), h.getReminder)
		reminders.PUT("/:reminder_id", middleware.RequirePermission(authz, "Reminders", domain.ActionUpdate), h.updateReminder)
		reminders.DELETE("/:reminder_id", middleware.RequirePermission(authz, "Reminders", domain.ActionDelete), h.deleteReminder)
	}
}

// createReminder godoc
// @Summary Create a reminder under a lead
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminder body dto.CreateReminderRequest true "Reminder data"
// @Success 201 {object} dto.Envelope{data=dto.ReminderResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /reminders [post]
func (h *reminderHandler) createReminder(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	reminder, err := h.reminderService.CreateReminder(c.Request.Context(), branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to create reminder")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToReminderResponse(reminder)))
}

// getReminder godoc
// @Summary Get one reminder
// @Tags reminders
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} dto.Envelope{data=dto.ReminderResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /reminders/{reminder_id} [get]
func (h *reminderHandler) getReminder(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	reminderID, ok := parseIDParam(c, "reminder_id")
	if !ok {
		return
	}
	reminder, err := h.reminderService.GetReminder(c.Request.Context(), reminderID, branchID)
	if err != nil {
		respondError(c, err, "failed to get reminder")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToReminderResponse(reminder)))
}

// updateReminder godoc
// @Summary Update a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Param reminder body dto.UpdateReminderRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.ReminderResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /reminders/{reminder_id} [put]
func (h *reminderHandler) updateReminder(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	reminderID, ok := parseIDParam(c, "reminder_id")
	if !ok {
		return
	}
	var req dto.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	reminder, err := h.reminderService.UpdateReminder(c.Request.Context(), reminderID, branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to update reminder")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToReminderResponse(reminder)))
}

// deleteReminder godoc
// @Summary Delete a reminder
// @Tags reminders
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /reminders/{reminder_id} [delete]
func (h *reminderHandler) deleteReminder(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	reminderID, ok := parseIDParam(c, "reminder_id")
	if !ok {
		return
	}
	if err := h.reminderService.DeleteReminder(c.Request.Context(), reminderID, branchID, actorID); err != nil {
		respondError(c, err, "failed to delete reminder")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": true}))
}
