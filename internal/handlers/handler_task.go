package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// taskHandler exposes task CRUD endpoints.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{taskService: ts}
}

// registerTaskRoutes registers task routes gated on the Tasks module.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newTaskHandler(taskService)

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", middleware.RequirePermission(authz, "Tasks", domain.ActionCreate), h.createTask)
		tasks.GET("/:task_id", middleware.RequirePermission(authz, "Tasks", domain.ActionView), h.getTask)
		tasks.PUT("/:task_id", middleware.RequirePermission(authz, "Tasks", domain.ActionUpdate), h.updateTask)
		tasks.DELETE("/:task_id", middleware.RequirePermission(authz, "Tasks", domain.ActionDelete), h.deleteTask)
	}
}

// createTask godoc
// @Summary Create a task under a lead
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body dto.CreateTaskRequest true "Task data"
// @Success 201 {object} dto.Envelope{data=dto.TaskResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to create task")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToTaskResponse(task)))
}

// getTask godoc
// @Summary Get one task
// @Tags tasks
// @Produce json
// @Param task_id path int true "Task ID"
// @Success 200 {object} dto.Envelope{data=dto.TaskResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /tasks/{task_id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), taskID, branchID)
	if err != nil {
		respondError(c, err, "failed to get task")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToTaskResponse(task)))
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param task_id path int true "Task ID"
// @Param task body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.TaskResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /tasks/{task_id} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToTaskResponse(task)))
}

// deleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Param task_id path int true "Task ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /tasks/{task_id} [delete]
func (h *taskHandler) deleteTask(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, branchID, actorID); err != nil {
		respondError(c, err, "failed to delete task")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": true}))
}
