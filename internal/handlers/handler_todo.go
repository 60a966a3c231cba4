package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// todoHandler exposes personal todo endpoints. Todos are private to their
// owner, so routes need a branch scope but no permission grant.
type todoHandler struct {
	todoService portssvc.TodoSvcFacade
}

func newTodoHandler(ts portssvc.TodoSvcFacade) *todoHandler {
	return &todoHandler{todoService: ts}
}

func registerTodoRoutes(rg *gin.RouterGroup, todoService portssvc.TodoSvcFacade) {
	h := newTodoHandler(todoService)

	todos := rg.Group("/todos", middleware.ResolveBranch())
	{
		todos.POST("", h.createTodo)
		todos.GET("", h.listMyTodos)
		todos.PUT("/:todo_id", h.updateTodo)
		todos.DELETE("/:todo_id", h.deleteTodo)
	}
}

// createTodo godoc
// @Summary Create a personal todo
// @Tags todos
// @Accept json
// @Produce json
// @Param todo body dto.CreateTodoRequest true "Todo data"
// @Success 201 {object} dto.Envelope{data=dto.TodoResponse}
// @Security BearerAuth
// @Router /todos [post]
func (h *todoHandler) createTodo(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	todo, err := h.todoService.CreateTodo(c.Request.Context(), branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to create todo")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToTodoResponse(todo)))
}

// listMyTodos godoc
// @Summary List the caller's todos in the branch
// @Tags todos
// @Produce json
// @Success 200 {object} dto.Envelope{data=[]dto.TodoResponse}
// @Security BearerAuth
// @Router /todos [get]
func (h *todoHandler) listMyTodos(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	todos, err := h.todoService.ListMyTodos(c.Request.Context(), actorID, branchID)
	if err != nil {
		respondError(c, err, "failed to list todos")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToTodoResponses(todos)))
}

// updateTodo godoc
// @Summary Update a todo
// @Tags todos
// @Accept json
// @Produce json
// @Param todo_id path int true "Todo ID"
// @Param todo body dto.UpdateTodoRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.TodoResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /todos/{todo_id} [put]
func (h *todoHandler) updateTodo(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	todoID, ok := parseIDParam(c, "todo_id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	todo, err := h.todoService.UpdateTodo(c.Request.Context(), todoID, branchID, req, actorID)
	if err != nil {
		respondError(c, err, "failed to update todo")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToTodoResponse(todo)))
}

// deleteTodo godoc
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Param todo_id path int true "Todo ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /todos/{todo_id} [delete]
func (h *todoHandler) deleteTodo(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	todoID, ok := parseIDParam(c, "todo_id")
	if !ok {
		return
	}
	if err := h.todoService.DeleteTodo(c.Request.Context(), todoID, branchID); err != nil {
		respondError(c, err, "failed to delete todo")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": true}))
}
