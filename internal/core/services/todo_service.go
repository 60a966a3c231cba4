package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// TodoService manages personal todos. Todos are not activity-tracked, so
// mutations are plain writes.
type TodoService struct {
	BaseService
	todoRepo portsrepo.TodoRepositoryFacade
}

// NewTodoService creates a new TodoService.
func NewTodoService(tr portsrepo.TodoRepositoryFacade) portssvc.TodoSvcFacade {
	return &TodoService{todoRepo: tr}
}

var _ portssvc.TodoSvcFacade = (*TodoService)(nil)

// CreateTodo creates a personal todo for the acting user.
func (s *TodoService) CreateTodo(ctx context.Context, branchID int64, req dto.CreateTodoRequest, actorID int64) (*domain.Todo, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationFailedError("todo title is required")
	}

	now := time.Now()
	todo := domain.Todo{
		BranchID: branchID,
		UserID:   actorID,
		Title:    title,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.todoRepo.SaveTodo(ctx, &todo); err != nil {
		s.LogError(ctx, err, "Failed to save todo", slog.Int64("user_id", actorID))
		return nil, err
	}
	return &todo, nil
}

// ListMyTodos lists a user's todos in a branch.
func (s *TodoService) ListMyTodos(ctx context.Context, userID, branchID int64) ([]domain.Todo, error) {
	return s.todoRepo.ListTodosByUser(ctx, userID, branchID)
}

// UpdateTodo applies a partial update.
func (s *TodoService) UpdateTodo(ctx context.Context, todoID, branchID int64, req dto.UpdateTodoRequest, actorID int64) (*domain.Todo, error) {
	todo, err := s.todoRepo.FindTodoByID(ctx, todoID, branchID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		todo.Title = strings.TrimSpace(*req.Title)
	}
	if req.Done != nil {
		todo.Done = *req.Done
	}
	todo.LastUpdatedAt = time.Now()
	todo.LastUpdatedBy = actorID

	if err := s.todoRepo.UpdateTodo(ctx, todo); err != nil {
		s.LogError(ctx, err, "Failed to update todo", slog.Int64("todo_id", todoID))
		return nil, err
	}
	return todo, nil
}

// DeleteTodo removes a todo.
func (s *TodoService) DeleteTodo(ctx context.Context, todoID, branchID int64) error {
	if err := s.todoRepo.DeleteTodo(ctx, todoID, branchID); err != nil {
		s.LogError(ctx, err, "Failed to delete todo", slog.Int64("todo_id", todoID))
		return err
	}
	return nil
}
