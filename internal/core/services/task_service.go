package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// TaskService manages follow-up tasks with the same log-in-transaction and
// no-op-suppression contract as leads.
type TaskService struct {
	BaseService
	taskRepo    portsrepo.TaskRepositoryWithTx
	leadRepo    portsrepo.LeadReader
	activityLog portssvc.ActivityLogWriterSvc
}

// NewTaskService creates a new TaskService.
func NewTaskService(tr portsrepo.TaskRepositoryWithTx, lr portsrepo.LeadReader, al portssvc.ActivityLogWriterSvc) portssvc.TaskSvcFacade {
	return &TaskService{taskRepo: tr, leadRepo: lr, activityLog: al}
}

var _ portssvc.TaskSvcFacade = (*TaskService)(nil)

// CreateTask creates a task under a lead.
func (s *TaskService) CreateTask(ctx context.Context, branchID int64, req dto.CreateTaskRequest, actorID int64) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationFailedError("task title is required")
	}
	if _, err := s.leadRepo.FindLeadByID(ctx, req.LeadID, branchID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := domain.Task{
		BranchID:       branchID,
		LeadID:         req.LeadID,
		Title:          title,
		Description:    req.Description,
		AssignedUserID: req.AssignedUserID,
		Status:         req.Status,
		DueAt:          req.DueAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	summary := []string{fmt.Sprintf("Added **title** *%s*", task.Title)}

	tx, err := s.taskRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.taskRepo.Rollback(ctx, tx)

	if err := s.taskRepo.SaveTaskInTx(ctx, tx, &task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.Int64("lead_id", req.LeadID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, task.ID, actorID, branchID, "Task Created", summary); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit task creation: %w", err)
	}
	s.LogInfo(ctx, "Task created", slog.Int64("task_id", task.ID), slog.Int64("lead_id", req.LeadID))
	return &task, nil
}

// GetTask retrieves a task scoped to its branch.
func (s *TaskService) GetTask(ctx context.Context, taskID, branchID int64) (*domain.Task, error) {
	return s.taskRepo.FindTaskByID(ctx, taskID, branchID)
}

// ListLeadTasks lists a lead's tasks.
func (s *TaskService) ListLeadTasks(ctx context.Context, leadID, branchID int64) ([]domain.Task, error) {
	return s.taskRepo.ListTasksByLead(ctx, leadID, branchID)
}

// UpdateTask applies a partial update, suppressing no-ops.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, branchID int64, req dto.UpdateTaskRequest, actorID int64) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID, branchID)
	if err != nil {
		return nil, err
	}

	updated := *task
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.AssignedUserID != nil {
		updated.AssignedUserID = req.AssignedUserID
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.DueAt != nil {
		updated.DueAt = req.DueAt
	}

	cs := taskChanges(task, &updated)
	if cs.empty() {
		s.LogDebug(ctx, "Task update is a no-op", slog.Int64("task_id", taskID))
		return task, nil
	}

	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = actorID

	tx, err := s.taskRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.taskRepo.Rollback(ctx, tx)

	if err := s.taskRepo.UpdateTaskInTx(ctx, tx, &updated); err != nil {
		s.LogError(ctx, err, "Failed to update task", slog.Int64("task_id", taskID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, taskID, actorID, branchID, cs.label("Task"), cs.summaryLines()); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit task update: %w", err)
	}
	return &updated, nil
}

// DeleteTask removes a task and logs the deletion.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, branchID int64, actorID int64) error {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID, branchID)
	if err != nil {
		return err
	}

	tx, err := s.taskRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.taskRepo.Rollback(ctx, tx)

	if err := s.taskRepo.DeleteTaskInTx(ctx, tx, taskID, branchID); err != nil {
		s.LogError(ctx, err, "Failed to delete task", slog.Int64("task_id", taskID))
		return err
	}
	summary := []string{fmt.Sprintf("Removed **title** *%s*", task.Title)}
	if err := s.activityLog.Record(ctx, tx, taskID, actorID, branchID, "Task Deleted", summary); err != nil {
		return err
	}

	if err := s.taskRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit task deletion: %w", err)
	}
	s.LogInfo(ctx, "Task deleted", slog.Int64("task_id", taskID))
	return nil
}

func taskChanges(old, new *domain.Task) *changeSet {
	cs := &changeSet{}
	cs.track("title", old.Title, new.Title)
	cs.track("description", old.Description, new.Description)
	cs.track("assigned user", formatInt64Ref(old.AssignedUserID), formatInt64Ref(new.AssignedUserID))
	cs.track("status", old.Status, new.Status)
	cs.track("due at", formatTimestamp(old.DueAt), formatTimestamp(new.DueAt))
	return cs
}
