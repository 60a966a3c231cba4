package services

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// LeadSvcFacade manages leads. Mutations write an activity-log entry in the
// same transaction; an update that changes nothing persists nothing.
type LeadSvcFacade interface {
	CreateLead(ctx context.Context, branchID int64, req dto.CreateLeadRequest, actorID int64) (*domain.Lead, error)
	GetLead(ctx context.Context, leadID, branchID int64) (*domain.Lead, error)
	ListLeads(ctx context.Context, branchID int64, limit, offset int) ([]domain.Lead, error)
	UpdateLead(ctx context.Context, leadID, branchID int64, req dto.UpdateLeadRequest, actorID int64) (*domain.Lead, error)
	DeleteLead(ctx context.Context, leadID, branchID int64, actorID int64) error
}

// TaskSvcFacade manages tasks with the same logging contract as leads.
type TaskSvcFacade interface {
	CreateTask(ctx context.Context, branchID int64, req dto.CreateTaskRequest, actorID int64) (*domain.Task, error)
	GetTask(ctx context.Context, taskID, branchID int64) (*domain.Task, error)
	ListLeadTasks(ctx context.Context, leadID, branchID int64) ([]domain.Task, error)
	UpdateTask(ctx context.Context, taskID, branchID int64, req dto.UpdateTaskRequest, actorID int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, branchID int64, actorID int64) error
}

// CallSvcFacade manages calls with the same logging contract as leads.
type CallSvcFacade interface {
	CreateCall(ctx context.Context, branchID int64, req dto.CreateCallRequest, actorID int64) (*domain.Call, error)
	GetCall(ctx context.Context, callID, branchID int64) (*domain.Call, error)
	ListLeadCalls(ctx context.Context, leadID, branchID int64) ([]domain.Call, error)
	UpdateCall(ctx context.Context, callID, branchID int64, req dto.UpdateCallRequest, actorID int64) (*domain.Call, error)
	DeleteCall(ctx context.Context, callID, branchID int64, actorID int64) error
}

// ReminderSvcFacade manages reminders with the same logging contract as leads.
type ReminderSvcFacade interface {
	CreateReminder(ctx context.Context, branchID int64, req dto.CreateReminderRequest, actorID int64) (*domain.Reminder, error)
	GetReminder(ctx context.Context, reminderID, branchID int64) (*domain.Reminder, error)
	ListLeadReminders(ctx context.Context, leadID, branchID int64) ([]domain.Reminder, error)
	UpdateReminder(ctx context.Context, reminderID, branchID int64, req dto.UpdateReminderRequest, actorID int64) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, reminderID, branchID int64, actorID int64) error
}

// TodoSvcFacade manages personal todos; not activity-tracked.
type TodoSvcFacade interface {
	CreateTodo(ctx context.Context, branchID int64, req dto.CreateTodoRequest, actorID int64) (*domain.Todo, error)
	ListMyTodos(ctx context.Context, userID, branchID int64) ([]domain.Todo, error)
	UpdateTodo(ctx context.Context, todoID, branchID int64, req dto.UpdateTodoRequest, actorID int64) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, todoID, branchID int64) error
}
