package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// TaskRepositoryFacade covers task CRUD; mutations run in an explicit
// transaction shared with their activity-log write.
type TaskRepositoryFacade interface {
	FindTaskByID(ctx context.Context, taskID, branchID int64) (*domain.Task, error)
	ListTasksByLead(ctx context.Context, leadID, branchID int64) ([]domain.Task, error)
	SaveTaskInTx(ctx context.Context, tx pgx.Tx, task *domain.Task) error
	UpdateTaskInTx(ctx context.Context, tx pgx.Tx, task *domain.Task) error
	DeleteTaskInTx(ctx context.Context, tx pgx.Tx, taskID, branchID int64) error
}

// CallRepositoryFacade covers call CRUD, same transactional contract as tasks.
type CallRepositoryFacade interface {
	FindCallByID(ctx context.Context, callID, branchID int64) (*domain.Call, error)
	ListCallsByLead(ctx context.Context, leadID, branchID int64) ([]domain.Call, error)
	SaveCallInTx(ctx context.Context, tx pgx.Tx, call *domain.Call) error
	UpdateCallInTx(ctx context.Context, tx pgx.Tx, call *domain.Call) error
	DeleteCallInTx(ctx context.Context, tx pgx.Tx, callID, branchID int64) error
}

// ReminderRepositoryFacade covers reminder CRUD, same transactional contract.
type ReminderRepositoryFacade interface {
	FindReminderByID(ctx context.Context, reminderID, branchID int64) (*domain.Reminder, error)
	ListRemindersByLead(ctx context.Context, leadID, branchID int64) ([]domain.Reminder, error)
	SaveReminderInTx(ctx context.Context, tx pgx.Tx, reminder *domain.Reminder) error
	UpdateReminderInTx(ctx context.Context, tx pgx.Tx, reminder *domain.Reminder) error
	DeleteReminderInTx(ctx context.Context, tx pgx.Tx, reminderID, branchID int64) error
}

// TaskRepositoryWithTx adds transaction control to the task facade.
type TaskRepositoryWithTx interface {
	TaskRepositoryFacade
	TransactionManager
}

// CallRepositoryWithTx adds transaction control to the call facade.
type CallRepositoryWithTx interface {
	CallRepositoryFacade
	TransactionManager
}

// ReminderRepositoryWithTx adds transaction control to the reminder facade.
type ReminderRepositoryWithTx interface {
	ReminderRepositoryFacade
	TransactionManager
}

// TodoRepositoryFacade covers todo CRUD. Todos are not activity-tracked, so
// their mutations run as plain pool writes.
type TodoRepositoryFacade interface {
	FindTodoByID(ctx context.Context, todoID, branchID int64) (*domain.Todo, error)
	ListTodosByUser(ctx context.Context, userID, branchID int64) ([]domain.Todo, error)
	SaveTodo(ctx context.Context, todo *domain.Todo) error
	UpdateTodo(ctx context.Context, todo *domain.Todo) error
	DeleteTodo(ctx context.Context, todoID, branchID int64) error
}
