package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
)

// Task, call, reminder and todo repositories share one file: they are the
// small follow-up entities hanging off a lead and follow the same query shape.

type PgxTaskRepository struct {
	BaseRepository
}

func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryWithTx {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaskRepositoryWithTx = (*PgxTaskRepository)(nil)

const taskSelectQuery = `
SELECT
	t.id, t.branch_id, t.lead_id, t.title, t.description, t.assigned_user_id, t.status, t.due_at,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM tasks t
`

func (r *PgxTaskRepository) getTasks(ctx context.Context, filterQuery string, args ...any) ([]domain.Task, error) {
	rows, err := r.Pool.Query(ctx, taskSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tasks", err)
	}
	defer rows.Close()
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Task{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect task rows", err)
	}
	return tasks, nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID, branchID int64) (*domain.Task, error) {
	tasks, err := r.getTasks(ctx, `WHERE t.id = $1 AND t.branch_id = $2`, taskID, branchID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperrors.NewNotFoundError("task not found")
	}
	return &tasks[0], nil
}

func (r *PgxTaskRepository) ListTasksByLead(ctx context.Context, leadID, branchID int64) ([]domain.Task, error) {
	return r.getTasks(ctx, `WHERE t.lead_id = $1 AND t.branch_id = $2 ORDER BY t.id DESC`, leadID, branchID)
}

func (r *PgxTaskRepository) SaveTaskInTx(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO tasks (
			branch_id, lead_id, title, description, assigned_user_id, status, due_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id;
	`,
		task.BranchID, task.LeadID, task.Title, task.Description, task.AssignedUserID, task.Status, task.DueAt,
		task.CreatedAt, task.CreatedBy, task.LastUpdatedAt, task.LastUpdatedBy,
	).Scan(&task.ID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save task "+task.Title, err)
	}
	return nil
}

func (r *PgxTaskRepository) UpdateTaskInTx(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	result, err := tx.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, assigned_user_id = $3, status = $4, due_at = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE id = $8 AND branch_id = $9;
	`,
		task.Title, task.Description, task.AssignedUserID, task.Status, task.DueAt,
		task.LastUpdatedAt, task.LastUpdatedBy, task.ID, task.BranchID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update task", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("task not found")
	}
	return nil
}

func (r *PgxTaskRepository) DeleteTaskInTx(ctx context.Context, tx pgx.Tx, taskID, branchID int64) error {
	result, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND branch_id = $2;`, taskID, branchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete task", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("task not found")
	}
	return nil
}

type PgxCallRepository struct {
	BaseRepository
}

func newPgxCallRepository(pool *pgxpool.Pool) portsrepo.CallRepositoryWithTx {
	return &PgxCallRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CallRepositoryWithTx = (*PgxCallRepository)(nil)

const callSelectQuery = `
SELECT
	c.id, c.branch_id, c.lead_id, c.subject, c.outcome, c.assigned_user_id, c.scheduled_at,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM calls c
`

func (r *PgxCallRepository) getCalls(ctx context.Context, filterQuery string, args ...any) ([]domain.Call, error) {
	rows, err := r.Pool.Query(ctx, callSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query calls", err)
	}
	defer rows.Close()
	calls, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Call])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Call{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect call rows", err)
	}
	return calls, nil
}

func (r *PgxCallRepository) FindCallByID(ctx context.Context, callID, branchID int64) (*domain.Call, error) {
	calls, err := r.getCalls(ctx, `WHERE c.id = $1 AND c.branch_id = $2`, callID, branchID)
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return nil, apperrors.NewNotFoundError("call not found")
	}
	return &calls[0], nil
}

func (r *PgxCallRepository) ListCallsByLead(ctx context.Context, leadID, branchID int64) ([]domain.Call, error) {
	return r.getCalls(ctx, `WHERE c.lead_id = $1 AND c.branch_id = $2 ORDER BY c.id DESC`, leadID, branchID)
}

func (r *PgxCallRepository) SaveCallInTx(ctx context.Context, tx pgx.Tx, call *domain.Call) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO calls (
			branch_id, lead_id, subject, outcome, assigned_user_id, scheduled_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`,
		call.BranchID, call.LeadID, call.Subject, call.Outcome, call.AssignedUserID, call.ScheduledAt,
		call.CreatedAt, call.CreatedBy, call.LastUpdatedAt, call.LastUpdatedBy,
	).Scan(&call.ID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save call "+call.Subject, err)
	}
	return nil
}

func (r *PgxCallRepository) UpdateCallInTx(ctx context.Context, tx pgx.Tx, call *domain.Call) error {
	result, err := tx.Exec(ctx, `
		UPDATE calls
		SET subject = $1, outcome = $2, assigned_user_id = $3, scheduled_at = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE id = $7 AND branch_id = $8;
	`,
		call.Subject, call.Outcome, call.AssignedUserID, call.ScheduledAt,
		call.LastUpdatedAt, call.LastUpdatedBy, call.ID, call.BranchID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update call", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("call not found")
	}
	return nil
}

func (r *PgxCallRepository) DeleteCallInTx(ctx context.Context, tx pgx.Tx, callID, branchID int64) error {
	result, err := tx.Exec(ctx, `DELETE FROM calls WHERE id = $1 AND branch_id = $2;`, callID, branchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete call", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("call not found")
	}
	return nil
}

type PgxReminderRepository struct {
	BaseRepository
}

func newPgxReminderRepository(pool *pgxpool.Pool) portsrepo.ReminderRepositoryWithTx {
	return &PgxReminderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReminderRepositoryWithTx = (*PgxReminderRepository)(nil)

const reminderSelectQuery = `
SELECT
	r.id, r.branch_id, r.lead_id, r.title, r.note, r.assigned_user_id, r.remind_at,
	r.created_at, r.created_by, r.last_updated_at, r.last_updated_by
FROM reminders r
`

func (r *PgxReminderRepository) getReminders(ctx context.Context, filterQuery string, args ...any) ([]domain.Reminder, error) {
	rows, err := r.Pool.Query(ctx, reminderSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reminders", err)
	}
	defer rows.Close()
	reminders, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Reminder])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Reminder{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect reminder rows", err)
	}
	return reminders, nil
}

func (r *PgxReminderRepository) FindReminderByID(ctx context.Context, reminderID, branchID int64) (*domain.Reminder, error) {
	reminders, err := r.getReminders(ctx, `WHERE r.id = $1 AND r.branch_id = $2`, reminderID, branchID)
	if err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, apperrors.NewNotFoundError("reminder not found")
	}
	return &reminders[0], nil
}

func (r *PgxReminderRepository) ListRemindersByLead(ctx context.Context, leadID, branchID int64) ([]domain.Reminder, error) {
	return r.getReminders(ctx, `WHERE r.lead_id = $1 AND r.branch_id = $2 ORDER BY r.id DESC`, leadID, branchID)
}

func (r *PgxReminderRepository) SaveReminderInTx(ctx context.Context, tx pgx.Tx, reminder *domain.Reminder) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO reminders (
			branch_id, lead_id, title, note, assigned_user_id, remind_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`,
		reminder.BranchID, reminder.LeadID, reminder.Title, reminder.Note, reminder.AssignedUserID, reminder.RemindAt,
		reminder.CreatedAt, reminder.CreatedBy, reminder.LastUpdatedAt, reminder.LastUpdatedBy,
	).Scan(&reminder.ID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save reminder "+reminder.Title, err)
	}
	return nil
}

func (r *PgxReminderRepository) UpdateReminderInTx(ctx context.Context, tx pgx.Tx, reminder *domain.Reminder) error {
	result, err := tx.Exec(ctx, `
		UPDATE reminders
		SET title = $1, note = $2, assigned_user_id = $3, remind_at = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE id = $7 AND branch_id = $8;
	`,
		reminder.Title, reminder.Note, reminder.AssignedUserID, reminder.RemindAt,
		reminder.LastUpdatedAt, reminder.LastUpdatedBy, reminder.ID, reminder.BranchID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reminder", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("reminder not found")
	}
	return nil
}

func (r *PgxReminderRepository) DeleteReminderInTx(ctx context.Context, tx pgx.Tx, reminderID, branchID int64) error {
	result, err := tx.Exec(ctx, `DELETE FROM reminders WHERE id = $1 AND branch_id = $2;`, reminderID, branchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete reminder", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("reminder not found")
	}
	return nil
}

type PgxTodoRepository struct {
	BaseRepository
}

func newPgxTodoRepository(pool *pgxpool.Pool) portsrepo.TodoRepositoryFacade {
	return &PgxTodoRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TodoRepositoryFacade = (*PgxTodoRepository)(nil)

const todoSelectQuery = `
SELECT
	t.id, t.branch_id, t.user_id, t.title, t.done,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM todos t
`

func (r *PgxTodoRepository) getTodos(ctx context.Context, filterQuery string, args ...any) ([]domain.Todo, error) {
	rows, err := r.Pool.Query(ctx, todoSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query todos", err)
	}
	defer rows.Close()
	todos, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Todo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Todo{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect todo rows", err)
	}
	return todos, nil
}

func (r *PgxTodoRepository) FindTodoByID(ctx context.Context, todoID, branchID int64) (*domain.Todo, error) {
	todos, err := r.getTodos(ctx, `WHERE t.id = $1 AND t.branch_id = $2`, todoID, branchID)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, apperrors.NewNotFoundError("todo not found")
	}
	return &todos[0], nil
}

func (r *PgxTodoRepository) ListTodosByUser(ctx context.Context, userID, branchID int64) ([]domain.Todo, error) {
	return r.getTodos(ctx, `WHERE t.user_id = $1 AND t.branch_id = $2 ORDER BY t.id DESC`, userID, branchID)
}

func (r *PgxTodoRepository) SaveTodo(ctx context.Context, todo *domain.Todo) error {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO todos (branch_id, user_id, title, done, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`,
		todo.BranchID, todo.UserID, todo.Title, todo.Done,
		todo.CreatedAt, todo.CreatedBy, todo.LastUpdatedAt, todo.LastUpdatedBy,
	).Scan(&todo.ID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save todo "+todo.Title, err)
	}
	return nil
}

func (r *PgxTodoRepository) UpdateTodo(ctx context.Context, todo *domain.Todo) error {
	result, err := r.Pool.Exec(ctx, `
		UPDATE todos
		SET title = $1, done = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $5 AND branch_id = $6;
	`,
		todo.Title, todo.Done, todo.LastUpdatedAt, todo.LastUpdatedBy, todo.ID, todo.BranchID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update todo", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("todo not found")
	}
	return nil
}

func (r *PgxTodoRepository) DeleteTodo(ctx context.Context, todoID, branchID int64) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND branch_id = $2;`, todoID, branchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete todo", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("todo not found")
	}
	return nil
}
