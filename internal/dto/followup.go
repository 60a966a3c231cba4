package dto

import (
	"time"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// CreateTaskRequest creates a task under a lead.
type CreateTaskRequest struct {
	LeadID         int64      `json:"lead_id" binding:"required"`
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	Status         string     `json:"status"`
	DueAt          *time.Time `json:"due_at"`
}

// UpdateTaskRequest is a partial task update.
type UpdateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	Status         *string    `json:"status"`
	DueAt          *time.Time `json:"due_at"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID             int64      `json:"id"`
	BranchID       int64      `json:"branch_id"`
	LeadID         int64      `json:"lead_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	Status         string     `json:"status"`
	DueAt          *time.Time `json:"due_at"`
}

// ToTaskResponse converts a domain task to its wire shape.
func ToTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		BranchID:       t.BranchID,
		LeadID:         t.LeadID,
		Title:          t.Title,
		Description:    t.Description,
		AssignedUserID: t.AssignedUserID,
		Status:         t.Status,
		DueAt:          t.DueAt,
	}
}

// ToTaskResponses converts a slice of domain tasks.
func ToTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = ToTaskResponse(&tasks[i])
	}
	return out
}

// CreateCallRequest creates a call under a lead.
type CreateCallRequest struct {
	LeadID         int64      `json:"lead_id" binding:"required"`
	Subject        string     `json:"subject" binding:"required"`
	Outcome        string     `json:"outcome"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
}

// UpdateCallRequest is a partial call update.
type UpdateCallRequest struct {
	Subject        *string    `json:"subject"`
	Outcome        *string    `json:"outcome"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
}

// CallResponse is the wire shape of a call.
type CallResponse struct {
	ID             int64      `json:"id"`
	BranchID       int64      `json:"branch_id"`
	LeadID         int64      `json:"lead_id"`
	Subject        string     `json:"subject"`
	Outcome        string     `json:"outcome"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
}

// ToCallResponse converts a domain call to its wire shape.
func ToCallResponse(c *domain.Call) CallResponse {
	return CallResponse{
		ID:             c.ID,
		BranchID:       c.BranchID,
		LeadID:         c.LeadID,
		Subject:        c.Subject,
		Outcome:        c.Outcome,
		AssignedUserID: c.AssignedUserID,
		ScheduledAt:    c.ScheduledAt,
	}
}

// ToCallResponses converts a slice of domain calls.
func ToCallResponses(calls []domain.Call) []CallResponse {
	out := make([]CallResponse, len(calls))
	for i := range calls {
		out[i] = ToCallResponse(&calls[i])
	}
	return out
}

// CreateReminderRequest creates a reminder under a lead.
type CreateReminderRequest struct {
	LeadID         int64      `json:"lead_id" binding:"required"`
	Title          string     `json:"title" binding:"required"`
	Note           string     `json:"note"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	RemindAt       *time.Time `json:"remind_at"`
}

// UpdateReminderRequest is a partial reminder update.
type UpdateReminderRequest struct {
	Title          *string    `json:"title"`
	Note           *string    `json:"note"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	RemindAt       *time.Time `json:"remind_at"`
}

// ReminderResponse is the wire shape of a reminder.
type ReminderResponse struct {
	ID             int64      `json:"id"`
	BranchID       int64      `json:"branch_id"`
	LeadID         int64      `json:"lead_id"`
	Title          string     `json:"title"`
	Note           string     `json:"note"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	RemindAt       *time.Time `json:"remind_at"`
}

// ToReminderResponse converts a domain reminder to its wire shape.
func ToReminderResponse(r *domain.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:             r.ID,
		BranchID:       r.BranchID,
		LeadID:         r.LeadID,
		Title:          r.Title,
		Note:           r.Note,
		AssignedUserID: r.AssignedUserID,
		RemindAt:       r.RemindAt,
	}
}

// ToReminderResponses converts a slice of domain reminders.
func ToReminderResponses(reminders []domain.Reminder) []ReminderResponse {
	out := make([]ReminderResponse, len(reminders))
	for i := range reminders {
		out[i] = ToReminderResponse(&reminders[i])
	}
	return out
}

// CreateTodoRequest creates a personal todo.
type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
}

// UpdateTodoRequest is a partial todo update.
type UpdateTodoRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// TodoResponse is the wire shape of a todo.
type TodoResponse struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branch_id"`
	UserID   int64  `json:"user_id"`
	Title    string `json:"title"`
	Done     bool   `json:"done"`
}

// ToTodoResponse converts a domain todo to its wire shape.
func ToTodoResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{ID: t.ID, BranchID: t.BranchID, UserID: t.UserID, Title: t.Title, Done: t.Done}
}

// ToTodoResponses converts a slice of domain todos.
func ToTodoResponses(todos []domain.Todo) []TodoResponse {
	out := make([]TodoResponse, len(todos))
	for i := range todos {
		out[i] = ToTodoResponse(&todos[i])
	}
	return out
}
