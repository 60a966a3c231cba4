package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lead is the central CRM entity. Reference fields point at branch-scoped
// lookup entities; the activity log embeds their numeric IDs and the renderer
// resolves them back to names.
type Lead struct {
	ID             int64           `json:"id"`
	BranchID       int64           `json:"branchID"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	AssignedUserID *int64          `json:"assignedUserID"`
	LeadStageID    *int64          `json:"leadStageID"`
	LeadSourceID   *int64          `json:"leadSourceID"`
	LeadTypeID     *int64          `json:"leadTypeID"`
	CustomerTypeID *int64          `json:"customerTypeID"`
	ProductID      *int64          `json:"productID"`
	EstimatedValue decimal.Decimal `json:"estimatedValue"`
	StartTime      *time.Time      `json:"startTime"`
	Notes          string          `json:"notes"`
	AuditFields
}

// Task is a follow-up item attached to a lead; activity-tracked.
type Task struct {
	ID             int64      `json:"id"`
	BranchID       int64      `json:"branchID"`
	LeadID         int64      `json:"leadID"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedUserID *int64     `json:"assignedUserID"`
	Status         string     `json:"status"`
	DueAt          *time.Time `json:"dueAt"`
	AuditFields
}

// Call records a scheduled or completed call against a lead; activity-tracked.
type Call struct {
	ID             int64      `json:"id"`
	BranchID       int64      `json:"branchID"`
	LeadID         int64      `json:"leadID"`
	Subject        string     `json:"subject"`
	Outcome        string     `json:"outcome"`
	AssignedUserID *int64     `json:"assignedUserID"`
	ScheduledAt    *time.Time `json:"scheduledAt"`
	AuditFields
}

// Reminder is a timed nudge attached to a lead; activity-tracked.
type Reminder struct {
	ID             int64      `json:"id"`
	BranchID       int64      `json:"branchID"`
	LeadID         int64      `json:"leadID"`
	Title          string     `json:"title"`
	Note           string     `json:"note"`
	AssignedUserID *int64     `json:"assignedUserID"`
	RemindAt       *time.Time `json:"remindAt"`
	AuditFields
}

// Todo is a personal checklist item; not activity-tracked.
type Todo struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branchID"`
	UserID   int64  `json:"userID"`
	Title    string `json:"title"`
	Done     bool   `json:"done"`
	AuditFields
}
