package dto

import (
	"time"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// ActivityLogEntryResponse is the wire shape of a rendered log entry: ID
// markers inside Summary are already resolved to names where possible.
type ActivityLogEntryResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BranchID  int64     `json:"branch_id"`
	FieldName string    `json:"field_name"`
	Summary   []string  `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// ToActivityLogEntryResponses converts rendered domain entries.
func ToActivityLogEntryResponses(entries []domain.ActivityLogEntry) []ActivityLogEntryResponse {
	out := make([]ActivityLogEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ActivityLogEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			BranchID:  e.BranchID,
			FieldName: e.FieldName,
			Summary:   e.Summary,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}

// ListParams are shared pagination query parameters.
type ListParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
