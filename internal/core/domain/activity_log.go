package domain

import "time"

// ActivityLogEntry is an immutable, append-only change summary for a tracked
// entity mutation. Summary lines embed `**label**` field markers and `*value*`
// value markers; values that are entity IDs are resolved to display names by
// the renderer at read time, never in storage.
type ActivityLogEntry struct {
	ID        int64     `json:"id"`
	EntityID  int64     `json:"entityID"`
	UserID    int64     `json:"userID"`
	BranchID  int64     `json:"branchID"`
	FieldName string    `json:"fieldName"`
	Summary   []string  `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// FieldChange is one detected difference between the stored and requested
// value of a tracked field. Old/New hold display strings; empty means absent.
type FieldChange struct {
	Field string
	Old   string
	New   string
}
