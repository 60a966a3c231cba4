package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// ActivityLogWriterSvc appends change summaries for tracked-entity mutations.
// Record runs inside the caller's transaction so the log entry exists if and
// only if the mutation committed.
type ActivityLogWriterSvc interface {
	Record(ctx context.Context, tx pgx.Tx, entityID, userID, branchID int64, label string, summary []string) error
}

// ActivityLogReaderSvc reads entries and renders them for display: summary
// lines are re-parsed and embedded numeric ID markers are resolved to names.
type ActivityLogReaderSvc interface {
	ListEntityLog(ctx context.Context, entityID, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error)
	ListBranchLog(ctx context.Context, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error)
}

// ActivityLogSvcFacade combines writing and rendered reading.
type ActivityLogSvcFacade interface {
	ActivityLogWriterSvc
	ActivityLogReaderSvc
}
