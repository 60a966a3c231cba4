package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// ActivityLogWriter appends immutable log entries. The insert always runs
// inside the same transaction as the entity mutation it describes, so a log
// row exists if and only if the mutation committed.
type ActivityLogWriter interface {
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.ActivityLogEntry) error
}

// ActivityLogReader reads stored entries for display.
type ActivityLogReader interface {
	// ListEntriesByEntity returns entries for one entity, newest first.
	ListEntriesByEntity(ctx context.Context, entityID, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error)

	// ListEntriesByBranch returns a branch's entries, newest first.
	ListEntriesByBranch(ctx context.Context, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error)
}

// ActivityLogRepositoryFacade combines log reads and writes.
type ActivityLogRepositoryFacade interface {
	ActivityLogReader
	ActivityLogWriter
}
