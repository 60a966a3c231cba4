package pgsql

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
)

type PgxActivityLogRepository struct {
	BaseRepository
}

// newPgxActivityLogRepository creates a new repository for activity log entries.
func newPgxActivityLogRepository(pool *pgxpool.Pool) portsrepo.ActivityLogRepositoryFacade {
	return &PgxActivityLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ActivityLogRepositoryFacade = (*PgxActivityLogRepository)(nil)

// SaveEntryInTx appends one immutable entry. The summary is stored as a JSONB
// array of marker strings; rows are never updated or deleted afterwards.
func (r *PgxActivityLogRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.ActivityLogEntry) error {
	summaryJSON, err := json.Marshal(entry.Summary)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode log summary", err)
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO activity_logs (entity_id, user_id, branch_id, field_name, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at;
	`, entry.EntityID, entry.UserID, entry.BranchID, entry.FieldName, summaryJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save activity log entry", err)
	}
	return nil
}

func (r *PgxActivityLogRepository) getEntries(ctx context.Context, filterQuery string, args ...any) ([]domain.ActivityLogEntry, error) {
	query := `
		SELECT id, entity_id, user_id, branch_id, field_name, summary, created_at
		FROM activity_logs
	` + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query activity logs", err)
	}
	defer rows.Close()

	var entries []domain.ActivityLogEntry
	for rows.Next() {
		var (
			e       domain.ActivityLogEntry
			rawJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.EntityID, &e.UserID, &e.BranchID, &e.FieldName, &rawJSON, &e.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity log row", err)
		}
		e.Summary = decodeSummary(rawJSON)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read activity log rows", err)
	}
	return entries, nil
}

// decodeSummary tolerates the three historical storage shapes: a JSON array of
// strings, a bare JSON string, and NULL.
func decodeSummary(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return []string{string(raw)}
}

func (r *PgxActivityLogRepository) ListEntriesByEntity(ctx context.Context, entityID, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	return r.getEntries(ctx, `
		WHERE entity_id = $1 AND branch_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4;
	`, entityID, branchID, limit, offset)
}

func (r *PgxActivityLogRepository) ListEntriesByBranch(ctx context.Context, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	return r.getEntries(ctx, `
		WHERE branch_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;
	`, branchID, limit, offset)
}
