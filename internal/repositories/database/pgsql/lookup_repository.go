package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
)

type PgxLookupRepository struct {
	BaseRepository
}

// newPgxLookupRepository creates a repository for display-name resolution of
// lookup entities.
func newPgxLookupRepository(pool *pgxpool.Pool) portsrepo.LookupReader {
	return &PgxLookupRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LookupReader = (*PgxLookupRepository)(nil)

// lookupTables maps the non-user lookup kinds to their (table, name column).
// Users need the first/last/username/email fallback chain, so they are
// handled separately.
var lookupTables = map[domain.LookupKind]struct {
	table string
	col   string
}{
	domain.LookupLeadStage:    {"lead_stages", "name"},
	domain.LookupLeadSource:   {"lead_sources", "name"},
	domain.LookupLeadType:     {"lead_types", "name"},
	domain.LookupCustomerType: {"customer_types", "name"},
	domain.LookupProduct:      {"products", "name"},
	domain.LookupBranch:       {"branches", "name"},
}

// ResolveNames returns an ID→name map for one lookup kind with a single query
// per call; IDs with no match are absent from the map.
func (r *PgxLookupRepository) ResolveNames(ctx context.Context, kind domain.LookupKind, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	if kind == domain.LookupUser {
		return r.resolveUserNames(ctx, ids)
	}
	spec, ok := lookupTables[kind]
	if !ok {
		return nil, apperrors.NewValidationFailedError("unknown lookup kind " + string(kind))
	}
	rows, err := r.Pool.Query(ctx, `SELECT id, `+spec.col+` FROM `+spec.table+` WHERE id = ANY($1);`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+spec.table, err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan "+spec.table+" row", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read "+spec.table+" rows", err)
	}
	return names, nil
}

func (r *PgxLookupRepository) resolveUserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, first_name, last_name, username, email
		FROM users
		WHERE id = ANY($1);
	`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		names[u.ID] = u.DisplayName()
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read user rows", err)
	}
	return names, nil
}

func (r *PgxLookupRepository) ListByKind(ctx context.Context, kind domain.LookupKind) ([]domain.LookupItem, error) {
	spec, ok := lookupTables[kind]
	if !ok {
		return nil, apperrors.NewValidationFailedError("unknown lookup kind " + string(kind))
	}
	query := strings.Join([]string{`SELECT id, `, spec.col, ` FROM `, spec.table, ` ORDER BY `, spec.col, `;`}, "")
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+spec.table, err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LookupItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.LookupItem{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect "+spec.table+" rows", err)
	}
	return items, nil
}
