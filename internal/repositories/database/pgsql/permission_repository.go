package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
)

type PgxPermissionRepository struct {
	BaseRepository
}

// newPgxPermissionRepository creates a new repository for the permission catalog.
func newPgxPermissionRepository(pool *pgxpool.Pool) portsrepo.PermissionRepositoryWithTx {
	return &PgxPermissionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PermissionRepositoryWithTx = (*PgxPermissionRepository)(nil)

const permissionSelectQuery = `
SELECT p.id, p.module, p.action
FROM permissions p
`

func (r *PgxPermissionRepository) getPermissions(ctx context.Context, filterQuery string, args ...any) ([]domain.Permission, error) {
	query := permissionSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query permissions", err)
	}
	defer rows.Close()
	perms, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Permission])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Permission{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect permission rows", err)
	}
	return perms, nil
}

func (r *PgxPermissionRepository) FindPermissionsByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return []domain.Permission{}, nil
	}
	return r.getPermissions(ctx, `WHERE p.id = ANY($1) ORDER BY p.id`, ids)
}

func (r *PgxPermissionRepository) FindPermissionsByModule(ctx context.Context, module string) ([]domain.Permission, error) {
	return r.getPermissions(ctx, `WHERE p.module = $1 ORDER BY p.action`, module)
}

func (r *PgxPermissionRepository) FindPermissionByModuleAction(ctx context.Context, module string, action domain.PermissionAction) (*domain.Permission, error) {
	perms, err := r.getPermissions(ctx, `WHERE p.module = $1 AND p.action = $2`, module, action)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &perms[0], nil
}

func (r *PgxPermissionRepository) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return r.getPermissions(ctx, `ORDER BY p.module, p.action`)
}

// InsertPermissionsInTx bulk-inserts (module, action) rows. ON CONFLICT DO
// NOTHING makes re-creating an existing pair a skip rather than an error; only
// the rows actually inserted are returned.
func (r *PgxPermissionRepository) InsertPermissionsInTx(ctx context.Context, tx pgx.Tx, module string, actions []domain.PermissionAction) ([]domain.Permission, error) {
	inserted := make([]domain.Permission, 0, len(actions))
	for _, action := range actions {
		var perm domain.Permission
		err := tx.QueryRow(ctx, `
			INSERT INTO permissions (module, action)
			VALUES ($1, $2)
			ON CONFLICT (module, action) DO NOTHING
			RETURNING id, module, action;
		`, module, action).Scan(&perm.ID, &perm.Module, &perm.Action)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue // pair already exists
			}
			return nil, apperrors.NewAppError(500, "failed to insert permission "+module+":"+string(action), err)
		}
		inserted = append(inserted, perm)
	}
	return inserted, nil
}

func (r *PgxPermissionRepository) RenameModuleInTx(ctx context.Context, tx pgx.Tx, oldModule, newModule string) (int64, error) {
	result, err := tx.Exec(ctx, `
		UPDATE permissions SET module = $1 WHERE module = $2;
	`, newModule, oldModule)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return 0, apperrors.NewConflictError("module " + newModule + " already has overlapping permissions")
		}
		return 0, apperrors.NewAppError(500, "failed to rename module "+oldModule, err)
	}
	return result.RowsAffected(), nil
}

func (r *PgxPermissionRepository) DeletePermissionsInTx(ctx context.Context, tx pgx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `DELETE FROM permissions WHERE id = ANY($1);`, ids)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewConflictError("permissions are still referenced by role grants")
		}
		return apperrors.NewAppError(500, "failed to delete permissions", err)
	}
	return nil
}
