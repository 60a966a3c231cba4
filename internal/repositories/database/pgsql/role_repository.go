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

type PgxRoleRepository struct {
	BaseRepository
}

// newPgxRoleRepository creates a new repository for roles and their grants.
func newPgxRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepositoryWithTx {
	return &PgxRoleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RoleRepositoryWithTx = (*PgxRoleRepository)(nil)

const roleSelectQuery = `
SELECT
	r.id, r.branch_id, r.name,
	r.created_at, r.created_by, r.last_updated_at, r.last_updated_by
FROM roles r
`

func (r *PgxRoleRepository) getRoles(ctx context.Context, filterQuery string, args ...any) ([]domain.Role, error) {
	rows, err := r.Pool.Query(ctx, roleSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query roles", err)
	}
	defer rows.Close()
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Role])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Role{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect role rows", err)
	}
	return roles, nil
}

func (r *PgxRoleRepository) FindRoleByID(ctx context.Context, roleID int64) (*domain.Role, error) {
	roles, err := r.getRoles(ctx, `WHERE r.id = $1`, roleID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	return &roles[0], nil
}

func (r *PgxRoleRepository) ListRolesByBranch(ctx context.Context, branchID int64) ([]domain.Role, error) {
	return r.getRoles(ctx, `WHERE r.branch_id = $1 ORDER BY r.name`, branchID)
}

const insertRoleQuery = `
	INSERT INTO roles (branch_id, name, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;
`

func (r *PgxRoleRepository) SaveRole(ctx context.Context, role *domain.Role) error {
	err := r.Pool.QueryRow(ctx, insertRoleQuery,
		role.BranchID, role.Name,
		role.CreatedAt, role.CreatedBy, role.LastUpdatedAt, role.LastUpdatedBy,
	).Scan(&role.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewValidationFailedError("branch does not exist")
		}
		return apperrors.NewAppError(500, "failed to save role "+role.Name, err)
	}
	return nil
}

func (r *PgxRoleRepository) SaveRoleInTx(ctx context.Context, tx pgx.Tx, role *domain.Role) error {
	err := tx.QueryRow(ctx, insertRoleQuery,
		role.BranchID, role.Name,
		role.CreatedAt, role.CreatedBy, role.LastUpdatedAt, role.LastUpdatedBy,
	).Scan(&role.ID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save role "+role.Name, err)
	}
	return nil
}

func (r *PgxRoleRepository) UpdateRoleName(ctx context.Context, roleID int64, name string, updatedBy int64) error {
	result, err := r.Pool.Exec(ctx, `
		UPDATE roles
		SET name = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE id = $3;
	`, name, updatedBy, roleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to rename role", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("role not found")
	}
	return nil
}

func (r *PgxRoleRepository) DeleteRole(ctx context.Context, roleID int64) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM roles WHERE id = $1;`, roleID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewConflictError("role is still assigned to branch members")
		}
		return apperrors.NewAppError(500, "failed to delete role", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("role not found")
	}
	return nil
}

func (r *PgxRoleRepository) ListGrantedPermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT permission_id FROM role_grants WHERE role_id = $1 ORDER BY permission_id;
	`, roleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query role grants", err)
	}
	defer rows.Close()
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect grant rows", err)
	}
	return ids, nil
}

func (r *PgxRoleRepository) ListGrantedPermissions(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT p.id, p.module, p.action
		FROM role_grants rg
		JOIN permissions p ON p.id = rg.permission_id
		WHERE rg.role_id = $1
		ORDER BY p.module, p.action;
	`, roleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query granted permissions", err)
	}
	defer rows.Close()
	perms, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Permission])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Permission{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect granted permission rows", err)
	}
	return perms, nil
}

// AddGrantsInTx inserts grant rows in one batch. ON CONFLICT DO NOTHING makes
// re-assigning an already-granted permission idempotent.
func (r *PgxRoleRepository) AddGrantsInTx(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pid := range permissionIDs {
		batch.Queue(`
			INSERT INTO role_grants (role_id, permission_id)
			VALUES ($1, $2)
			ON CONFLICT (role_id, permission_id) DO NOTHING;
		`, roleID, pid)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range permissionIDs {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
				return apperrors.NewValidationFailedError("permission or role does not exist")
			}
			return apperrors.NewAppError(500, "failed to add role grants", err)
		}
	}
	return nil
}

func (r *PgxRoleRepository) RemoveGrantsInTx(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		DELETE FROM role_grants WHERE role_id = $1 AND permission_id = ANY($2);
	`, roleID, permissionIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to remove role grants", err)
	}
	return nil
}

func (r *PgxRoleRepository) PurgeGrantsByPermissionIDsInTx(ctx context.Context, tx pgx.Tx, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		DELETE FROM role_grants WHERE permission_id = ANY($1);
	`, permissionIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to purge grants for permissions", err)
	}
	return nil
}

func (r *PgxRoleRepository) CountGrantsByPermissionIDs(ctx context.Context, permissionIDs []int64) (int64, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM role_grants WHERE permission_id = ANY($1);
	`, permissionIDs).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count grants", err)
	}
	return count, nil
}
