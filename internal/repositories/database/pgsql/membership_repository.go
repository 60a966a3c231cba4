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

type PgxMembershipRepository struct {
	BaseRepository
}

// newPgxMembershipRepository creates a new repository for user-branch-role assignments.
func newPgxMembershipRepository(pool *pgxpool.Pool) portsrepo.MembershipRepositoryWithTx {
	return &PgxMembershipRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MembershipRepositoryWithTx = (*PgxMembershipRepository)(nil)

func (r *PgxMembershipRepository) FindMembership(ctx context.Context, userID, branchID int64) (*domain.Membership, error) {
	var m domain.Membership
	err := r.Pool.QueryRow(ctx, `
		SELECT id, user_id, branch_id, role_id, created_at, updated_at
		FROM memberships
		WHERE user_id = $1 AND branch_id = $2;
	`, userID, branchID).Scan(
		&m.ID, &m.UserID, &m.BranchID, &m.RoleID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership", err)
	}
	return &m, nil
}

func (r *PgxMembershipRepository) ListMembershipsByBranch(ctx context.Context, branchID int64) ([]domain.BranchMember, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT
			m.id, m.user_id, m.branch_id, m.role_id, m.created_at, m.updated_at,
			TRIM(CONCAT(u.first_name, ' ', u.last_name)) AS user_name,
			r.name AS role_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		JOIN roles r ON r.id = m.role_id
		WHERE m.branch_id = $1
		ORDER BY user_name;
	`, branchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query branch members", err)
	}
	defer rows.Close()

	var members []domain.BranchMember
	for rows.Next() {
		var m domain.BranchMember
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.BranchID, &m.RoleID, &m.CreatedAt, &m.UpdatedAt,
			&m.UserName, &m.RoleName,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan branch member row", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read branch member rows", err)
	}
	return members, nil
}

func (r *PgxMembershipRepository) ListMembershipsByUser(ctx context.Context, userID int64) ([]domain.Membership, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, user_id, branch_id, role_id, created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY branch_id;
	`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query user memberships", err)
	}
	defer rows.Close()
	memberships, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Membership])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Membership{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect membership rows", err)
	}
	return memberships, nil
}

// Upsert: one role per (user, branch). Re-assigning replaces the role instead
// of adding a second row, which keeps the lookup unambiguous.
const upsertMembershipQuery = `
	INSERT INTO memberships (user_id, branch_id, role_id, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (user_id, branch_id) DO UPDATE SET role_id = EXCLUDED.role_id, updated_at = NOW()
	RETURNING id, created_at, updated_at;
`

func (r *PgxMembershipRepository) UpsertMembership(ctx context.Context, membership *domain.Membership) error {
	err := r.Pool.QueryRow(ctx, upsertMembershipQuery,
		membership.UserID, membership.BranchID, membership.RoleID,
	).Scan(&membership.ID, &membership.CreatedAt, &membership.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewValidationFailedError("user, branch or role does not exist")
		}
		return apperrors.NewAppError(500, "failed to upsert membership", err)
	}
	return nil
}

func (r *PgxMembershipRepository) UpsertMembershipInTx(ctx context.Context, tx pgx.Tx, membership *domain.Membership) error {
	err := tx.QueryRow(ctx, upsertMembershipQuery,
		membership.UserID, membership.BranchID, membership.RoleID,
	).Scan(&membership.ID, &membership.CreatedAt, &membership.UpdatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert membership", err)
	}
	return nil
}

func (r *PgxMembershipRepository) DeleteMembership(ctx context.Context, userID, branchID int64) error {
	result, err := r.Pool.Exec(ctx, `
		DELETE FROM memberships WHERE user_id = $1 AND branch_id = $2;
	`, userID, branchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete membership", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("membership not found")
	}
	return nil
}
