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

type PgxBranchRepository struct {
	BaseRepository
}

// newPgxBranchRepository creates a new repository for businesses and branches.
func newPgxBranchRepository(pool *pgxpool.Pool) portsrepo.BranchRepositoryWithTx {
	return &PgxBranchRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BranchRepositoryWithTx = (*PgxBranchRepository)(nil)

const businessSelectQuery = `
SELECT
	b.id, b.name, b.email, b.phone,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM businesses b
`

func (r *PgxBranchRepository) getBusinesses(ctx context.Context, filterQuery string, args ...any) ([]domain.Business, error) {
	rows, err := r.Pool.Query(ctx, businessSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query businesses", err)
	}
	defer rows.Close()
	businesses, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Business])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Business{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect business rows", err)
	}
	return businesses, nil
}

func (r *PgxBranchRepository) FindBusinessByID(ctx context.Context, businessID int64) (*domain.Business, error) {
	businesses, err := r.getBusinesses(ctx, `WHERE b.id = $1`, businessID)
	if err != nil {
		return nil, err
	}
	if len(businesses) == 0 {
		return nil, apperrors.NewNotFoundError("business not found")
	}
	return &businesses[0], nil
}

func (r *PgxBranchRepository) ListBusinesses(ctx context.Context, limit, offset int) ([]domain.Business, error) {
	return r.getBusinesses(ctx, `ORDER BY b.name LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PgxBranchRepository) SaveBusiness(ctx context.Context, business *domain.Business) error {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO businesses (name, email, phone, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`,
		business.Name, business.Email, business.Phone,
		business.CreatedAt, business.CreatedBy, business.LastUpdatedAt, business.LastUpdatedBy,
	).Scan(&business.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return apperrors.NewConflictError("business " + business.Name + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save business "+business.Name, err)
	}
	return nil
}

func (r *PgxBranchRepository) UpdateBusiness(ctx context.Context, business *domain.Business) error {
	result, err := r.Pool.Exec(ctx, `
		UPDATE businesses
		SET name = $1, email = $2, phone = $3, last_updated_at = $4, last_updated_by = $5
		WHERE id = $6;
	`,
		business.Name, business.Email, business.Phone,
		business.LastUpdatedAt, business.LastUpdatedBy, business.ID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update business", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("business not found")
	}
	return nil
}

func (r *PgxBranchRepository) DeleteBusiness(ctx context.Context, businessID int64) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1;`, businessID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewConflictError("business still has branches")
		}
		return apperrors.NewAppError(500, "failed to delete business", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("business not found")
	}
	return nil
}

const branchSelectQuery = `
SELECT
	b.id, b.business_id, b.name, b.address,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM branches b
`

func (r *PgxBranchRepository) getBranches(ctx context.Context, filterQuery string, args ...any) ([]domain.Branch, error) {
	rows, err := r.Pool.Query(ctx, branchSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query branches", err)
	}
	defer rows.Close()
	branches, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Branch])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Branch{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect branch rows", err)
	}
	return branches, nil
}

func (r *PgxBranchRepository) FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error) {
	branches, err := r.getBranches(ctx, `WHERE b.id = $1`, branchID)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, apperrors.NewNotFoundError("branch not found")
	}
	return &branches[0], nil
}

func (r *PgxBranchRepository) ListBranchesByBusiness(ctx context.Context, businessID int64) ([]domain.Branch, error) {
	return r.getBranches(ctx, `WHERE b.business_id = $1 ORDER BY b.name`, businessID)
}

func (r *PgxBranchRepository) SaveBranchInTx(ctx context.Context, tx pgx.Tx, branch *domain.Branch) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO branches (business_id, name, address, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`,
		branch.BusinessID, branch.Name, branch.Address,
		branch.CreatedAt, branch.CreatedBy, branch.LastUpdatedAt, branch.LastUpdatedBy,
	).Scan(&branch.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewValidationFailedError("business does not exist")
		}
		return apperrors.NewAppError(500, "failed to save branch "+branch.Name, err)
	}
	return nil
}

func (r *PgxBranchRepository) UpdateBranch(ctx context.Context, branch *domain.Branch) error {
	result, err := r.Pool.Exec(ctx, `
		UPDATE branches
		SET name = $1, address = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $5;
	`,
		branch.Name, branch.Address, branch.LastUpdatedAt, branch.LastUpdatedBy, branch.ID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update branch", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("branch not found")
	}
	return nil
}

func (r *PgxBranchRepository) DeleteBranch(ctx context.Context, branchID int64) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM branches WHERE id = $1;`, branchID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewConflictError("branch still has dependent records")
		}
		return apperrors.NewAppError(500, "failed to delete branch", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("branch not found")
	}
	return nil
}
