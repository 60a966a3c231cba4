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

type PgxLeadRepository struct {
	BaseRepository
}

// newPgxLeadRepository creates a new repository for lead data.
func newPgxLeadRepository(pool *pgxpool.Pool) portsrepo.LeadRepositoryWithTx {
	return &PgxLeadRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LeadRepositoryWithTx = (*PgxLeadRepository)(nil)

const leadSelectQuery = `
SELECT
	l.id, l.branch_id, l.name, l.phone, l.email,
	l.assigned_user_id, l.lead_stage_id, l.lead_source_id, l.lead_type_id,
	l.customer_type_id, l.product_id, l.estimated_value, l.start_time, l.notes,
	l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
FROM leads l
`

func (r *PgxLeadRepository) getLeads(ctx context.Context, filterQuery string, args ...any) ([]domain.Lead, error) {
	rows, err := r.Pool.Query(ctx, leadSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query leads", err)
	}
	defer rows.Close()
	leads, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Lead])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Lead{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect lead rows", err)
	}
	return leads, nil
}

func (r *PgxLeadRepository) FindLeadByID(ctx context.Context, leadID, branchID int64) (*domain.Lead, error) {
	leads, err := r.getLeads(ctx, `WHERE l.id = $1 AND l.branch_id = $2`, leadID, branchID)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, apperrors.NewNotFoundError("lead not found")
	}
	return &leads[0], nil
}

func (r *PgxLeadRepository) ListLeadsByBranch(ctx context.Context, branchID int64, limit, offset int) ([]domain.Lead, error) {
	return r.getLeads(ctx, `WHERE l.branch_id = $1 ORDER BY l.id DESC LIMIT $2 OFFSET $3`, branchID, limit, offset)
}

func (r *PgxLeadRepository) SaveLeadInTx(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO leads (
			branch_id, name, phone, email,
			assigned_user_id, lead_stage_id, lead_source_id, lead_type_id,
			customer_type_id, product_id, estimated_value, start_time, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id;
	`,
		lead.BranchID, lead.Name, lead.Phone, lead.Email,
		lead.AssignedUserID, lead.LeadStageID, lead.LeadSourceID, lead.LeadTypeID,
		lead.CustomerTypeID, lead.ProductID, lead.EstimatedValue, lead.StartTime, lead.Notes,
		lead.CreatedAt, lead.CreatedBy, lead.LastUpdatedAt, lead.LastUpdatedBy,
	).Scan(&lead.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewValidationFailedError("referenced branch, user or lookup value does not exist")
		}
		return apperrors.NewAppError(500, "failed to save lead "+lead.Name, err)
	}
	return nil
}

func (r *PgxLeadRepository) UpdateLeadInTx(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error {
	result, err := tx.Exec(ctx, `
		UPDATE leads
		SET name = $1, phone = $2, email = $3,
		    assigned_user_id = $4, lead_stage_id = $5, lead_source_id = $6, lead_type_id = $7,
		    customer_type_id = $8, product_id = $9, estimated_value = $10, start_time = $11, notes = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE id = $15 AND branch_id = $16;
	`,
		lead.Name, lead.Phone, lead.Email,
		lead.AssignedUserID, lead.LeadStageID, lead.LeadSourceID, lead.LeadTypeID,
		lead.CustomerTypeID, lead.ProductID, lead.EstimatedValue, lead.StartTime, lead.Notes,
		lead.LastUpdatedAt, lead.LastUpdatedBy, lead.ID, lead.BranchID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return apperrors.NewValidationFailedError("referenced user or lookup value does not exist")
		}
		return apperrors.NewAppError(500, "failed to update lead", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("lead not found")
	}
	return nil
}

func (r *PgxLeadRepository) DeleteLeadInTx(ctx context.Context, tx pgx.Tx, leadID, branchID int64) error {
	result, err := tx.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND branch_id = $2;`, leadID, branchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete lead", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("lead not found")
	}
	return nil
}
