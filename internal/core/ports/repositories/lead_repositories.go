package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// LeadReader defines read operations for leads.
type LeadReader interface {
	FindLeadByID(ctx context.Context, leadID, branchID int64) (*domain.Lead, error)
	ListLeadsByBranch(ctx context.Context, branchID int64, limit, offset int) ([]domain.Lead, error)
}

// LeadWriter defines lead mutations. Create/update/delete take an explicit
// transaction so the activity-log write shares their fate.
type LeadWriter interface {
	SaveLeadInTx(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error
	UpdateLeadInTx(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error
	DeleteLeadInTx(ctx context.Context, tx pgx.Tx, leadID, branchID int64) error
}

// LeadRepositoryFacade combines lead reads and writes.
type LeadRepositoryFacade interface {
	LeadReader
	LeadWriter
}

// LeadRepositoryWithTx adds transaction control to the facade.
type LeadRepositoryWithTx interface {
	LeadRepositoryFacade
	TransactionManager
}
