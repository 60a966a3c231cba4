package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// BusinessReader defines read operations for businesses.
type BusinessReader interface {
	FindBusinessByID(ctx context.Context, businessID int64) (*domain.Business, error)
	ListBusinesses(ctx context.Context, limit, offset int) ([]domain.Business, error)
}

// BusinessWriter defines write operations for businesses.
type BusinessWriter interface {
	SaveBusiness(ctx context.Context, business *domain.Business) error
	UpdateBusiness(ctx context.Context, business *domain.Business) error
	DeleteBusiness(ctx context.Context, businessID int64) error
}

// BranchReader defines read operations for branches.
type BranchReader interface {
	FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error)
	ListBranchesByBusiness(ctx context.Context, businessID int64) ([]domain.Branch, error)
}

// BranchWriter defines write operations for branches. Branch creation runs in
// a transaction shared with the seeded role and memberships.
type BranchWriter interface {
	SaveBranchInTx(ctx context.Context, tx pgx.Tx, branch *domain.Branch) error
	UpdateBranch(ctx context.Context, branch *domain.Branch) error
	DeleteBranch(ctx context.Context, branchID int64) error
}

// BranchRepositoryFacade combines business and branch operations.
type BranchRepositoryFacade interface {
	BusinessReader
	BusinessWriter
	BranchReader
	BranchWriter
}

// BranchRepositoryWithTx adds transaction control to the facade.
type BranchRepositoryWithTx interface {
	BranchRepositoryFacade
	TransactionManager
}
