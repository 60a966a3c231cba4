package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// MembershipReader defines read operations for user-branch-role assignments.
type MembershipReader interface {
	// FindMembership retrieves the single membership of a user in a branch.
	FindMembership(ctx context.Context, userID, branchID int64) (*domain.Membership, error)

	// ListMembershipsByBranch retrieves all members of a branch with user and
	// role display data, user name ascending.
	ListMembershipsByBranch(ctx context.Context, branchID int64) ([]domain.BranchMember, error)

	// ListMembershipsByUser retrieves every branch membership of a user.
	ListMembershipsByUser(ctx context.Context, userID int64) ([]domain.Membership, error)
}

// MembershipWriter defines membership mutations. UpsertMembership enforces the
// one-role-per-branch invariant: assigning a role to a user who already has one
// in that branch replaces it rather than adding a second row.
type MembershipWriter interface {
	// UpsertMembership creates or replaces the user's role in a branch.
	UpsertMembership(ctx context.Context, membership *domain.Membership) error

	// UpsertMembershipInTx is UpsertMembership inside an existing transaction.
	UpsertMembershipInTx(ctx context.Context, tx pgx.Tx, membership *domain.Membership) error

	// DeleteMembership removes a user from a branch.
	DeleteMembership(ctx context.Context, userID, branchID int64) error
}

// MembershipRepositoryFacade combines membership reads and writes.
type MembershipRepositoryFacade interface {
	MembershipReader
	MembershipWriter
}

// MembershipRepositoryWithTx adds transaction control to the facade.
type MembershipRepositoryWithTx interface {
	MembershipRepositoryFacade
	TransactionManager
}
