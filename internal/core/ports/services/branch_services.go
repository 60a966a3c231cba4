package services

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// BusinessSvcFacade manages top-level tenants.
type BusinessSvcFacade interface {
	CreateBusiness(ctx context.Context, name, email, phone string, actorID int64) (*domain.Business, error)
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)
	ListBusinesses(ctx context.Context, limit, offset int) ([]domain.Business, error)
}

// BranchSvcFacade manages branches. CreateBranch seeds the branch's Super
// Admin role and assigns it to the creator in the same transaction.
type BranchSvcFacade interface {
	CreateBranch(ctx context.Context, businessID int64, name, address string, creatorID int64) (*domain.Branch, error)
	GetBranch(ctx context.Context, branchID int64) (*domain.Branch, error)
	ListBranches(ctx context.Context, businessID int64) ([]domain.Branch, error)
}

// MembershipSvcFacade manages user-branch-role assignments. Assigning a role
// to a user who already holds one in the branch replaces it.
type MembershipSvcFacade interface {
	AssignRole(ctx context.Context, userID, branchID, roleID int64, actorID int64) (*domain.Membership, error)
	RemoveMember(ctx context.Context, userID, branchID int64) error
	ListBranchMembers(ctx context.Context, branchID int64) ([]domain.BranchMember, error)
}
