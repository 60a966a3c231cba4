package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
)

// BusinessService manages top-level tenants.
type BusinessService struct {
	BaseService
	branchRepo portsrepo.BranchRepositoryWithTx
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(br portsrepo.BranchRepositoryWithTx) portssvc.BusinessSvcFacade {
	return &BusinessService{branchRepo: br}
}

var _ portssvc.BusinessSvcFacade = (*BusinessService)(nil)

// CreateBusiness creates a top-level tenant.
func (s *BusinessService) CreateBusiness(ctx context.Context, name, email, phone string, actorID int64) (*domain.Business, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("business name is required")
	}

	now := time.Now()
	business := domain.Business{
		Name:  name,
		Email: email,
		Phone: phone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.branchRepo.SaveBusiness(ctx, &business); err != nil {
		s.LogError(ctx, err, "Failed to save business", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Business created", slog.Int64("business_id", business.ID))
	return &business, nil
}

// GetBusiness retrieves a business by ID.
func (s *BusinessService) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	return s.branchRepo.FindBusinessByID(ctx, businessID)
}

// ListBusinesses lists businesses with pagination.
func (s *BusinessService) ListBusinesses(ctx context.Context, limit, offset int) ([]domain.Business, error) {
	return s.branchRepo.ListBusinesses(ctx, limit, offset)
}

// BranchService manages branches. Creating a branch seeds its Super Admin
// role, grants that role the full permission catalog, and assigns the creator
// to it, all in one transaction so a branch can never exist without an
// administrator.
type BranchService struct {
	BaseService
	branchRepo     portsrepo.BranchRepositoryWithTx
	roleRepo       portsrepo.RoleRepositoryWithTx
	permRepo       portsrepo.PermissionReader
	membershipRepo portsrepo.MembershipRepositoryWithTx
}

// NewBranchService creates a new BranchService.
func NewBranchService(br portsrepo.BranchRepositoryWithTx, rr portsrepo.RoleRepositoryWithTx, pr portsrepo.PermissionReader, mr portsrepo.MembershipRepositoryWithTx) portssvc.BranchSvcFacade {
	return &BranchService{branchRepo: br, roleRepo: rr, permRepo: pr, membershipRepo: mr}
}

var _ portssvc.BranchSvcFacade = (*BranchService)(nil)

// CreateBranch creates a branch with its seeded Super Admin role and creator
// membership.
func (s *BranchService) CreateBranch(ctx context.Context, businessID int64, name, address string, creatorID int64) (*domain.Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("branch name is required")
	}
	if _, err := s.branchRepo.FindBusinessByID(ctx, businessID); err != nil {
		return nil, err
	}

	catalog, err := s.permRepo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	tx, err := s.branchRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.branchRepo.Rollback(ctx, tx)

	branch := domain.Branch{
		BusinessID:  businessID,
		Name:        name,
		Address:     address,
		AuditFields: audit,
	}
	if err := s.branchRepo.SaveBranchInTx(ctx, tx, &branch); err != nil {
		s.LogError(ctx, err, "Failed to save branch", slog.Int64("business_id", businessID))
		return nil, err
	}

	role := domain.Role{
		BranchID:    branch.ID,
		Name:        domain.SuperAdminRoleName,
		AuditFields: audit,
	}
	if err := s.roleRepo.SaveRoleInTx(ctx, tx, &role); err != nil {
		s.LogError(ctx, err, "Failed to seed admin role", slog.Int64("branch_id", branch.ID))
		return nil, err
	}
	if len(catalog) > 0 {
		if err := s.roleRepo.AddGrantsInTx(ctx, tx, role.ID, permissionIDs(catalog)); err != nil {
			s.LogError(ctx, err, "Failed to grant catalog to admin role", slog.Int64("role_id", role.ID))
			return nil, err
		}
	}

	membership := domain.Membership{
		UserID:   creatorID,
		BranchID: branch.ID,
		RoleID:   role.ID,
	}
	if err := s.membershipRepo.UpsertMembershipInTx(ctx, tx, &membership); err != nil {
		s.LogError(ctx, err, "Failed to assign creator to admin role", slog.Int64("branch_id", branch.ID))
		return nil, err
	}

	if err := s.branchRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit branch creation: %w", err)
	}
	s.LogInfo(ctx, "Branch created", slog.Int64("branch_id", branch.ID), slog.Int64("business_id", businessID), slog.Int64("admin_role_id", role.ID))
	return &branch, nil
}

// GetBranch retrieves a branch by ID.
func (s *BranchService) GetBranch(ctx context.Context, branchID int64) (*domain.Branch, error) {
	return s.branchRepo.FindBranchByID(ctx, branchID)
}

// ListBranches lists a business's branches.
func (s *BranchService) ListBranches(ctx context.Context, businessID int64) ([]domain.Branch, error) {
	return s.branchRepo.ListBranchesByBusiness(ctx, businessID)
}
