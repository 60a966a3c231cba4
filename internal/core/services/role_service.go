package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
)

// RoleService handles branch-scoped role lifecycle.
type RoleService struct {
	BaseService
	roleRepo   portsrepo.RoleRepositoryWithTx
	branchRepo portsrepo.BranchReader
}

// NewRoleService creates a new RoleService.
func NewRoleService(rr portsrepo.RoleRepositoryWithTx, br portsrepo.BranchReader) portssvc.RoleSvcFacade {
	return &RoleService{roleRepo: rr, branchRepo: br}
}

var _ portssvc.RoleSvcFacade = (*RoleService)(nil)

// CreateRole creates a role inside a branch.
func (s *RoleService) CreateRole(ctx context.Context, branchID int64, name string, actorID int64) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("role name is required")
	}
	if _, err := s.branchRepo.FindBranchByID(ctx, branchID); err != nil {
		return nil, err
	}

	now := time.Now()
	role := domain.Role{
		BranchID: branchID,
		Name:     name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.roleRepo.SaveRole(ctx, &role); err != nil {
		s.LogError(ctx, err, "Failed to save role", slog.Int64("branch_id", branchID), slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Role created", slog.Int64("role_id", role.ID), slog.Int64("branch_id", branchID))
	return &role, nil
}

// GetRole retrieves a role by ID within the caller's authorized branch.
func (s *RoleService) GetRole(ctx context.Context, roleID, branchID int64) (*domain.Role, error) {
	return s.findBranchRole(ctx, roleID, branchID)
}

// ListBranchRoles lists a branch's roles, name ascending.
func (s *RoleService) ListBranchRoles(ctx context.Context, branchID int64) ([]domain.Role, error) {
	return s.roleRepo.ListRolesByBranch(ctx, branchID)
}

// RenameRole renames a role within the caller's authorized branch.
func (s *RoleService) RenameRole(ctx context.Context, roleID, branchID int64, name string, actorID int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationFailedError("role name is required")
	}
	if _, err := s.findBranchRole(ctx, roleID, branchID); err != nil {
		return err
	}
	if err := s.roleRepo.UpdateRoleName(ctx, roleID, name, actorID); err != nil {
		s.LogError(ctx, err, "Failed to rename role", slog.Int64("role_id", roleID))
		return err
	}
	return nil
}

// DeleteRole removes a role. The seeded Super Admin role of a branch cannot be
// deleted, otherwise a branch could lock out all of its administrators.
func (s *RoleService) DeleteRole(ctx context.Context, roleID, branchID int64) error {
	role, err := s.findBranchRole(ctx, roleID, branchID)
	if err != nil {
		return err
	}
	if role.Name == domain.SuperAdminRoleName {
		return apperrors.NewConflictError("the Super Admin role cannot be deleted")
	}
	if err := s.roleRepo.DeleteRole(ctx, roleID); err != nil {
		s.LogError(ctx, err, "Failed to delete role", slog.Int64("role_id", roleID))
		return err
	}
	s.LogInfo(ctx, "Role deleted", slog.Int64("role_id", roleID))
	return nil
}

// findBranchRole loads the role and checks it belongs to the caller's
// authorized branch; roles of other branches are reported as not found.
func (s *RoleService) findBranchRole(ctx context.Context, roleID, branchID int64) (*domain.Role, error) {
	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.BranchID != branchID {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	return role, nil
}
