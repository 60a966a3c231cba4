package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// GrantService manages a role's permission grants. Every mutation resolves and
// validates its whole input up front, then applies the batch in one
// transaction, so a request either lands completely or not at all.
type GrantService struct {
	BaseService
	roleRepo portsrepo.RoleRepositoryWithTx
	permRepo portsrepo.PermissionRepositoryWithTx
}

// NewGrantService creates a new GrantService.
func NewGrantService(rr portsrepo.RoleRepositoryWithTx, pr portsrepo.PermissionRepositoryWithTx) portssvc.GrantSvcFacade {
	return &GrantService{roleRepo: rr, permRepo: pr}
}

var _ portssvc.GrantSvcFacade = (*GrantService)(nil)

// resolvePermissionIDs turns the mixed selection input into a deduplicated
// list of existing permission IDs. Any unknown ID or (module, action) pair
// fails the whole resolution before a single write happens.
func (s *GrantService) resolvePermissionIDs(ctx context.Context, req dto.GrantRequest) ([]int64, error) {
	resolved := make([]int64, 0, len(req.PermissionIDs))
	seen := make(map[int64]struct{})

	if len(req.PermissionIDs) > 0 {
		found, err := s.permRepo.FindPermissionsByIDs(ctx, req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		foundIDs := make(map[int64]struct{}, len(found))
		for _, p := range found {
			foundIDs[p.ID] = struct{}{}
		}
		for _, id := range req.PermissionIDs {
			if _, ok := foundIDs[id]; !ok {
				return nil, apperrors.NewValidationFailedError(fmt.Sprintf("permission id %d does not exist", id))
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			resolved = append(resolved, id)
		}
	}

	for _, m := range req.Modules {
		actions := make([]domain.PermissionAction, 0, len(m.Actions))
		if len(m.Actions) == 0 {
			actions = append(actions, domain.AllowedActions...)
		} else {
			for _, a := range m.Actions {
				action := domain.PermissionAction(a)
				if !domain.IsAllowedAction(action) {
					return nil, apperrors.NewValidationFailedError(fmt.Sprintf("action %s is not an allowed action", a))
				}
				actions = append(actions, action)
			}
		}
		for _, action := range actions {
			perm, err := s.permRepo.FindPermissionByModuleAction(ctx, m.Module, action)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewValidationFailedError(fmt.Sprintf("permission %s does not exist", domain.PermissionCode(m.Module, action)))
				}
				return nil, err
			}
			if _, dup := seen[perm.ID]; dup {
				continue
			}
			seen[perm.ID] = struct{}{}
			resolved = append(resolved, perm.ID)
		}
	}

	if len(resolved) == 0 {
		return nil, apperrors.NewValidationFailedError("no permissions selected")
	}
	return resolved, nil
}

// AssignPermissions adds the selected permissions to the role's grants.
// Already-granted permissions are skipped, so re-assigning is a no-op.
func (s *GrantService) AssignPermissions(ctx context.Context, roleID, branchID int64, req dto.GrantRequest) error {
	ids, err := s.resolvePermissionIDs(ctx, req)
	if err != nil {
		return err
	}
	if _, err := s.findBranchRole(ctx, roleID, branchID); err != nil {
		return err
	}
	if err := s.applyGrantDiff(ctx, roleID, ids, nil); err != nil {
		s.LogError(ctx, err, "Failed to assign permissions", slog.Int64("role_id", roleID))
		return err
	}
	s.LogInfo(ctx, "Permissions assigned", slog.Int64("role_id", roleID), slog.Int("count", len(ids)))
	return nil
}

// RevokePermissions removes the selected permissions from the role's grants.
// Revoking a non-granted permission is a no-op.
func (s *GrantService) RevokePermissions(ctx context.Context, roleID, branchID int64, req dto.GrantRequest) error {
	ids, err := s.resolvePermissionIDs(ctx, req)
	if err != nil {
		return err
	}
	if _, err := s.findBranchRole(ctx, roleID, branchID); err != nil {
		return err
	}
	if err := s.applyGrantDiff(ctx, roleID, nil, ids); err != nil {
		s.LogError(ctx, err, "Failed to revoke permissions", slog.Int64("role_id", roleID))
		return err
	}
	s.LogInfo(ctx, "Permissions revoked", slog.Int64("role_id", roleID), slog.Int("count", len(ids)))
	return nil
}

// SetPermissions replaces the role's grants with exactly the given IDs by
// applying the symmetric difference against the current grant set: missing
// IDs are added, extra IDs removed, shared IDs left untouched. An empty list
// is a valid desired state and clears every grant the role holds.
func (s *GrantService) SetPermissions(ctx context.Context, roleID, branchID int64, permissionIDs []int64) error {
	var desired []int64
	if len(permissionIDs) > 0 {
		var err error
		desired, err = s.resolvePermissionIDs(ctx, dto.GrantRequest{PermissionIDs: permissionIDs})
		if err != nil {
			return err
		}
	}
	if _, err := s.findBranchRole(ctx, roleID, branchID); err != nil {
		return err
	}

	current, err := s.roleRepo.ListGrantedPermissionIDs(ctx, roleID)
	if err != nil {
		return err
	}
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	var toAdd, toRemove []int64
	for _, id := range desired {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}

	if err := s.applyGrantDiff(ctx, roleID, toAdd, toRemove); err != nil {
		s.LogError(ctx, err, "Failed to set permissions", slog.Int64("role_id", roleID))
		return err
	}
	s.LogInfo(ctx, "Permissions replaced", slog.Int64("role_id", roleID), slog.Int("added", len(toAdd)), slog.Int("removed", len(toRemove)))
	return nil
}

// AppendPermissions is Assign restricted to explicit IDs.
func (s *GrantService) AppendPermissions(ctx context.Context, roleID, branchID int64, permissionIDs []int64) error {
	return s.AssignPermissions(ctx, roleID, branchID, dto.GrantRequest{PermissionIDs: permissionIDs})
}

// RemovePermissions is Revoke restricted to explicit IDs.
func (s *GrantService) RemovePermissions(ctx context.Context, roleID, branchID int64, permissionIDs []int64) error {
	return s.RevokePermissions(ctx, roleID, branchID, dto.GrantRequest{PermissionIDs: permissionIDs})
}

// ListRoleGrants returns the role's grants grouped by module, module ascending
// then action ascending within each group.
func (s *GrantService) ListRoleGrants(ctx context.Context, roleID, branchID int64) ([]domain.ModuleGrants, error) {
	if _, err := s.findBranchRole(ctx, roleID, branchID); err != nil {
		return nil, err
	}
	perms, err := s.roleRepo.ListGrantedPermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.ModuleGrants, 0)
	for _, p := range perms {
		if len(groups) == 0 || groups[len(groups)-1].Module != p.Module {
			groups = append(groups, domain.ModuleGrants{Module: p.Module})
		}
		g := &groups[len(groups)-1]
		g.Actions = append(g.Actions, p.Action)
		g.PermissionIDs = append(g.PermissionIDs, p.ID)
	}
	return groups, nil
}

// findBranchRole loads the role and checks it belongs to the caller's
// authorized branch. A role living in another branch is reported as not
// found so its existence leaks nothing across tenants.
func (s *GrantService) findBranchRole(ctx context.Context, roleID, branchID int64) (*domain.Role, error) {
	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.BranchID != branchID {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	return role, nil
}

// applyGrantDiff adds and removes grant rows in one transaction.
func (s *GrantService) applyGrantDiff(ctx context.Context, roleID int64, toAdd, toRemove []int64) error {
	tx, err := s.roleRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.roleRepo.Rollback(ctx, tx)

	if len(toAdd) > 0 {
		if err := s.roleRepo.AddGrantsInTx(ctx, tx, roleID, toAdd); err != nil {
			return err
		}
	}
	if len(toRemove) > 0 {
		if err := s.roleRepo.RemoveGrantsInTx(ctx, tx, roleID, toRemove); err != nil {
			return err
		}
	}
	return s.roleRepo.Commit(ctx, tx)
}
