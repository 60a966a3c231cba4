package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// CatalogService maintains the permission catalog. Deletions purge grant rows
// referencing the doomed permission IDs before removing the rows themselves,
// inside one transaction, so no foreign key is ever left dangling.
type CatalogService struct {
	BaseService
	permRepo portsrepo.PermissionRepositoryWithTx
	roleRepo portsrepo.RoleRepositoryWithTx
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(pr portsrepo.PermissionRepositoryWithTx, rr portsrepo.RoleRepositoryWithTx) portssvc.CatalogSvcFacade {
	return &CatalogService{permRepo: pr, roleRepo: rr}
}

var _ portssvc.CatalogSvcFacade = (*CatalogService)(nil)

// ListCatalog returns the whole catalog sorted by module then action.
func (s *CatalogService) ListCatalog(ctx context.Context) ([]domain.Permission, error) {
	return s.permRepo.ListPermissions(ctx)
}

// ListModulePermissions returns one module's permissions.
func (s *CatalogService) ListModulePermissions(ctx context.Context, module string) ([]domain.Permission, error) {
	perms, err := s.permRepo.FindPermissionsByModule(ctx, module)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("module %s has no permissions", module))
	}
	return perms, nil
}

// CreateModules creates one permission row per allowed action for each module.
// Pairs that already exist are skipped, so re-creating a module is a no-op.
func (s *CatalogService) CreateModules(ctx context.Context, modules []string, actorID int64) ([]domain.Permission, error) {
	cleaned := make([]string, 0, len(modules))
	for _, m := range modules {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, apperrors.NewValidationFailedError("module name must not be empty")
		}
		cleaned = append(cleaned, m)
	}
	if len(cleaned) == 0 {
		return nil, apperrors.NewValidationFailedError("at least one module name is required")
	}

	tx, err := s.permRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.permRepo.Rollback(ctx, tx)

	created := make([]domain.Permission, 0, len(cleaned)*len(domain.AllowedActions))
	for _, module := range cleaned {
		inserted, err := s.permRepo.InsertPermissionsInTx(ctx, tx, module, domain.AllowedActions)
		if err != nil {
			s.LogError(ctx, err, "Failed to insert module permissions", slog.String("module", module))
			return nil, err
		}
		created = append(created, inserted...)
	}

	if err := s.permRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit permission creation: %w", err)
	}
	s.LogInfo(ctx, "Permission modules created", slog.Int("modules", len(cleaned)), slog.Int("permissions", len(created)), slog.Int64("actor_id", actorID))
	return created, nil
}

// RenameModule renames every permission row of oldModule to newModule and
// returns the number of rows renamed.
func (s *CatalogService) RenameModule(ctx context.Context, oldModule, newModule string, actorID int64) (int64, error) {
	oldModule = strings.TrimSpace(oldModule)
	newModule = strings.TrimSpace(newModule)
	if oldModule == "" || newModule == "" {
		return 0, apperrors.NewValidationFailedError("both old and new module names are required")
	}
	if oldModule == newModule {
		return 0, apperrors.NewValidationFailedError("new module name must differ from the old one")
	}

	tx, err := s.permRepo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.permRepo.Rollback(ctx, tx)

	renamed, err := s.permRepo.RenameModuleInTx(ctx, tx, oldModule, newModule)
	if err != nil {
		s.LogError(ctx, err, "Failed to rename module", slog.String("old_module", oldModule), slog.String("new_module", newModule))
		return 0, err
	}
	if renamed == 0 {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("module %s has no permissions", oldModule))
	}

	if err := s.permRepo.Commit(ctx, tx); err != nil {
		return 0, fmt.Errorf("failed to commit module rename: %w", err)
	}
	s.LogInfo(ctx, "Permission module renamed", slog.String("old_module", oldModule), slog.String("new_module", newModule), slog.Int64("rows", renamed), slog.Int64("actor_id", actorID))
	return renamed, nil
}

// RemoveModule deletes all of a module's permission rows after purging every
// grant row referencing them.
func (s *CatalogService) RemoveModule(ctx context.Context, module string, actorID int64) error {
	perms, err := s.permRepo.FindPermissionsByModule(ctx, module)
	if err != nil {
		return err
	}
	if len(perms) == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("module %s has no permissions", module))
	}
	ids := permissionIDs(perms)
	if err := s.purgeAndDelete(ctx, ids); err != nil {
		s.LogError(ctx, err, "Failed to remove module", slog.String("module", module))
		return err
	}
	s.LogInfo(ctx, "Permission module removed", slog.String("module", module), slog.Int("permissions", len(ids)), slog.Int64("actor_id", actorID))
	return nil
}

// RemoveAction deletes a single (module, action) permission the same way.
func (s *CatalogService) RemoveAction(ctx context.Context, module string, action domain.PermissionAction, actorID int64) error {
	if !domain.IsAllowedAction(action) {
		return apperrors.NewValidationFailedError(fmt.Sprintf("action %s is not an allowed action", action))
	}
	perm, err := s.permRepo.FindPermissionByModuleAction(ctx, module, action)
	if err != nil {
		return err
	}
	if err := s.purgeAndDelete(ctx, []int64{perm.ID}); err != nil {
		s.LogError(ctx, err, "Failed to remove permission", slog.String("module", module), slog.String("action", string(action)))
		return err
	}
	s.LogInfo(ctx, "Permission removed", slog.String("module", module), slog.String("action", string(action)), slog.Int64("actor_id", actorID))
	return nil
}

// PatchModuleActions adds and removes actions for a module in one call. An
// action requested in both lists is treated as a removal. The result reports
// full diagnostics instead of failing silently on skips and misses.
func (s *CatalogService) PatchModuleActions(ctx context.Context, module string, add, remove []string, actorID int64) (*dto.ModulePatchResult, error) {
	module = strings.TrimSpace(module)
	if module == "" {
		return nil, apperrors.NewValidationFailedError("module name is required")
	}
	for _, a := range append(append([]string{}, add...), remove...) {
		if !domain.IsAllowedAction(domain.PermissionAction(a)) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("action %s is not an allowed action", a))
		}
	}

	removeSet := make(map[domain.PermissionAction]struct{}, len(remove))
	for _, a := range remove {
		removeSet[domain.PermissionAction(a)] = struct{}{}
	}

	existing, err := s.permRepo.FindPermissionsByModule(ctx, module)
	if err != nil {
		return nil, err
	}
	existingByAction := make(map[domain.PermissionAction]domain.Permission, len(existing))
	for _, p := range existing {
		existingByAction[p.Action] = p
	}

	result := &dto.ModulePatchResult{
		Module:          module,
		Added:           []dto.PermissionResponse{},
		SkippedExisting: []string{},
		NotFoundRemoved: []string{},
	}

	// Remove wins over add for actions named in both lists.
	toInsert := make([]domain.PermissionAction, 0, len(add))
	seen := make(map[domain.PermissionAction]struct{}, len(add))
	for _, a := range add {
		action := domain.PermissionAction(a)
		if _, doomed := removeSet[action]; doomed {
			continue
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}
		if _, present := existingByAction[action]; present {
			result.SkippedExisting = append(result.SkippedExisting, a)
			continue
		}
		toInsert = append(toInsert, action)
	}

	removalIDs := make([]int64, 0, len(remove))
	for _, a := range remove {
		if perm, present := existingByAction[domain.PermissionAction(a)]; present {
			removalIDs = append(removalIDs, perm.ID)
		} else {
			result.NotFoundRemoved = append(result.NotFoundRemoved, a)
		}
	}

	tx, err := s.permRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.permRepo.Rollback(ctx, tx)

	if len(toInsert) > 0 {
		inserted, err := s.permRepo.InsertPermissionsInTx(ctx, tx, module, toInsert)
		if err != nil {
			return nil, err
		}
		result.Added = dto.ToPermissionResponses(inserted)
	}
	if len(removalIDs) > 0 {
		if err := s.roleRepo.PurgeGrantsByPermissionIDsInTx(ctx, tx, removalIDs); err != nil {
			return nil, err
		}
		if err := s.permRepo.DeletePermissionsInTx(ctx, tx, removalIDs); err != nil {
			return nil, err
		}
		result.RemovedCount = int64(len(removalIDs))
	}

	if err := s.permRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit module patch: %w", err)
	}
	s.LogInfo(ctx, "Permission module patched",
		slog.String("module", module),
		slog.Int("added", len(result.Added)),
		slog.Int64("removed", result.RemovedCount),
		slog.Int64("actor_id", actorID))
	return result, nil
}

// purgeAndDelete removes grant rows referencing the permission IDs, then the
// permission rows themselves, in one transaction.
func (s *CatalogService) purgeAndDelete(ctx context.Context, ids []int64) error {
	tx, err := s.permRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.permRepo.Rollback(ctx, tx)

	if err := s.roleRepo.PurgeGrantsByPermissionIDsInTx(ctx, tx, ids); err != nil {
		return err
	}
	if err := s.permRepo.DeletePermissionsInTx(ctx, tx, ids); err != nil {
		return err
	}
	return s.permRepo.Commit(ctx, tx)
}

func permissionIDs(perms []domain.Permission) []int64 {
	ids := make([]int64, len(perms))
	for i, p := range perms {
		ids[i] = p.ID
	}
	return ids
}
