package services

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// CatalogReaderSvc defines read operations against the permission catalog.
type CatalogReaderSvc interface {
	// ListCatalog returns the whole catalog sorted by module then action.
	ListCatalog(ctx context.Context) ([]domain.Permission, error)

	// ListModulePermissions returns one module's permissions, erroring with
	// not-found when the module has no rows.
	ListModulePermissions(ctx context.Context, module string) ([]domain.Permission, error)
}

// CatalogWriterSvc defines permission catalog maintenance.
type CatalogWriterSvc interface {
	// CreateModules creates one permission row per allowed action for each
	// module; pairs that already exist are skipped, not errors.
	CreateModules(ctx context.Context, modules []string, actorID int64) ([]domain.Permission, error)

	// RenameModule renames every permission row of oldModule to newModule.
	// Overlapping (module, action) pairs under the new name are a conflict and
	// leave the original rows untouched.
	RenameModule(ctx context.Context, oldModule, newModule string, actorID int64) (int64, error)

	// RemoveModule deletes all of a module's permission rows, purging every
	// grant row referencing them first, in one transaction.
	RemoveModule(ctx context.Context, module string, actorID int64) error

	// RemoveAction deletes a single (module, action) permission the same way.
	RemoveAction(ctx context.Context, module string, action domain.PermissionAction, actorID int64) error

	// PatchModuleActions adds and removes actions for a module in one call.
	// An action in both lists is treated as a removal; already-present adds are
	// skipped and reported back.
	PatchModuleActions(ctx context.Context, module string, add, remove []string, actorID int64) (*dto.ModulePatchResult, error)
}

// CatalogSvcFacade combines catalog reads and maintenance.
type CatalogSvcFacade interface {
	CatalogReaderSvc
	CatalogWriterSvc
}
