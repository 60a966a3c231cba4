package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// PermissionReader defines read operations against the permission catalog.
type PermissionReader interface {
	// FindPermissionsByIDs returns the permissions for the given IDs, in ID order.
	// Missing IDs are simply absent from the result; the caller decides whether
	// that is an error.
	FindPermissionsByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error)

	// FindPermissionsByModule returns all permissions of one module.
	FindPermissionsByModule(ctx context.Context, module string) ([]domain.Permission, error)

	// FindPermissionByModuleAction returns the permission for an exact (module, action) pair.
	FindPermissionByModuleAction(ctx context.Context, module string, action domain.PermissionAction) (*domain.Permission, error)

	// ListPermissions returns the whole catalog sorted by module then action.
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
}

// PermissionWriter defines catalog maintenance operations. Mutations that span
// multiple rows take an explicit transaction.
type PermissionWriter interface {
	// InsertPermissionsInTx bulk-inserts (module, action) rows, skipping pairs that
	// already exist, and returns the rows that were actually inserted.
	InsertPermissionsInTx(ctx context.Context, tx pgx.Tx, module string, actions []domain.PermissionAction) ([]domain.Permission, error)

	// RenameModuleInTx renames every permission row of oldModule to newModule.
	// A unique violation (overlapping pairs under the new name) surfaces as a
	// conflict error and leaves the original rows untouched.
	RenameModuleInTx(ctx context.Context, tx pgx.Tx, oldModule, newModule string) (int64, error)

	// DeletePermissionsInTx deletes permission rows by ID. Grant rows referencing
	// them must already have been purged.
	DeletePermissionsInTx(ctx context.Context, tx pgx.Tx, ids []int64) error
}

// PermissionRepositoryFacade combines catalog reads and writes.
type PermissionRepositoryFacade interface {
	PermissionReader
	PermissionWriter
}

// PermissionRepositoryWithTx adds transaction control to the facade.
type PermissionRepositoryWithTx interface {
	PermissionRepositoryFacade
	TransactionManager
}
