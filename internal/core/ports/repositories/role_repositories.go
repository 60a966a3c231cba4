package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// RoleReader defines read operations for roles and their grants.
type RoleReader interface {
	// FindRoleByID retrieves a role by its ID.
	FindRoleByID(ctx context.Context, roleID int64) (*domain.Role, error)

	// ListRolesByBranch retrieves all roles belonging to a branch, name ascending.
	ListRolesByBranch(ctx context.Context, branchID int64) ([]domain.Role, error)

	// ListGrantedPermissionIDs returns the permission IDs currently granted to a role.
	ListGrantedPermissionIDs(ctx context.Context, roleID int64) ([]int64, error)

	// ListGrantedPermissions returns the full permission rows granted to a role,
	// sorted by module then action.
	ListGrantedPermissions(ctx context.Context, roleID int64) ([]domain.Permission, error)
}

// RoleWriter defines role lifecycle operations.
type RoleWriter interface {
	// SaveRole persists a new role and fills in its generated ID.
	SaveRole(ctx context.Context, role *domain.Role) error

	// SaveRoleInTx persists a new role inside an existing transaction.
	SaveRoleInTx(ctx context.Context, tx pgx.Tx, role *domain.Role) error

	// UpdateRoleName renames a role.
	UpdateRoleName(ctx context.Context, roleID int64, name string, updatedBy int64) error

	// DeleteRole removes a role; memberships and grants cascade at the schema level.
	DeleteRole(ctx context.Context, roleID int64) error
}

// GrantWriter defines bulk grant mutations. Every method takes an explicit
// transaction so a whole assign/revoke/set batch lands or rolls back together.
type GrantWriter interface {
	// AddGrantsInTx inserts (roleID, permissionID) rows, ignoring duplicates.
	AddGrantsInTx(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error

	// RemoveGrantsInTx deletes (roleID, permissionID) rows; absent rows are a no-op.
	RemoveGrantsInTx(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error

	// PurgeGrantsByPermissionIDsInTx deletes every grant row, across all roles,
	// that references one of the given permission IDs. Used before catalog deletes
	// so no foreign key is left dangling.
	PurgeGrantsByPermissionIDsInTx(ctx context.Context, tx pgx.Tx, permissionIDs []int64) error

	// CountGrantsByPermissionIDs counts remaining grant rows referencing the IDs.
	CountGrantsByPermissionIDs(ctx context.Context, permissionIDs []int64) (int64, error)
}

// RoleRepositoryFacade combines role reads, writes and grant mutations.
type RoleRepositoryFacade interface {
	RoleReader
	RoleWriter
	GrantWriter
}

// RoleRepositoryWithTx adds transaction control to the facade.
type RoleRepositoryWithTx interface {
	RoleRepositoryFacade
	TransactionManager
}
