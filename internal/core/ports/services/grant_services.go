package services

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// GrantSvcFacade manages a role's permission grants. Every mutation resolves
// and validates its whole input before any write (fail-fast) and applies the
// batch inside one transaction. All operations are scoped to the caller's
// authorized branch: a role belonging to another branch is reported as not
// found, never touched.
type GrantSvcFacade interface {
	// AssignPermissions adds the permissions selected by req to the role's
	// grants; already-granted permissions are skipped (idempotent).
	AssignPermissions(ctx context.Context, roleID, branchID int64, req dto.GrantRequest) error

	// RevokePermissions removes the selected permissions; revoking a
	// non-granted permission is a no-op.
	RevokePermissions(ctx context.Context, roleID, branchID int64, req dto.GrantRequest) error

	// SetPermissions replaces the role's grants with exactly the given IDs by
	// applying the symmetric difference against the current grant set. An
	// empty list clears every grant.
	SetPermissions(ctx context.Context, roleID, branchID int64, permissionIDs []int64) error

	// AppendPermissions is Assign restricted to explicit IDs.
	AppendPermissions(ctx context.Context, roleID, branchID int64, permissionIDs []int64) error

	// RemovePermissions is Revoke restricted to explicit IDs.
	RemovePermissions(ctx context.Context, roleID, branchID int64, permissionIDs []int64) error

	// ListRoleGrants returns the role's grants grouped by module, module
	// ascending then action ascending.
	ListRoleGrants(ctx context.Context, roleID, branchID int64) ([]domain.ModuleGrants, error)
}

// RoleSvcFacade manages branch-scoped roles. Lookups and mutations addressing
// a role by ID also take the caller's authorized branch and refuse roles that
// belong elsewhere.
type RoleSvcFacade interface {
	CreateRole(ctx context.Context, branchID int64, name string, actorID int64) (*domain.Role, error)
	GetRole(ctx context.Context, roleID, branchID int64) (*domain.Role, error)
	ListBranchRoles(ctx context.Context, branchID int64) ([]domain.Role, error)
	RenameRole(ctx context.Context, roleID, branchID int64, name string, actorID int64) error
	DeleteRole(ctx context.Context, roleID, branchID int64) error
}
