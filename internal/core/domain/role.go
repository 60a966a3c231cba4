package domain

// SuperAdminRoleName is the role seeded for every new branch.
const SuperAdminRoleName = "Super Admin"

// Role belongs to exactly one branch. Names are free text and need not be
// unique across branches.
type Role struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branchID"`
	Name     string `json:"name"`
	AuditFields
}

// RoleGrant is a role↔permission join row; unique on (RoleID, PermissionID).
type RoleGrant struct {
	RoleID       int64 `json:"roleID"`
	PermissionID int64 `json:"permissionID"`
}

// ModuleGrants describes a role's grants within a single module, as returned by
// the grouped grant listing: the granted actions and their permission IDs.
type ModuleGrants struct {
	Module        string             `json:"module"`
	Actions       []PermissionAction `json:"actions"`
	PermissionIDs []int64            `json:"permissionIDs"`
}
