package dto

import "github.com/nexacrm/crm_backend/internal/core/domain"

// CreateRoleRequest creates a role inside the caller's authorized branch.
type CreateRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateRoleRequest renames a role.
type UpdateRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

// ModuleActionsRequest selects permissions by (module, actions). Omitting
// actions selects the full allowed set for the module.
type ModuleActionsRequest struct {
	Module  string   `json:"module" binding:"required"`
	Actions []string `json:"actions"`
}

// GrantRequest is the mixed grant-selection input: explicit permission IDs,
// module/action descriptors, or both.
type GrantRequest struct {
	PermissionIDs []int64                `json:"permission_ids"`
	Modules       []ModuleActionsRequest `json:"modules"`
}

// SetGrantsRequest replaces a role's grants wholesale with the given IDs. An
// empty selection is valid and clears every grant.
type SetGrantsRequest struct {
	PermissionIDs []int64 `json:"permission_ids"`
}

// GrantIDsRequest is the explicit-ID variant used by append/remove.
type GrantIDsRequest struct {
	PermissionIDs []int64 `json:"permission_ids" binding:"required"`
}

// RoleResponse is the wire shape of a role.
type RoleResponse struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branch_id"`
	Name     string `json:"name"`
}

// ToRoleResponse converts a domain role to its wire shape.
func ToRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{ID: r.ID, BranchID: r.BranchID, Name: r.Name}
}

// ModuleGrantsResponse is one module's granted actions and permission IDs.
type ModuleGrantsResponse struct {
	Module        string   `json:"module"`
	Actions       []string `json:"actions"`
	PermissionIDs []int64  `json:"permission_ids"`
}

// RoleGrantsResponse is a role's grants grouped by module, module ascending.
type RoleGrantsResponse struct {
	RoleID  int64                  `json:"role_id"`
	Modules []ModuleGrantsResponse `json:"modules"`
}

// ToRoleGrantsResponse converts grouped domain grants to the wire shape.
func ToRoleGrantsResponse(roleID int64, groups []domain.ModuleGrants) RoleGrantsResponse {
	modules := make([]ModuleGrantsResponse, len(groups))
	for i, g := range groups {
		actions := make([]string, len(g.Actions))
		for j, a := range g.Actions {
			actions[j] = string(a)
		}
		modules[i] = ModuleGrantsResponse{
			Module:        g.Module,
			Actions:       actions,
			PermissionIDs: g.PermissionIDs,
		}
	}
	return RoleGrantsResponse{RoleID: roleID, Modules: modules}
}
