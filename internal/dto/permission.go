package dto

import "github.com/nexacrm/crm_backend/internal/core/domain"

// CreateModuleRequest creates one Permission row per allowed action for each
// named module. A single module or an array is accepted.
type CreateModuleRequest struct {
	Module  string   `json:"module"`
	Modules []string `json:"modules"`
}

// ModuleNames normalizes the single/array forms into one list.
func (r CreateModuleRequest) ModuleNames() []string {
	names := make([]string, 0, len(r.Modules)+1)
	if r.Module != "" {
		names = append(names, r.Module)
	}
	names = append(names, r.Modules...)
	return names
}

// RenameModuleRequest renames every permission row of a module.
type RenameModuleRequest struct {
	Module    string `json:"module" binding:"required"`
	NewModule string `json:"new_module" binding:"required"`
}

// PatchModuleActionsRequest adds and removes actions for one module in a
// single call. An action present in both lists is treated as a removal.
type PatchModuleActionsRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// PermissionResponse is the wire shape of a catalog row.
type PermissionResponse struct {
	ID     int64  `json:"id"`
	Module string `json:"module"`
	Action string `json:"action"`
}

// ToPermissionResponse converts a domain permission to its wire shape.
func ToPermissionResponse(p domain.Permission) PermissionResponse {
	return PermissionResponse{ID: p.ID, Module: p.Module, Action: string(p.Action)}
}

// ToPermissionResponses converts a slice of domain permissions.
func ToPermissionResponses(perms []domain.Permission) []PermissionResponse {
	out := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		out[i] = ToPermissionResponse(p)
	}
	return out
}

// ModulePatchResult reports full before/after diagnostics for a patch call
// instead of failing silently.
type ModulePatchResult struct {
	Module          string               `json:"module"`
	Added           []PermissionResponse `json:"added"`
	SkippedExisting []string             `json:"skipped_existing"`
	RemovedCount    int64                `json:"removed_count"`
	NotFoundRemoved []string             `json:"not_found_removals"`
}
