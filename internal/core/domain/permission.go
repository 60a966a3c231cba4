package domain

import "fmt"

// PermissionAction defines the set of actions that can be granted on a module.
type PermissionAction string

const (
	ActionCreate PermissionAction = "create"
	ActionUpdate PermissionAction = "update"
	ActionDelete PermissionAction = "delete"
	ActionView   PermissionAction = "view"
	ActionAccess PermissionAction = "access"
)

// AllowedActions lists every grantable action, in the order the catalog seeds them.
var AllowedActions = []PermissionAction{
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionView,
	ActionAccess,
}

// IsAllowedAction reports whether a is one of the grantable actions.
func IsAllowedAction(a PermissionAction) bool {
	for _, allowed := range AllowedActions {
		if a == allowed {
			return true
		}
	}
	return false
}

// Permission is an immutable (module, action) pair; unique per pair.
type Permission struct {
	ID     int64            `json:"id"`
	Module string           `json:"module"`
	Action PermissionAction `json:"action"`
}

// Code returns the canonical "module:action" permission code.
func (p Permission) Code() string {
	return PermissionCode(p.Module, p.Action)
}

// PermissionCode formats a module and action as the canonical permission code.
func PermissionCode(module string, action PermissionAction) string {
	return fmt.Sprintf("%s:%s", module, action)
}

// PermissionSet is the effective permission set of a user in a branch,
// keyed by "module:action" codes. The empty set means "forbidden", not "error".
type PermissionSet map[string]struct{}

// Has reports whether the set contains the given module/action pair.
func (s PermissionSet) Has(module string, action PermissionAction) bool {
	_, ok := s[PermissionCode(module, action)]
	return ok
}
