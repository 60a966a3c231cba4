package services

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// AuthorizationSvcFacade computes effective permissions for (user, branch).
type AuthorizationSvcFacade interface {
	// ResolvePermissions follows membership → role → grants and returns the
	// union as "module:action" codes. No membership yields an empty set, never
	// an error: callers interpret empty as forbidden.
	ResolvePermissions(ctx context.Context, userID, branchID int64) (domain.PermissionSet, error)

	// RequirePermission resolves and checks one (module, action); a missing
	// permission fails with a Forbidden error naming the missing code.
	RequirePermission(ctx context.Context, userID, branchID int64, module string, action domain.PermissionAction) error
}
