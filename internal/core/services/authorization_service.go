package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
)

// AuthorizationService computes effective permissions by following
// membership → role → grants.
type AuthorizationService struct {
	BaseService
	membershipRepo portsrepo.MembershipReader
	roleRepo       portsrepo.RoleReader
}

// NewAuthorizationService creates a new AuthorizationService.
func NewAuthorizationService(mr portsrepo.MembershipReader, rr portsrepo.RoleReader) portssvc.AuthorizationSvcFacade {
	return &AuthorizationService{membershipRepo: mr, roleRepo: rr}
}

var _ portssvc.AuthorizationSvcFacade = (*AuthorizationService)(nil)

// ResolvePermissions returns the user's effective permission set in a branch
// as "module:action" codes. A user with no membership gets an empty set, not
// an error: the empty set means forbidden.
func (s *AuthorizationService) ResolvePermissions(ctx context.Context, userID, branchID int64) (domain.PermissionSet, error) {
	membership, err := s.membershipRepo.FindMembership(ctx, userID, branchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.PermissionSet{}, nil
		}
		s.LogError(ctx, err, "Failed to look up membership", slog.Int64("user_id", userID), slog.Int64("branch_id", branchID))
		return nil, err
	}

	perms, err := s.roleRepo.ListGrantedPermissions(ctx, membership.RoleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list role grants", slog.Int64("role_id", membership.RoleID))
		return nil, err
	}

	set := make(domain.PermissionSet, len(perms))
	for _, p := range perms {
		set[p.Code()] = struct{}{}
	}
	return set, nil
}

// RequirePermission resolves and checks a single (module, action). The
// returned Forbidden error names the missing permission code.
func (s *AuthorizationService) RequirePermission(ctx context.Context, userID, branchID int64, module string, action domain.PermissionAction) error {
	set, err := s.ResolvePermissions(ctx, userID, branchID)
	if err != nil {
		return err
	}
	if !set.Has(module, action) {
		code := domain.PermissionCode(module, action)
		s.LogDebug(ctx, "Permission denied", slog.Int64("user_id", userID), slog.Int64("branch_id", branchID), slog.String("permission", code))
		return apperrors.NewForbiddenError(fmt.Sprintf("missing permission %s", code))
	}
	return nil
}
