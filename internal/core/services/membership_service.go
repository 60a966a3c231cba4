package services

import (
	"context"
	"log/slog"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
)

// MembershipService manages user-branch-role assignments. A user holds at most
// one role per branch: assigning a new role replaces the old one.
type MembershipService struct {
	BaseService
	membershipRepo portsrepo.MembershipRepositoryWithTx
	roleRepo       portsrepo.RoleReader
	userRepo       portsrepo.UserReader
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(mr portsrepo.MembershipRepositoryWithTx, rr portsrepo.RoleReader, ur portsrepo.UserReader) portssvc.MembershipSvcFacade {
	return &MembershipService{membershipRepo: mr, roleRepo: rr, userRepo: ur}
}

var _ portssvc.MembershipSvcFacade = (*MembershipService)(nil)

// AssignRole gives the user a role in the branch, replacing any role they
// already hold there.
func (s *MembershipService) AssignRole(ctx context.Context, userID, branchID, roleID int64, actorID int64) (*domain.Membership, error) {
	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.BranchID != branchID {
		return nil, apperrors.NewValidationFailedError("role belongs to a different branch")
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	membership := domain.Membership{
		UserID:   userID,
		BranchID: branchID,
		RoleID:   roleID,
	}
	if err := s.membershipRepo.UpsertMembership(ctx, &membership); err != nil {
		s.LogError(ctx, err, "Failed to upsert membership", slog.Int64("user_id", userID), slog.Int64("branch_id", branchID))
		return nil, err
	}
	s.LogInfo(ctx, "Role assigned",
		slog.Int64("user_id", userID),
		slog.Int64("branch_id", branchID),
		slog.Int64("role_id", roleID),
		slog.Int64("actor_id", actorID))
	return &membership, nil
}

// RemoveMember removes a user from a branch.
func (s *MembershipService) RemoveMember(ctx context.Context, userID, branchID int64) error {
	if err := s.membershipRepo.DeleteMembership(ctx, userID, branchID); err != nil {
		s.LogError(ctx, err, "Failed to remove member", slog.Int64("user_id", userID), slog.Int64("branch_id", branchID))
		return err
	}
	return nil
}

// ListBranchMembers lists a branch's members with display data.
func (s *MembershipService) ListBranchMembers(ctx context.Context, branchID int64) ([]domain.BranchMember, error) {
	return s.membershipRepo.ListMembershipsByBranch(ctx, branchID)
}
