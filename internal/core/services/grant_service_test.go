package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/core/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

type GrantServiceTestSuite struct {
	suite.Suite
	mockRoleRepo *MockRoleRepository
	mockPermRepo *MockPermissionRepository
	service      portssvc.GrantSvcFacade
}

func (suite *GrantServiceTestSuite) SetupTest() {
	suite.mockRoleRepo = new(MockRoleRepository)
	suite.mockPermRepo = new(MockPermissionRepository)
	suite.service = services.NewGrantService(suite.mockRoleRepo, suite.mockPermRepo)
}

func (suite *GrantServiceTestSuite) expectRole(roleID int64) {
	suite.mockRoleRepo.On("FindRoleByID", mock.Anything, roleID).
		Return(&domain.Role{ID: roleID, BranchID: 1, Name: "Sales Manager"}, nil).Once()
}

func (suite *GrantServiceTestSuite) expectTx() {
	suite.mockRoleRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRoleRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockRoleRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *GrantServiceTestSuite) TestAssignPermissions_MixedSelection() {
	ctx := context.Background()
	roleID := int64(42)

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{7}).
		Return([]domain.Permission{{ID: 7, Module: "Roles", Action: domain.ActionView}}, nil).Once()
	suite.mockPermRepo.On("FindPermissionByModuleAction", ctx, "Leads", domain.ActionCreate).
		Return(&domain.Permission{ID: 1, Module: "Leads", Action: domain.ActionCreate}, nil).Once()
	suite.mockPermRepo.On("FindPermissionByModuleAction", ctx, "Leads", domain.ActionView).
		Return(&domain.Permission{ID: 2, Module: "Leads", Action: domain.ActionView}, nil).Once()
	suite.expectRole(roleID)
	suite.expectTx()
	suite.mockRoleRepo.On("AddGrantsInTx", ctx, mock.Anything, roleID, []int64{7, 1, 2}).Return(nil).Once()

	err := suite.service.AssignPermissions(ctx, roleID, 1, dto.GrantRequest{
		PermissionIDs: []int64{7},
		Modules:       []dto.ModuleActionsRequest{{Module: "Leads", Actions: []string{"create", "view"}}},
	})

	suite.Require().NoError(err)
	suite.mockRoleRepo.AssertExpectations(suite.T())
	suite.mockPermRepo.AssertExpectations(suite.T())
}

// Assigning a module descriptor that includes an already-granted action still
// sends the whole batch; the grant insert skips duplicates, so re-assigning
// never fails and never doubles a row.
func (suite *GrantServiceTestSuite) TestAssignPermissions_Idempotent() {
	ctx := context.Background()
	roleID := int64(42)

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{1, 2}).
		Return([]domain.Permission{
			{ID: 1, Module: "Leads", Action: domain.ActionCreate},
			{ID: 2, Module: "Leads", Action: domain.ActionView},
		}, nil).Twice()
	suite.mockRoleRepo.On("FindRoleByID", mock.Anything, roleID).
		Return(&domain.Role{ID: roleID, BranchID: 1, Name: "Sales Manager"}, nil).Twice()
	suite.mockRoleRepo.On("Begin", mock.Anything).Return(nil, nil).Twice()
	suite.mockRoleRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Twice()
	suite.mockRoleRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockRoleRepo.On("AddGrantsInTx", ctx, mock.Anything, roleID, []int64{1, 2}).Return(nil).Twice()

	req := dto.GrantRequest{PermissionIDs: []int64{1, 2}}
	suite.Require().NoError(suite.service.AssignPermissions(ctx, roleID, 1, req))
	suite.Require().NoError(suite.service.AssignPermissions(ctx, roleID, 1, req))

	suite.mockRoleRepo.AssertExpectations(suite.T())
}

func (suite *GrantServiceTestSuite) TestAssignPermissions_UnknownActionFailsFast() {
	ctx := context.Background()

	err := suite.service.AssignPermissions(ctx, 42, 1, dto.GrantRequest{
		Modules: []dto.ModuleActionsRequest{{Module: "Leads", Actions: []string{"view", "fly"}}},
	})

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "AddGrantsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GrantServiceTestSuite) TestAssignPermissions_MissingCatalogPairFailsFast() {
	ctx := context.Background()

	suite.mockPermRepo.On("FindPermissionByModuleAction", ctx, "Imaginary", domain.ActionView).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AssignPermissions(ctx, 42, 1, dto.GrantRequest{
		Modules: []dto.ModuleActionsRequest{{Module: "Imaginary", Actions: []string{"view"}}},
	})

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "Imaginary:view does not exist")
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *GrantServiceTestSuite) TestAssignPermissions_EmptySelection() {
	err := suite.service.AssignPermissions(context.Background(), 42, 1, dto.GrantRequest{})

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

// A module descriptor with no actions expands to the full allowed action set.
func (suite *GrantServiceTestSuite) TestAssignPermissions_EmptyActionsMeansAll() {
	ctx := context.Background()
	roleID := int64(42)

	ids := make([]int64, 0, len(domain.AllowedActions))
	for i, action := range domain.AllowedActions {
		id := int64(i + 1)
		ids = append(ids, id)
		suite.mockPermRepo.On("FindPermissionByModuleAction", ctx, "Leads", action).
			Return(&domain.Permission{ID: id, Module: "Leads", Action: action}, nil).Once()
	}
	suite.expectRole(roleID)
	suite.expectTx()
	suite.mockRoleRepo.On("AddGrantsInTx", ctx, mock.Anything, roleID, ids).Return(nil).Once()

	err := suite.service.AssignPermissions(ctx, roleID, 1, dto.GrantRequest{
		Modules: []dto.ModuleActionsRequest{{Module: "Leads"}},
	})

	suite.Require().NoError(err)
	suite.mockPermRepo.AssertExpectations(suite.T())
}

func (suite *GrantServiceTestSuite) TestRevokePermissions() {
	ctx := context.Background()
	roleID := int64(42)

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{3, 4}).
		Return([]domain.Permission{
			{ID: 3, Module: "Tasks", Action: domain.ActionCreate},
			{ID: 4, Module: "Tasks", Action: domain.ActionDelete},
		}, nil).Once()
	suite.expectRole(roleID)
	suite.expectTx()
	suite.mockRoleRepo.On("RemoveGrantsInTx", ctx, mock.Anything, roleID, []int64{3, 4}).Return(nil).Once()

	err := suite.service.RevokePermissions(ctx, roleID, 1, dto.GrantRequest{PermissionIDs: []int64{3, 4}})

	suite.Require().NoError(err)
	suite.mockRoleRepo.AssertExpectations(suite.T())
}

func (suite *GrantServiceTestSuite) TestSetPermissions_SymmetricDifference() {
	ctx := context.Background()
	roleID := int64(42)

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{2, 3, 4}).
		Return([]domain.Permission{
			{ID: 2, Module: "Leads", Action: domain.ActionView},
			{ID: 3, Module: "Leads", Action: domain.ActionUpdate},
			{ID: 4, Module: "Leads", Action: domain.ActionDelete},
		}, nil).Once()
	suite.expectRole(roleID)
	suite.mockRoleRepo.On("ListGrantedPermissionIDs", ctx, roleID).Return([]int64{1, 2, 3}, nil).Once()
	suite.expectTx()
	suite.mockRoleRepo.On("AddGrantsInTx", ctx, mock.Anything, roleID, []int64{4}).Return(nil).Once()
	suite.mockRoleRepo.On("RemoveGrantsInTx", ctx, mock.Anything, roleID, []int64{1}).Return(nil).Once()

	err := suite.service.SetPermissions(ctx, roleID, 1, []int64{2, 3, 4})

	suite.Require().NoError(err)
	suite.mockRoleRepo.AssertExpectations(suite.T())
}

func (suite *GrantServiceTestSuite) TestSetPermissions_NoOpSkipsTransaction() {
	ctx := context.Background()
	roleID := int64(42)

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{1, 2}).
		Return([]domain.Permission{
			{ID: 1, Module: "Leads", Action: domain.ActionCreate},
			{ID: 2, Module: "Leads", Action: domain.ActionView},
		}, nil).Once()
	suite.expectRole(roleID)
	suite.mockRoleRepo.On("ListGrantedPermissionIDs", ctx, roleID).Return([]int64{2, 1}, nil).Once()

	err := suite.service.SetPermissions(ctx, roleID, 1, []int64{1, 2})

	suite.Require().NoError(err)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "AddGrantsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "RemoveGrantsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GrantServiceTestSuite) TestSetPermissions_UnknownIDFailsFast() {
	ctx := context.Background()

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{1, 999}).
		Return([]domain.Permission{{ID: 1, Module: "Leads", Action: domain.ActionCreate}}, nil).Once()

	err := suite.service.SetPermissions(ctx, 42, 1, []int64{1, 999})

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "999")
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *GrantServiceTestSuite) TestListRoleGrants_GroupsByModule() {
	ctx := context.Background()
	roleID := int64(42)

	suite.expectRole(roleID)
	suite.mockRoleRepo.On("ListGrantedPermissions", ctx, roleID).
		Return([]domain.Permission{
			{ID: 1, Module: "Leads", Action: domain.ActionCreate},
			{ID: 2, Module: "Leads", Action: domain.ActionView},
			{ID: 9, Module: "Tasks", Action: domain.ActionView},
		}, nil).Once()

	groups, err := suite.service.ListRoleGrants(ctx, roleID, 1)

	suite.Require().NoError(err)
	suite.Require().Len(groups, 2)
	suite.Equal("Leads", groups[0].Module)
	suite.Equal([]domain.PermissionAction{domain.ActionCreate, domain.ActionView}, groups[0].Actions)
	suite.Equal([]int64{1, 2}, groups[0].PermissionIDs)
	suite.Equal("Tasks", groups[1].Module)
	suite.Equal([]int64{9}, groups[1].PermissionIDs)
}

// A role that exists but belongs to another branch is reported as not found
// and its grants are never touched, so holding Roles permissions in one
// branch grants no reach into any other branch's roles.
func (suite *GrantServiceTestSuite) TestAppendPermissions_OtherBranchRoleNotFound() {
	ctx := context.Background()
	roleID := int64(99)

	suite.mockPermRepo.On("FindPermissionsByIDs", ctx, []int64{7}).
		Return([]domain.Permission{{ID: 7, Module: "Roles", Action: domain.ActionUpdate}}, nil).Once()
	suite.mockRoleRepo.On("FindRoleByID", mock.Anything, roleID).
		Return(&domain.Role{ID: roleID, BranchID: 2, Name: "Sales Manager"}, nil).Once()

	err := suite.service.AppendPermissions(ctx, roleID, 1, []int64{7})

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "AddGrantsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GrantServiceTestSuite) TestListRoleGrants_OtherBranchRoleNotFound() {
	ctx := context.Background()
	roleID := int64(99)

	suite.mockRoleRepo.On("FindRoleByID", mock.Anything, roleID).
		Return(&domain.Role{ID: roleID, BranchID: 2, Name: "Sales Manager"}, nil).Once()

	groups, err := suite.service.ListRoleGrants(ctx, roleID, 1)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(groups)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "ListGrantedPermissions", mock.Anything, mock.Anything)
}

// Replacing the grant set with an empty list is valid and clears everything
// the role currently holds.
func (suite *GrantServiceTestSuite) TestSetPermissions_EmptyListClearsGrants() {
	ctx := context.Background()
	roleID := int64(42)

	suite.expectRole(roleID)
	suite.mockRoleRepo.On("ListGrantedPermissionIDs", ctx, roleID).Return([]int64{1, 2}, nil).Once()
	suite.expectTx()
	suite.mockRoleRepo.On("RemoveGrantsInTx", ctx, mock.Anything, roleID, []int64{1, 2}).Return(nil).Once()

	err := suite.service.SetPermissions(ctx, roleID, 1, nil)

	suite.Require().NoError(err)
	suite.mockRoleRepo.AssertExpectations(suite.T())
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "AddGrantsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPermRepo.AssertNotCalled(suite.T(), "FindPermissionsByIDs", mock.Anything, mock.Anything)
}

func TestGrantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GrantServiceTestSuite))
}
