package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/core/services"
)

type BranchServiceTestSuite struct {
	suite.Suite
	mockBranchRepo     *MockBranchRepository
	mockRoleRepo       *MockRoleRepository
	mockPermRepo       *MockPermissionRepository
	mockMembershipRepo *MockMembershipRepository
	service            portssvc.BranchSvcFacade
}

func (suite *BranchServiceTestSuite) SetupTest() {
	suite.mockBranchRepo = new(MockBranchRepository)
	suite.mockRoleRepo = new(MockRoleRepository)
	suite.mockPermRepo = new(MockPermissionRepository)
	suite.mockMembershipRepo = new(MockMembershipRepository)
	suite.service = services.NewBranchService(suite.mockBranchRepo, suite.mockRoleRepo, suite.mockPermRepo, suite.mockMembershipRepo)
}

// Branch creation must leave the creator holding the seeded Super Admin role,
// with the full permission catalog granted, all before the transaction commits.
func (suite *BranchServiceTestSuite) TestCreateBranch_SeedsAdminRoleAndCreatorMembership() {
	ctx := context.Background()
	businessID := int64(3)
	creatorID := int64(10)

	suite.mockBranchRepo.On("FindBusinessByID", ctx, businessID).
		Return(&domain.Business{ID: businessID, Name: "Nexa Holdings"}, nil).Once()
	suite.mockPermRepo.On("ListPermissions", ctx).
		Return([]domain.Permission{
			{ID: 1, Module: "Leads", Action: domain.ActionCreate},
			{ID: 2, Module: "Leads", Action: domain.ActionView},
			{ID: 3, Module: "Roles", Action: domain.ActionUpdate},
		}, nil).Once()

	suite.mockBranchRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockBranchRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockBranchRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()

	suite.mockBranchRepo.SaveBranchInTxFn = func(ctx context.Context, tx pgx.Tx, branch *domain.Branch) error {
		suite.Equal(businessID, branch.BusinessID)
		suite.Equal("Downtown", branch.Name)
		suite.Equal(creatorID, branch.CreatedBy)
		branch.ID = 55
		return nil
	}
	suite.mockRoleRepo.SaveRoleInTxFn = func(ctx context.Context, tx pgx.Tx, role *domain.Role) error {
		suite.Equal(int64(55), role.BranchID)
		suite.Equal(domain.SuperAdminRoleName, role.Name)
		role.ID = 900
		return nil
	}
	suite.mockRoleRepo.On("AddGrantsInTx", ctx, mock.Anything, int64(900), []int64{1, 2, 3}).Return(nil).Once()
	suite.mockMembershipRepo.On("UpsertMembershipInTx", ctx, mock.Anything,
		&domain.Membership{UserID: creatorID, BranchID: 55, RoleID: 900}).Return(nil).Once()

	branch, err := suite.service.CreateBranch(ctx, businessID, "Downtown", "1 Main St", creatorID)

	suite.Require().NoError(err)
	suite.Equal(int64(55), branch.ID)
	suite.mockBranchRepo.AssertExpectations(suite.T())
	suite.mockRoleRepo.AssertExpectations(suite.T())
	suite.mockMembershipRepo.AssertExpectations(suite.T())
}

func (suite *BranchServiceTestSuite) TestCreateBranch_EmptyNameRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateBranch(ctx, 3, "   ", "", 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBranchRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *BranchServiceTestSuite) TestCreateBranch_UnknownBusiness() {
	ctx := context.Background()

	suite.mockBranchRepo.On("FindBusinessByID", ctx, int64(404)).
		Return(nil, apperrors.NewNotFoundError("business not found")).Once()

	_, err := suite.service.CreateBranch(ctx, 404, "Downtown", "", 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockBranchRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// A seed failure after the branch insert must not commit: the branch row only
// exists together with its admin role.
func (suite *BranchServiceTestSuite) TestCreateBranch_SeedFailureRollsBack() {
	ctx := context.Background()

	suite.mockBranchRepo.On("FindBusinessByID", ctx, int64(3)).
		Return(&domain.Business{ID: 3}, nil).Once()
	suite.mockPermRepo.On("ListPermissions", ctx).
		Return([]domain.Permission{{ID: 1, Module: "Leads", Action: domain.ActionView}}, nil).Once()
	suite.mockBranchRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockBranchRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	suite.mockBranchRepo.SaveBranchInTxFn = func(ctx context.Context, tx pgx.Tx, branch *domain.Branch) error {
		branch.ID = 55
		return nil
	}
	suite.mockRoleRepo.SaveRoleInTxFn = func(ctx context.Context, tx pgx.Tx, role *domain.Role) error {
		return errors.New("insert role failed")
	}

	_, err := suite.service.CreateBranch(ctx, 3, "Downtown", "", 10)

	suite.Require().Error(err)
	suite.mockBranchRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockBranchRepo.AssertExpectations(suite.T())
}

func (suite *BranchServiceTestSuite) TestCreateBusiness_TrimsName() {
	ctx := context.Background()
	bizService := services.NewBusinessService(suite.mockBranchRepo)

	suite.mockBranchRepo.On("SaveBusiness", ctx, mock.MatchedBy(func(b *domain.Business) bool {
		return b.Name == "Nexa Holdings" && b.CreatedBy == int64(10)
	})).Return(nil).Once()

	business, err := bizService.CreateBusiness(ctx, "  Nexa Holdings  ", "ops@nexa.test", "555-0100", 10)

	suite.Require().NoError(err)
	suite.Equal("Nexa Holdings", business.Name)
	suite.mockBranchRepo.AssertExpectations(suite.T())
}

func TestBranchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BranchServiceTestSuite))
}
