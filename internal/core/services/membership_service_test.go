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
)

type MembershipServiceTestSuite struct {
	suite.Suite
	mockMembershipRepo *MockMembershipRepository
	mockRoleRepo       *MockRoleRepository
	mockUserRepo       *MockUserReader
	service            portssvc.MembershipSvcFacade
}

func (suite *MembershipServiceTestSuite) SetupTest() {
	suite.mockMembershipRepo = new(MockMembershipRepository)
	suite.mockRoleRepo = new(MockRoleRepository)
	suite.mockUserRepo = new(MockUserReader)
	suite.service = services.NewMembershipService(suite.mockMembershipRepo, suite.mockRoleRepo, suite.mockUserRepo)
}

func (suite *MembershipServiceTestSuite) TestAssignRole_UpsertsMembership() {
	ctx := context.Background()

	suite.mockRoleRepo.On("FindRoleByID", ctx, int64(43)).
		Return(&domain.Role{ID: 43, BranchID: 5, Name: "Sales Manager"}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, int64(7)).
		Return(&domain.User{ID: 7, Username: "jordan"}, nil).Once()
	suite.mockMembershipRepo.On("UpsertMembership", ctx,
		&domain.Membership{UserID: 7, BranchID: 5, RoleID: 43}).Return(nil).Once()

	membership, err := suite.service.AssignRole(ctx, 7, 5, 43, 10)

	suite.Require().NoError(err)
	suite.Equal(int64(43), membership.RoleID)
	suite.mockMembershipRepo.AssertExpectations(suite.T())
}

// A role can only be assigned inside the branch it belongs to.
func (suite *MembershipServiceTestSuite) TestAssignRole_CrossBranchRejected() {
	ctx := context.Background()

	suite.mockRoleRepo.On("FindRoleByID", ctx, int64(43)).
		Return(&domain.Role{ID: 43, BranchID: 99, Name: "Sales Manager"}, nil).Once()

	_, err := suite.service.AssignRole(ctx, 7, 5, 43, 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "different branch")
	suite.mockMembershipRepo.AssertNotCalled(suite.T(), "UpsertMembership", mock.Anything, mock.Anything)
}

func (suite *MembershipServiceTestSuite) TestAssignRole_UnknownUser() {
	ctx := context.Background()

	suite.mockRoleRepo.On("FindRoleByID", ctx, int64(43)).
		Return(&domain.Role{ID: 43, BranchID: 5, Name: "Sales Manager"}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, int64(404)).
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	_, err := suite.service.AssignRole(ctx, 404, 5, 43, 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockMembershipRepo.AssertNotCalled(suite.T(), "UpsertMembership", mock.Anything, mock.Anything)
}

func (suite *MembershipServiceTestSuite) TestRemoveMember() {
	ctx := context.Background()

	suite.mockMembershipRepo.On("DeleteMembership", ctx, int64(7), int64(5)).Return(nil).Once()

	err := suite.service.RemoveMember(ctx, 7, 5)

	suite.Require().NoError(err)
	suite.mockMembershipRepo.AssertExpectations(suite.T())
}

func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
