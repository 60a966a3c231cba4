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
	"github.com/nexacrm/crm_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	ctx := context.Background()

	var saved *domain.User
	suite.mockUserRepo.SaveUserFn = func(ctx context.Context, user *domain.User) error {
		saved = user
		user.ID = 7
		return nil
	}

	user, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{
		FirstName: "Jordan",
		LastName:  "Lee",
		Username:  " jordan ",
		Email:     "jordan@nexa.test",
		Password:  "s3cret-pass",
	})

	suite.Require().NoError(err)
	suite.Equal(int64(7), user.ID)
	suite.Equal("jordan", saved.Username)
	suite.NotEqual("s3cret-pass", saved.PasswordHash)
	suite.True(utils.CheckPasswordHash("s3cret-pass", saved.PasswordHash))
}

func (suite *UserServiceTestSuite) TestCreateUser_EmptyUsernameRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{Username: "   ", Password: "pw"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_PartialLeavesOtherFields() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, int64(7)).
		Return(&domain.User{ID: 7, FirstName: "Jordan", LastName: "Lee", Email: "jordan@nexa.test"}, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "j.lee@nexa.test" && u.FirstName == "Jordan" && u.LastUpdatedBy == int64(10)
	})).Return(nil).Once()

	email := "j.lee@nexa.test"
	user, err := suite.service.UpdateUser(ctx, 7, dto.UpdateUserRequest{Email: &email}, 10)

	suite.Require().NoError(err)
	suite.Equal("Jordan", user.FirstName)
	suite.Equal("j.lee@nexa.test", user.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_SoftDeletes() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, int64(7)).
		Return(&domain.User{ID: 7, Username: "jordan"}, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, int64(7), int64(10)).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, 7, 10)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_UnknownUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, int64(404)).
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	err := suite.service.DeleteUser(ctx, 404, 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
