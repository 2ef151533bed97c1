package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/core/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/utils"
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

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	req := dto.CreateUserRequest{Name: "Dana", Email: "dana@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email &&
			user.Name == req.Name &&
			user.PaymentModel == domain.ModelHourly &&
			user.PasswordHash != "" &&
			user.CreatedBy == creatorID
	})).Return(nil).Once()

	resp, err := suite.service.CreateUser(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.False(resp.Reused)
	suite.NotEmpty(resp.TemporaryPassword)
	suite.NotEmpty(resp.User.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_ExistingEmailReused() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Name: "Dana", Email: "dana@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, existing.Email).Return(existing, nil).Once()

	resp, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{Name: "Dana", Email: existing.Email}, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(resp.Reused)
	suite.Empty(resp.TemporaryPassword)
	suite.Equal(existing.UserID, resp.User.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateRaceReturnsWinner() {
	ctx := context.Background()
	winner := &domain.User{UserID: uuid.NewString(), Email: "dana@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, winner.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, winner.Email).Return(winner, nil).Once()

	resp, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{Name: "Dana", Email: winner.Email}, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(resp.Reused)
	suite.Equal(winner.UserID, resp.User.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "correct horse battery staple"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "dana@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("the real password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "dana@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, user.Email, "a guess")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailIndistinguishable() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "nobody@example.com", "whatever")

	suite.Require().Error(err)
	// Unknown email and wrong password present the same error.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestUpdateUser_PartialMerge() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Name: "Dana", Email: "dana@example.com", PaymentModel: domain.ModelHourly}
	newName := "Dana K"

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == newName && u.Email == user.Email && u.PaymentModel == domain.ModelHourly
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, user.UserID, dto.UpdateUserRequest{Name: &newName}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
}

func (suite *UserServiceTestSuite) TestDeleteUser_SoftDeletes() {
	ctx := context.Background()
	userID := uuid.NewString()
	deleterID := uuid.NewString()

	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, mock.AnythingOfType("time.Time"), deleterID).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID, deleterID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_UnverifiedEmailRejected() {
	ctx := context.Background()

	_, err := suite.service.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{
		ID:            "google-sub",
		Email:         "dana@example.com",
		VerifiedEmail: false,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_CreatesOnFirstLogin() {
	ctx := context.Background()
	info := domain.GoogleUserInfo{ID: "google-sub", Email: "dana@example.com", VerifiedEmail: true, Name: "Dana"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == info.Email && u.Name == info.Name && u.PasswordHash != ""
	})).Return(nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
}

func (suite *UserServiceTestSuite) TestStoreAndClearRefreshToken() {
	ctx := context.Background()
	userID := uuid.NewString()
	expiry := time.Now().Add(168 * time.Hour)

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, userID, "hash", mock.MatchedBy(func(e *time.Time) bool {
		return e != nil && e.Equal(expiry)
	})).Return(nil).Once()
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, userID, "", (*time.Time)(nil)).Return(nil).Once()

	suite.Require().NoError(suite.service.StoreRefreshTokenHash(ctx, userID, "hash", expiry))
	suite.Require().NoError(suite.service.ClearRefreshToken(ctx, userID))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
