package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/core/services"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	mockCompanyRepo *MockCompanyRepository
	service         portssvc.CompanySvcFacade

	companyID string
	userID    string
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.service = services.NewCompanyService(suite.mockCompanyRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CompanyServiceTestSuite) membership(role domain.UserCompanyRole) *domain.UserCompany {
	return &domain.UserCompany{
		UserID:    suite.userID,
		CompanyID: suite.companyID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
}

func (suite *CompanyServiceTestSuite) authorizer() portssvc.CompanyAuthorizerSvc {
	return suite.service.(portssvc.CompanyAuthorizerSvc)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_CreatorBecomesAdmin() {
	ctx := context.Background()

	suite.mockCompanyRepo.On("SaveCompany", ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == "Sparkle Ops" && c.IsActive
	})).Return(nil).Once()
	suite.mockCompanyRepo.On("AddUserToCompany", ctx, mock.MatchedBy(func(m domain.UserCompany) bool {
		return m.UserID == suite.userID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, "Sparkle Ops", "12 King St W", suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(company.CompanyID)
	suite.mockCompanyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_EmptyNameRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateCompany(ctx, "", "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_AdminPassesEverything() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleAdmin), nil).Times(3)

	suite.NoError(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleAdmin))
	suite.NoError(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleManager))
	suite.NoError(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleCleaner))
}

func (suite *CompanyServiceTestSuite) TestAuthorize_ManagerCoversCleaner() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleManager), nil).Times(3)

	suite.NoError(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleManager))
	suite.NoError(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleCleaner))
	suite.ErrorIs(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleAdmin), apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_CleanerCannotManage() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleCleaner), nil).Twice()

	suite.NoError(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleCleaner))
	suite.ErrorIs(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleManager), apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_RemovedMemberForbidden() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleRemoved), nil).Once()

	suite.ErrorIs(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleCleaner), apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_NonMemberNotFound() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	suite.ErrorIs(suite.authorizer().AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleCleaner), apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestAddUser_RemovedRoleRejected() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleAdmin), nil).Once()

	err := suite.service.AddUserToCompany(ctx, suite.userID, uuid.NewString(), suite.companyID, domain.RoleRemoved)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestUpdateSettings_NormalizesBeforeSave() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleAdmin), nil).Once()
	suite.mockCompanyRepo.On("SaveSettings", ctx, mock.MatchedBy(func(s domain.CompanySettings) bool {
		// Zero values coalesce to the tenant defaults before hitting storage.
		return s.CurrencyCode == "CAD" &&
			s.TaxRatePercent.Equal(decimal.NewFromInt(13)) &&
			s.InvoiceGenerationMode == domain.InvoiceModeAutomatic &&
			s.LastUpdatedBy == suite.userID
	})).Return(nil).Once()

	err := suite.service.UpdateSettings(ctx, domain.CompanySettings{CompanyID: suite.companyID}, suite.userID)

	suite.Require().NoError(err)
	suite.mockCompanyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateSettings_NonAdminForbidden() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).Return(suite.membership(domain.RoleManager), nil).Once()

	err := suite.service.UpdateSettings(ctx, domain.CompanySettings{CompanyID: suite.companyID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "SaveSettings", mock.Anything, mock.Anything)
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
