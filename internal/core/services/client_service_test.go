package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/core/services"
)

type ClientServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	service        portssvc.ClientSvcFacade

	companyID string
	managerID string
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.service = services.NewClientService(suite.mockClientRepo, &stubAuthorizer{})
	suite.companyID = uuid.NewString()
	suite.managerID = uuid.NewString()
}

func (suite *ClientServiceTestSuite) TestCreateClient_Success() {
	ctx := context.Background()
	client := domain.Client{
		CompanyID: suite.companyID,
		Name:      "Harbour Dental",
		Address:   "12 Quay St",
	}

	suite.mockClientRepo.On("SaveClient", ctx, mock.MatchedBy(func(c domain.Client) bool {
		return c.ClientID != "" && c.ContractStatus == domain.ContractActive && c.CreatedBy == suite.managerID
	})).Return(nil).Once()

	saved, err := suite.service.CreateClient(ctx, client, suite.managerID)

	suite.Require().NoError(err)
	suite.NotEmpty(saved.ClientID)
	suite.Equal(domain.ContractActive, saved.ContractStatus)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestCreateClient_EmptyNameRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateClient(ctx, domain.Client{CompanyID: suite.companyID}, suite.managerID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "SaveClient", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestCreateClient_SuspendedStatusPreserved() {
	ctx := context.Background()
	client := domain.Client{
		CompanyID:      suite.companyID,
		Name:           "Dormant Offices",
		ContractStatus: domain.ContractSuspended,
	}

	suite.mockClientRepo.On("SaveClient", ctx, mock.MatchedBy(func(c domain.Client) bool {
		return c.ContractStatus == domain.ContractSuspended
	})).Return(nil).Once()

	saved, err := suite.service.CreateClient(ctx, client, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ContractSuspended, saved.ContractStatus)
}

func (suite *ClientServiceTestSuite) TestUpdateClient_StampsAudit() {
	ctx := context.Background()
	client := domain.Client{
		ClientID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Harbour Dental",
	}

	suite.mockClientRepo.On("UpdateClient", ctx, mock.MatchedBy(func(c domain.Client) bool {
		return c.LastUpdatedBy == suite.managerID && !c.LastUpdatedAt.IsZero()
	})).Return(nil).Once()

	err := suite.service.UpdateClient(ctx, client, suite.managerID)

	suite.Require().NoError(err)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestListClients_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockClientRepo.On("ListClientsByCompany", ctx, suite.companyID).Return(nil, nil).Once()

	clients, err := suite.service.ListClients(ctx, suite.companyID, suite.managerID)

	suite.Require().NoError(err)
	suite.NotNil(clients)
	suite.Empty(clients)
}

func (suite *ClientServiceTestSuite) TestGetClientByID_NotFoundPassedThrough() {
	ctx := context.Background()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, clientID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetClientByID(ctx, suite.companyID, clientID, suite.managerID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}
