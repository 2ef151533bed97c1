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

type ReceiptServiceTestSuite struct {
	suite.Suite
	mockReceiptRepo *MockReceiptRepository
	mockJobRepo     *MockJobRepository
	mockCompanyRepo *MockCompanyRepository
	mockClientRepo  *MockClientRepository
	mailer          *stubMailer
	activity        *recordingActivity
	service         portssvc.ReceiptSvcFacade

	companyID string
	managerID string
	clientID  string
}

func (suite *ReceiptServiceTestSuite) SetupTest() {
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mailer = new(stubMailer)
	suite.activity = new(recordingActivity)
	suite.companyID = uuid.NewString()
	suite.managerID = uuid.NewString()
	suite.clientID = uuid.NewString()

	suite.service = services.NewReceiptService(
		suite.mockReceiptRepo, suite.mockJobRepo, suite.mockCompanyRepo,
		suite.mockClientRepo, suite.mailer, &stubAuthorizer{}, suite.activity,
	)
}

func (suite *ReceiptServiceTestSuite) completedJob() *domain.Job {
	completedAt := time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC)
	cleanerID := uuid.NewString()
	return &domain.Job{
		JobID:         uuid.NewString(),
		CompanyID:     suite.companyID,
		OperationType: domain.OperationBillableService,
		ClientID:      &suite.clientID,
		EmployeeID:    &cleanerID,
		Status:        domain.JobCompleted,
		CompletedAt:   &completedAt,
		Payment: &domain.PaymentDetails{
			Method: domain.PaymentETransfer,
			Amount: decimal.RequireFromString("113.00"),
			Date:   completedAt,
		},
	}
}

func (suite *ReceiptServiceTestSuite) confirmedReceipt() *domain.PaymentReceipt {
	return &domain.PaymentReceipt{
		ReceiptID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		ClientID:      &suite.clientID,
		ReceiptNumber: "RCT-20260914-AB12CD34",
		Status:        domain.ReceiptConfirmed,
		Method:        domain.PaymentCash,
		Total:         decimal.RequireFromString("113.00"),
	}
}

func (suite *ReceiptServiceTestSuite) TestGenerateForJob_Success() {
	ctx := context.Background()
	job := suite.completedJob()
	settings := domain.DefaultCompanySettings(suite.companyID)

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, job.JobID).Return(job, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptByJobID", ctx, suite.companyID, job.JobID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCompanyRepo.On("FindSettings", ctx, suite.companyID).Return(&settings, nil).Once()
	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.MatchedBy(func(r domain.PaymentReceipt) bool {
		return *r.JobID == job.JobID &&
			r.Subtotal.Equal(decimal.RequireFromString("100.00")) &&
			r.TaxAmount.Equal(decimal.RequireFromString("13.00")) &&
			r.Total.Equal(decimal.RequireFromString("113.00"))
	})).Return(nil).Once()

	receipt, err := suite.service.GenerateReceiptForJob(ctx, suite.companyID, job.JobID, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReceiptConfirmed, receipt.Status)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *ReceiptServiceTestSuite) TestGenerateForJob_IncompleteJobRejected() {
	ctx := context.Background()
	job := suite.completedJob()
	job.Status = domain.JobInProgress
	job.Payment = nil

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, job.JobID).Return(job, nil).Once()

	_, err := suite.service.GenerateReceiptForJob(ctx, suite.companyID, job.JobID, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ReceiptServiceTestSuite) TestGenerateForJob_ExistingReceiptRejected() {
	ctx := context.Background()
	job := suite.completedJob()

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, job.JobID).Return(job, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptByJobID", ctx, suite.companyID, job.JobID).Return(suite.confirmedReceipt(), nil).Once()

	_, err := suite.service.GenerateReceiptForJob(ctx, suite.companyID, job.JobID, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "SaveReceipt", mock.Anything, mock.Anything)
}

func (suite *ReceiptServiceTestSuite) TestSendReceipt_Success() {
	ctx := context.Background()
	receipt := suite.confirmedReceipt()
	client := &domain.Client{ClientID: suite.clientID, CompanyID: suite.companyID, Email: "client@example.com"}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.companyID, receipt.ReceiptID).Return(receipt, nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(client, nil).Once()
	suite.mockReceiptRepo.On("MarkReceiptSent", ctx, suite.companyID, receipt.ReceiptID, mock.AnythingOfType("time.Time"), suite.managerID).Return(nil).Once()

	err := suite.service.SendReceipt(ctx, suite.companyID, receipt.ReceiptID, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal([]string{"client@example.com"}, suite.mailer.Sent)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *ReceiptServiceTestSuite) TestSendReceipt_NoEmailOnFile() {
	ctx := context.Background()
	receipt := suite.confirmedReceipt()
	client := &domain.Client{ClientID: suite.clientID, CompanyID: suite.companyID}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.companyID, receipt.ReceiptID).Return(receipt, nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(client, nil).Once()

	err := suite.service.SendReceipt(ctx, suite.companyID, receipt.ReceiptID, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.mailer.Sent)
}

func (suite *ReceiptServiceTestSuite) TestSendReceipt_CancelledRejected() {
	ctx := context.Background()
	receipt := suite.confirmedReceipt()
	receipt.Status = domain.ReceiptCancelled

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.companyID, receipt.ReceiptID).Return(receipt, nil).Once()

	err := suite.service.SendReceipt(ctx, suite.companyID, receipt.ReceiptID, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestReceiptServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptServiceTestSuite))
}
