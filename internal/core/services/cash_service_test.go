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

type CashServiceTestSuite struct {
	suite.Suite
	mockCashRepo *MockCashCollectionRepository
	activity     *recordingActivity
	notifier     *recordingNotifier
	service      portssvc.CashSvcFacade

	companyID string
	cleanerID string
	adminID   string
}

func (suite *CashServiceTestSuite) SetupTest() {
	suite.mockCashRepo = new(MockCashCollectionRepository)
	suite.activity = new(recordingActivity)
	suite.notifier = new(recordingNotifier)
	suite.companyID = uuid.NewString()
	suite.cleanerID = uuid.NewString()
	suite.adminID = uuid.NewString()

	suite.service = services.NewCashService(suite.mockCashRepo, &stubAuthorizer{}, suite.activity, suite.notifier)
}

func (suite *CashServiceTestSuite) cashJob(choice domain.CashHandlingChoice) domain.Job {
	return domain.Job{
		JobID:         uuid.NewString(),
		CompanyID:     suite.companyID,
		OperationType: domain.OperationBillableService,
		EmployeeID:    &suite.cleanerID,
		Status:        domain.JobCompleted,
		Payment: &domain.PaymentDetails{
			Method:     domain.PaymentCash,
			Amount:     decimal.RequireFromString("150.00"),
			Date:       time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			ReceivedBy: domain.ReceivedByCleaner,
			CashChoice: choice,
		},
	}
}

func (suite *CashServiceTestSuite) keptCollection(status domain.CompensationStatus) *domain.CashCollection {
	return &domain.CashCollection{
		CollectionID:       uuid.NewString(),
		CompanyID:          suite.companyID,
		JobID:              uuid.NewString(),
		CleanerID:          suite.cleanerID,
		Amount:             decimal.RequireFromString("150.00"),
		Handling:           domain.KeptByCleaner,
		CompensationStatus: status,
	}
}

func (suite *CashServiceTestSuite) TestRecord_KeptCashStartsPending() {
	ctx := context.Background()
	job := suite.cashJob(domain.ChoiceKeepCash)
	settings := domain.DefaultCompanySettings(suite.companyID)
	settings.CashKeptByEmployee = true

	suite.mockCashRepo.On("SaveCashCollection", ctx, mock.MatchedBy(func(c domain.CashCollection) bool {
		return c.Handling == domain.KeptByCleaner &&
			c.CompensationStatus == domain.CompensationPending &&
			c.CleanerID == suite.cleanerID &&
			c.Amount.Equal(decimal.RequireFromString("150.00"))
	})).Return(nil).Once()

	collection, err := suite.service.RecordFromCompletion(ctx, job, settings, suite.cleanerID)

	suite.Require().NoError(err)
	suite.Equal(domain.CompensationPending, collection.CompensationStatus)
	// The kept cash pings the admins for a decision.
	suite.Require().Len(suite.notifier.AdminNotices, 1)
	suite.mockCashRepo.AssertExpectations(suite.T())
}

func (suite *CashServiceTestSuite) TestRecord_DeliveredCashNeedsNoDecision() {
	ctx := context.Background()
	job := suite.cashJob(domain.ChoiceHandToAdmin)
	settings := domain.DefaultCompanySettings(suite.companyID)

	suite.mockCashRepo.On("SaveCashCollection", ctx, mock.MatchedBy(func(c domain.CashCollection) bool {
		return c.Handling == domain.DeliveredToOffice &&
			c.CompensationStatus == domain.CompensationNotApplicable
	})).Return(nil).Once()

	collection, err := suite.service.RecordFromCompletion(ctx, job, settings, suite.cleanerID)

	suite.Require().NoError(err)
	suite.Equal(domain.DeliveredToOffice, collection.Handling)
	suite.Empty(suite.notifier.AdminNotices)
}

func (suite *CashServiceTestSuite) TestRecord_KeepChoiceIgnoredWhenPreferenceOff() {
	ctx := context.Background()
	job := suite.cashJob(domain.ChoiceKeepCash)
	settings := domain.DefaultCompanySettings(suite.companyID)

	suite.mockCashRepo.On("SaveCashCollection", ctx, mock.MatchedBy(func(c domain.CashCollection) bool {
		return c.Handling == domain.DeliveredToOffice && c.CompensationStatus == domain.CompensationNotApplicable
	})).Return(nil).Once()

	_, err := suite.service.RecordFromCompletion(ctx, job, settings, suite.cleanerID)

	suite.Require().NoError(err)
	suite.Empty(suite.notifier.AdminNotices)
}

func (suite *CashServiceTestSuite) TestRecord_HandToAdminChoiceDelivers() {
	ctx := context.Background()
	job := suite.cashJob(domain.ChoiceHandToAdmin)
	settings := domain.DefaultCompanySettings(suite.companyID)
	settings.CashKeptByEmployee = true

	suite.mockCashRepo.On("SaveCashCollection", ctx, mock.MatchedBy(func(c domain.CashCollection) bool {
		return c.Handling == domain.DeliveredToOffice && c.CompensationStatus == domain.CompensationNotApplicable
	})).Return(nil).Once()

	_, err := suite.service.RecordFromCompletion(ctx, job, settings, suite.cleanerID)

	suite.Require().NoError(err)
	suite.Empty(suite.notifier.AdminNotices)
}

func (suite *CashServiceTestSuite) TestRecord_NonCashRejected() {
	ctx := context.Background()
	job := suite.cashJob(domain.ChoiceKeepCash)
	job.Payment.Method = domain.PaymentETransfer

	_, err := suite.service.RecordFromCompletion(ctx, job, domain.DefaultCompanySettings(suite.companyID), suite.cleanerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CashServiceTestSuite) TestApprove_PendingSucceeds() {
	ctx := context.Background()
	collection := suite.keptCollection(domain.CompensationPending)

	suite.mockCashRepo.On("FindCashCollectionByID", ctx, suite.companyID, collection.CollectionID).Return(collection, nil).Once()
	suite.mockCashRepo.On("UpdateCompensationStatus", ctx, suite.companyID, collection.CollectionID, domain.CompensationApproved, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ApproveCashCollection(ctx, suite.companyID, collection.CollectionID, suite.adminID)

	suite.Require().NoError(err)
	suite.Require().Len(suite.activity.Entries, 1)
	suite.Equal(domain.ActionCashApproved, suite.activity.Entries[0].Action)
	// The cleaner hears about the decision.
	suite.Require().Len(suite.notifier.UserNotices, 1)
	suite.Equal(suite.cleanerID, *suite.notifier.UserNotices[0].UserID)
	suite.mockCashRepo.AssertExpectations(suite.T())
}

func (suite *CashServiceTestSuite) TestApprove_AlreadyDecidedRejected() {
	ctx := context.Background()
	collection := suite.keptCollection(domain.CompensationApproved)

	suite.mockCashRepo.On("FindCashCollectionByID", ctx, suite.companyID, collection.CollectionID).Return(collection, nil).Once()

	err := suite.service.ApproveCashCollection(ctx, suite.companyID, collection.CollectionID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockCashRepo.AssertNotCalled(suite.T(), "UpdateCompensationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashServiceTestSuite) TestDispute_PendingSucceeds() {
	ctx := context.Background()
	collection := suite.keptCollection(domain.CompensationPending)

	suite.mockCashRepo.On("FindCashCollectionByID", ctx, suite.companyID, collection.CollectionID).Return(collection, nil).Once()
	suite.mockCashRepo.On("UpdateCompensationStatus", ctx, suite.companyID, collection.CollectionID, domain.CompensationDisputed, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DisputeCashCollection(ctx, suite.companyID, collection.CollectionID, suite.adminID)

	suite.Require().NoError(err)
}

func (suite *CashServiceTestSuite) TestSettle_RequiresApproved() {
	ctx := context.Background()
	collection := suite.keptCollection(domain.CompensationPending)

	suite.mockCashRepo.On("FindCashCollectionByID", ctx, suite.companyID, collection.CollectionID).Return(collection, nil).Once()

	err := suite.service.SettleCashCollection(ctx, suite.companyID, collection.CollectionID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CashServiceTestSuite) TestSettle_ApprovedSucceeds() {
	ctx := context.Background()
	collection := suite.keptCollection(domain.CompensationApproved)

	suite.mockCashRepo.On("FindCashCollectionByID", ctx, suite.companyID, collection.CollectionID).Return(collection, nil).Once()
	suite.mockCashRepo.On("UpdateCompensationStatus", ctx, suite.companyID, collection.CollectionID, domain.CompensationSettled, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.SettleCashCollection(ctx, suite.companyID, collection.CollectionID, suite.adminID)

	suite.Require().NoError(err)
}

func (suite *CashServiceTestSuite) TestTransition_DeliveredCollectionRejected() {
	ctx := context.Background()
	collection := suite.keptCollection(domain.CompensationNotApplicable)
	collection.Handling = domain.DeliveredToOffice

	suite.mockCashRepo.On("FindCashCollectionByID", ctx, suite.companyID, collection.CollectionID).Return(collection, nil).Once()

	err := suite.service.ApproveCashCollection(ctx, suite.companyID, collection.CollectionID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CashServiceTestSuite) TestList_FilterPassedThrough() {
	ctx := context.Background()
	status := domain.CompensationPending

	suite.mockCashRepo.On("ListCashCollectionsByCompany", ctx, suite.companyID, &status, 50, (*string)(nil)).
		Return([]domain.CashCollection{*suite.keptCollection(status)}, nil, nil).Once()

	collections, token, err := suite.service.ListCashCollections(ctx, suite.companyID, &status, 50, nil, suite.adminID)

	suite.Require().NoError(err)
	suite.Len(collections, 1)
	suite.Nil(token)
}

func TestCashServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashServiceTestSuite))
}
