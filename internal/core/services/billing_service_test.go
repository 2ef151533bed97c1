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

type BillingServiceTestSuite struct {
	suite.Suite
	mockReceiptRepo *MockReceiptRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockPaymentRepo *MockCleanerPaymentRepository
	mockUserRepo    *MockUserRepository
	mockClientRepo  *MockClientRepository
	mailer          *stubMailer
	activity        *recordingActivity
	service         portssvc.BillingDeriverSvc

	companyID string
	cleanerID string
	clientID  string
	actorID   string
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPaymentRepo = new(MockCleanerPaymentRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mailer = new(stubMailer)
	suite.activity = new(recordingActivity)
	suite.companyID = uuid.NewString()
	suite.cleanerID = uuid.NewString()
	suite.clientID = uuid.NewString()
	suite.actorID = suite.cleanerID

	suite.service = services.NewBillingService(
		suite.mockReceiptRepo, suite.mockInvoiceRepo, suite.mockPaymentRepo,
		suite.mockUserRepo, suite.mockClientRepo, suite.mailer, suite.activity,
	)
}

func (suite *BillingServiceTestSuite) settings() domain.CompanySettings {
	return domain.DefaultCompanySettings(suite.companyID)
}

func (suite *BillingServiceTestSuite) hourlyCleaner() *domain.User {
	return &domain.User{
		UserID:       suite.cleanerID,
		Name:         "Dana",
		PaymentModel: domain.ModelHourly,
		HourlyRate:   decimal.NewFromInt(35),
	}
}

// completedCashJob is a two-hour billable job settled in cash on the spot.
func (suite *BillingServiceTestSuite) completedCashJob(amount string) domain.Job {
	completedAt := time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC)
	return domain.Job{
		JobID:           uuid.NewString(),
		CompanyID:       suite.companyID,
		OperationType:   domain.OperationBillableService,
		ClientID:        &suite.clientID,
		EmployeeID:      &suite.cleanerID,
		ScheduledDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartMinute:     9 * 60,
		DurationMinutes: 120,
		Status:          domain.JobCompleted,
		CompletedAt:     &completedAt,
		Payment: &domain.PaymentDetails{
			Method:     domain.PaymentCash,
			Amount:     decimal.RequireFromString(amount),
			Date:       completedAt,
			ReceivedBy: domain.ReceivedByCleaner,
			CashChoice: domain.ChoiceHandToAdmin,
		},
	}
}

func (suite *BillingServiceTestSuite) TestDerive_SameDayCashProducesReceipt() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")
	settings := suite.settings() // 13% tax, receipts on, auto-send off

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.MatchedBy(func(r domain.PaymentReceipt) bool {
		// 113.00 collected at 13% backs out to 100.00 + 13.00.
		return r.CompanyID == suite.companyID &&
			*r.JobID == job.JobID &&
			r.Status == domain.ReceiptConfirmed &&
			r.Subtotal.Equal(decimal.RequireFromString("100.00")) &&
			r.TaxAmount.Equal(decimal.RequireFromString("13.00")) &&
			r.Total.Equal(decimal.RequireFromString("113.00"))
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, settings, suite.actorID)

	suite.Require().NoError(err)
	// No invoice branch for a same-day settlement.
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceGuarded", mock.Anything, mock.Anything)
	suite.Empty(suite.mailer.Sent)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestDerive_AutoSendMailsReceipt() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")
	settings := suite.settings()
	settings.AutoSendReceipt = true
	client := &domain.Client{ClientID: suite.clientID, CompanyID: suite.companyID, Email: "client@example.com"}

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(client, nil).Once()
	suite.mockReceiptRepo.On("MarkReceiptSent", ctx, suite.companyID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"), suite.actorID).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, settings, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal([]string{"client@example.com"}, suite.mailer.Sent)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestDerive_DuplicateReceiptAbsorbed() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(apperrors.ErrDuplicate).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
}

func (suite *BillingServiceTestSuite) TestDerive_SameDayETransferProducesReceipt() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")
	// An e-transfer dated the scheduled service date settles same-day.
	job.Payment.Method = domain.PaymentETransfer
	job.Payment.ReceivedBy = domain.ReceivedByCompany
	job.Payment.CashChoice = ""
	job.Payment.Date = job.ScheduledDate

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.MatchedBy(func(r domain.PaymentReceipt) bool {
		return r.Method == domain.PaymentETransfer && r.Total.Equal(decimal.RequireFromString("113.00"))
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceGuarded", mock.Anything, mock.Anything)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestDerive_DeferredPaymentProducesInvoice() {
	ctx := context.Background()
	job := suite.completedCashJob("200.00")
	// E-transfer dated after the completion day defers billing.
	job.Payment.Method = domain.PaymentETransfer
	job.Payment.ReceivedBy = domain.ReceivedByCompany
	job.Payment.CashChoice = ""
	job.Payment.Date = job.CompletedAt.AddDate(0, 0, 3)

	suite.mockInvoiceRepo.On("SaveInvoiceGuarded", ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		// 2 hours at the default $40 rate, plus 13% on top. A payment method
		// was captured at completion, so the invoice is born paid.
		return inv.Status == domain.InvoicePaid &&
			inv.PaidAt != nil &&
			*inv.JobID == job.JobID &&
			inv.Subtotal.Equal(decimal.RequireFromString("80.00")) &&
			inv.TaxAmount.Equal(decimal.RequireFromString("10.40")) &&
			inv.Total.Equal(decimal.RequireFromString("90.40")) &&
			len(inv.Lines) == 1 &&
			inv.DueDate != nil
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "SaveReceipt", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestDerive_DeferredUsesAgreedPriceWhenSet() {
	ctx := context.Background()
	job := suite.completedCashJob("200.00")
	job.Payment.Method = domain.PaymentETransfer
	job.Payment.ReceivedBy = domain.ReceivedByCompany
	job.Payment.CashChoice = ""
	job.Payment.Date = job.CompletedAt.AddDate(0, 0, 3)
	agreed := decimal.RequireFromString("200.00")
	job.BillableAmount = &agreed

	suite.mockInvoiceRepo.On("SaveInvoiceGuarded", ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Subtotal.Equal(decimal.RequireFromString("200.00")) &&
			inv.TaxAmount.Equal(decimal.RequireFromString("26.00")) &&
			inv.Total.Equal(decimal.RequireFromString("226.00"))
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestDerive_ManualModeSkipsInvoice() {
	ctx := context.Background()
	job := suite.completedCashJob("200.00")
	job.Payment.Method = domain.PaymentETransfer
	job.Payment.Date = job.CompletedAt.AddDate(0, 0, 3)
	settings := suite.settings()
	settings.InvoiceGenerationMode = domain.InvoiceModeManual

	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, settings, suite.actorID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceGuarded", mock.Anything, mock.Anything)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "SaveReceipt", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestDerive_NonBillableNoop() {
	ctx := context.Background()
	job := suite.completedCashJob("100.00")
	job.OperationType = domain.OperationInternalWork
	job.Payment = nil

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SaveCleanerPayment", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestCleanerPayment_HourlyUsesEmployeeRate() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	// 35/h over two hours.
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.MatchedBy(func(p domain.CleanerPayment) bool {
		return p.EmployeeID == suite.cleanerID &&
			p.Model == domain.ModelHourly &&
			p.Amount.Equal(decimal.RequireFromString("70.00"))
	})).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestCleanerPayment_ZeroRateFallsBackToDefault() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")
	cleaner := suite.hourlyCleaner()
	cleaner.HourlyRate = decimal.Zero

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(cleaner, nil).Once()
	// Tenant default of 40/h over two hours.
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.MatchedBy(func(p domain.CleanerPayment) bool {
		return p.Amount.Equal(decimal.RequireFromString("80.00"))
	})).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
}

func (suite *BillingServiceTestSuite) TestCleanerPayment_FixedPerJob() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")
	cleaner := &domain.User{
		UserID:       suite.cleanerID,
		PaymentModel: domain.ModelFixedPerJob,
		FixedJobRate: decimal.RequireFromString("65.00"),
	}

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(cleaner, nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.MatchedBy(func(p domain.CleanerPayment) bool {
		return p.Model == domain.ModelFixedPerJob && p.Amount.Equal(decimal.RequireFromString("65.00"))
	})).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
}

func (suite *BillingServiceTestSuite) TestCleanerPayment_PercentageOfCollected() {
	ctx := context.Background()
	job := suite.completedCashJob("200.00")
	cleaner := &domain.User{
		UserID:            suite.cleanerID,
		PaymentModel:      domain.ModelPercentage,
		PercentageOfTotal: decimal.NewFromInt(40),
	}

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(cleaner, nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.MatchedBy(func(p domain.CleanerPayment) bool {
		return p.Model == domain.ModelPercentage && p.Amount.Equal(decimal.RequireFromString("80.00"))
	})).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
}

func (suite *BillingServiceTestSuite) TestCleanerPayment_DuplicateAbsorbed() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cleanerID).Return(suite.hourlyCleaner(), nil).Once()
	suite.mockPaymentRepo.On("SaveCleanerPayment", ctx, mock.AnythingOfType("domain.CleanerPayment")).Return(apperrors.ErrDuplicate).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
}

func (suite *BillingServiceTestSuite) TestCleanerPayment_SkippedWithoutEmployee() {
	ctx := context.Background()
	job := suite.completedCashJob("113.00")
	job.EmployeeID = nil

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.PaymentReceipt")).Return(nil).Once()

	err := suite.service.DeriveForCompletion(ctx, job, suite.settings(), suite.actorID)

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SaveCleanerPayment", mock.Anything, mock.Anything)
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
