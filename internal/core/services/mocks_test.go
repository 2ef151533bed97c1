package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// --- Mock JobRepository ---

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindJobByID(ctx context.Context, companyID, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, jobID)
	var job *domain.Job
	if args.Get(0) != nil {
		job = args.Get(0).(*domain.Job)
	}
	return job, args.Error(1)
}

func (m *MockJobRepository) ListJobsByCompany(ctx context.Context, companyID string, from, to time.Time, employeeID *string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	args := m.Called(ctx, companyID, from, to, employeeID, limit, nextToken)
	var jobs []domain.Job
	if args.Get(0) != nil {
		jobs = args.Get(0).([]domain.Job)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return jobs, token, args.Error(2)
}

func (m *MockJobRepository) ListJobsForEmployeeOnDate(ctx context.Context, companyID, employeeID string, date time.Time) ([]domain.Job, error) {
	args := m.Called(ctx, companyID, employeeID, date)
	var jobs []domain.Job
	if args.Get(0) != nil {
		jobs = args.Get(0).([]domain.Job)
	}
	return jobs, args.Error(1)
}

func (m *MockJobRepository) SaveJobGuarded(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJobGuarded(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJobStatus(ctx context.Context, companyID, jobID string, status domain.JobStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, jobID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJobRepository) StartJob(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) CompleteJob(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// --- Mock ClientRepository ---

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, companyID, clientID)
	var client *domain.Client
	if args.Get(0) != nil {
		client = args.Get(0).(*domain.Client)
	}
	return client, args.Error(1)
}

func (m *MockClientRepository) ListClientsByCompany(ctx context.Context, companyID string) ([]domain.Client, error) {
	args := m.Called(ctx, companyID)
	var clients []domain.Client
	if args.Get(0) != nil {
		clients = args.Get(0).([]domain.Client)
	}
	return clients, args.Error(1)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// --- Mock AbsenceRepository ---

type MockAbsenceRepository struct {
	mock.Mock
}

func (m *MockAbsenceRepository) FindApprovedAbsence(ctx context.Context, companyID, employeeID string, date time.Time) (*domain.AbsenceRequest, error) {
	args := m.Called(ctx, companyID, employeeID, date)
	var absence *domain.AbsenceRequest
	if args.Get(0) != nil {
		absence = args.Get(0).(*domain.AbsenceRequest)
	}
	return absence, args.Error(1)
}

func (m *MockAbsenceRepository) ListAbsencesByCompany(ctx context.Context, companyID string, status *domain.AbsenceStatus) ([]domain.AbsenceRequest, error) {
	args := m.Called(ctx, companyID, status)
	var absences []domain.AbsenceRequest
	if args.Get(0) != nil {
		absences = args.Get(0).([]domain.AbsenceRequest)
	}
	return absences, args.Error(1)
}

func (m *MockAbsenceRepository) SaveAbsenceRequest(ctx context.Context, absence domain.AbsenceRequest) error {
	args := m.Called(ctx, absence)
	return args.Error(0)
}

func (m *MockAbsenceRepository) UpdateAbsenceStatus(ctx context.Context, companyID, absenceID string, status domain.AbsenceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, absenceID, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock CompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	var company *domain.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*domain.Company)
	}
	return company, args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	var companies []domain.Company
	if args.Get(0) != nil {
		companies = args.Get(0).([]domain.Company)
	}
	return companies, args.Error(1)
}

func (m *MockCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	args := m.Called(ctx, userID, companyID)
	var membership *domain.UserCompany
	if args.Get(0) != nil {
		membership = args.Get(0).(*domain.UserCompany)
	}
	return membership, args.Error(1)
}

func (m *MockCompanyRepository) ListCompanyUsers(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	args := m.Called(ctx, companyID)
	var memberships []domain.UserCompany
	if args.Get(0) != nil {
		memberships = args.Get(0).([]domain.UserCompany)
	}
	return memberships, args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole) error {
	args := m.Called(ctx, userID, companyID, role)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, companyID)
	var settings *domain.CompanySettings
	if args.Get(0) != nil {
		settings = args.Get(0).(*domain.CompanySettings)
	}
	return settings, args.Error(1)
}

func (m *MockCompanyRepository) SaveSettings(ctx context.Context, settings domain.CompanySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	var invoice *domain.Invoice
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepository) FindActiveInvoiceByJobID(ctx context.Context, companyID, jobID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, jobID)
	var invoice *domain.Invoice
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, status, limit, nextToken)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return invoices, token, args.Error(2)
}

func (m *MockInvoiceRepository) FindInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	args := m.Called(ctx, invoiceID)
	var lines []domain.InvoiceLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.InvoiceLine)
	}
	return lines, args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoiceGuarded(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReplaceInvoiceGuarded(ctx context.Context, predecessorID string, successor domain.Invoice, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, predecessorID, successor, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, companyID, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, invoiceID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkInvoicePaid(ctx context.Context, companyID, invoiceID string, method domain.PaymentMethod, paidBy string, paidAt time.Time) error {
	args := m.Called(ctx, companyID, invoiceID, method, paidBy, paidAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID string) error {
	args := m.Called(ctx, companyID, invoiceID)
	return args.Error(0)
}

// --- Mock ReceiptRepository ---

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, companyID, receiptID string) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, companyID, receiptID)
	var receipt *domain.PaymentReceipt
	if args.Get(0) != nil {
		receipt = args.Get(0).(*domain.PaymentReceipt)
	}
	return receipt, args.Error(1)
}

func (m *MockReceiptRepository) FindReceiptByJobID(ctx context.Context, companyID, jobID string) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, companyID, jobID)
	var receipt *domain.PaymentReceipt
	if args.Get(0) != nil {
		receipt = args.Get(0).(*domain.PaymentReceipt)
	}
	return receipt, args.Error(1)
}

func (m *MockReceiptRepository) ListReceiptsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.PaymentReceipt, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	var receipts []domain.PaymentReceipt
	if args.Get(0) != nil {
		receipts = args.Get(0).([]domain.PaymentReceipt)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return receipts, token, args.Error(2)
}

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.PaymentReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) MarkReceiptSent(ctx context.Context, companyID, receiptID string, sentAt time.Time, updatedBy string) error {
	args := m.Called(ctx, companyID, receiptID, sentAt, updatedBy)
	return args.Error(0)
}

// --- Mock CashCollectionRepository ---

type MockCashCollectionRepository struct {
	mock.Mock
}

func (m *MockCashCollectionRepository) FindCashCollectionByID(ctx context.Context, companyID, collectionID string) (*domain.CashCollection, error) {
	args := m.Called(ctx, companyID, collectionID)
	var collection *domain.CashCollection
	if args.Get(0) != nil {
		collection = args.Get(0).(*domain.CashCollection)
	}
	return collection, args.Error(1)
}

func (m *MockCashCollectionRepository) ListCashCollectionsByCompany(ctx context.Context, companyID string, status *domain.CompensationStatus, limit int, nextToken *string) ([]domain.CashCollection, *string, error) {
	args := m.Called(ctx, companyID, status, limit, nextToken)
	var collections []domain.CashCollection
	if args.Get(0) != nil {
		collections = args.Get(0).([]domain.CashCollection)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return collections, token, args.Error(2)
}

func (m *MockCashCollectionRepository) SaveCashCollection(ctx context.Context, collection domain.CashCollection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCashCollectionRepository) UpdateCompensationStatus(ctx context.Context, companyID, collectionID string, status domain.CompensationStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, collectionID, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock CleanerPaymentRepository ---

type MockCleanerPaymentRepository struct {
	mock.Mock
}

func (m *MockCleanerPaymentRepository) FindPaymentByJobID(ctx context.Context, companyID, jobID string) (*domain.CleanerPayment, error) {
	args := m.Called(ctx, companyID, jobID)
	var payment *domain.CleanerPayment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.CleanerPayment)
	}
	return payment, args.Error(1)
}

func (m *MockCleanerPaymentRepository) SummarizeEarnings(ctx context.Context, companyID string, from, to time.Time) ([]domain.EarningsSummary, error) {
	args := m.Called(ctx, companyID, from, to)
	var summaries []domain.EarningsSummary
	if args.Get(0) != nil {
		summaries = args.Get(0).([]domain.EarningsSummary)
	}
	return summaries, args.Error(1)
}

func (m *MockCleanerPaymentRepository) SaveCleanerPayment(ctx context.Context, payment domain.CleanerPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Lightweight collaborator stubs ---

// stubAuthorizer resolves authorization from a static role table instead of a
// repository. Unknown users are treated as non-members.
type stubAuthorizer struct {
	AuthorizeFn func(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error
}

func (s *stubAuthorizer) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, userID, companyID, requiredRole)
	}
	return nil
}

// recordingActivity captures emitted audit entries for assertions.
type recordingActivity struct {
	Entries []domain.ActivityLog
}

func (r *recordingActivity) Emit(ctx context.Context, companyID, actorID string, action domain.ActivityAction, entityType, entityID, detail string) {
	r.Entries = append(r.Entries, domain.ActivityLog{
		CompanyID:  companyID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
}

func (r *recordingActivity) ListRecent(ctx context.Context, companyID string, limit int, requestingUserID string) ([]domain.ActivityLog, error) {
	return r.Entries, nil
}

// recordingNotifier captures dispatched notifications for assertions.
type recordingNotifier struct {
	UserNotices  []domain.Notification
	AdminNotices []domain.Notification
}

func (r *recordingNotifier) NotifyUser(ctx context.Context, companyID, userID, title, message string) {
	r.UserNotices = append(r.UserNotices, domain.Notification{
		CompanyID: companyID,
		Audience:  domain.AudienceUser,
		UserID:    &userID,
		Title:     title,
		Message:   message,
	})
}

func (r *recordingNotifier) NotifyAdmins(ctx context.Context, companyID, title, message string) {
	r.AdminNotices = append(r.AdminNotices, domain.Notification{
		CompanyID: companyID,
		Audience:  domain.AudienceAdmin,
		Title:     title,
		Message:   message,
	})
}

func (r *recordingNotifier) ListForUser(ctx context.Context, companyID, userID string, isAdmin bool, limit int) ([]domain.Notification, error) {
	return nil, nil
}

func (r *recordingNotifier) MarkRead(ctx context.Context, companyID, notificationID, userID string) error {
	return nil
}

// stubCashHandler records completion-derived collections.
type stubCashHandler struct {
	RecordFn func(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) (*domain.CashCollection, error)
	Recorded []domain.Job
}

func (s *stubCashHandler) RecordFromCompletion(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) (*domain.CashCollection, error) {
	s.Recorded = append(s.Recorded, job)
	if s.RecordFn != nil {
		return s.RecordFn(ctx, job, settings, actorUserID)
	}
	return &domain.CashCollection{JobID: job.JobID}, nil
}

// stubBillingDeriver records derivation calls.
type stubBillingDeriver struct {
	DeriveFn func(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) error
	Derived  []domain.Job
}

func (s *stubBillingDeriver) DeriveForCompletion(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) error {
	s.Derived = append(s.Derived, job)
	if s.DeriveFn != nil {
		return s.DeriveFn(ctx, job, settings, actorUserID)
	}
	return nil
}

// stubMailer records sent receipts.
type stubMailer struct {
	SendFn func(ctx context.Context, receipt domain.PaymentReceipt, recipientEmail string) error
	Sent   []string
}

func (s *stubMailer) SendReceipt(ctx context.Context, receipt domain.PaymentReceipt, recipientEmail string) error {
	s.Sent = append(s.Sent, recipientEmail)
	if s.SendFn != nil {
		return s.SendFn(ctx, receipt, recipientEmail)
	}
	return nil
}
