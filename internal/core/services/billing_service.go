package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/utils/schedule"
)

var oneHundred = decimal.NewFromInt(100)

// documentNumber builds a human-facing receipt or invoice number, e.g.
// INV-20260914-042318.
func documentNumber(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, at.Format("20060102"), uuid.New().ID()%1000000)
}

// taxFromTotal backs the tax component out of an amount already collected.
// Receipts document money that changed hands, so the collected amount is the
// tax-inclusive total.
func taxFromTotal(total, taxRatePercent decimal.Decimal) (subtotal, tax decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(taxRatePercent.Div(oneHundred))
	subtotal = total.Div(divisor).Round(2)
	tax = total.Sub(subtotal)
	return subtotal, tax
}

// taxOnSubtotal adds tax on top of a pre-tax amount. Invoices bill the agreed
// amount plus tax.
func taxOnSubtotal(subtotal, taxRatePercent decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(taxRatePercent).Div(oneHundred).Round(2)
	total = subtotal.Add(tax)
	return tax, total
}

// BillingService derives the financial documents and the cleaner payment that
// follow a billable completion. Exactly one billing branch executes per job:
// a same-day receipt, a deferred draft invoice, or nothing.
type BillingService struct {
	BaseService
	receiptRepo portsrepo.ReceiptRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	paymentRepo portsrepo.CleanerPaymentRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	clientRepo  portsrepo.ClientRepositoryFacade
	mailer      portssvc.ReceiptMailer
	activity    portssvc.ActivityEmitterSvc
}

// NewBillingService creates a new BillingService.
func NewBillingService(
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	paymentRepo portsrepo.CleanerPaymentRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	clientRepo portsrepo.ClientRepositoryFacade,
	mailer portssvc.ReceiptMailer,
	activity portssvc.ActivityEmitterSvc,
) portssvc.BillingDeriverSvc {
	return &BillingService{
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		mailer:      mailer,
		activity:    activity,
	}
}

var _ portssvc.BillingDeriverSvc = (*BillingService)(nil)

// DeriveForCompletion derives the financial document and the cleaner payment for
// a freshly completed billable job. Duplicate derivations for the same job are
// absorbed, so re-delivery of the completion event is harmless.
func (s *BillingService) DeriveForCompletion(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) error {
	if !job.IsBillable() || job.Payment == nil {
		return nil
	}

	completedAt := time.Now()
	if job.CompletedAt != nil {
		completedAt = *job.CompletedAt
	}

	if s.isSameDayPayment(*job.Payment, job.ScheduledDate) {
		if settings.AutoGenerateReceipt {
			if err := s.deriveReceipt(ctx, job, settings, completedAt, actorUserID); err != nil {
				return err
			}
		}
	} else if settings.InvoiceGenerationMode == domain.InvoiceModeAutomatic {
		if err := s.deriveInvoice(ctx, job, settings, completedAt, actorUserID); err != nil {
			return err
		}
	}

	return s.deriveCleanerPayment(ctx, job, settings, completedAt, actorUserID)
}

// isSameDayPayment reports whether the payment settles on the service day:
// cash always does, an e-transfer does when its date matches the scheduled date.
func (s *BillingService) isSameDayPayment(payment domain.PaymentDetails, scheduledDate time.Time) bool {
	switch payment.Method {
	case domain.PaymentCash:
		return true
	case domain.PaymentETransfer:
		return schedule.SameDay(payment.Date, scheduledDate)
	default:
		return false
	}
}

func (s *BillingService) deriveReceipt(ctx context.Context, job domain.Job, settings domain.CompanySettings, completedAt time.Time, actorUserID string) error {
	subtotal, tax := taxFromTotal(job.Payment.Amount, settings.TaxRatePercent)
	receipt := domain.PaymentReceipt{
		ReceiptID:     uuid.NewString(),
		CompanyID:     job.CompanyID,
		JobID:         &job.JobID,
		ClientID:      job.ClientID,
		ReceiptNumber: documentNumber("RCT", completedAt),
		Status:        domain.ReceiptConfirmed,
		Method:        job.Payment.Method,
		Subtotal:      subtotal,
		TaxRate:       settings.TaxRatePercent,
		TaxAmount:     tax,
		Total:         job.Payment.Amount,
		PaymentDate:   job.Payment.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     completedAt,
			CreatedBy:     actorUserID,
			LastUpdatedAt: completedAt,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Receipt already derived for job", slog.String("job_id", job.JobID))
			return nil
		}
		return fmt.Errorf("failed to derive receipt for job %s: %w", job.JobID, err)
	}

	s.LogInfo(ctx, "Receipt derived", slog.String("receipt_id", receipt.ReceiptID), slog.String("job_id", job.JobID))
	s.activity.Emit(ctx, job.CompanyID, actorUserID, domain.ActionReceiptCreated, "RECEIPT", receipt.ReceiptID, receipt.ReceiptNumber)

	if settings.AutoSendReceipt {
		s.trySendReceipt(ctx, receipt, actorUserID)
	}
	return nil
}

// trySendReceipt mails the receipt to the client's on-file address. Missing
// email or dispatch failure is logged and otherwise ignored.
func (s *BillingService) trySendReceipt(ctx context.Context, receipt domain.PaymentReceipt, actorUserID string) {
	if receipt.ClientID == nil {
		return
	}
	client, err := s.clientRepo.FindClientByID(ctx, receipt.CompanyID, *receipt.ClientID)
	if err != nil || client.Email == "" {
		s.LogDebug(ctx, "No client email, skipping receipt dispatch", slog.String("receipt_id", receipt.ReceiptID))
		return
	}
	if err := s.mailer.SendReceipt(ctx, receipt, client.Email); err != nil {
		s.LogError(ctx, err, "Failed to send receipt email", slog.String("receipt_id", receipt.ReceiptID))
		return
	}
	if err := s.receiptRepo.MarkReceiptSent(ctx, receipt.CompanyID, receipt.ReceiptID, time.Now(), actorUserID); err != nil {
		s.LogError(ctx, err, "Failed to mark receipt sent", slog.String("receipt_id", receipt.ReceiptID))
		return
	}
	s.activity.Emit(ctx, receipt.CompanyID, actorUserID, domain.ActionReceiptSent, "RECEIPT", receipt.ReceiptID, "")
}

func (s *BillingService) deriveInvoice(ctx context.Context, job domain.Job, settings domain.CompanySettings, completedAt time.Time, actorUserID string) error {
	// The agreed job price wins; otherwise bill worked hours at the tenant's
	// default rate.
	var subtotal decimal.Decimal
	if job.BillableAmount != nil && job.BillableAmount.IsPositive() {
		subtotal = *job.BillableAmount
	} else {
		hours := decimal.NewFromInt(int64(job.DurationMinutes)).Div(decimal.NewFromInt(60))
		subtotal = settings.DefaultHourlyRate.Mul(hours).Round(2)
	}
	tax, total := taxOnSubtotal(subtotal, settings.TaxRatePercent)
	dueDate := completedAt.AddDate(0, 0, 30)

	// The completion already captured how the client will pay, so the invoice
	// is born paid; a draft only results from jobs completed without a method.
	status := domain.InvoiceDraft
	var paidAt *time.Time
	var paidBy string
	var method *domain.PaymentMethod
	if job.Payment.Method != "" {
		status = domain.InvoicePaid
		paidAt = &completedAt
		paidBy = actorUserID
		m := job.Payment.Method
		method = &m
	}

	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		CompanyID:     job.CompanyID,
		JobID:         &job.JobID,
		ClientID:      job.ClientID,
		InvoiceNumber: documentNumber("INV", completedAt),
		Status:        status,
		PaidAt:        paidAt,
		PaidBy:        paidBy,
		PaymentMethod: method,
		Subtotal:      subtotal,
		TaxRate:       settings.TaxRatePercent,
		TaxAmount:     tax,
		Total:         total,
		IssueDate:     completedAt,
		DueDate:       &dueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     completedAt,
			CreatedBy:     actorUserID,
			LastUpdatedAt: completedAt,
			LastUpdatedBy: actorUserID,
		},
	}
	invoice.Lines = []domain.InvoiceLine{{
		LineID:      uuid.NewString(),
		InvoiceID:   invoice.InvoiceID,
		Description: "Cleaning service on " + job.ScheduledDate.Format("2006-01-02"),
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   subtotal,
		Amount:      subtotal,
	}}

	if err := s.invoiceRepo.SaveInvoiceGuarded(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Active invoice already exists for job", slog.String("job_id", job.JobID))
			return nil
		}
		return fmt.Errorf("failed to derive invoice for job %s: %w", job.JobID, err)
	}

	s.LogInfo(ctx, "Invoice derived", slog.String("invoice_id", invoice.InvoiceID), slog.String("job_id", job.JobID))
	s.activity.Emit(ctx, job.CompanyID, actorUserID, domain.ActionInvoiceCreated, "INVOICE", invoice.InvoiceID, invoice.InvoiceNumber)
	return nil
}

// deriveCleanerPayment computes the assigned employee's earnings for the job
// according to their compensation model. Derived exactly once per job; later
// edits to the employee's rates do not rewrite history.
func (s *BillingService) deriveCleanerPayment(ctx context.Context, job domain.Job, settings domain.CompanySettings, completedAt time.Time, actorUserID string) error {
	if job.EmployeeID == nil || *job.EmployeeID == "" {
		return nil
	}

	employee, err := s.userRepo.FindUserByID(ctx, *job.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to load employee %s for payment derivation: %w", *job.EmployeeID, err)
	}

	model := employee.PaymentModel
	if model == "" {
		model = domain.ModelHourly
	}

	var amount decimal.Decimal
	switch model {
	case domain.ModelFixedPerJob:
		amount = employee.FixedJobRate
	case domain.ModelPercentage:
		amount = job.Payment.Amount.Mul(employee.PercentageOfTotal).Div(oneHundred).Round(2)
	default:
		rate := employee.HourlyRate
		if rate.IsZero() {
			rate = settings.DefaultHourlyRate
		}
		hours := decimal.NewFromInt(int64(job.DurationMinutes)).Div(decimal.NewFromInt(60))
		amount = rate.Mul(hours).Round(2)
	}

	payment := domain.CleanerPayment{
		PaymentID:  uuid.NewString(),
		CompanyID:  job.CompanyID,
		JobID:      job.JobID,
		EmployeeID: *job.EmployeeID,
		Model:      model,
		Amount:     amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     completedAt,
			CreatedBy:     actorUserID,
			LastUpdatedAt: completedAt,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.paymentRepo.SaveCleanerPayment(ctx, payment); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Cleaner payment already derived for job", slog.String("job_id", job.JobID))
			return nil
		}
		return fmt.Errorf("failed to derive cleaner payment for job %s: %w", job.JobID, err)
	}

	s.LogInfo(ctx, "Cleaner payment derived", slog.String("job_id", job.JobID), slog.String("model", string(model)))
	return nil
}
