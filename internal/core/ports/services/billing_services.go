package services

import (
	"context"
	"time"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/dto"
)

// BillingDeriverSvc runs after a successful billable completion. Exactly one of
// the branches executes: same-day receipt, deferred invoice, or nothing for
// visits and internal work.
type BillingDeriverSvc interface {
	// DeriveForCompletion derives the financial document and the cleaner
	// payment for a freshly completed job. Idempotent per job.
	DeriveForCompletion(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) error
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its lines.
	GetInvoiceByID(ctx context.Context, companyID, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices.
	ListInvoices(ctx context.Context, companyID string, status *domain.InvoiceStatus, limit int, nextToken *string, requestingUserID string) ([]domain.Invoice, *string, error)
}

// InvoiceLifecycleSvc defines the admin-invoked invoice operations, independent
// of completion.
type InvoiceLifecycleSvc interface {
	// CancelInvoice transitions any non-cancelled invoice to cancelled. The row
	// is retained; the reason goes to the audit log, not the invoice.
	CancelInvoice(ctx context.Context, companyID, invoiceID, reason string, actorUserID string) error

	// DeleteInvoicePermanently hard-deletes an invoice and its lines. The caller
	// must supply the exact confirmation literal.
	DeleteInvoicePermanently(ctx context.Context, companyID, invoiceID, confirmation string, actorUserID string) error

	// RegenerateInvoice cancels the invoice and creates a fresh draft for the
	// same job with a new number. Fails if another active invoice exists for
	// the job.
	RegenerateInvoice(ctx context.Context, companyID, invoiceID string, actorUserID string) (*domain.Invoice, error)

	// MarkInvoicePaid transitions draft/sent -> paid, stamping paid_at and the
	// payer, and synthesizes a receipt from the invoice total when the linked
	// job has none yet.
	MarkInvoicePaid(ctx context.Context, companyID, invoiceID string, req dto.MarkInvoicePaidRequest, actorUserID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines invoice service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceLifecycleSvc
}

// ReceiptSvcFacade defines the receipt surface (manual generation happens here
// for completions where auto-generate was off).
type ReceiptSvcFacade interface {
	// GetReceiptByID retrieves a receipt.
	GetReceiptByID(ctx context.Context, companyID, receiptID string, requestingUserID string) (*domain.PaymentReceipt, error)

	// ListReceipts retrieves a paginated list of receipts.
	ListReceipts(ctx context.Context, companyID string, limit int, nextToken *string, requestingUserID string) ([]domain.PaymentReceipt, *string, error)

	// GenerateReceiptForJob creates the receipt for a completed job whose
	// payment was recorded without one.
	GenerateReceiptForJob(ctx context.Context, companyID, jobID string, actorUserID string) (*domain.PaymentReceipt, error)

	// SendReceipt dispatches a receipt to the client's on-file email. Missing
	// email or dispatch failure is logged and otherwise ignored.
	SendReceipt(ctx context.Context, companyID, receiptID string, actorUserID string) error
}

// PayrollSvcFacade aggregates derived cleaner payments.
type PayrollSvcFacade interface {
	// SummarizeEarnings computes per-employee gross earnings, approved
	// kept-cash deductions and net payable over a date range.
	SummarizeEarnings(ctx context.Context, companyID string, from, to time.Time, requestingUserID string) ([]domain.EarningsSummary, error)
}
