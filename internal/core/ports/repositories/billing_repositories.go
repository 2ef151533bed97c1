package repositories

import (
	"context"
	"time"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice by its ID.
	FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)

	// FindActiveInvoiceByJobID retrieves the single non-cancelled invoice for a
	// job, or apperrors.ErrNotFound when none exists.
	FindActiveInvoiceByJobID(ctx context.Context, companyID, jobID string) (*domain.Invoice, error)

	// ListInvoicesByCompany retrieves a paginated list of invoices for a company.
	ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// FindInvoiceLines retrieves the line items of an invoice.
	FindInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoiceGuarded inserts an invoice and its lines, failing closed with
	// apperrors.ErrDuplicate if another active invoice already exists for the
	// linked job at insert time. The check and the insert run in one database
	// transaction under an advisory lock on the job.
	SaveInvoiceGuarded(ctx context.Context, invoice domain.Invoice) error

	// ReplaceInvoiceGuarded cancels the predecessor and inserts the successor
	// as one atomic operation, enforcing the same single-active-invoice check.
	ReplaceInvoiceGuarded(ctx context.Context, predecessorID string, successor domain.Invoice, updatedBy string, updatedAt time.Time) error

	// UpdateInvoiceStatus performs a status-only transition (cancel, mark sent).
	UpdateInvoiceStatus(ctx context.Context, companyID, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error

	// MarkInvoicePaid stamps the paid fields along with the status transition.
	MarkInvoicePaid(ctx context.Context, companyID, invoiceID string, method domain.PaymentMethod, paidBy string, paidAt time.Time) error

	// DeleteInvoice hard-deletes an invoice and its line items. Irreversible.
	DeleteInvoice(ctx context.Context, companyID, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// ReceiptReader defines read operations for payment receipt data
type ReceiptReader interface {
	// FindReceiptByID retrieves a specific receipt by its ID.
	FindReceiptByID(ctx context.Context, companyID, receiptID string) (*domain.PaymentReceipt, error)

	// FindReceiptByJobID retrieves the non-cancelled receipt for a job, or
	// apperrors.ErrNotFound when none exists.
	FindReceiptByJobID(ctx context.Context, companyID, jobID string) (*domain.PaymentReceipt, error)

	// ListReceiptsByCompany retrieves a paginated list of receipts for a company.
	ListReceiptsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.PaymentReceipt, *string, error)
}

// ReceiptWriter defines write operations for payment receipt data
type ReceiptWriter interface {
	// SaveReceipt persists a new receipt.
	SaveReceipt(ctx context.Context, receipt domain.PaymentReceipt) error

	// MarkReceiptSent stamps the sent time on a receipt.
	MarkReceiptSent(ctx context.Context, companyID, receiptID string, sentAt time.Time, updatedBy string) error
}

// ReceiptRepositoryFacade combines all receipt-related repository interfaces
type ReceiptRepositoryFacade interface {
	ReceiptReader
	ReceiptWriter
}

// CashCollectionReader defines read operations for cash collection data
type CashCollectionReader interface {
	// FindCashCollectionByID retrieves a specific cash collection by its ID.
	FindCashCollectionByID(ctx context.Context, companyID, collectionID string) (*domain.CashCollection, error)

	// ListCashCollectionsByCompany retrieves collections for a company filtered
	// by compensation status.
	ListCashCollectionsByCompany(ctx context.Context, companyID string, status *domain.CompensationStatus, limit int, nextToken *string) ([]domain.CashCollection, *string, error)
}

// CashCollectionWriter defines write operations for cash collection data
type CashCollectionWriter interface {
	// SaveCashCollection persists a new cash collection.
	SaveCashCollection(ctx context.Context, collection domain.CashCollection) error

	// UpdateCompensationStatus transitions the approval state of a collection.
	UpdateCompensationStatus(ctx context.Context, companyID, collectionID string, status domain.CompensationStatus, updatedBy string, updatedAt time.Time) error
}

// CashCollectionRepositoryFacade combines all cash-collection repository interfaces
type CashCollectionRepositoryFacade interface {
	CashCollectionReader
	CashCollectionWriter
}

// CleanerPaymentReader defines read operations for derived payroll rows
type CleanerPaymentReader interface {
	// FindPaymentByJobID retrieves the derived payment for a job, or
	// apperrors.ErrNotFound when none was derived.
	FindPaymentByJobID(ctx context.Context, companyID, jobID string) (*domain.CleanerPayment, error)

	// SummarizeEarnings aggregates per-employee gross earnings and approved
	// kept-cash deductions over a date range.
	SummarizeEarnings(ctx context.Context, companyID string, from, to time.Time) ([]domain.EarningsSummary, error)
}

// CleanerPaymentWriter defines write operations for derived payroll rows
type CleanerPaymentWriter interface {
	// SaveCleanerPayment persists a derived payment row.
	SaveCleanerPayment(ctx context.Context, payment domain.CleanerPayment) error
}

// CleanerPaymentRepositoryFacade combines payroll repository interfaces
type CleanerPaymentRepositoryFacade interface {
	CleanerPaymentReader
	CleanerPaymentWriter
}
