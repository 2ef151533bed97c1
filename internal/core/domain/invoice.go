package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
// Cancellation is non-destructive; hard deletion is a separate admin action.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// IsActive reports whether the status counts against the one-active-invoice-per-job
// invariant.
func (s InvoiceStatus) IsActive() bool {
	return s != InvoiceCancelled
}

// InvoiceLine is a single billed line on an invoice.
type InvoiceLine struct {
	LineID      string          `json:"lineID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is the deferred-billing financial document derived from a completed
// billable job, or created manually from the review surface.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	CompanyID     string          `json:"companyID"`
	JobID         *string         `json:"jobID,omitempty"`
	ClientID      *string         `json:"clientID,omitempty"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Status        InvoiceStatus   `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"` // percent
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	PaidBy        string          `json:"paidBy,omitempty"`
	PaymentMethod *PaymentMethod  `json:"paymentMethod,omitempty"`
	Lines         []InvoiceLine   `json:"lines,omitempty"`
	AuditFields
}
