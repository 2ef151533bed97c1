package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the database representation of an invoice row.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	CompanyID     string          `db:"company_id"`
	JobID         *string         `db:"job_id"`
	ClientID      *string         `db:"client_id"`
	InvoiceNumber string          `db:"invoice_number"`
	Status        string          `db:"status"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Total         decimal.Decimal `db:"total"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       *time.Time      `db:"due_date"`
	PaidAt        *time.Time      `db:"paid_at"`
	PaidBy        string          `db:"paid_by"`
	PaymentMethod *string         `db:"payment_method"`
	AuditFields
}

// InvoiceLine is a billed line item belonging to an invoice.
type InvoiceLine struct {
	LineID      string          `db:"line_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
}

// PaymentReceipt is the database representation of a receipt row.
type PaymentReceipt struct {
	ReceiptID     string          `db:"receipt_id"`
	CompanyID     string          `db:"company_id"`
	JobID         *string         `db:"job_id"`
	InvoiceID     *string         `db:"invoice_id"`
	ClientID      *string         `db:"client_id"`
	ReceiptNumber string          `db:"receipt_number"`
	Status        string          `db:"status"`
	Method        string          `db:"method"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Total         decimal.Decimal `db:"total"`
	PaymentDate   time.Time       `db:"payment_date"`
	SentAt        *time.Time      `db:"sent_at"`
	AuditFields
}

// CashCollection is the database representation of a cash collection row.
type CashCollection struct {
	CollectionID       string          `db:"collection_id"`
	CompanyID          string          `db:"company_id"`
	JobID              string          `db:"job_id"`
	CleanerID          string          `db:"cleaner_id"`
	ClientID           *string         `db:"client_id"`
	Amount             decimal.Decimal `db:"amount"`
	Handling           string          `db:"cash_handling"`
	CompensationStatus string          `db:"compensation_status"`
	AuditFields
}

// CleanerPayment is the database representation of a derived payroll row.
type CleanerPayment struct {
	PaymentID  string          `db:"payment_id"`
	CompanyID  string          `db:"company_id"`
	JobID      string          `db:"job_id"`
	EmployeeID string          `db:"employee_id"`
	Model      string          `db:"payment_model"`
	Amount     decimal.Decimal `db:"amount"`
	AuditFields
}
