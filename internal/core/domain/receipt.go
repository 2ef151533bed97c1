package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatus reflects dispatch state only. Receipts have no draft state: the
// funds backing them are already confirmed when the receipt is created.
type ReceiptStatus string

const (
	ReceiptConfirmed ReceiptStatus = "CONFIRMED"
	ReceiptSent      ReceiptStatus = "SENT"
	ReceiptCancelled ReceiptStatus = "CANCELLED"
)

// PaymentReceipt documents a same-day payment (cash or same-day e-transfer), or a
// receipt synthesized when an invoice is marked paid.
type PaymentReceipt struct {
	ReceiptID     string          `json:"receiptID"`
	CompanyID     string          `json:"companyID"`
	JobID         *string         `json:"jobID,omitempty"`
	InvoiceID     *string         `json:"invoiceID,omitempty"`
	ClientID      *string         `json:"clientID,omitempty"`
	ReceiptNumber string          `json:"receiptNumber"`
	Status        ReceiptStatus   `json:"status"`
	Method        PaymentMethod   `json:"method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"` // percent
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	PaymentDate   time.Time       `json:"paymentDate"`
	SentAt        *time.Time      `json:"sentAt,omitempty"`
	AuditFields
}
