package dto

import "github.com/tidyops/cleanops_backend/internal/core/domain"

// DeleteInvoiceConfirmation is the literal a caller must type to hard-delete an
// invoice.
const DeleteInvoiceConfirmation = "DELETE PERMANENTLY"

// CancelInvoiceRequest cancels an invoice; the reason is recorded in the audit
// log only.
type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// DeleteInvoiceRequest hard-deletes an invoice. Confirmation must equal
// DeleteInvoiceConfirmation exactly.
type DeleteInvoiceRequest struct {
	Confirmation string `json:"confirmation" binding:"required"`
}

// MarkInvoicePaidRequest records payment against an invoice.
type MarkInvoicePaidRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=CASH E_TRANSFER CHEQUE CREDIT_CARD BANK_TRANSFER"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
}

// InvoiceResponse is the API shape of an invoice.
type InvoiceResponse struct {
	Invoice domain.Invoice `json:"invoice"`
}

// ListInvoicesResponse is the paginated invoice list shape.
type ListInvoicesResponse struct {
	Invoices  []domain.Invoice `json:"invoices"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ListReceiptsResponse is the paginated receipt list shape.
type ListReceiptsResponse struct {
	Receipts  []domain.PaymentReceipt `json:"receipts"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
