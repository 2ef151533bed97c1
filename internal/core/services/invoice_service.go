package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
)

// InvoiceService exposes the admin-facing invoice lifecycle, independent of the
// completion-time derivation.
type InvoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	receiptRepo portsrepo.ReceiptRepositoryFacade
	activity    portssvc.ActivityEmitterSvc
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
	activity portssvc.ActivityEmitterSvc,
) portssvc.InvoiceSvcFacade {
	return &InvoiceService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		activity:    activity,
	}
}

var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// GetInvoiceByID retrieves an invoice with its lines.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, companyID, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	lines, err := s.invoiceRepo.FindInvoiceLines(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load invoice lines", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	invoice.Lines = lines
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context, companyID string, status *domain.InvoiceStatus, limit int, nextToken *string, requestingUserID string) ([]domain.Invoice, *string, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, nil, err
	}

	invoices, token, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, status, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("company_id", companyID))
		return nil, nil, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return invoices, token, nil
}

// CancelInvoice transitions any non-cancelled invoice to cancelled. The row is
// retained; the reason goes to the audit log, not the invoice.
func (s *InvoiceService) CancelInvoice(ctx context.Context, companyID, invoiceID, reason string, actorUserID string) error {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status == domain.InvoiceCancelled {
		return fmt.Errorf("%w: invoice %s is already cancelled", apperrors.ErrConflict, invoiceID)
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, companyID, invoiceID, domain.InvoiceCancelled, actorUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.LogInfo(ctx, "Invoice cancelled", slog.String("invoice_id", invoiceID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionInvoiceCancelled, "INVOICE", invoiceID, reason)
	return nil
}

// DeleteInvoicePermanently hard-deletes an invoice and its lines. The exact
// confirmation literal is required; anything else fails validation.
func (s *InvoiceService) DeleteInvoicePermanently(ctx context.Context, companyID, invoiceID, confirmation string, actorUserID string) error {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if confirmation != dto.DeleteInvoiceConfirmation {
		return fmt.Errorf("%w: confirmation text does not match", apperrors.ErrValidation)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, companyID, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.LogInfo(ctx, "Invoice deleted permanently", slog.String("invoice_id", invoiceID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionInvoiceDeleted, "INVOICE", invoiceID, invoice.InvoiceNumber)
	return nil
}

// RegenerateInvoice cancels the invoice and creates a fresh draft for the same
// job with a new number. The swap is one atomic repository operation, so a
// concurrent regeneration cannot leave two active invoices for the job.
func (s *InvoiceService) RegenerateInvoice(ctx context.Context, companyID, invoiceID string, actorUserID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	predecessor, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if predecessor.Status == domain.InvoicePaid {
		return nil, fmt.Errorf("%w: paid invoices cannot be regenerated", apperrors.ErrConflict)
	}
	if predecessor.JobID == nil {
		return nil, fmt.Errorf("%w: invoice %s has no linked job to regenerate from", apperrors.ErrValidation, invoiceID)
	}
	lines, err := s.invoiceRepo.FindInvoiceLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, 30)
	successor := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		CompanyID:     companyID,
		JobID:         predecessor.JobID,
		ClientID:      predecessor.ClientID,
		InvoiceNumber: documentNumber("INV", now),
		Status:        domain.InvoiceDraft,
		Subtotal:      predecessor.Subtotal,
		TaxRate:       predecessor.TaxRate,
		TaxAmount:     predecessor.TaxAmount,
		Total:         predecessor.Total,
		IssueDate:     now,
		DueDate:       &dueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
	for _, line := range lines {
		successor.Lines = append(successor.Lines, domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   successor.InvoiceID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}

	if err := s.invoiceRepo.ReplaceInvoiceGuarded(ctx, invoiceID, successor, actorUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to regenerate invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice regenerated", slog.String("old_invoice_id", invoiceID), slog.String("new_invoice_id", successor.InvoiceID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionInvoiceRegenerated, "INVOICE", successor.InvoiceID, "replaces "+predecessor.InvoiceNumber)
	return &successor, nil
}

// MarkInvoicePaid transitions draft/sent -> paid and synthesizes a receipt from
// the invoice total when the linked job has none yet.
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, companyID, invoiceID string, req dto.MarkInvoicePaidRequest, actorUserID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft && invoice.Status != domain.InvoiceSent {
		return nil, fmt.Errorf("%w: invoice %s is %s and cannot be marked paid", apperrors.ErrConflict, invoiceID, invoice.Status)
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	now := time.Now()
	if err := s.invoiceRepo.MarkInvoicePaid(ctx, companyID, invoiceID, method, actorUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark invoice paid", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	invoice.Status = domain.InvoicePaid
	invoice.PaidAt = &now
	invoice.PaidBy = actorUserID
	invoice.PaymentMethod = &method

	s.LogInfo(ctx, "Invoice marked paid", slog.String("invoice_id", invoiceID), slog.String("method", string(method)))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionInvoicePaid, "INVOICE", invoiceID, req.Notes)
	s.synthesizeReceipt(ctx, *invoice, method, now, actorUserID)
	return invoice, nil
}

// synthesizeReceipt documents the invoice payment as a receipt when the linked
// job has no active one. Best-effort: failure never unwinds the paid status.
func (s *InvoiceService) synthesizeReceipt(ctx context.Context, invoice domain.Invoice, method domain.PaymentMethod, paidAt time.Time, actorUserID string) {
	if invoice.JobID != nil {
		if _, err := s.receiptRepo.FindReceiptByJobID(ctx, invoice.CompanyID, *invoice.JobID); err == nil {
			return
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check for existing receipt", slog.String("invoice_id", invoice.InvoiceID))
			return
		}
	}

	receipt := domain.PaymentReceipt{
		ReceiptID:     uuid.NewString(),
		CompanyID:     invoice.CompanyID,
		JobID:         invoice.JobID,
		InvoiceID:     &invoice.InvoiceID,
		ClientID:      invoice.ClientID,
		ReceiptNumber: documentNumber("RCT", paidAt),
		Status:        domain.ReceiptSent,
		SentAt:        &paidAt,
		Method:        method,
		Subtotal:      invoice.Subtotal,
		TaxRate:       invoice.TaxRate,
		TaxAmount:     invoice.TaxAmount,
		Total:         invoice.Total,
		PaymentDate:   paidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     paidAt,
			CreatedBy:     actorUserID,
			LastUpdatedAt: paidAt,
			LastUpdatedBy: actorUserID,
		},
	}
	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		s.LogError(ctx, err, "Failed to synthesize receipt for paid invoice", slog.String("invoice_id", invoice.InvoiceID))
		return
	}
	s.activity.Emit(ctx, invoice.CompanyID, actorUserID, domain.ActionReceiptCreated, "RECEIPT", receipt.ReceiptID, "from invoice "+invoice.InvoiceNumber)
}
