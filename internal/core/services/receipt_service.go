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
)

// ReceiptService exposes receipt reads, manual generation for completions where
// auto-generate was off, and dispatch.
type ReceiptService struct {
	BaseService
	receiptRepo portsrepo.ReceiptRepositoryFacade
	jobRepo     portsrepo.JobRepositoryFacade
	companyRepo portsrepo.CompanyRepositoryFacade
	clientRepo  portsrepo.ClientRepositoryFacade
	mailer      portssvc.ReceiptMailer
	activity    portssvc.ActivityEmitterSvc
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	jobRepo portsrepo.JobRepositoryFacade,
	companyRepo portsrepo.CompanyRepositoryFacade,
	clientRepo portsrepo.ClientRepositoryFacade,
	mailer portssvc.ReceiptMailer,
	authorizer portssvc.CompanyAuthorizerSvc,
	activity portssvc.ActivityEmitterSvc,
) portssvc.ReceiptSvcFacade {
	return &ReceiptService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		receiptRepo: receiptRepo,
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		mailer:      mailer,
		activity:    activity,
	}
}

var _ portssvc.ReceiptSvcFacade = (*ReceiptService)(nil)

// GetReceiptByID retrieves a receipt.
func (s *ReceiptService) GetReceiptByID(ctx context.Context, companyID, receiptID string, requestingUserID string) (*domain.PaymentReceipt, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}
	return s.receiptRepo.FindReceiptByID(ctx, companyID, receiptID)
}

// ListReceipts retrieves a paginated list of receipts.
func (s *ReceiptService) ListReceipts(ctx context.Context, companyID string, limit int, nextToken *string, requestingUserID string) ([]domain.PaymentReceipt, *string, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, nil, err
	}

	receipts, token, err := s.receiptRepo.ListReceiptsByCompany(ctx, companyID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list receipts", slog.String("company_id", companyID))
		return nil, nil, err
	}
	if receipts == nil {
		receipts = []domain.PaymentReceipt{}
	}
	return receipts, token, nil
}

// GenerateReceiptForJob creates the receipt for a completed job whose payment
// was recorded without one.
func (s *ReceiptService) GenerateReceiptForJob(ctx context.Context, companyID, jobID string, actorUserID string) (*domain.PaymentReceipt, error) {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobCompleted || job.Payment == nil {
		return nil, fmt.Errorf("%w: job %s has no completed payment to receipt", apperrors.ErrConflict, jobID)
	}

	if _, err := s.receiptRepo.FindReceiptByJobID(ctx, companyID, jobID); err == nil {
		return nil, fmt.Errorf("%w: job %s already has a receipt", apperrors.ErrDuplicate, jobID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	settings, err := s.companyRepo.FindSettings(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	subtotal, tax := taxFromTotal(job.Payment.Amount, settings.TaxRatePercent)
	receipt := domain.PaymentReceipt{
		ReceiptID:     uuid.NewString(),
		CompanyID:     companyID,
		JobID:         &job.JobID,
		ClientID:      job.ClientID,
		ReceiptNumber: documentNumber("RCT", now),
		Status:        domain.ReceiptConfirmed,
		Method:        job.Payment.Method,
		Subtotal:      subtotal,
		TaxRate:       settings.TaxRatePercent,
		TaxAmount:     tax,
		Total:         job.Payment.Amount,
		PaymentDate:   job.Payment.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		s.LogError(ctx, err, "Failed to save receipt", slog.String("job_id", jobID))
		return nil, err
	}

	s.LogInfo(ctx, "Receipt generated", slog.String("receipt_id", receipt.ReceiptID), slog.String("job_id", jobID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionReceiptCreated, "RECEIPT", receipt.ReceiptID, receipt.ReceiptNumber)
	return &receipt, nil
}

// SendReceipt dispatches a receipt to the client's on-file email. A missing
// address fails validation; a dispatch failure is logged and the receipt stays
// unsent.
func (s *ReceiptService) SendReceipt(ctx context.Context, companyID, receiptID string, actorUserID string) error {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleManager); err != nil {
		return err
	}

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, companyID, receiptID)
	if err != nil {
		return err
	}
	if receipt.Status == domain.ReceiptCancelled {
		return fmt.Errorf("%w: receipt %s is cancelled", apperrors.ErrConflict, receiptID)
	}
	if receipt.ClientID == nil {
		return fmt.Errorf("%w: receipt %s has no client to send to", apperrors.ErrValidation, receiptID)
	}

	client, err := s.clientRepo.FindClientByID(ctx, companyID, *receipt.ClientID)
	if err != nil {
		return err
	}
	if client.Email == "" {
		return fmt.Errorf("%w: client %s has no email on file", apperrors.ErrValidation, client.ClientID)
	}

	if err := s.mailer.SendReceipt(ctx, *receipt, client.Email); err != nil {
		s.LogError(ctx, err, "Failed to send receipt email", slog.String("receipt_id", receiptID))
		return fmt.Errorf("failed to send receipt %s: %w", receiptID, err)
	}

	if err := s.receiptRepo.MarkReceiptSent(ctx, companyID, receiptID, time.Now(), actorUserID); err != nil {
		s.LogError(ctx, err, "Failed to mark receipt sent", slog.String("receipt_id", receiptID))
		return err
	}

	s.LogInfo(ctx, "Receipt sent", slog.String("receipt_id", receiptID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionReceiptSent, "RECEIPT", receiptID, client.Email)
	return nil
}
