package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
)

// CompletionService drives the job state machine past scheduling. The payment
// rules are enforced here, server-side, and the completed status lands in one
// atomic row update; everything downstream of that write is best-effort.
type CompletionService struct {
	BaseService
	jobRepo     portsrepo.JobRepositoryFacade
	companyRepo portsrepo.CompanyRepositoryFacade
	cash        portssvc.CashHandlingSvc
	billing     portssvc.BillingDeriverSvc
	activity    portssvc.ActivityEmitterSvc
	notifier    portssvc.NotifierSvc
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(
	jobRepo portsrepo.JobRepositoryFacade,
	companyRepo portsrepo.CompanyRepositoryFacade,
	cash portssvc.CashHandlingSvc,
	billing portssvc.BillingDeriverSvc,
	authorizer portssvc.CompanyAuthorizerSvc,
	activity portssvc.ActivityEmitterSvc,
	notifier portssvc.NotifierSvc,
) portssvc.CompletionSvcFacade {
	return &CompletionService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		cash:        cash,
		billing:     billing,
		activity:    activity,
		notifier:    notifier,
	}
}

var _ portssvc.CompletionSvcFacade = (*CompletionService)(nil)

// authorizeActor allows the assigned employee or anyone with manager rights.
func (s *CompletionService) authorizeActor(ctx context.Context, job *domain.Job, actorUserID string) error {
	if job.EmployeeID != nil && *job.EmployeeID == actorUserID {
		// Still must be a member of the company.
		return s.AuthorizeUser(ctx, actorUserID, job.CompanyID, domain.RoleCleaner)
	}
	return s.AuthorizeUser(ctx, actorUserID, job.CompanyID, domain.RoleManager)
}

// validatePayment enforces the completion payment rules regardless of client
// input. Cash dates are pinned to the scheduled service date so reconciliation
// tracks the physical handover, and the received-by field is only honored when
// the tenant lets employees keep cash. Returns the parsed domain payload.
func validatePayment(in dto.PaymentInput, settings domain.CompanySettings, scheduledDate, completedAt time.Time) (*domain.PaymentDetails, error) {
	if in.Method == "" {
		return nil, fmt.Errorf("%w: payment method is required", apperrors.ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}

	method := domain.PaymentMethod(in.Method)
	payment := &domain.PaymentDetails{
		Method:     method,
		Amount:     in.Amount,
		Date:       completedAt,
		Reference:  in.Reference,
		ReceivedBy: domain.PaymentReceivedBy(in.ReceivedBy),
		CashChoice: domain.CashHandlingChoice(in.CashChoice),
	}
	if in.Date != "" {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: payment date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		payment.Date = date
	}

	if method == domain.PaymentCash {
		payment.Date = scheduledDate
		if payment.Reference != "" {
			return nil, fmt.Errorf("%w: cash payments cannot carry a reference", apperrors.ErrValidation)
		}
		if !settings.CashKeptByEmployee {
			payment.ReceivedBy = domain.ReceivedByCompany
			payment.CashChoice = ""
			return payment, nil
		}
		if payment.ReceivedBy == "" {
			return nil, fmt.Errorf("%w: cash payments must state who received the money", apperrors.ErrValidation)
		}
		if payment.ReceivedBy == domain.ReceivedByCleaner && payment.CashChoice == "" {
			return nil, fmt.Errorf("%w: cash received by the cleaner requires a handling choice", apperrors.ErrValidation)
		}
	} else {
		payment.CashChoice = ""
		if payment.ReceivedBy == "" {
			payment.ReceivedBy = domain.ReceivedByCompany
		}
	}

	return payment, nil
}

// StartJob transitions scheduled -> in progress, recording optional before photos.
func (s *CompletionService) StartJob(ctx context.Context, companyID, jobID string, req dto.StartJobRequest, actorUserID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeActor(ctx, job, actorUserID); err != nil {
		return nil, err
	}
	if job.Status != domain.JobScheduled {
		return nil, fmt.Errorf("%w: job %s is %s, only scheduled jobs can be started", apperrors.ErrConflict, jobID, job.Status)
	}

	now := time.Now()
	job.Status = domain.JobInProgress
	job.BeforePhotos = req.BeforePhotos
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	if err := s.jobRepo.StartJob(ctx, *job); err != nil {
		s.LogError(ctx, err, "Failed to start job", slog.String("job_id", jobID))
		return nil, err
	}

	s.LogInfo(ctx, "Job started", slog.String("job_id", jobID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionJobStarted, "JOB", jobID, "")
	return job, nil
}

// CompleteJob finishes a billable service or internal work. Payment is required
// for billable services and rejected for everything else. Downstream effects
// fire only after the status write commits and never fail the completion.
func (s *CompletionService) CompleteJob(ctx context.Context, companyID, jobID string, req dto.CompleteJobRequest, actorUserID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeActor(ctx, job, actorUserID); err != nil {
		return nil, err
	}

	if job.OperationType == domain.OperationNonBillableVisit {
		return nil, fmt.Errorf("%w: visits are completed through the visit endpoint", apperrors.ErrValidation)
	}
	if job.Status != domain.JobScheduled && job.Status != domain.JobInProgress {
		return nil, fmt.Errorf("%w: job %s is %s and cannot be completed", apperrors.ErrConflict, jobID, job.Status)
	}

	now := time.Now()
	var settings *domain.CompanySettings
	if job.IsBillable() {
		if req.Payment == nil {
			return nil, fmt.Errorf("%w: completing a billable service requires a payment", apperrors.ErrValidation)
		}
		settings, err = s.companyRepo.FindSettings(ctx, companyID)
		if err != nil {
			return nil, err
		}
		payment, err := validatePayment(*req.Payment, *settings, job.ScheduledDate, now)
		if err != nil {
			return nil, err
		}
		job.Payment = payment
	} else if req.Payment != nil {
		return nil, fmt.Errorf("%w: %s cannot record a payment", apperrors.ErrValidation, job.OperationType)
	}

	job.Status = domain.JobCompleted
	job.CompletedAt = &now
	job.AfterPhotos = req.AfterPhotos
	if req.Notes != "" {
		job.Notes = req.Notes
	}
	job.Checklist = make([]domain.ChecklistItem, 0, len(req.Checklist))
	for _, item := range req.Checklist {
		job.Checklist = append(job.Checklist, domain.ChecklistItem{Item: item.Item, Completed: item.Completed})
	}
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	// Single atomic write; a concurrent completion loses with ErrConflict.
	if err := s.jobRepo.CompleteJob(ctx, *job); err != nil {
		s.LogError(ctx, err, "Failed to complete job", slog.String("job_id", jobID))
		return nil, err
	}

	s.LogInfo(ctx, "Job completed", slog.String("job_id", jobID), slog.String("operation_type", string(job.OperationType)))
	s.runPostCompletion(ctx, job, settings, actorUserID)
	return job, nil
}

// CompleteVisit is the simpler completion for non-billable visits.
func (s *CompletionService) CompleteVisit(ctx context.Context, companyID, jobID string, req dto.CompleteVisitRequest, actorUserID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeActor(ctx, job, actorUserID); err != nil {
		return nil, err
	}

	if job.OperationType != domain.OperationNonBillableVisit {
		return nil, fmt.Errorf("%w: only visits can be completed through the visit endpoint", apperrors.ErrValidation)
	}
	if job.Status != domain.JobScheduled && job.Status != domain.JobInProgress {
		return nil, fmt.Errorf("%w: job %s is %s and cannot be completed", apperrors.ErrConflict, jobID, job.Status)
	}

	now := time.Now()
	job.Status = domain.JobCompleted
	job.CompletedAt = &now
	job.Visit = &domain.VisitDetails{
		Purpose:    req.Purpose,
		Outcome:    req.Outcome,
		Notes:      req.Notes,
		NextAction: req.NextAction,
	}
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	if err := s.jobRepo.CompleteJob(ctx, *job); err != nil {
		s.LogError(ctx, err, "Failed to complete visit", slog.String("job_id", jobID))
		return nil, err
	}

	s.LogInfo(ctx, "Visit completed", slog.String("job_id", jobID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionJobCompleted, "JOB", jobID, string(job.OperationType))
	return job, nil
}

// runPostCompletion fires the best-effort downstream effects of a successful
// completion. Errors are logged and swallowed: the completion already committed.
func (s *CompletionService) runPostCompletion(ctx context.Context, job *domain.Job, settings *domain.CompanySettings, actorUserID string) {
	s.activity.Emit(ctx, job.CompanyID, actorUserID, domain.ActionJobCompleted, "JOB", job.JobID, string(job.OperationType))
	s.notifier.NotifyAdmins(ctx, job.CompanyID, "Job completed",
		fmt.Sprintf("Job on %s was completed", job.ScheduledDate.Format("2006-01-02")))

	if !job.IsBillable() || settings == nil {
		return
	}

	if job.Payment != nil && job.Payment.Method == domain.PaymentCash {
		if _, err := s.cash.RecordFromCompletion(ctx, *job, *settings, actorUserID); err != nil {
			if !errors.Is(err, apperrors.ErrDuplicate) {
				s.LogError(ctx, err, "Failed to record cash collection", slog.String("job_id", job.JobID))
			}
		}
	}

	if err := s.billing.DeriveForCompletion(ctx, *job, *settings, actorUserID); err != nil {
		s.LogError(ctx, err, "Failed to derive billing documents", slog.String("job_id", job.JobID))
	}
}
