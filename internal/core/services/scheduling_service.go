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
	"github.com/tidyops/cleanops_backend/internal/utils/schedule"
)

// SchedulingService owns job creation and rescheduling. Every feasibility rule
// runs here on the server regardless of what the caller already checked, and the
// final overlap check is re-run inside the repository transaction.
type SchedulingService struct {
	BaseService
	jobRepo     portsrepo.JobRepositoryFacade
	clientRepo  portsrepo.ClientRepositoryFacade
	absenceRepo portsrepo.AbsenceRepositoryFacade
	activity    portssvc.ActivityEmitterSvc
	notifier    portssvc.NotifierSvc
}

// NewSchedulingService creates a new SchedulingService.
func NewSchedulingService(
	jobRepo portsrepo.JobRepositoryFacade,
	clientRepo portsrepo.ClientRepositoryFacade,
	absenceRepo portsrepo.AbsenceRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
	activity portssvc.ActivityEmitterSvc,
	notifier portssvc.NotifierSvc,
) portssvc.SchedulingSvcFacade {
	return &SchedulingService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		jobRepo:     jobRepo,
		clientRepo:  clientRepo,
		absenceRepo: absenceRepo,
		activity:    activity,
		notifier:    notifier,
	}
}

var _ portssvc.SchedulingSvcFacade = (*SchedulingService)(nil)

// parseScheduledDate expects "2006-01-02" and returns midnight UTC of that day.
func parseScheduledDate(s string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: scheduled date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	return date, nil
}

// validateOperationFields enforces the per-operation-type field requirements.
func validateOperationFields(job domain.Job) error {
	switch job.OperationType {
	case domain.OperationBillableService:
		if job.ClientID == nil || *job.ClientID == "" {
			return fmt.Errorf("%w: a billable service requires a client", apperrors.ErrValidation)
		}
		if job.EmployeeID == nil || *job.EmployeeID == "" {
			return fmt.Errorf("%w: a billable service requires an assigned employee", apperrors.ErrValidation)
		}
	case domain.OperationNonBillableVisit:
		if job.ClientID == nil || *job.ClientID == "" {
			return fmt.Errorf("%w: a visit requires a client", apperrors.ErrValidation)
		}
	case domain.OperationInternalWork:
		if job.ClientID != nil {
			return fmt.Errorf("%w: internal work cannot reference a client", apperrors.ErrValidation)
		}
		if job.ActivityCode == "" {
			return fmt.Errorf("%w: internal work requires an activity code", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown operation type %q", apperrors.ErrValidation, job.OperationType)
	}
	return nil
}

// checkFeasibility runs the pre-write checks that are observable before the
// transactional overlap guard: active client contract and approved absence.
func (s *SchedulingService) checkFeasibility(ctx context.Context, job domain.Job) error {
	if job.ClientID != nil && *job.ClientID != "" {
		client, err := s.clientRepo.FindClientByID(ctx, job.CompanyID, *job.ClientID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: client %s not found", apperrors.ErrValidation, *job.ClientID)
			}
			return fmt.Errorf("failed to check client contract: %w", err)
		}
		if job.IsBillable() && client.ContractStatus != domain.ContractActive {
			return fmt.Errorf("%w: client contract is %s, only active contracts can be scheduled", apperrors.ErrConflict, client.ContractStatus)
		}
	}

	if job.EmployeeID != nil && *job.EmployeeID != "" {
		_, err := s.absenceRepo.FindApprovedAbsence(ctx, job.CompanyID, *job.EmployeeID, job.ScheduledDate)
		if err == nil {
			return fmt.Errorf("%w: employee has an approved absence on %s", apperrors.ErrConflict, job.ScheduledDate.Format("2006-01-02"))
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check employee absence: %w", err)
		}
	}

	return nil
}

// CreateJob validates, runs feasibility checks and persists the job. The overlap
// check re-runs inside the repository transaction so no write happens on any
// rejection, including a concurrent one.
func (s *SchedulingService) CreateJob(ctx context.Context, companyID string, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}

	scheduledDate, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}
	startMinute, ok := schedule.ParseStartTime(req.StartTime)
	if !ok {
		return nil, fmt.Errorf("%w: start time must be HH:MM", apperrors.ErrValidation)
	}
	durationMinutes := schedule.ParseDurationMinutes(req.Duration)

	now := time.Now()
	op := domain.OperationType(req.OperationType)
	job := domain.Job{
		JobID:            uuid.NewString(),
		CompanyID:        companyID,
		OperationType:    op,
		ActivityCode:     req.ActivityCode,
		JobType:          domain.JobTypeFor(op),
		ClientID:         req.ClientID,
		AddressSnapshot:  req.AddressSnapshot,
		EmployeeID:       req.EmployeeID,
		ScheduledDate:    scheduledDate,
		StartMinute:      startMinute,
		DurationMinutes:  durationMinutes,
		ServiceCatalogID: req.ServiceCatalogID,
		BillableAmount:   req.BillableAmount,
		Status:           domain.JobScheduled,
		Notes:            req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := validateOperationFields(job); err != nil {
		return nil, err
	}
	if err := s.checkFeasibility(ctx, job); err != nil {
		return nil, err
	}

	if err := s.jobRepo.SaveJobGuarded(ctx, job); err != nil {
		s.LogError(ctx, err, "Failed to save job", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Job scheduled", slog.String("job_id", job.JobID), slog.String("company_id", companyID))
	s.activity.Emit(ctx, companyID, creatorUserID, domain.ActionJobCreated, "JOB", job.JobID, string(job.OperationType))
	if job.EmployeeID != nil && *job.EmployeeID != creatorUserID {
		s.notifier.NotifyUser(ctx, companyID, *job.EmployeeID, "New job assigned",
			fmt.Sprintf("You have a job on %s at %s", scheduledDate.Format("2006-01-02"), req.StartTime))
	}

	return &job, nil
}

// UpdateJob re-runs the same checks excluding the job's own reservation and
// overwrites the mutable scheduling fields.
func (s *SchedulingService) UpdateJob(ctx context.Context, companyID, jobID string, req dto.UpdateJobRequest, updaterUserID string) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, updaterUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == domain.JobCompleted || job.Status == domain.JobCancelled {
		return nil, fmt.Errorf("%w: job %s is %s and can no longer be rescheduled", apperrors.ErrConflict, jobID, job.Status)
	}

	if req.ActivityCode != nil {
		job.ActivityCode = *req.ActivityCode
	}
	if req.ClientID != nil {
		job.ClientID = req.ClientID
	}
	if req.AddressSnapshot != nil {
		job.AddressSnapshot = *req.AddressSnapshot
	}
	if req.EmployeeID != nil {
		job.EmployeeID = req.EmployeeID
	}
	if req.ScheduledDate != nil {
		date, err := parseScheduledDate(*req.ScheduledDate)
		if err != nil {
			return nil, err
		}
		job.ScheduledDate = date
	}
	if req.StartTime != nil {
		startMinute, ok := schedule.ParseStartTime(*req.StartTime)
		if !ok {
			return nil, fmt.Errorf("%w: start time must be HH:MM", apperrors.ErrValidation)
		}
		job.StartMinute = startMinute
	}
	if req.Duration != nil {
		job.DurationMinutes = schedule.ParseDurationMinutes(*req.Duration)
	}
	if req.ServiceCatalogID != nil {
		job.ServiceCatalogID = req.ServiceCatalogID
	}
	if req.BillableAmount != nil {
		job.BillableAmount = req.BillableAmount
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}
	job.LastUpdatedAt = time.Now()
	job.LastUpdatedBy = updaterUserID

	if err := validateOperationFields(*job); err != nil {
		return nil, err
	}
	if err := s.checkFeasibility(ctx, *job); err != nil {
		return nil, err
	}

	if err := s.jobRepo.UpdateJobGuarded(ctx, *job); err != nil {
		s.LogError(ctx, err, "Failed to update job", slog.String("job_id", jobID))
		return nil, err
	}

	s.LogInfo(ctx, "Job rescheduled", slog.String("job_id", jobID))
	s.activity.Emit(ctx, companyID, updaterUserID, domain.ActionJobUpdated, "JOB", jobID, "")
	return job, nil
}

// CancelJob transitions a scheduled or in-progress job to cancelled.
func (s *SchedulingService) CancelJob(ctx context.Context, companyID, jobID string, actorUserID string) error {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleManager); err != nil {
		return err
	}

	job, err := s.jobRepo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return err
	}
	if job.Status == domain.JobCompleted || job.Status == domain.JobCancelled {
		return fmt.Errorf("%w: job %s is already %s", apperrors.ErrConflict, jobID, job.Status)
	}

	if err := s.jobRepo.UpdateJobStatus(ctx, companyID, jobID, domain.JobCancelled, actorUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel job", slog.String("job_id", jobID))
		return err
	}

	s.LogInfo(ctx, "Job cancelled", slog.String("job_id", jobID))
	s.activity.Emit(ctx, companyID, actorUserID, domain.ActionJobCancelled, "JOB", jobID, "")
	if job.EmployeeID != nil && *job.EmployeeID != actorUserID {
		s.notifier.NotifyUser(ctx, companyID, *job.EmployeeID, "Job cancelled",
			fmt.Sprintf("Your job on %s was cancelled", job.ScheduledDate.Format("2006-01-02")))
	}
	return nil
}

// GetJobByID retrieves a single job. Any member of the company may read it.
func (s *SchedulingService) GetJobByID(ctx context.Context, companyID, jobID string, requestingUserID string) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, err
	}
	return s.jobRepo.FindJobByID(ctx, companyID, jobID)
}

// ListJobs retrieves jobs for a company over a date range with cursor pagination.
func (s *SchedulingService) ListJobs(ctx context.Context, companyID string, from, to time.Time, employeeID *string, limit int, nextToken *string, requestingUserID string) ([]domain.Job, *string, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, nil, err
	}

	jobs, token, err := s.jobRepo.ListJobsByCompany(ctx, companyID, from, to, employeeID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list jobs", slog.String("company_id", companyID))
		return nil, nil, err
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, token, nil
}

// GetScheduleView projects jobs onto calendar days, splitting midnight-crossing
// jobs into display segments that share the JobID. The stored row stays single.
func (s *SchedulingService) GetScheduleView(ctx context.Context, companyID string, from, to time.Time, requestingUserID string) ([]dto.ScheduleEntry, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, err
	}

	// Jobs starting the day before can still spill into the window.
	queryFrom := from.AddDate(0, 0, -1)
	jobs, _, err := s.jobRepo.ListJobsByCompany(ctx, companyID, queryFrom, to, nil, 1000, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load jobs for schedule view", slog.String("company_id", companyID))
		return nil, err
	}

	entries := []dto.ScheduleEntry{}
	for _, job := range jobs {
		if job.Status == domain.JobCancelled {
			continue
		}
		segments := schedule.SplitAcrossMidnight(job.ScheduledDate, job.StartMinute, job.DurationMinutes)
		for i, seg := range segments {
			if seg.Date.Before(from) || seg.Date.After(to) {
				continue
			}
			endTime := schedule.FormatMinute(seg.EndMinute % (24 * 60))
			entries = append(entries, dto.ScheduleEntry{
				JobID:        job.JobID,
				Date:         seg.Date,
				StartTime:    schedule.FormatMinute(seg.StartMinute),
				EndTime:      endTime,
				Continuation: i > 0,
				Status:       job.Status,
				EmployeeID:   job.EmployeeID,
				ClientID:     job.ClientID,
			})
		}
	}
	return entries, nil
}
