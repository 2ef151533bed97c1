package services

import (
	"context"
	"time"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/utils/schedule"
)

// SchedulingReaderSvc defines read operations for the schedule
type SchedulingReaderSvc interface {
	// GetJobByID retrieves a single job.
	GetJobByID(ctx context.Context, companyID, jobID string, requestingUserID string) (*domain.Job, error)

	// ListJobs retrieves jobs for a company over a date range with cursor pagination.
	ListJobs(ctx context.Context, companyID string, from, to time.Time, employeeID *string, limit int, nextToken *string, requestingUserID string) ([]domain.Job, *string, error)

	// GetScheduleView projects jobs onto calendar days, splitting midnight-crossing
	// jobs into display segments. The underlying rows stay single and authoritative.
	GetScheduleView(ctx context.Context, companyID string, from, to time.Time, requestingUserID string) ([]dto.ScheduleEntry, error)
}

// SchedulingWriterSvc defines scheduling mutations with conflict detection
type SchedulingWriterSvc interface {
	// CreateJob validates operation-type requirements, runs the feasibility
	// checks (employee overlap, approved absence, active client contract) and
	// persists the job. No write occurs on any rejection.
	CreateJob(ctx context.Context, companyID string, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error)

	// UpdateJob re-runs the same checks excluding the job's own reservation and
	// overwrites the mutable scheduling fields. Status is not updatable here.
	UpdateJob(ctx context.Context, companyID, jobID string, req dto.UpdateJobRequest, updaterUserID string) (*domain.Job, error)

	// CancelJob transitions a scheduled job to cancelled.
	CancelJob(ctx context.Context, companyID, jobID string, actorUserID string) error
}

// SchedulingSvcFacade combines all scheduling service interfaces
type SchedulingSvcFacade interface {
	SchedulingReaderSvc
	SchedulingWriterSvc
}

// CompletionSvcFacade drives the job state machine past scheduling.
type CompletionSvcFacade interface {
	// StartJob transitions scheduled -> in progress, recording optional before
	// photos. Allowed for the assigned employee or an admin/manager.
	StartJob(ctx context.Context, companyID, jobID string, req dto.StartJobRequest, actorUserID string) (*domain.Job, error)

	// CompleteJob transitions to completed, validating and persisting the
	// completion and payment payloads in one atomic row write. Downstream
	// effects (audit, notification, cash handling, billing derivation) fire
	// only after the status write succeeds and are best-effort.
	CompleteJob(ctx context.Context, companyID, jobID string, req dto.CompleteJobRequest, actorUserID string) (*domain.Job, error)

	// CompleteVisit is the simpler completion for non-billable visits: outcome,
	// notes and next action only, no payment.
	CompleteVisit(ctx context.Context, companyID, jobID string, req dto.CompleteVisitRequest, actorUserID string) (*domain.Job, error)
}

// ScheduleSegment re-exports the projection type for handler use.
type ScheduleSegment = schedule.Segment
