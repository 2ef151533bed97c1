package repositories

import (
	"context"
	"time"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// JobReader defines read operations for job data
type JobReader interface {
	// FindJobByID retrieves a specific job by its unique identifier.
	FindJobByID(ctx context.Context, companyID, jobID string) (*domain.Job, error)

	// ListJobsByCompany retrieves a paginated list of jobs for a company within a
	// date range, optionally filtered to a single employee.
	ListJobsByCompany(ctx context.Context, companyID string, from, to time.Time, employeeID *string, limit int, nextToken *string) ([]domain.Job, *string, error)

	// ListJobsForEmployeeOnDate retrieves all non-cancelled jobs for an employee
	// on a given scheduled date.
	ListJobsForEmployeeOnDate(ctx context.Context, companyID, employeeID string, date time.Time) ([]domain.Job, error)
}

// JobWriter defines write operations for job data
type JobWriter interface {
	// SaveJobGuarded inserts a job after re-running the employee overlap check
	// inside the same database transaction, holding a per-(company, employee,
	// date) advisory lock so two concurrent schedulers cannot both pass the
	// check. Returns apperrors.ErrConflict when the interval overlaps an
	// existing non-cancelled job.
	SaveJobGuarded(ctx context.Context, job domain.Job) error

	// UpdateJobGuarded overwrites the mutable scheduling fields of a job under
	// the same overlap guard, excluding the job's own prior reservation.
	UpdateJobGuarded(ctx context.Context, job domain.Job) error

	// UpdateJobStatus performs a status-only transition (cancel).
	UpdateJobStatus(ctx context.Context, companyID, jobID string, status domain.JobStatus, updatedBy string, updatedAt time.Time) error

	// StartJob writes the in-progress status together with the before photos in
	// a single row update guarded on the scheduled status, so a concurrent
	// start or completion loses with apperrors.ErrConflict.
	StartJob(ctx context.Context, job domain.Job) error

	// CompleteJob atomically writes the completed status together with the
	// completion and payment payloads in a single row update.
	CompleteJob(ctx context.Context, job domain.Job) error
}

// JobRepositoryFacade combines all job-related repository interfaces
type JobRepositoryFacade interface {
	JobReader
	JobWriter
}
