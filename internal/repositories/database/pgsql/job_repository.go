package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	"github.com/tidyops/cleanops_backend/internal/models"
	"github.com/tidyops/cleanops_backend/internal/utils/mapping"
	"github.com/tidyops/cleanops_backend/internal/utils/pagination"
)

type PgxJobRepository struct {
	BaseRepository
}

// NewJobRepository creates a new repository for job data.
func NewJobRepository(pool *pgxpool.Pool) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

const jobColumns = `
	job_id, company_id, operation_type, activity_code, job_type,
	client_id, address_snapshot, employee_id,
	scheduled_date, start_minute, duration_minutes,
	service_catalog_id, billable_amount, status,
	before_photos, after_photos, checklist, notes, completed_at,
	payment_method, payment_amount, payment_date, payment_reference,
	payment_received_by, cash_handling_choice,
	visit_purpose, visit_outcome, visit_notes, visit_next_action,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJob(row pgx.Row) (*models.Job, error) {
	var m models.Job
	err := row.Scan(
		&m.JobID, &m.CompanyID, &m.OperationType, &m.ActivityCode, &m.JobType,
		&m.ClientID, &m.AddressSnapshot, &m.EmployeeID,
		&m.ScheduledDate, &m.StartMinute, &m.DurationMinutes,
		&m.ServiceCatalogID, &m.BillableAmount, &m.Status,
		&m.BeforePhotos, &m.AfterPhotos, &m.ChecklistJSON, &m.Notes, &m.CompletedAt,
		&m.PaymentMethod, &m.PaymentAmount, &m.PaymentDate, &m.PaymentReference,
		&m.PaymentReceivedBy, &m.CashChoice,
		&m.VisitPurpose, &m.VisitOutcome, &m.VisitNotes, &m.VisitNextAction,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// lockSchedule serializes all scheduling writes for a single employee on a
// single date within the calling transaction, so the overlap check and the
// subsequent insert/update cannot interleave with a concurrent scheduler.
func lockSchedule(ctx context.Context, tx pgx.Tx, companyID, employeeID string, date time.Time) error {
	key := fmt.Sprintf("%s:%s:%s", companyID, employeeID, date.Format("2006-01-02"))
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, key)
	return err
}

// hasOverlap checks, inside the transaction, whether the employee already has a
// non-cancelled job on the date whose half-open interval intersects the
// requested one. excludeJobID skips the job's own prior reservation on update.
func hasOverlap(ctx context.Context, tx pgx.Tx, companyID, employeeID string, date time.Time, startMinute, endMinute int, excludeJobID *string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM jobs
			WHERE company_id = $1
			  AND employee_id = $2
			  AND scheduled_date = $3
			  AND status <> 'CANCELLED'
			  AND start_minute < $5
			  AND start_minute + duration_minutes > $4
			  AND ($6::text IS NULL OR job_id <> $6)
		);
	`
	var exists bool
	err := tx.QueryRow(ctx, query, companyID, employeeID, date, startMinute, endMinute, excludeJobID).Scan(&exists)
	return exists, err
}

func insertJob(ctx context.Context, tx pgx.Tx, m models.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25,
		        $26, $27, $28, $29, $30, $31, $32, $33);
	`
	_, err := tx.Exec(ctx, query,
		m.JobID, m.CompanyID, m.OperationType, m.ActivityCode, m.JobType,
		m.ClientID, m.AddressSnapshot, m.EmployeeID,
		m.ScheduledDate, m.StartMinute, m.DurationMinutes,
		m.ServiceCatalogID, m.BillableAmount, m.Status,
		m.BeforePhotos, m.AfterPhotos, m.ChecklistJSON, m.Notes, m.CompletedAt,
		m.PaymentMethod, m.PaymentAmount, m.PaymentDate, m.PaymentReference,
		m.PaymentReceivedBy, m.CashChoice,
		m.VisitPurpose, m.VisitOutcome, m.VisitNotes, m.VisitNextAction,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

// SaveJobGuarded inserts a job after re-running the overlap check inside one
// transaction. Jobs without an assigned employee (internal work) skip the guard.
func (r *PgxJobRepository) SaveJobGuarded(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if job.EmployeeID != nil {
		if err := lockSchedule(ctx, tx, job.CompanyID, *job.EmployeeID, job.ScheduledDate); err != nil {
			return apperrors.NewAppError(500, "failed to lock schedule for employee "+*job.EmployeeID, err)
		}
		overlap, err := hasOverlap(ctx, tx, job.CompanyID, *job.EmployeeID, job.ScheduledDate, job.StartMinute, job.EndMinute(), nil)
		if err != nil {
			return apperrors.NewAppError(500, "failed to check schedule overlap", err)
		}
		if overlap {
			return fmt.Errorf("employee already has a job overlapping the requested time: %w", apperrors.ErrConflict)
		}
	}

	if err := insertJob(ctx, tx, m); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert job "+m.JobID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateJobGuarded overwrites the mutable scheduling fields under the same
// overlap guard, excluding the job's own prior reservation.
func (r *PgxJobRepository) UpdateJobGuarded(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if job.EmployeeID != nil {
		if err := lockSchedule(ctx, tx, job.CompanyID, *job.EmployeeID, job.ScheduledDate); err != nil {
			return apperrors.NewAppError(500, "failed to lock schedule for employee "+*job.EmployeeID, err)
		}
		overlap, err := hasOverlap(ctx, tx, job.CompanyID, *job.EmployeeID, job.ScheduledDate, job.StartMinute, job.EndMinute(), &job.JobID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to check schedule overlap", err)
		}
		if overlap {
			return fmt.Errorf("employee already has a job overlapping the requested time: %w", apperrors.ErrConflict)
		}
	}

	query := `
		UPDATE jobs SET
			activity_code = $3, client_id = $4, address_snapshot = $5,
			employee_id = $6, scheduled_date = $7, start_minute = $8,
			duration_minutes = $9, service_catalog_id = $10, billable_amount = $11,
			notes = $12, last_updated_at = $13, last_updated_by = $14
		WHERE company_id = $1 AND job_id = $2;
	`
	tag, err := tx.Exec(ctx, query,
		m.CompanyID, m.JobID, m.ActivityCode, m.ClientID, m.AddressSnapshot,
		m.EmployeeID, m.ScheduledDate, m.StartMinute,
		m.DurationMinutes, m.ServiceCatalogID, m.BillableAmount,
		m.Notes, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update job "+m.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// UpdateJobStatus performs a status-only transition. The expected current
// statuses are enforced by the service layer; the write still guards against
// lost updates by matching on the prior status set implicitly via the service's
// read-modify-write under application rules.
func (r *PgxJobRepository) UpdateJobStatus(ctx context.Context, companyID, jobID string, status domain.JobStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE jobs
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND job_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, jobID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for job "+jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// StartJob writes the in-progress status and the before photos in one row
// update. The scheduled-status precondition in the WHERE clause makes a
// concurrent start or completion lose cleanly.
func (r *PgxJobRepository) StartJob(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)
	query := `
		UPDATE jobs SET
			status = $3, before_photos = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND job_id = $2 AND status = 'SCHEDULED';
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.JobID, m.Status, m.BeforePhotos,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to start job "+m.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s is not in a startable state: %w", m.JobID, apperrors.ErrConflict)
	}
	return nil
}

// CompleteJob atomically writes the completed status together with the
// completion and payment payloads in one row update. The status precondition in
// the WHERE clause makes a concurrent double-completion lose cleanly.
func (r *PgxJobRepository) CompleteJob(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)
	query := `
		UPDATE jobs SET
			status = $3,
			before_photos = $4, after_photos = $5, checklist = $6, notes = $7,
			completed_at = $8,
			payment_method = $9, payment_amount = $10, payment_date = $11,
			payment_reference = $12, payment_received_by = $13, cash_handling_choice = $14,
			visit_purpose = $15, visit_outcome = $16, visit_notes = $17, visit_next_action = $18,
			last_updated_at = $19, last_updated_by = $20
		WHERE company_id = $1 AND job_id = $2 AND status IN ('SCHEDULED', 'IN_PROGRESS');
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.JobID, m.Status,
		m.BeforePhotos, m.AfterPhotos, m.ChecklistJSON, m.Notes,
		m.CompletedAt,
		m.PaymentMethod, m.PaymentAmount, m.PaymentDate,
		m.PaymentReference, m.PaymentReceivedBy, m.CashChoice,
		m.VisitPurpose, m.VisitOutcome, m.VisitNotes, m.VisitNextAction,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete job "+m.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s is not in a completable state: %w", m.JobID, apperrors.ErrConflict)
	}
	return nil
}

// FindJobByID retrieves a job by its ID within a company.
func (r *PgxJobRepository) FindJobByID(ctx context.Context, companyID, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1 AND job_id = $2;`
	m, err := scanJob(r.Pool.QueryRow(ctx, query, companyID, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find job "+jobID, err)
	}
	d, err := mapping.ToDomainJob(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map job "+jobID, err)
	}
	return &d, nil
}

// ListJobsForEmployeeOnDate retrieves all non-cancelled jobs for an employee on
// a given scheduled date, ordered by start time.
func (r *PgxJobRepository) ListJobsForEmployeeOnDate(ctx context.Context, companyID, employeeID string, date time.Time) ([]domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1 AND employee_id = $2 AND scheduled_date = $3 AND status <> 'CANCELLED'
		ORDER BY start_minute;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, employeeID, date)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list jobs for employee "+employeeID, err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListJobsByCompany retrieves a paginated list of jobs within a date range,
// optionally filtered to a single employee. Pagination is by
// (scheduled_date, created_at) cursor tokens.
func (r *PgxJobRepository) ListJobsByCompany(ctx context.Context, companyID string, from, to time.Time, employeeID *string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []any{companyID, from, to, employeeID}
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1
		  AND scheduled_date >= $2
		  AND scheduled_date <= $3
		  AND ($4::text IS NULL OR employee_id = $4)
	`
	if nextToken != nil {
		schedDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (scheduled_date, created_at) > ($5, $6)`
		args = append(args, schedDate, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY scheduled_date, created_at LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list jobs for company "+companyID, err)
	}
	defer rows.Close()

	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(jobs) > limit {
		jobs = jobs[:limit]
		last := jobs[len(jobs)-1]
		t := pagination.EncodeToken(last.ScheduledDate, last.CreatedAt)
		token = &t
	}
	return jobs, token, nil
}

func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	var jobs []domain.Job
	for rows.Next() {
		m, err := scanJob(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan job row", err)
		}
		d, err := mapping.ToDomainJob(*m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to map job row", err)
		}
		jobs = append(jobs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate job rows", err)
	}
	return jobs, nil
}
