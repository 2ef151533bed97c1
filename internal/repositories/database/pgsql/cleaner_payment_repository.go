package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	"github.com/tidyops/cleanops_backend/internal/models"
	"github.com/tidyops/cleanops_backend/internal/utils/mapping"
)

type PgxCleanerPaymentRepository struct {
	BaseRepository
}

// NewCleanerPaymentRepository creates a new repository for derived payroll rows.
func NewCleanerPaymentRepository(pool *pgxpool.Pool) portsrepo.CleanerPaymentRepositoryFacade {
	return &PgxCleanerPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CleanerPaymentRepositoryFacade = (*PgxCleanerPaymentRepository)(nil)

const cleanerPaymentColumns = `
	payment_id, company_id, job_id, employee_id, payment_model, amount,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveCleanerPayment persists a derived payment row. The unique index on
// (company_id, job_id) makes re-derivation for the same job a duplicate.
func (r *PgxCleanerPaymentRepository) SaveCleanerPayment(ctx context.Context, payment domain.CleanerPayment) error {
	m := mapping.ToModelCleanerPayment(payment)
	query := `
		INSERT INTO cleaner_payments (` + cleanerPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID, m.CompanyID, m.JobID, m.EmployeeID, m.Model, m.Amount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert cleaner payment "+payment.PaymentID, err)
	}
	return nil
}

// FindPaymentByJobID retrieves the derived payment for a job.
func (r *PgxCleanerPaymentRepository) FindPaymentByJobID(ctx context.Context, companyID, jobID string) (*domain.CleanerPayment, error) {
	query := `SELECT ` + cleanerPaymentColumns + ` FROM cleaner_payments WHERE company_id = $1 AND job_id = $2;`
	var m models.CleanerPayment
	err := r.Pool.QueryRow(ctx, query, companyID, jobID).Scan(
		&m.PaymentID, &m.CompanyID, &m.JobID, &m.EmployeeID, &m.Model, &m.Amount,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cleaner payment for job "+jobID, err)
	}
	d := mapping.ToDomainCleanerPayment(m)
	return &d, nil
}

// SummarizeEarnings aggregates per-employee gross earnings against the jobs
// completed in the range, and nets out cash the employee kept where the
// compensation was approved or settled. Rows are keyed by the payment's
// employee, so reassigning a job after completion does not move its earnings.
func (r *PgxCleanerPaymentRepository) SummarizeEarnings(ctx context.Context, companyID string, from, to time.Time) ([]domain.EarningsSummary, error) {
	query := `
		SELECT
			p.employee_id,
			COALESCE(u.name, ''),
			COUNT(p.payment_id),
			COALESCE(SUM(p.amount), 0),
			COALESCE(SUM(c.amount), 0)
		FROM cleaner_payments p
		JOIN jobs j ON j.company_id = p.company_id AND j.job_id = p.job_id
		LEFT JOIN users u ON u.user_id = p.employee_id
		LEFT JOIN cash_collections c
			ON c.company_id = p.company_id AND c.job_id = p.job_id
			AND c.cash_handling = 'KEPT_BY_CLEANER'
			AND c.compensation_status IN ('APPROVED', 'SETTLED')
		WHERE p.company_id = $1
		  AND j.scheduled_date >= $2 AND j.scheduled_date <= $3
		GROUP BY p.employee_id, u.name
		ORDER BY p.employee_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to summarize earnings for company "+companyID, err)
	}
	defer rows.Close()

	var summaries []domain.EarningsSummary
	for rows.Next() {
		var s domain.EarningsSummary
		if err := rows.Scan(&s.EmployeeID, &s.EmployeeName, &s.JobCount, &s.GrossEarned, &s.CashKept); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan earnings row", err)
		}
		s.NetPayable = s.GrossEarned.Sub(s.CashKept)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate earnings rows", err)
	}
	return summaries, nil
}
