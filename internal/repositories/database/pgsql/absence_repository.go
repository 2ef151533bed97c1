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
)

type PgxAbsenceRepository struct {
	BaseRepository
}

// NewAbsenceRepository creates a new repository for absence requests.
func NewAbsenceRepository(pool *pgxpool.Pool) portsrepo.AbsenceRepositoryFacade {
	return &PgxAbsenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AbsenceRepositoryFacade = (*PgxAbsenceRepository)(nil)

const absenceColumns = `
	absence_id, company_id, employee_id, start_date, end_date, reason, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAbsence(row pgx.Row) (*models.AbsenceRequest, error) {
	var m models.AbsenceRequest
	err := row.Scan(
		&m.AbsenceID, &m.CompanyID, &m.EmployeeID, &m.StartDate, &m.EndDate, &m.Reason, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAbsenceRequest persists a new absence request.
func (r *PgxAbsenceRepository) SaveAbsenceRequest(ctx context.Context, absence domain.AbsenceRequest) error {
	m := mapping.ToModelAbsenceRequest(absence)
	query := `
		INSERT INTO absence_requests (` + absenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AbsenceID, m.CompanyID, m.EmployeeID, m.StartDate, m.EndDate, m.Reason, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert absence request "+absence.AbsenceID, err)
	}
	return nil
}

// UpdateAbsenceStatus transitions an absence request. Only requests still in
// REQUESTED state may be decided.
func (r *PgxAbsenceRepository) UpdateAbsenceStatus(ctx context.Context, companyID, absenceID string, status domain.AbsenceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE absence_requests
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND absence_id = $2 AND status = 'REQUESTED';
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, absenceID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update absence request "+absenceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("absence request %s was already decided: %w", absenceID, apperrors.ErrConflict)
	}
	return nil
}

// FindApprovedAbsence retrieves an approved absence covering the given date for
// the employee.
func (r *PgxAbsenceRepository) FindApprovedAbsence(ctx context.Context, companyID, employeeID string, date time.Time) (*domain.AbsenceRequest, error) {
	query := `
		SELECT ` + absenceColumns + `
		FROM absence_requests
		WHERE company_id = $1 AND employee_id = $2 AND status = 'APPROVED'
		  AND start_date <= $3 AND end_date >= $3
		LIMIT 1;
	`
	m, err := scanAbsence(r.Pool.QueryRow(ctx, query, companyID, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find approved absence for employee "+employeeID, err)
	}
	d := mapping.ToDomainAbsenceRequest(*m)
	return &d, nil
}

// ListAbsencesByCompany retrieves absence requests for a company, optionally
// filtered by status.
func (r *PgxAbsenceRepository) ListAbsencesByCompany(ctx context.Context, companyID string, status *domain.AbsenceStatus) ([]domain.AbsenceRequest, error) {
	var statusFilter *string
	if status != nil {
		s := string(*status)
		statusFilter = &s
	}
	query := `
		SELECT ` + absenceColumns + `
		FROM absence_requests
		WHERE company_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY start_date DESC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, statusFilter)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list absence requests for company "+companyID, err)
	}
	defer rows.Close()

	var absences []domain.AbsenceRequest
	for rows.Next() {
		m, err := scanAbsence(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan absence request row", err)
		}
		absences = append(absences, mapping.ToDomainAbsenceRequest(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate absence request rows", err)
	}
	return absences, nil
}
