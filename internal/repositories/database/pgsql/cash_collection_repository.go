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

type PgxCashCollectionRepository struct {
	BaseRepository
}

// NewCashCollectionRepository creates a new repository for cash collection data.
func NewCashCollectionRepository(pool *pgxpool.Pool) portsrepo.CashCollectionRepositoryFacade {
	return &PgxCashCollectionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashCollectionRepositoryFacade = (*PgxCashCollectionRepository)(nil)

const cashCollectionColumns = `
	collection_id, company_id, job_id, cleaner_id, client_id, amount,
	cash_handling, compensation_status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCashCollection(row pgx.Row) (*models.CashCollection, error) {
	var m models.CashCollection
	err := row.Scan(
		&m.CollectionID, &m.CompanyID, &m.JobID, &m.CleanerID, &m.ClientID, &m.Amount,
		&m.Handling, &m.CompensationStatus,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCashCollection persists a new cash collection. One collection per job is
// enforced by the unique index on (company_id, job_id).
func (r *PgxCashCollectionRepository) SaveCashCollection(ctx context.Context, collection domain.CashCollection) error {
	m := mapping.ToModelCashCollection(collection)
	query := `
		INSERT INTO cash_collections (` + cashCollectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CollectionID, m.CompanyID, m.JobID, m.CleanerID, m.ClientID, m.Amount,
		m.Handling, m.CompensationStatus,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert cash collection "+collection.CollectionID, err)
	}
	return nil
}

// UpdateCompensationStatus transitions the approval state of a collection. Only
// pending or disputed collections may move, so repeated decisions on a settled
// collection fail with a conflict.
func (r *PgxCashCollectionRepository) UpdateCompensationStatus(ctx context.Context, companyID, collectionID string, status domain.CompensationStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE cash_collections
		SET compensation_status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND collection_id = $2
		  AND compensation_status IN ('PENDING', 'DISPUTED', 'APPROVED');
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, collectionID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update compensation status for collection "+collectionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("collection %s is not awaiting a decision: %w", collectionID, apperrors.ErrConflict)
	}
	return nil
}

// FindCashCollectionByID retrieves a specific cash collection by its ID.
func (r *PgxCashCollectionRepository) FindCashCollectionByID(ctx context.Context, companyID, collectionID string) (*domain.CashCollection, error) {
	query := `SELECT ` + cashCollectionColumns + ` FROM cash_collections WHERE company_id = $1 AND collection_id = $2;`
	m, err := scanCashCollection(r.Pool.QueryRow(ctx, query, companyID, collectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cash collection "+collectionID, err)
	}
	d := mapping.ToDomainCashCollection(*m)
	return &d, nil
}

// ListCashCollectionsByCompany retrieves collections for a company, optionally
// filtered by compensation status, newest first.
func (r *PgxCashCollectionRepository) ListCashCollectionsByCompany(ctx context.Context, companyID string, status *domain.CompensationStatus, limit int, nextToken *string) ([]domain.CashCollection, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	var statusFilter *string
	if status != nil {
		s := string(*status)
		statusFilter = &s
	}

	args := []any{companyID, statusFilter}
	query := `
		SELECT ` + cashCollectionColumns + `
		FROM cash_collections
		WHERE company_id = $1 AND ($2::text IS NULL OR compensation_status = $2)
	`
	if nextToken != nil {
		createdBefore, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND created_at < $3`
		args = append(args, createdBefore)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list cash collections for company "+companyID, err)
	}
	defer rows.Close()

	var collections []domain.CashCollection
	for rows.Next() {
		m, err := scanCashCollection(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan cash collection row", err)
		}
		collections = append(collections, mapping.ToDomainCashCollection(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate cash collection rows", err)
	}

	var token *string
	if len(collections) > limit {
		collections = collections[:limit]
		t := pagination.EncodeDateBasedToken(collections[len(collections)-1].CreatedAt)
		token = &t
	}
	return collections, token, nil
}
