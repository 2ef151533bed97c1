package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	"github.com/tidyops/cleanops_backend/internal/models"
	"github.com/tidyops/cleanops_backend/internal/utils/mapping"
)

type PgxActivityLogRepository struct {
	BaseRepository
}

// NewActivityLogRepository creates a new repository for audit entries.
func NewActivityLogRepository(pool *pgxpool.Pool) portsrepo.ActivityLogRepositoryFacade {
	return &PgxActivityLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActivityLogRepositoryFacade = (*PgxActivityLogRepository)(nil)

// AppendActivityLog persists an audit entry. Entries are never updated.
func (r *PgxActivityLogRepository) AppendActivityLog(ctx context.Context, entry domain.ActivityLog) error {
	m := mapping.ToModelActivityLog(entry)
	query := `
		INSERT INTO activity_logs (log_id, company_id, actor_id, action, entity_type, entity_id, detail, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LogID, m.CompanyID, m.ActorID, m.Action, m.EntityType, m.EntityID, m.Detail, m.LoggedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append activity log "+entry.LogID, err)
	}
	return nil
}

// ListActivityLogs retrieves the most recent audit entries for a company.
func (r *PgxActivityLogRepository) ListActivityLogs(ctx context.Context, companyID string, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT log_id, company_id, actor_id, action, entity_type, entity_id, detail, logged_at
		FROM activity_logs
		WHERE company_id = $1
		ORDER BY logged_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list activity logs for company "+companyID, err)
	}
	defer rows.Close()

	var entries []domain.ActivityLog
	for rows.Next() {
		var m models.ActivityLog
		if err := rows.Scan(&m.LogID, &m.CompanyID, &m.ActorID, &m.Action, &m.EntityType, &m.EntityID, &m.Detail, &m.LoggedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity log row", err)
		}
		entries = append(entries, mapping.ToDomainActivityLog(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate activity log rows", err)
	}
	return entries, nil
}
