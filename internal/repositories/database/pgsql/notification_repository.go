package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	"github.com/tidyops/cleanops_backend/internal/models"
	"github.com/tidyops/cleanops_backend/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// NewNotificationRepository creates a new repository for notifications.
func NewNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotification persists a notification.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)
	query := `
		INSERT INTO notifications (notification_id, company_id, audience, user_id, title, message, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.NotificationID, m.CompanyID, m.Audience, m.UserID, m.Title, m.Message, m.CreatedAt, m.ReadAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert notification "+notification.NotificationID, err)
	}
	return nil
}

// MarkNotificationRead stamps the read time. Scoped to the user so one member
// cannot mark another member's notification.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, companyID, notificationID, userID string) error {
	query := `
		UPDATE notifications
		SET read_at = $4
		WHERE company_id = $1 AND notification_id = $2
		  AND (user_id = $3 OR audience = 'ADMIN')
		  AND read_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, notificationID, userID, time.Now().UTC())
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification read "+notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListNotificationsForUser retrieves notifications addressed to the user
// directly, plus the admin-audience ones when the user holds an admin role.
func (r *PgxNotificationRepository) ListNotificationsForUser(ctx context.Context, companyID, userID string, isAdmin bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT notification_id, company_id, audience, user_id, title, message, created_at, read_at
		FROM notifications
		WHERE company_id = $1 AND (user_id = $2 OR (audience = 'ADMIN' AND $3))
		ORDER BY created_at DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, userID, isAdmin, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list notifications for user "+userID, err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.NotificationID, &m.CompanyID, &m.Audience, &m.UserID, &m.Title, &m.Message, &m.CreatedAt, &m.ReadAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan notification row", err)
		}
		notifications = append(notifications, mapping.ToDomainNotification(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate notification rows", err)
	}
	return notifications, nil
}
