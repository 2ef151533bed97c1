package repositories

import (
	"context"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// ActivityLogWriter defines the append operation for audit entries
type ActivityLogWriter interface {
	// AppendActivityLog persists an audit entry.
	AppendActivityLog(ctx context.Context, entry domain.ActivityLog) error
}

// ActivityLogReader defines read operations for audit entries
type ActivityLogReader interface {
	// ListActivityLogs retrieves the most recent audit entries for a company.
	ListActivityLogs(ctx context.Context, companyID string, limit int) ([]domain.ActivityLog, error)
}

// ActivityLogRepositoryFacade combines activity log repository interfaces
type ActivityLogRepositoryFacade interface {
	ActivityLogWriter
	ActivityLogReader
}

// NotificationWriter defines write operations for notifications
type NotificationWriter interface {
	// SaveNotification persists a notification.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// MarkNotificationRead stamps the read time on a notification.
	MarkNotificationRead(ctx context.Context, companyID, notificationID, userID string) error
}

// NotificationReader defines read operations for notifications
type NotificationReader interface {
	// ListNotificationsForUser retrieves notifications addressed to the user
	// directly or to a role the user holds in the company.
	ListNotificationsForUser(ctx context.Context, companyID, userID string, isAdmin bool, limit int) ([]domain.Notification, error)
}

// NotificationRepositoryFacade combines notification repository interfaces
type NotificationRepositoryFacade interface {
	NotificationWriter
	NotificationReader
}
