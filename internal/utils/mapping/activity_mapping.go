package mapping

import (
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/models"
)

// ToModelActivityLog converts a domain ActivityLog to a model ActivityLog.
func ToModelActivityLog(d domain.ActivityLog) models.ActivityLog {
	return models.ActivityLog{
		LogID:      d.LogID,
		CompanyID:  d.CompanyID,
		ActorID:    d.ActorID,
		Action:     string(d.Action),
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Detail:     d.Detail,
		LoggedAt:   d.LoggedAt,
	}
}

// ToDomainActivityLog converts a model ActivityLog to a domain ActivityLog.
func ToDomainActivityLog(m models.ActivityLog) domain.ActivityLog {
	return domain.ActivityLog{
		LogID:      m.LogID,
		CompanyID:  m.CompanyID,
		ActorID:    m.ActorID,
		Action:     domain.ActivityAction(m.Action),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Detail:     m.Detail,
		LoggedAt:   m.LoggedAt,
	}
}

// ToModelNotification converts a domain Notification to a model Notification.
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		CompanyID:      d.CompanyID,
		Audience:       string(d.Audience),
		UserID:         d.UserID,
		Title:          d.Title,
		Message:        d.Message,
		CreatedAt:      d.CreatedAt,
		ReadAt:         d.ReadAt,
	}
}

// ToDomainNotification converts a model Notification to a domain Notification.
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		CompanyID:      m.CompanyID,
		Audience:       domain.NotificationAudience(m.Audience),
		UserID:         m.UserID,
		Title:          m.Title,
		Message:        m.Message,
		CreatedAt:      m.CreatedAt,
		ReadAt:         m.ReadAt,
	}
}
