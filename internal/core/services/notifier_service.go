package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
)

// NotifierService is the best-effort notification dispatch. Save failures are
// logged and swallowed.
type NotifierService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
}

// NewNotifierService creates a new NotifierService.
func NewNotifierService(notificationRepo portsrepo.NotificationRepositoryFacade) portssvc.NotifierSvc {
	return &NotifierService{notificationRepo: notificationRepo}
}

var _ portssvc.NotifierSvc = (*NotifierService)(nil)

func (s *NotifierService) save(ctx context.Context, notification domain.Notification) {
	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		s.LogError(ctx, err, "Failed to save notification",
			slog.String("company_id", notification.CompanyID),
			slog.String("title", notification.Title))
	}
}

// NotifyUser addresses a notification to a single user.
func (s *NotifierService) NotifyUser(ctx context.Context, companyID, userID, title, message string) {
	s.save(ctx, domain.Notification{
		NotificationID: uuid.NewString(),
		CompanyID:      companyID,
		Audience:       domain.AudienceUser,
		UserID:         &userID,
		Title:          title,
		Message:        message,
		CreatedAt:      time.Now(),
	})
}

// NotifyAdmins addresses a notification to the company's admin role.
func (s *NotifierService) NotifyAdmins(ctx context.Context, companyID, title, message string) {
	s.save(ctx, domain.Notification{
		NotificationID: uuid.NewString(),
		CompanyID:      companyID,
		Audience:       domain.AudienceAdmin,
		Title:          title,
		Message:        message,
		CreatedAt:      time.Now(),
	})
}

// ListForUser retrieves notifications visible to the user.
func (s *NotifierService) ListForUser(ctx context.Context, companyID, userID string, isAdmin bool, limit int) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.ListNotificationsForUser(ctx, companyID, userID, isAdmin, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications", slog.String("user_id", userID))
		return nil, err
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, nil
}

// MarkRead stamps the read time on a notification.
func (s *NotifierService) MarkRead(ctx context.Context, companyID, notificationID, userID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, companyID, notificationID, userID)
}
