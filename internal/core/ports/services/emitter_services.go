package services

import (
	"context"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// ActivityEmitterSvc is the best-effort audit trail. Implementations log append
// failures and never propagate them; callers invoke it after the primary write
// has committed.
type ActivityEmitterSvc interface {
	// Emit appends an audit entry. Never returns an error to the caller's flow.
	Emit(ctx context.Context, companyID, actorID string, action domain.ActivityAction, entityType, entityID, detail string)

	// ListRecent retrieves the most recent audit entries for a company.
	ListRecent(ctx context.Context, companyID string, limit int, requestingUserID string) ([]domain.ActivityLog, error)
}

// NotifierSvc is the best-effort notification dispatch. Failures are logged and
// swallowed.
type NotifierSvc interface {
	// NotifyUser addresses a notification to a single user.
	NotifyUser(ctx context.Context, companyID, userID, title, message string)

	// NotifyAdmins addresses a notification to the company's admin role rather
	// than a specific user.
	NotifyAdmins(ctx context.Context, companyID, title, message string)

	// ListForUser retrieves notifications visible to the user.
	ListForUser(ctx context.Context, companyID, userID string, isAdmin bool, limit int) ([]domain.Notification, error)

	// MarkRead stamps the read time on a notification.
	MarkRead(ctx context.Context, companyID, notificationID, userID string) error
}

// ReceiptMailer is the outbound email collaborator. It is fire-and-forget:
// failure to send never rolls back or flags the receipt.
type ReceiptMailer interface {
	// SendReceipt dispatches a receipt to the client's email address.
	SendReceipt(ctx context.Context, receipt domain.PaymentReceipt, recipientEmail string) error
}
