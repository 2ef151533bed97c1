package domain

import "time"

// ActivityAction identifies which workflow mutation produced an audit entry.
type ActivityAction string

const (
	ActionJobCreated         ActivityAction = "JOB_CREATED"
	ActionJobUpdated         ActivityAction = "JOB_UPDATED"
	ActionJobCancelled       ActivityAction = "JOB_CANCELLED"
	ActionJobStarted         ActivityAction = "JOB_STARTED"
	ActionJobCompleted       ActivityAction = "JOB_COMPLETED"
	ActionCashApproved       ActivityAction = "CASH_APPROVED"
	ActionCashDisputed       ActivityAction = "CASH_DISPUTED"
	ActionCashSettled        ActivityAction = "CASH_SETTLED"
	ActionInvoiceCreated     ActivityAction = "INVOICE_CREATED"
	ActionInvoiceCancelled   ActivityAction = "INVOICE_CANCELLED"
	ActionInvoiceDeleted     ActivityAction = "INVOICE_DELETED"
	ActionInvoiceRegenerated ActivityAction = "INVOICE_REGENERATED"
	ActionInvoicePaid        ActivityAction = "INVOICE_PAID"
	ActionReceiptCreated     ActivityAction = "RECEIPT_CREATED"
	ActionReceiptSent        ActivityAction = "RECEIPT_SENT"
)

// ActivityLog is a best-effort append-only audit entry. Failures to record one
// never roll back the action that produced it.
type ActivityLog struct {
	LogID      string         `json:"logID"`
	CompanyID  string         `json:"companyID"`
	ActorID    string         `json:"actorID"`
	Action     ActivityAction `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	Detail     string         `json:"detail,omitempty"`
	LoggedAt   time.Time      `json:"loggedAt"`
}

// NotificationAudience addresses a notification to a single user or a whole role.
type NotificationAudience string

const (
	AudienceUser  NotificationAudience = "USER"
	AudienceAdmin NotificationAudience = "ADMIN"
)

// Notification is a best-effort user-facing message about a state transition
// relevant to someone other than the actor.
type Notification struct {
	NotificationID string               `json:"notificationID"`
	CompanyID      string               `json:"companyID"`
	Audience       NotificationAudience `json:"audience"`
	UserID         *string              `json:"userID,omitempty"` // nil for role-addressed
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	CreatedAt      time.Time            `json:"createdAt"`
	ReadAt         *time.Time           `json:"readAt,omitempty"`
}
