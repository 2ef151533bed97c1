package models

import "time"

// ActivityLog represents an append-only audit row.
type ActivityLog struct {
	LogID      string    `db:"log_id"`
	CompanyID  string    `db:"company_id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Detail     string    `db:"detail"`
	LoggedAt   time.Time `db:"logged_at"`
}

// Notification represents a user-facing notification row.
type Notification struct {
	NotificationID string     `db:"notification_id"`
	CompanyID      string     `db:"company_id"`
	Audience       string     `db:"audience"`
	UserID         *string    `db:"user_id"`
	Title          string     `db:"title"`
	Message        string     `db:"message"`
	CreatedAt      time.Time  `db:"created_at"`
	ReadAt         *time.Time `db:"read_at"`
}
