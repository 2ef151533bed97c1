package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user row.
type User struct {
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`

	PaymentModel      string          `db:"payment_model"`
	HourlyRate        decimal.Decimal `db:"hourly_rate"`
	FixedJobRate      decimal.Decimal `db:"fixed_job_rate"`
	PercentageOfTotal decimal.Decimal `db:"percentage_of_total"`

	RefreshTokenHash       string     `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`

	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
