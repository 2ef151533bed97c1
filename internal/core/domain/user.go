package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user of the application in the domain.
type User struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	// Compensation model used by payroll derivation when this user is the
	// assigned employee on a completed job.
	PaymentModel      PaymentModel    `json:"paymentModel"`
	HourlyRate        decimal.Decimal `json:"hourlyRate"`
	FixedJobRate      decimal.Decimal `json:"fixedJobRate"`
	PercentageOfTotal decimal.Decimal `json:"percentageOfTotal"` // percent

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
