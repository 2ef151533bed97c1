package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// CreateUserRequest creates a staff account on behalf of an admin.
type CreateUserRequest struct {
	Name              string           `json:"name" binding:"required"`
	Email             string           `json:"email" binding:"required,email"`
	PaymentModel      string           `json:"paymentModel" binding:"omitempty,oneof=HOURLY FIXED_PER_JOB PERCENTAGE"`
	HourlyRate        *decimal.Decimal `json:"hourlyRate"`
	FixedJobRate      *decimal.Decimal `json:"fixedJobRate"`
	PercentageOfTotal *decimal.Decimal `json:"percentageOfTotal"`
}

// CreateUserResponse returns the created (or pre-existing) account. The
// temporary password is only populated for freshly created accounts.
type CreateUserResponse struct {
	User              domain.User `json:"user"`
	TemporaryPassword string      `json:"temporaryPassword,omitempty"`
	Reused            bool        `json:"reused"`
}

// UpdateUserRequest updates a user's mutable details.
type UpdateUserRequest struct {
	Name              *string          `json:"name"`
	PaymentModel      *string          `json:"paymentModel" binding:"omitempty,oneof=HOURLY FIXED_PER_JOB PERCENTAGE"`
	HourlyRate        *decimal.Decimal `json:"hourlyRate"`
	FixedJobRate      *decimal.Decimal `json:"fixedJobRate"`
	PercentageOfTotal *decimal.Decimal `json:"percentageOfTotal"`
}

// UserResponse is the API shape of a user (no credential material).
type UserResponse struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ToUserResponse maps a domain user to its API shape.
func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{UserID: u.UserID, Name: u.Name, Email: u.Email}
}
