package services

import (
	"context"
	"time"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a specific user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a user account on behalf of an admin. When the email
	// is new, a temporary password is generated and returned; when the account
	// already exists, the existing user is returned with Reused set.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*dto.CreateUserResponse, error)

	// UpdateUser updates a user's details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error
}

// UserAuthenticatorSvc verifies credentials and manages refresh token state.
type UserAuthenticatorSvc interface {
	// AuthenticateUser verifies email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// StoreRefreshTokenHash persists the hash and expiry of a rotated token.
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error

	// ClearRefreshToken invalidates the stored refresh token at sign-out.
	ClearRefreshToken(ctx context.Context, userID string) error

	// GetOrCreateGoogleUser finds the user matching a verified Google profile,
	// creating one on first sign-in.
	GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthenticatorSvc
}

// TokenSvcFacade handles JWT and refresh token generation/validation.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a new JWT access token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a new raw refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a raw refresh token against the
	// stored hash and returns the user on success.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)
}

// GoogleOAuthSvcFacade validates Google sign-in credentials.
type GoogleOAuthSvcFacade interface {
	// ValidateGoogleIDToken validates an ID token and returns the verified
	// profile fields.
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*domain.GoogleUserInfo, error)

	// ExchangeCodeForIDToken exchanges an OAuth authorization code with Google
	// and returns the ID token from the token response.
	ExchangeCodeForIDToken(ctx context.Context, code string) (string, error)
}
