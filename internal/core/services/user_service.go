package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/middleware"
	"github.com/tidyops/cleanops_backend/internal/utils"
)

// UserService manages user accounts and credential state. Users are global;
// company membership and roles live on the company side.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// GetUserByID retrieves a specific user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByEmail retrieves a user by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

// ListUsers retrieves a paginated list of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// CreateUser creates a staff account with a generated temporary password.
// When the email is already registered, the existing account is returned with
// Reused set instead of failing, so admins can re-add a returning employee.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*dto.CreateUserResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		logger.Info("Reusing existing user account", slog.String("user_id", existing.UserID))
		return &dto.CreateUserResponse{User: *existing, Reused: true}, nil
	}

	tempPassword, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	passwordHash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temporary password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		PaymentModel: domain.ModelHourly,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.PaymentModel != "" {
		user.PaymentModel = domain.PaymentModel(req.PaymentModel)
	}
	if req.HourlyRate != nil {
		user.HourlyRate = *req.HourlyRate
	}
	if req.FixedJobRate != nil {
		user.FixedJobRate = *req.FixedJobRate
	}
	if req.PercentageOfTotal != nil {
		user.PercentageOfTotal = *req.PercentageOfTotal
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent create for the same email.
			raced, findErr := s.userRepo.FindUserByEmail(ctx, req.Email)
			if findErr == nil && raced != nil {
				return &dto.CreateUserResponse{User: *raced, Reused: true}, nil
			}
		}
		logger.Error("Failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", slog.String("user_id", user.UserID))
	return &dto.CreateUserResponse{User: user, TemporaryPassword: tempPassword}, nil
}

// UpdateUser updates a user's details.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PaymentModel != nil {
		user.PaymentModel = domain.PaymentModel(*req.PaymentModel)
	}
	if req.HourlyRate != nil {
		user.HourlyRate = *req.HourlyRate
	}
	if req.FixedJobRate != nil {
		user.FixedJobRate = *req.FixedJobRate
	}
	if req.PercentageOfTotal != nil {
		user.PercentageOfTotal = *req.PercentageOfTotal
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// DeleteUser soft-deletes a user. Historical jobs and payments keep pointing
// at the row.
func (s *UserService) DeleteUser(ctx context.Context, userID string, deleterUserID string) error {
	return s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), deleterUserID)
}

// AuthenticateUser verifies email and password. Both unknown email and wrong
// password collapse to ErrUnauthorized so callers cannot probe for accounts.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// StoreRefreshTokenHash persists the hash and expiry of a rotated token.
func (s *UserService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, &expiry)
}

// ClearRefreshToken invalidates the stored refresh token at sign-out.
func (s *UserService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, "", nil)
}

// GetOrCreateGoogleUser finds the user matching a verified Google profile,
// creating one on first sign-in. Google-created accounts get an unguessable
// password so only the OAuth path can sign them in.
func (s *UserService) GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if info.Email == "" || !info.VerifiedEmail {
		return nil, fmt.Errorf("%w: google account email is not verified", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder credential: %w", err)
	}
	passwordHash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder credential: %w", err)
	}

	now := time.Now()
	newUser := domain.User{
		UserID:       uuid.NewString(),
		Name:         info.Name,
		Email:        info.Email,
		PasswordHash: passwordHash,
		PaymentModel: domain.ModelHourly,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "google-oauth",
			LastUpdatedAt: now,
			LastUpdatedBy: "google-oauth",
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.userRepo.FindUserByEmail(ctx, info.Email)
		}
		return nil, fmt.Errorf("failed to create user from google profile: %w", err)
	}

	logger.Info("User created from google sign-in", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}
