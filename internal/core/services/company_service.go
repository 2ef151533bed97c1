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
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// CompanyService handles business logic related to companies, memberships and
// tenant settings.
type CompanyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(cr portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &CompanyService{companyRepo: cr}
}

var _ portssvc.CompanySvcFacade = (*CompanyService)(nil)

// CreateCompany creates a new company and makes the creator its initial admin.
func (s *CompanyService) CreateCompany(ctx context.Context, name, address string, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
	}

	now := time.Now()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      name,
		Address:   address,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company in repository", slog.String("error", err.Error()), slog.String("company_name", name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		logger.Error("Failed to add creator as admin to new company", slog.String("error", err.Error()), slog.String("company_id", company.CompanyID), slog.String("user_id", creatorUserID))
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID), slog.String("creator_user_id", creatorUserID))
	return &company, nil
}

// FindCompanyByID retrieves a company by its ID.
func (s *CompanyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find company by ID in repository", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListUserCompanies retrieves the companies a user belongs to.
func (s *CompanyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list companies for user from repository", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list companies for user %s: %w", userID, err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// ListCompanyUsers retrieves all members and their roles. Any member may look.
func (s *CompanyService) ListCompanyUsers(ctx context.Context, companyID string, requestingUserID string) ([]domain.UserCompany, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, err
	}

	memberships, err := s.companyRepo.ListCompanyUsers(ctx, companyID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list company users from repository", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list users of company %s: %w", companyID, err)
	}
	if memberships == nil {
		return []domain.UserCompany{}, nil
	}
	return memberships, nil
}

// AddUserToCompany adds a user to a company with a specific role. Admin only.
func (s *CompanyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if role == domain.RoleRemoved {
		return fmt.Errorf("%w: cannot add a user with the removed role", apperrors.ErrValidation)
	}

	membership := domain.UserCompany{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		logger.Error("Failed to add user to company in repository", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("company_id", companyID))
		return fmt.Errorf("failed to add user %s to company %s: %w", targetUserID, companyID, err)
	}

	logger.Info("User added to company", slog.String("target_user_id", targetUserID), slog.String("company_id", companyID), slog.String("role", string(role)))
	return nil
}

// UpdateUserCompanyRole updates a member's role. Admin only. Removing the last
// admin is not guarded here; the caller owns that decision.
func (s *CompanyService) UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, newRole); err != nil {
		logger.Error("Failed to update member role in repository", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("company_id", companyID))
		return err
	}

	logger.Info("Member role updated", slog.String("target_user_id", targetUserID), slog.String("company_id", companyID), slog.String("new_role", string(newRole)))
	return nil
}

// GetSettings retrieves the (defaulted) settings of a company. Any member may read.
func (s *CompanyService) GetSettings(ctx context.Context, companyID string, requestingUserID string) (*domain.CompanySettings, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, err
	}

	settings, err := s.companyRepo.FindSettings(ctx, companyID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to find settings in repository", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return settings, nil
}

// UpdateSettings upserts the settings of a company. Admin only. Values are
// normalized before persisting so reads never see an unconfigured field.
func (s *CompanyService) UpdateSettings(ctx context.Context, settings domain.CompanySettings, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, settings.CompanyID, domain.RoleAdmin); err != nil {
		return err
	}

	settings.Normalize()
	now := time.Now()
	settings.LastUpdatedAt = now
	settings.LastUpdatedBy = requestingUserID
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
		settings.CreatedBy = requestingUserID
	}

	if err := s.companyRepo.SaveSettings(ctx, settings); err != nil {
		logger.Error("Failed to save settings in repository", slog.String("error", err.Error()), slog.String("company_id", settings.CompanyID))
		return err
	}

	logger.Info("Company settings updated", slog.String("company_id", settings.CompanyID))
	return nil
}

// AuthorizeUserAction checks if a user has the required role (or higher) within
// a company. Returns apperrors.ErrNotFound when the user is not a member, and
// apperrors.ErrForbidden when the membership lacks the required role.
func (s *CompanyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: user is not a member", slog.String("user_id", userID), slog.String("company_id", companyID))
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check user company role in repository", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("company_id", companyID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if membership.Role == domain.RoleRemoved {
		return apperrors.ErrForbidden
	}
	if membership.Role == domain.RoleAdmin {
		return nil
	}
	if membership.Role == requiredRole {
		return nil
	}
	// Managers satisfy cleaner-level requirements.
	if membership.Role == domain.RoleManager && requiredRole == domain.RoleCleaner {
		return nil
	}

	logger.Warn("Authorization failed: user lacks required role", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("user_role", string(membership.Role)), slog.String("required_role", string(requiredRole)))
	return apperrors.ErrForbidden
}
