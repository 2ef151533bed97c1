package repositories

import (
	"context"
	"time"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUserID retrieves all companies a user belongs to.
	ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error)

	// FindUserCompanyRole retrieves the membership row for a user in a company.
	FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error)

	// ListCompanyUsers retrieves all memberships of a company.
	ListCompanyUsers(ctx context.Context, companyID string) ([]domain.UserCompany, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// AddUserToCompany persists a membership row.
	AddUserToCompany(ctx context.Context, membership domain.UserCompany) error

	// UpdateUserCompanyRole changes a member's role (including RoleRemoved).
	UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole) error
}

// CompanySettingsRepository defines operations for the typed tenant settings
type CompanySettingsRepository interface {
	// FindSettings retrieves the settings of a company; implementations return
	// defaulted settings when the company never saved any.
	FindSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error)

	// SaveSettings upserts the settings row of a company.
	SaveSettings(ctx context.Context, settings domain.CompanySettings) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
	CompanySettingsRepository
}

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a specific client by its ID.
	FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error)

	// ListClientsByCompany retrieves all clients of a company.
	ListClientsByCompany(ctx context.Context, companyID string) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, client domain.Client) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}

// AbsenceReader defines read operations for absence requests
type AbsenceReader interface {
	// FindApprovedAbsence retrieves an approved absence covering the given date
	// for the employee, or apperrors.ErrNotFound when none exists.
	FindApprovedAbsence(ctx context.Context, companyID, employeeID string, date time.Time) (*domain.AbsenceRequest, error)

	// ListAbsencesByCompany retrieves absence requests for a company.
	ListAbsencesByCompany(ctx context.Context, companyID string, status *domain.AbsenceStatus) ([]domain.AbsenceRequest, error)
}

// AbsenceWriter defines write operations for absence requests
type AbsenceWriter interface {
	// SaveAbsenceRequest persists a new absence request.
	SaveAbsenceRequest(ctx context.Context, absence domain.AbsenceRequest) error

	// UpdateAbsenceStatus transitions an absence request (approve/reject).
	UpdateAbsenceStatus(ctx context.Context, companyID, absenceID string, status domain.AbsenceStatus, updatedBy string, updatedAt time.Time) error
}

// AbsenceRepositoryFacade combines all absence-related repository interfaces
type AbsenceRepositoryFacade interface {
	AbsenceReader
	AbsenceWriter
}
