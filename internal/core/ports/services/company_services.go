package services

import (
	"context"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListUserCompanies retrieves companies a user belongs to.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// ListCompanyUsers retrieves all members and their roles for a company.
	ListCompanyUsers(ctx context.Context, companyID string, requestingUserID string) ([]domain.UserCompany, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company; the creator becomes its admin.
	CreateCompany(ctx context.Context, name, address string, creatorUserID string) (*domain.Company, error)
}

// CompanyMembershipSvc defines operations for managing company membership
type CompanyMembershipSvc interface {
	// AddUserToCompany adds a user to a company with a specific role.
	AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error

	// UpdateUserCompanyRole updates a member's role. Admin only.
	UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.UserCompanyRole) error
}

// CompanySettingsSvc exposes the typed tenant configuration.
type CompanySettingsSvc interface {
	// GetSettings retrieves the (defaulted) settings of a company.
	GetSettings(ctx context.Context, companyID string, requestingUserID string) (*domain.CompanySettings, error)

	// UpdateSettings upserts the settings of a company. Admin only.
	UpdateSettings(ctx context.Context, settings domain.CompanySettings, requestingUserID string) error
}

// CompanyAuthorizerSvc defines operations for company authorization
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has the required role for a company.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyMembershipSvc
	CompanySettingsSvc
	CompanyAuthorizerSvc
}

// ClientSvcFacade defines the client surface consumed by scheduling and billing.
type ClientSvcFacade interface {
	// GetClientByID retrieves a client.
	GetClientByID(ctx context.Context, companyID, clientID string, requestingUserID string) (*domain.Client, error)

	// ListClients retrieves all clients of a company.
	ListClients(ctx context.Context, companyID string, requestingUserID string) ([]domain.Client, error)

	// CreateClient persists a new client.
	CreateClient(ctx context.Context, client domain.Client, requestingUserID string) (*domain.Client, error)

	// UpdateClient updates a client's details.
	UpdateClient(ctx context.Context, client domain.Client, requestingUserID string) error
}

// AbsenceSvcFacade defines the absence request surface.
type AbsenceSvcFacade interface {
	// RequestAbsence files a new absence request for an employee.
	RequestAbsence(ctx context.Context, absence domain.AbsenceRequest, requestingUserID string) (*domain.AbsenceRequest, error)

	// ReviewAbsence approves or rejects an absence request. Admin/manager only.
	ReviewAbsence(ctx context.Context, companyID, absenceID string, approve bool, requestingUserID string) error

	// ListAbsences retrieves absence requests for a company.
	ListAbsences(ctx context.Context, companyID string, status *domain.AbsenceStatus, requestingUserID string) ([]domain.AbsenceRequest, error)
}
