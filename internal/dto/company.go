package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// CreateCompanyRequest creates a new tenant.
type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// AddCompanyUserRequest adds a member to a company.
type AddCompanyUserRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MANAGER CLEANER"`
}

// UpdateCompanySettingsRequest upserts the tenant workflow configuration.
type UpdateCompanySettingsRequest struct {
	CurrencyCode          *string          `json:"currencyCode"`
	TaxRatePercent        *decimal.Decimal `json:"taxRatePercent"`
	DefaultHourlyRate     *decimal.Decimal `json:"defaultHourlyRate"`
	CashKeptByEmployee    *bool            `json:"cashKeptByEmployee"`
	AutoGenerateReceipt   *bool            `json:"autoGenerateReceipt"`
	AutoSendReceipt       *bool            `json:"autoSendReceipt"`
	InvoiceGenerationMode *string          `json:"invoiceGenerationMode" binding:"omitempty,oneof=AUTOMATIC MANUAL"`
}

// CreateClientRequest creates a client of a company.
type CreateClientRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	ContractStatus string `json:"contractStatus" binding:"omitempty,oneof=ACTIVE SUSPENDED ENDED"`
}

// UpdateClientRequest updates a client's mutable details.
type UpdateClientRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	ContractStatus *string `json:"contractStatus" binding:"omitempty,oneof=ACTIVE SUSPENDED ENDED"`
}

// RequestAbsenceRequest files an employee absence over a date range.
type RequestAbsenceRequest struct {
	EmployeeID string `json:"employeeID" binding:"required"`
	StartDate  string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Reason     string `json:"reason"`
}

// CompanyResponse is the API shape of a company.
type CompanyResponse struct {
	Company domain.Company `json:"company"`
}
