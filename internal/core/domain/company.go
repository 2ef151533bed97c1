package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company represents an isolated tenant. All workflow data is partitioned by CompanyID.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// UserCompanyRole defines the possible roles a user can have within a company.
type UserCompanyRole string

const (
	RoleAdmin   UserCompanyRole = "ADMIN"
	RoleManager UserCompanyRole = "MANAGER"
	RoleCleaner UserCompanyRole = "CLEANER"
	RoleRemoved UserCompanyRole = "REMOVED"
)

// CanManage reports whether the role may perform admin/manager operations
// (scheduling for others, approvals, invoice lifecycle).
func (r UserCompanyRole) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string          `json:"userID"`
	UserName  string          `json:"userName"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	JoinedAt  time.Time       `json:"joinedAt"`
}

// InvoiceGenerationMode controls whether completion derives invoices automatically.
type InvoiceGenerationMode string

const (
	InvoiceModeAutomatic InvoiceGenerationMode = "AUTOMATIC"
	InvoiceModeManual    InvoiceGenerationMode = "MANUAL"
)

// CompanySettings is the typed per-tenant configuration. Unrecognized or missing
// values are defaulted once at load time, never ad hoc at read sites.
type CompanySettings struct {
	CompanyID             string                `json:"companyID"`
	CurrencyCode          string                `json:"currencyCode"`
	TaxRatePercent        decimal.Decimal       `json:"taxRatePercent"`
	DefaultHourlyRate     decimal.Decimal       `json:"defaultHourlyRate"`
	CashKeptByEmployee    bool                  `json:"cashKeptByEmployee"`
	AutoGenerateReceipt   bool                  `json:"autoGenerateReceipt"`
	AutoSendReceipt       bool                  `json:"autoSendReceipt"`
	InvoiceGenerationMode InvoiceGenerationMode `json:"invoiceGenerationMode"`
	AuditFields
}

// DefaultCompanySettings returns the settings applied to a company that has never
// saved any, and the baseline missing fields are coalesced onto at load.
func DefaultCompanySettings(companyID string) CompanySettings {
	return CompanySettings{
		CompanyID:             companyID,
		CurrencyCode:          "CAD",
		TaxRatePercent:        decimal.NewFromInt(13),
		DefaultHourlyRate:     decimal.NewFromInt(40),
		CashKeptByEmployee:    false,
		AutoGenerateReceipt:   true,
		AutoSendReceipt:       false,
		InvoiceGenerationMode: InvoiceModeAutomatic,
	}
}

// Normalize coalesces zero values back to the defaults. Called once when settings
// are loaded from storage.
func (s *CompanySettings) Normalize() {
	def := DefaultCompanySettings(s.CompanyID)
	if s.CurrencyCode == "" {
		s.CurrencyCode = def.CurrencyCode
	}
	if s.TaxRatePercent.IsZero() {
		s.TaxRatePercent = def.TaxRatePercent
	}
	if s.DefaultHourlyRate.IsZero() {
		s.DefaultHourlyRate = def.DefaultHourlyRate
	}
	if s.InvoiceGenerationMode != InvoiceModeAutomatic && s.InvoiceGenerationMode != InvoiceModeManual {
		s.InvoiceGenerationMode = def.InvoiceGenerationMode
	}
}
