package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company represents a tenant row.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	Address   string `db:"address"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}

// UserCompany represents the membership of a user in a company.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}

// CompanySettings holds the typed per-tenant workflow configuration.
type CompanySettings struct {
	CompanyID             string          `db:"company_id"`
	CurrencyCode          string          `db:"currency_code"`
	TaxRatePercent        decimal.Decimal `db:"tax_rate_percent"`
	DefaultHourlyRate     decimal.Decimal `db:"default_hourly_rate"`
	CashKeptByEmployee    bool            `db:"cash_kept_by_employee"`
	AutoGenerateReceipt   bool            `db:"auto_generate_receipt"`
	AutoSendReceipt       bool            `db:"auto_send_receipt"`
	InvoiceGenerationMode string          `db:"invoice_generation_mode"`
	AuditFields
}

// Client represents a customer row.
type Client struct {
	ClientID       string `db:"client_id"`
	CompanyID      string `db:"company_id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	Address        string `db:"address"`
	ContractStatus string `db:"contract_status"`
	AuditFields
}

// AbsenceRequest represents an employee absence row.
type AbsenceRequest struct {
	AbsenceID  string    `db:"absence_id"`
	CompanyID  string    `db:"company_id"`
	EmployeeID string    `db:"employee_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Reason     string    `db:"reason"`
	Status     string    `db:"status"`
	AuditFields
}
