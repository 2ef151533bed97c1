package domain

import "github.com/shopspring/decimal"

// PaymentModel is how an employee's earnings for a job are computed,
// independent of how the client paid.
type PaymentModel string

const (
	ModelHourly      PaymentModel = "HOURLY"
	ModelFixedPerJob PaymentModel = "FIXED_PER_JOB"
	ModelPercentage  PaymentModel = "PERCENTAGE"
)

// CleanerPayment is the payroll-facing record derived once per completed job with
// an assigned employee. It is never re-derived on subsequent edits.
type CleanerPayment struct {
	PaymentID  string          `json:"paymentID"`
	CompanyID  string          `json:"companyID"`
	JobID      string          `json:"jobID"`
	EmployeeID string          `json:"employeeID"`
	Model      PaymentModel    `json:"model"`
	Amount     decimal.Decimal `json:"amount"`
	AuditFields
}

// EarningsSummary aggregates an employee's derived payments over a date range,
// net of approved kept-cash deductions.
type EarningsSummary struct {
	EmployeeID   string          `json:"employeeID"`
	EmployeeName string          `json:"employeeName"`
	JobCount     int             `json:"jobCount"`
	GrossEarned  decimal.Decimal `json:"grossEarned"`
	CashKept     decimal.Decimal `json:"cashKept"` // approved collections only
	NetPayable   decimal.Decimal `json:"netPayable"`
}
