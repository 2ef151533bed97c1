package domain

import "github.com/shopspring/decimal"

// CashHandling records where collected cash physically went.
type CashHandling string

const (
	KeptByCleaner     CashHandling = "KEPT_BY_CLEANER"
	DeliveredToOffice CashHandling = "DELIVERED_TO_OFFICE"
)

// CompensationStatus tracks the approval workflow for cash an employee kept.
// Only Approved collections are eligible to feed a payroll deduction.
type CompensationStatus string

const (
	CompensationNotApplicable CompensationStatus = "NOT_APPLICABLE"
	CompensationPending       CompensationStatus = "PENDING"
	CompensationApproved      CompensationStatus = "APPROVED"
	CompensationDisputed      CompensationStatus = "DISPUTED"
	CompensationSettled       CompensationStatus = "SETTLED"
)

// CashCollection is created whenever a billable job completes with a cash payment.
// KeptByCleaner starts Pending and needs an explicit admin transition before it can
// affect payroll; DeliveredToOffice is NotApplicable from the start.
type CashCollection struct {
	CollectionID       string             `json:"collectionID"`
	CompanyID          string             `json:"companyID"`
	JobID              string             `json:"jobID"`
	CleanerID          string             `json:"cleanerID"`
	ClientID           *string            `json:"clientID,omitempty"`
	Amount             decimal.Decimal    `json:"amount"`
	Handling           CashHandling       `json:"handling"`
	CompensationStatus CompensationStatus `json:"compensationStatus"`
	AuditFields
}
