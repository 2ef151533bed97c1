package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType classifies what a job is for and drives which fields are required.
type OperationType string

const (
	OperationBillableService  OperationType = "BILLABLE_SERVICE"
	OperationNonBillableVisit OperationType = "NON_BILLABLE_VISIT"
	OperationInternalWork     OperationType = "INTERNAL_WORK"
)

// JobType is the legacy two-valued mirror of OperationType kept for older consumers.
type JobType string

const (
	JobTypeCleaning JobType = "CLEANING"
	JobTypeVisit    JobType = "VISIT"
)

// JobTypeFor derives the legacy job type from the operation type.
func JobTypeFor(op OperationType) JobType {
	if op == OperationNonBillableVisit {
		return JobTypeVisit
	}
	return JobTypeCleaning
}

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobScheduled  JobStatus = "SCHEDULED"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobCancelled  JobStatus = "CANCELLED"
)

// PaymentMethod enumerates how a client settled a billable job.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentETransfer    PaymentMethod = "E_TRANSFER"
	PaymentCheque       PaymentMethod = "CHEQUE"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// PaymentReceivedBy says who physically received the funds.
type PaymentReceivedBy string

const (
	ReceivedByCleaner PaymentReceivedBy = "CLEANER"
	ReceivedByCompany PaymentReceivedBy = "COMPANY"
)

// CashHandlingChoice is the employee's declared intent for cash they received.
type CashHandlingChoice string

const (
	ChoiceKeepCash    CashHandlingChoice = "KEEP_CASH"
	ChoiceHandToAdmin CashHandlingChoice = "HAND_TO_ADMIN"
)

// ChecklistItem is one entry of the ordered completion checklist.
type ChecklistItem struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
}

// PaymentDetails is the payment payload captured at completion of a billable job.
type PaymentDetails struct {
	Method     PaymentMethod      `json:"method"`
	Amount     decimal.Decimal    `json:"amount"`
	Date       time.Time          `json:"date"`
	Reference  string             `json:"reference,omitempty"` // non-cash only
	ReceivedBy PaymentReceivedBy  `json:"receivedBy,omitempty"`
	CashChoice CashHandlingChoice `json:"cashChoice,omitempty"`
}

// VisitDetails is the outcome payload for non-billable visits.
type VisitDetails struct {
	Purpose    string `json:"purpose,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	Notes      string `json:"notes,omitempty"`
	NextAction string `json:"nextAction,omitempty"`
}

// Job is the unit being scheduled, executed and billed.
// ClientID is nil iff the operation is internal work; EmployeeID is required for
// billable services.
type Job struct {
	JobID     string `json:"jobID"`
	CompanyID string `json:"companyID"`

	OperationType OperationType `json:"operationType"`
	ActivityCode  string        `json:"activityCode,omitempty"`
	JobType       JobType       `json:"jobType"`

	ClientID        *string `json:"clientID,omitempty"`
	AddressSnapshot string  `json:"addressSnapshot,omitempty"`
	EmployeeID      *string `json:"employeeID,omitempty"`

	ScheduledDate   time.Time `json:"scheduledDate"` // date only, midnight local
	StartMinute     int       `json:"startMinute"`   // minutes from midnight
	DurationMinutes int       `json:"durationMinutes"`

	ServiceCatalogID *string          `json:"serviceCatalogID,omitempty"`
	BillableAmount   *decimal.Decimal `json:"billableAmount,omitempty"`

	Status JobStatus `json:"status"`

	BeforePhotos []string        `json:"beforePhotos,omitempty"`
	AfterPhotos  []string        `json:"afterPhotos,omitempty"`
	Checklist    []ChecklistItem `json:"checklist,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`

	Payment *PaymentDetails `json:"payment,omitempty"`
	Visit   *VisitDetails   `json:"visit,omitempty"`

	AuditFields
}

// EndMinute returns the exclusive end of the job's scheduled interval in minutes
// from midnight of its scheduled date. May exceed 1440 for midnight-crossing jobs.
func (j Job) EndMinute() int {
	return j.StartMinute + j.DurationMinutes
}

// IsBillable reports whether the job generates client-facing revenue.
func (j Job) IsBillable() bool {
	return j.OperationType == OperationBillableService
}
