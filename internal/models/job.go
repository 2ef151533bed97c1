package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is the database representation of a scheduled job row.
// Photos map to text[] columns; the checklist is stored as jsonb.
type Job struct {
	JobID     string `db:"job_id"`
	CompanyID string `db:"company_id"`

	OperationType string `db:"operation_type"`
	ActivityCode  string `db:"activity_code"`
	JobType       string `db:"job_type"`

	ClientID        *string `db:"client_id"`
	AddressSnapshot string  `db:"address_snapshot"`
	EmployeeID      *string `db:"employee_id"`

	ScheduledDate   time.Time `db:"scheduled_date"`
	StartMinute     int       `db:"start_minute"`
	DurationMinutes int       `db:"duration_minutes"`

	ServiceCatalogID *string          `db:"service_catalog_id"`
	BillableAmount   *decimal.Decimal `db:"billable_amount"`

	Status string `db:"status"`

	BeforePhotos  []string   `db:"before_photos"`
	AfterPhotos   []string   `db:"after_photos"`
	ChecklistJSON []byte     `db:"checklist"`
	Notes         string     `db:"notes"`
	CompletedAt   *time.Time `db:"completed_at"`

	PaymentMethod     *string          `db:"payment_method"`
	PaymentAmount     *decimal.Decimal `db:"payment_amount"`
	PaymentDate       *time.Time       `db:"payment_date"`
	PaymentReference  *string          `db:"payment_reference"`
	PaymentReceivedBy *string          `db:"payment_received_by"`
	CashChoice        *string          `db:"cash_handling_choice"`

	VisitPurpose    *string `db:"visit_purpose"`
	VisitOutcome    *string `db:"visit_outcome"`
	VisitNotes      *string `db:"visit_notes"`
	VisitNextAction *string `db:"visit_next_action"`

	AuditFields
}
