package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// CreateJobRequest is the payload for scheduling a new job.
// Duration accepts "<n>h", "<n>m" or "<n>h<n>m"; anything else defaults to 2h.
type CreateJobRequest struct {
	OperationType    string           `json:"operationType" binding:"required,oneof=BILLABLE_SERVICE NON_BILLABLE_VISIT INTERNAL_WORK"`
	ActivityCode     string           `json:"activityCode"`
	ClientID         *string          `json:"clientID"`
	AddressSnapshot  string           `json:"addressSnapshot"`
	EmployeeID       *string          `json:"employeeID"`
	ScheduledDate    string           `json:"scheduledDate" binding:"required,datetime=2006-01-02"`
	StartTime        string           `json:"startTime" binding:"required"`
	Duration         string           `json:"duration"`
	ServiceCatalogID *string          `json:"serviceCatalogID"`
	BillableAmount   *decimal.Decimal `json:"billableAmount"`
	Notes            string           `json:"notes"`
}

// UpdateJobRequest overwrites the mutable scheduling fields of a job.
// Status changes go through the dedicated transition endpoints.
type UpdateJobRequest struct {
	ActivityCode     *string          `json:"activityCode"`
	ClientID         *string          `json:"clientID"`
	AddressSnapshot  *string          `json:"addressSnapshot"`
	EmployeeID       *string          `json:"employeeID"`
	ScheduledDate    *string          `json:"scheduledDate" binding:"omitempty,datetime=2006-01-02"`
	StartTime        *string          `json:"startTime"`
	Duration         *string          `json:"duration"`
	ServiceCatalogID *string          `json:"serviceCatalogID"`
	BillableAmount   *decimal.Decimal `json:"billableAmount"`
	Notes            *string          `json:"notes"`
}

// ScheduleEntry is one display segment of a job on the calendar. Jobs crossing
// midnight appear as two entries sharing the same JobID.
type ScheduleEntry struct {
	JobID        string           `json:"jobID"`
	Date         time.Time        `json:"date"`
	StartTime    string           `json:"startTime"` // "HH:MM"
	EndTime      string           `json:"endTime"`   // "HH:MM", "24:00" rendered as "00:00" next day boundary
	Continuation bool             `json:"continuation"`
	Status       domain.JobStatus `json:"status"`
	EmployeeID   *string          `json:"employeeID,omitempty"`
	ClientID     *string          `json:"clientID,omitempty"`
}

// JobResponse is the API shape of a job.
type JobResponse struct {
	Job domain.Job `json:"job"`
}

// ListJobsResponse is the paginated job list shape.
type ListJobsResponse struct {
	Jobs      []domain.Job `json:"jobs"`
	NextToken *string      `json:"nextToken,omitempty"`
}
