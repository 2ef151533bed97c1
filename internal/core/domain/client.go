package domain

import "time"

// ContractStatus is the state of a client's service contract. Only Active
// contracts permit scheduling billable work.
type ContractStatus string

const (
	ContractActive    ContractStatus = "ACTIVE"
	ContractSuspended ContractStatus = "SUSPENDED"
	ContractEnded     ContractStatus = "ENDED"
)

// Client is a customer of a company.
type Client struct {
	ClientID       string         `json:"clientID"`
	CompanyID      string         `json:"companyID"`
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	ContractStatus ContractStatus `json:"contractStatus"`
	AuditFields
}

// AbsenceStatus is the approval state of an employee absence request.
type AbsenceStatus string

const (
	AbsenceRequested AbsenceStatus = "REQUESTED"
	AbsenceApproved  AbsenceStatus = "APPROVED"
	AbsenceRejected  AbsenceStatus = "REJECTED"
)

// AbsenceRequest blocks scheduling for the employee over [StartDate, EndDate]
// once approved.
type AbsenceRequest struct {
	AbsenceID  string        `json:"absenceID"`
	CompanyID  string        `json:"companyID"`
	EmployeeID string        `json:"employeeID"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	Reason     string        `json:"reason,omitempty"`
	Status     AbsenceStatus `json:"status"`
	AuditFields
}
