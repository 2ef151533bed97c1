package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/models"
)

// ToModelJob converts a domain Job to a model Job.
func ToModelJob(d domain.Job) models.Job {
	m := models.Job{
		JobID:            d.JobID,
		CompanyID:        d.CompanyID,
		OperationType:    string(d.OperationType),
		ActivityCode:     d.ActivityCode,
		JobType:          string(d.JobType),
		ClientID:         d.ClientID,
		AddressSnapshot:  d.AddressSnapshot,
		EmployeeID:       d.EmployeeID,
		ScheduledDate:    d.ScheduledDate,
		StartMinute:      d.StartMinute,
		DurationMinutes:  d.DurationMinutes,
		ServiceCatalogID: d.ServiceCatalogID,
		BillableAmount:   d.BillableAmount,
		Status:           string(d.Status),
		BeforePhotos:     d.BeforePhotos,
		AfterPhotos:      d.AfterPhotos,
		Notes:            d.Notes,
		CompletedAt:      d.CompletedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}

	if len(d.Checklist) > 0 {
		// Checklist items are plain string/bool structs; marshaling cannot fail.
		m.ChecklistJSON, _ = json.Marshal(d.Checklist)
	}

	if d.Payment != nil {
		method := string(d.Payment.Method)
		amount := d.Payment.Amount
		date := d.Payment.Date
		m.PaymentMethod = &method
		m.PaymentAmount = &amount
		m.PaymentDate = &date
		if d.Payment.Reference != "" {
			ref := d.Payment.Reference
			m.PaymentReference = &ref
		}
		if d.Payment.ReceivedBy != "" {
			rb := string(d.Payment.ReceivedBy)
			m.PaymentReceivedBy = &rb
		}
		if d.Payment.CashChoice != "" {
			cc := string(d.Payment.CashChoice)
			m.CashChoice = &cc
		}
	}

	if d.Visit != nil {
		if d.Visit.Purpose != "" {
			v := d.Visit.Purpose
			m.VisitPurpose = &v
		}
		if d.Visit.Outcome != "" {
			v := d.Visit.Outcome
			m.VisitOutcome = &v
		}
		if d.Visit.Notes != "" {
			v := d.Visit.Notes
			m.VisitNotes = &v
		}
		if d.Visit.NextAction != "" {
			v := d.Visit.NextAction
			m.VisitNextAction = &v
		}
	}

	return m
}

// ToDomainJob converts a model Job to a domain Job. It fails only if the stored
// checklist jsonb cannot be decoded.
func ToDomainJob(m models.Job) (domain.Job, error) {
	d := domain.Job{
		JobID:            m.JobID,
		CompanyID:        m.CompanyID,
		OperationType:    domain.OperationType(m.OperationType),
		ActivityCode:     m.ActivityCode,
		JobType:          domain.JobType(m.JobType),
		ClientID:         m.ClientID,
		AddressSnapshot:  m.AddressSnapshot,
		EmployeeID:       m.EmployeeID,
		ScheduledDate:    m.ScheduledDate,
		StartMinute:      m.StartMinute,
		DurationMinutes:  m.DurationMinutes,
		ServiceCatalogID: m.ServiceCatalogID,
		BillableAmount:   m.BillableAmount,
		Status:           domain.JobStatus(m.Status),
		BeforePhotos:     m.BeforePhotos,
		AfterPhotos:      m.AfterPhotos,
		Notes:            m.Notes,
		CompletedAt:      m.CompletedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}

	if len(m.ChecklistJSON) > 0 {
		if err := json.Unmarshal(m.ChecklistJSON, &d.Checklist); err != nil {
			return domain.Job{}, fmt.Errorf("failed to decode checklist for job %s: %w", m.JobID, err)
		}
	}

	if m.PaymentMethod != nil && m.PaymentAmount != nil && m.PaymentDate != nil {
		p := &domain.PaymentDetails{
			Method: domain.PaymentMethod(*m.PaymentMethod),
			Amount: *m.PaymentAmount,
			Date:   *m.PaymentDate,
		}
		if m.PaymentReference != nil {
			p.Reference = *m.PaymentReference
		}
		if m.PaymentReceivedBy != nil {
			p.ReceivedBy = domain.PaymentReceivedBy(*m.PaymentReceivedBy)
		}
		if m.CashChoice != nil {
			p.CashChoice = domain.CashHandlingChoice(*m.CashChoice)
		}
		d.Payment = p
	}

	if m.VisitPurpose != nil || m.VisitOutcome != nil || m.VisitNotes != nil || m.VisitNextAction != nil {
		v := &domain.VisitDetails{}
		if m.VisitPurpose != nil {
			v.Purpose = *m.VisitPurpose
		}
		if m.VisitOutcome != nil {
			v.Outcome = *m.VisitOutcome
		}
		if m.VisitNotes != nil {
			v.Notes = *m.VisitNotes
		}
		if m.VisitNextAction != nil {
			v.NextAction = *m.VisitNextAction
		}
		d.Visit = v
	}

	return d, nil
}
