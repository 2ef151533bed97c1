package mapping

import (
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice (lines excluded,
// they are persisted separately).
func ToModelInvoice(d domain.Invoice) models.Invoice {
	m := models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		JobID:         d.JobID,
		ClientID:      d.ClientID,
		InvoiceNumber: d.InvoiceNumber,
		Status:        string(d.Status),
		Subtotal:      d.Subtotal,
		TaxRate:       d.TaxRate,
		TaxAmount:     d.TaxAmount,
		Total:         d.Total,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		PaidAt:        d.PaidAt,
		PaidBy:        d.PaidBy,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.PaymentMethod != nil {
		pm := string(*d.PaymentMethod)
		m.PaymentMethod = &pm
	}
	return m
}

// ToDomainInvoice converts a model Invoice to a domain Invoice.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	d := domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		JobID:         m.JobID,
		ClientID:      m.ClientID,
		InvoiceNumber: m.InvoiceNumber,
		Status:        domain.InvoiceStatus(m.Status),
		Subtotal:      m.Subtotal,
		TaxRate:       m.TaxRate,
		TaxAmount:     m.TaxAmount,
		Total:         m.Total,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		PaidAt:        m.PaidAt,
		PaidBy:        m.PaidBy,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.PaymentMethod != nil {
		pm := domain.PaymentMethod(*m.PaymentMethod)
		d.PaymentMethod = &pm
	}
	return d
}

// ToDomainInvoiceLine converts a model InvoiceLine to a domain InvoiceLine.
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:      m.LineID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to a model InvoiceLine.
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:      d.LineID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Amount:      d.Amount,
	}
}

// ToModelReceipt converts a domain PaymentReceipt to a model PaymentReceipt.
func ToModelReceipt(d domain.PaymentReceipt) models.PaymentReceipt {
	return models.PaymentReceipt{
		ReceiptID:     d.ReceiptID,
		CompanyID:     d.CompanyID,
		JobID:         d.JobID,
		InvoiceID:     d.InvoiceID,
		ClientID:      d.ClientID,
		ReceiptNumber: d.ReceiptNumber,
		Status:        string(d.Status),
		Method:        string(d.Method),
		Subtotal:      d.Subtotal,
		TaxRate:       d.TaxRate,
		TaxAmount:     d.TaxAmount,
		Total:         d.Total,
		PaymentDate:   d.PaymentDate,
		SentAt:        d.SentAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReceipt converts a model PaymentReceipt to a domain PaymentReceipt.
func ToDomainReceipt(m models.PaymentReceipt) domain.PaymentReceipt {
	return domain.PaymentReceipt{
		ReceiptID:     m.ReceiptID,
		CompanyID:     m.CompanyID,
		JobID:         m.JobID,
		InvoiceID:     m.InvoiceID,
		ClientID:      m.ClientID,
		ReceiptNumber: m.ReceiptNumber,
		Status:        domain.ReceiptStatus(m.Status),
		Method:        domain.PaymentMethod(m.Method),
		Subtotal:      m.Subtotal,
		TaxRate:       m.TaxRate,
		TaxAmount:     m.TaxAmount,
		Total:         m.Total,
		PaymentDate:   m.PaymentDate,
		SentAt:        m.SentAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCashCollection converts a domain CashCollection to a model CashCollection.
func ToModelCashCollection(d domain.CashCollection) models.CashCollection {
	return models.CashCollection{
		CollectionID:       d.CollectionID,
		CompanyID:          d.CompanyID,
		JobID:              d.JobID,
		CleanerID:          d.CleanerID,
		ClientID:           d.ClientID,
		Amount:             d.Amount,
		Handling:           string(d.Handling),
		CompensationStatus: string(d.CompensationStatus),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashCollection converts a model CashCollection to a domain CashCollection.
func ToDomainCashCollection(m models.CashCollection) domain.CashCollection {
	return domain.CashCollection{
		CollectionID:       m.CollectionID,
		CompanyID:          m.CompanyID,
		JobID:              m.JobID,
		CleanerID:          m.CleanerID,
		ClientID:           m.ClientID,
		Amount:             m.Amount,
		Handling:           domain.CashHandling(m.Handling),
		CompensationStatus: domain.CompensationStatus(m.CompensationStatus),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCleanerPayment converts a domain CleanerPayment to a model CleanerPayment.
func ToModelCleanerPayment(d domain.CleanerPayment) models.CleanerPayment {
	return models.CleanerPayment{
		PaymentID:   d.PaymentID,
		CompanyID:   d.CompanyID,
		JobID:       d.JobID,
		EmployeeID:  d.EmployeeID,
		Model:       string(d.Model),
		Amount:      d.Amount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCleanerPayment converts a model CleanerPayment to a domain CleanerPayment.
func ToDomainCleanerPayment(m models.CleanerPayment) domain.CleanerPayment {
	return domain.CleanerPayment{
		PaymentID:   m.PaymentID,
		CompanyID:   m.CompanyID,
		JobID:       m.JobID,
		EmployeeID:  m.EmployeeID,
		Model:       domain.PaymentModel(m.Model),
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
