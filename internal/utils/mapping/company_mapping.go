package mapping

import (
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	"github.com/tidyops/cleanops_backend/internal/models"
)

// ToModelCompany converts a domain Company to a model Company.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Address:     d.Address,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Address:     m.Address,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCompanySettings converts domain CompanySettings to model CompanySettings.
func ToModelCompanySettings(d domain.CompanySettings) models.CompanySettings {
	return models.CompanySettings{
		CompanyID:             d.CompanyID,
		CurrencyCode:          d.CurrencyCode,
		TaxRatePercent:        d.TaxRatePercent,
		DefaultHourlyRate:     d.DefaultHourlyRate,
		CashKeptByEmployee:    d.CashKeptByEmployee,
		AutoGenerateReceipt:   d.AutoGenerateReceipt,
		AutoSendReceipt:       d.AutoSendReceipt,
		InvoiceGenerationMode: string(d.InvoiceGenerationMode),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompanySettings converts model CompanySettings to domain CompanySettings.
// The result is normalized so defaults are applied exactly once, here.
func ToDomainCompanySettings(m models.CompanySettings) domain.CompanySettings {
	d := domain.CompanySettings{
		CompanyID:             m.CompanyID,
		CurrencyCode:          m.CurrencyCode,
		TaxRatePercent:        m.TaxRatePercent,
		DefaultHourlyRate:     m.DefaultHourlyRate,
		CashKeptByEmployee:    m.CashKeptByEmployee,
		AutoGenerateReceipt:   m.AutoGenerateReceipt,
		AutoSendReceipt:       m.AutoSendReceipt,
		InvoiceGenerationMode: domain.InvoiceGenerationMode(m.InvoiceGenerationMode),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
	d.Normalize()
	return d
}

// ToDomainClient converts a model Client to a domain Client.
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:       m.ClientID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Address:        m.Address,
		ContractStatus: domain.ContractStatus(m.ContractStatus),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelClient converts a domain Client to a model Client.
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:       d.ClientID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		Address:        d.Address,
		ContractStatus: string(d.ContractStatus),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAbsenceRequest converts a model AbsenceRequest to a domain AbsenceRequest.
func ToDomainAbsenceRequest(m models.AbsenceRequest) domain.AbsenceRequest {
	return domain.AbsenceRequest{
		AbsenceID:   m.AbsenceID,
		CompanyID:   m.CompanyID,
		EmployeeID:  m.EmployeeID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Reason:      m.Reason,
		Status:      domain.AbsenceStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAbsenceRequest converts a domain AbsenceRequest to a model AbsenceRequest.
func ToModelAbsenceRequest(d domain.AbsenceRequest) models.AbsenceRequest {
	return models.AbsenceRequest{
		AbsenceID:   d.AbsenceID,
		CompanyID:   d.CompanyID,
		EmployeeID:  d.EmployeeID,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Reason:      d.Reason,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
