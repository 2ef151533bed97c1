package services

import (
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize the company service first since every tenant-scoped service
	// authorizes through it.
	container.Company = NewCompanyService(repos.CompanyRepo)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.Notifier = NewNotifierService(repos.NotificationRepo)
	container.Activity = NewActivityService(repos.ActivityLogRepo, authorizer)

	mailer := NewLoggingReceiptMailer()
	container.Billing = NewBillingService(
		repos.ReceiptRepo,
		repos.InvoiceRepo,
		repos.CleanerPaymentRepo,
		repos.UserRepo,
		repos.ClientRepo,
		mailer,
		container.Activity,
	)

	container.Cash = NewCashService(repos.CashCollectionRepo, authorizer, container.Activity, container.Notifier)
	container.Scheduling = NewSchedulingService(
		repos.JobRepo,
		repos.ClientRepo,
		repos.AbsenceRepo,
		authorizer,
		container.Activity,
		container.Notifier,
	)
	container.Completion = NewCompletionService(
		repos.JobRepo,
		repos.CompanyRepo,
		container.Cash,
		container.Billing,
		authorizer,
		container.Activity,
		container.Notifier,
	)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.ReceiptRepo, authorizer, container.Activity)
	container.Receipt = NewReceiptService(
		repos.ReceiptRepo,
		repos.JobRepo,
		repos.CompanyRepo,
		repos.ClientRepo,
		mailer,
		authorizer,
		container.Activity,
	)
	container.Payroll = NewPayrollService(repos.CleanerPaymentRepo, authorizer)
	container.Client = NewClientService(repos.ClientRepo, authorizer)
	container.Absence = NewAbsenceService(repos.AbsenceRepo, authorizer, container.Notifier)

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.Google = NewGoogleOAuthService(cfg)

	return container
}
