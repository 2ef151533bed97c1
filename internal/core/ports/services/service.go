package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Scheduling SchedulingSvcFacade
	Completion CompletionSvcFacade
	Billing    BillingDeriverSvc
	Invoice    InvoiceSvcFacade
	Receipt    ReceiptSvcFacade
	Cash       CashSvcFacade
	Payroll    PayrollSvcFacade
	Company    CompanySvcFacade
	Client     ClientSvcFacade
	Absence    AbsenceSvcFacade
	Activity   ActivityEmitterSvc
	Notifier   NotifierSvc
	User       UserSvcFacade
	Token      TokenSvcFacade
	Google     GoogleOAuthSvcFacade
}
