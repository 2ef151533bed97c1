package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	JobRepo            JobRepositoryFacade
	InvoiceRepo        InvoiceRepositoryFacade
	ReceiptRepo        ReceiptRepositoryFacade
	CashCollectionRepo CashCollectionRepositoryFacade
	CleanerPaymentRepo CleanerPaymentRepositoryFacade
	CompanyRepo        CompanyRepositoryFacade
	ClientRepo         ClientRepositoryFacade
	AbsenceRepo        AbsenceRepositoryFacade
	ActivityLogRepo    ActivityLogRepositoryFacade
	NotificationRepo   NotificationRepositoryFacade
	UserRepo           UserRepositoryFacade
}
