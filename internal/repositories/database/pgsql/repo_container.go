package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository against the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		JobRepo:            NewJobRepository(dbPool),
		InvoiceRepo:        NewInvoiceRepository(dbPool),
		ReceiptRepo:        NewReceiptRepository(dbPool),
		CashCollectionRepo: NewCashCollectionRepository(dbPool),
		CleanerPaymentRepo: NewCleanerPaymentRepository(dbPool),
		CompanyRepo:        NewCompanyRepository(dbPool),
		ClientRepo:         NewClientRepository(dbPool),
		AbsenceRepo:        NewAbsenceRepository(dbPool),
		ActivityLogRepo:    NewActivityLogRepository(dbPool),
		NotificationRepo:   NewNotificationRepository(dbPool),
		UserRepo:           NewUserRepository(dbPool),
	}
}
