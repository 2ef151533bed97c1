package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	"github.com/tidyops/cleanops_backend/internal/models"
	"github.com/tidyops/cleanops_backend/internal/utils/mapping"
	"github.com/tidyops/cleanops_backend/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// NewInvoiceRepository creates a new repository for invoice data.
func NewInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, company_id, job_id, client_id, invoice_number, status,
	subtotal, tax_rate, tax_amount, total, issue_date, due_date,
	paid_at, paid_by, payment_method,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.CompanyID, &m.JobID, &m.ClientID, &m.InvoiceNumber, &m.Status,
		&m.Subtotal, &m.TaxRate, &m.TaxAmount, &m.Total, &m.IssueDate, &m.DueDate,
		&m.PaidAt, &m.PaidBy, &m.PaymentMethod,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// lockJobBilling serializes billing-document writes for a single job.
func lockJobBilling(ctx context.Context, tx pgx.Tx, jobID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('billing:' || $1));`, jobID)
	return err
}

func activeInvoiceExists(ctx context.Context, tx pgx.Tx, companyID, jobID string, excludeInvoiceID *string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE company_id = $1 AND job_id = $2 AND status <> 'CANCELLED'
			  AND ($3::text IS NULL OR invoice_id <> $3)
		);
	`
	var exists bool
	err := tx.QueryRow(ctx, query, companyID, jobID, excludeInvoiceID).Scan(&exists)
	return exists, err
}

func insertInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := tx.Exec(ctx, query,
		m.InvoiceID, m.CompanyID, m.JobID, m.ClientID, m.InvoiceNumber, m.Status,
		m.Subtotal, m.TaxRate, m.TaxAmount, m.Total, m.IssueDate, m.DueDate,
		m.PaidAt, m.PaidBy, m.PaymentMethod,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return err
	}

	if len(invoice.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range invoice.Lines {
		lm := mapping.ToModelInvoiceLine(line)
		batch.Queue(lineQuery, lm.LineID, lm.InvoiceID, lm.Description, lm.Quantity, lm.UnitPrice, lm.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

// SaveInvoiceGuarded inserts an invoice, failing closed if another active
// invoice already exists for the linked job. Check and insert share one
// transaction under an advisory lock on the job.
func (r *PgxInvoiceRepository) SaveInvoiceGuarded(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if invoice.JobID != nil {
		if err := lockJobBilling(ctx, tx, *invoice.JobID); err != nil {
			return apperrors.NewAppError(500, "failed to lock billing for job "+*invoice.JobID, err)
		}
		exists, err := activeInvoiceExists(ctx, tx, invoice.CompanyID, *invoice.JobID, nil)
		if err != nil {
			return apperrors.NewAppError(500, "failed to check for active invoice", err)
		}
		if exists {
			return fmt.Errorf("an active invoice already exists for job %s: %w", *invoice.JobID, apperrors.ErrDuplicate)
		}
	}

	if err := insertInvoice(ctx, tx, invoice); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// ReplaceInvoiceGuarded cancels the predecessor and inserts the successor as one
// atomic operation, verifying no other active invoice exists for the job.
func (r *PgxInvoiceRepository) ReplaceInvoiceGuarded(ctx context.Context, predecessorID string, successor domain.Invoice, updatedBy string, updatedAt time.Time) error {
	if successor.JobID == nil {
		return fmt.Errorf("%w: replacement invoice has no linked job", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockJobBilling(ctx, tx, *successor.JobID); err != nil {
		return apperrors.NewAppError(500, "failed to lock billing for job "+*successor.JobID, err)
	}

	// Another active invoice besides the one being replaced blocks regeneration.
	exists, err := activeInvoiceExists(ctx, tx, successor.CompanyID, *successor.JobID, &predecessorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to check for active invoice", err)
	}
	if exists {
		return fmt.Errorf("another active invoice exists for job %s, cancel it first: %w", *successor.JobID, apperrors.ErrConflict)
	}

	cancelQuery := `
		UPDATE invoices
		SET status = 'CANCELLED', last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND invoice_id = $2 AND status <> 'CANCELLED';
	`
	tag, err := tx.Exec(ctx, cancelQuery, successor.CompanyID, predecessorID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel invoice "+predecessorID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertInvoice(ctx, tx, successor); err != nil {
		return apperrors.NewAppError(500, "failed to insert replacement invoice "+successor.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus performs a status-only transition.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, companyID, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND invoice_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, invoiceID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for invoice "+invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkInvoicePaid stamps the paid fields along with the status transition. The
// WHERE clause restricts the transition to draft/sent so a concurrent second
// payment loses cleanly.
func (r *PgxInvoiceRepository) MarkInvoicePaid(ctx context.Context, companyID, invoiceID string, method domain.PaymentMethod, paidBy string, paidAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = 'PAID', paid_at = $3, paid_by = $4, payment_method = $5,
		    last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND invoice_id = $2 AND status IN ('DRAFT', 'SENT');
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, invoiceID, paidAt, paidBy, string(method))
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark invoice paid "+invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s is not in a payable state: %w", invoiceID, apperrors.ErrConflict)
	}
	return nil
}

// DeleteInvoice hard-deletes an invoice and its line items. Irreversible.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of invoice "+invoiceID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE company_id = $1 AND invoice_id = $2;`, companyID, invoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindInvoiceByID retrieves an invoice by its ID within a company.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1 AND invoice_id = $2;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, companyID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}
	d := mapping.ToDomainInvoice(*m)
	return &d, nil
}

// FindActiveInvoiceByJobID retrieves the single non-cancelled invoice for a job.
func (r *PgxInvoiceRepository) FindActiveInvoiceByJobID(ctx context.Context, companyID, jobID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND job_id = $2 AND status <> 'CANCELLED'
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, companyID, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active invoice for job "+jobID, err)
	}
	d := mapping.ToDomainInvoice(*m)
	return &d, nil
}

// ListInvoicesByCompany retrieves a paginated list of invoices, newest first.
func (r *PgxInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	var statusFilter *string
	if status != nil {
		s := string(*status)
		statusFilter = &s
	}

	args := []any{companyID, statusFilter}
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND ($2::text IS NULL OR status = $2)
	`
	if nextToken != nil {
		createdBefore, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND created_at < $3`
		args = append(args, createdBefore)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list invoices for company "+companyID, err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate invoice rows", err)
	}

	var token *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		t := pagination.EncodeDateBasedToken(invoices[len(invoices)-1].CreatedAt)
		token = &t
	}
	return invoices, token, nil
}

// FindInvoiceLines retrieves the line items of an invoice.
func (r *PgxInvoiceRepository) FindInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list lines of invoice "+invoiceID, err)
	}
	defer rows.Close()

	var lines []domain.InvoiceLine
	for rows.Next() {
		var m models.InvoiceLine
		if err := rows.Scan(&m.LineID, &m.InvoiceID, &m.Description, &m.Quantity, &m.UnitPrice, &m.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line row", err)
		}
		lines = append(lines, mapping.ToDomainInvoiceLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate invoice line rows", err)
	}
	return lines, nil
}
