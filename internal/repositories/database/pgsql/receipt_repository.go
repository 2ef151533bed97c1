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

type PgxReceiptRepository struct {
	BaseRepository
}

// NewReceiptRepository creates a new repository for payment receipt data.
func NewReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

const receiptColumns = `
	receipt_id, company_id, job_id, invoice_id, client_id, receipt_number,
	status, method, subtotal, tax_rate, tax_amount, total,
	payment_date, sent_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanReceipt(row pgx.Row) (*models.PaymentReceipt, error) {
	var m models.PaymentReceipt
	err := row.Scan(
		&m.ReceiptID, &m.CompanyID, &m.JobID, &m.InvoiceID, &m.ClientID, &m.ReceiptNumber,
		&m.Status, &m.Method, &m.Subtotal, &m.TaxRate, &m.TaxAmount, &m.Total,
		&m.PaymentDate, &m.SentAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveReceipt persists a new receipt.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.PaymentReceipt) error {
	m := mapping.ToModelReceipt(receipt)
	query := `
		INSERT INTO payment_receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReceiptID, m.CompanyID, m.JobID, m.InvoiceID, m.ClientID, m.ReceiptNumber,
		m.Status, m.Method, m.Subtotal, m.TaxRate, m.TaxAmount, m.Total,
		m.PaymentDate, m.SentAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert receipt "+receipt.ReceiptID, err)
	}
	return nil
}

// MarkReceiptSent stamps the sent time on a receipt.
func (r *PgxReceiptRepository) MarkReceiptSent(ctx context.Context, companyID, receiptID string, sentAt time.Time, updatedBy string) error {
	query := `
		UPDATE payment_receipts
		SET status = 'SENT', sent_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND receipt_id = $2 AND status <> 'CANCELLED';
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, receiptID, sentAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark receipt sent "+receiptID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReceiptByID retrieves a specific receipt by its ID.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, companyID, receiptID string) (*domain.PaymentReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM payment_receipts WHERE company_id = $1 AND receipt_id = $2;`
	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, companyID, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt "+receiptID, err)
	}
	d := mapping.ToDomainReceipt(*m)
	return &d, nil
}

// FindReceiptByJobID retrieves the non-cancelled receipt for a job.
func (r *PgxReceiptRepository) FindReceiptByJobID(ctx context.Context, companyID, jobID string) (*domain.PaymentReceipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM payment_receipts
		WHERE company_id = $1 AND job_id = $2 AND status <> 'CANCELLED'
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, companyID, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt for job "+jobID, err)
	}
	d := mapping.ToDomainReceipt(*m)
	return &d, nil
}

// ListReceiptsByCompany retrieves a paginated list of receipts, newest first.
func (r *PgxReceiptRepository) ListReceiptsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.PaymentReceipt, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []any{companyID}
	query := `
		SELECT ` + receiptColumns + `
		FROM payment_receipts
		WHERE company_id = $1
	`
	if nextToken != nil {
		createdBefore, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND created_at < $2`
		args = append(args, createdBefore)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list receipts for company "+companyID, err)
	}
	defer rows.Close()

	var receipts []domain.PaymentReceipt
	for rows.Next() {
		m, err := scanReceipt(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan receipt row", err)
		}
		receipts = append(receipts, mapping.ToDomainReceipt(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate receipt rows", err)
	}

	var token *string
	if len(receipts) > limit {
		receipts = receipts[:limit]
		t := pagination.EncodeDateBasedToken(receipts[len(receipts)-1].CreatedAt)
		token = &t
	}
	return receipts, token, nil
}
