package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	"github.com/tidyops/cleanops_backend/internal/models"
	"github.com/tidyops/cleanops_backend/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// NewCompanyRepository creates a new repository for company and membership data.
func NewCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const companyColumns = `
	company_id, name, address, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID, &m.Name, &m.Address, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCompany persists a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.Name, m.Address, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert company "+company.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a specific company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	m, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company "+companyID, err)
	}
	d := mapping.ToDomainCompany(*m)
	return &d, nil
}

// ListCompaniesByUserID retrieves all companies a user belongs to, excluding
// memberships that were revoked.
func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.address, c.is_active,
		       c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.company_id
		WHERE uc.user_id = $1 AND uc.role <> 'REMOVED'
		ORDER BY c.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list companies for user "+userID, err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		m, err := scanCompany(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row", err)
		}
		companies = append(companies, mapping.ToDomainCompany(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate company rows", err)
	}
	return companies, nil
}

// AddUserToCompany persists a membership row.
func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query, membership.UserID, membership.CompanyID, string(membership.Role), membership.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to company "+membership.CompanyID, err)
	}
	return nil
}

// FindUserCompanyRole retrieves the membership row for a user in a company.
func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	query := `SELECT user_id, company_id, role, joined_at FROM user_companies WHERE user_id = $1 AND company_id = $2;`
	var m models.UserCompany
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(&m.UserID, &m.CompanyID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}
	return &domain.UserCompany{
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      domain.UserCompanyRole(m.Role),
		JoinedAt:  m.JoinedAt,
	}, nil
}

// ListCompanyUsers retrieves all memberships of a company with member names.
func (r *PgxCompanyRepository) ListCompanyUsers(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, COALESCE(u.name, ''), uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		LEFT JOIN users u ON u.user_id = uc.user_id
		WHERE uc.company_id = $1
		ORDER BY uc.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list users of company "+companyID, err)
	}
	defer rows.Close()

	var memberships []domain.UserCompany
	for rows.Next() {
		var m models.UserCompany
		var userName string
		if err := rows.Scan(&m.UserID, &userName, &m.CompanyID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		memberships = append(memberships, domain.UserCompany{
			UserID:    m.UserID,
			UserName:  userName,
			CompanyID: m.CompanyID,
			Role:      domain.UserCompanyRole(m.Role),
			JoinedAt:  m.JoinedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate membership rows", err)
	}
	return memberships, nil
}

// UpdateUserCompanyRole changes a member's role.
func (r *PgxCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole) error {
	query := `UPDATE user_companies SET role = $3 WHERE user_id = $1 AND company_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, companyID, string(role))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update role for user "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const settingsColumns = `
	company_id, currency_code, tax_rate_percent, default_hourly_rate,
	cash_kept_by_employee, auto_generate_receipt, auto_send_receipt,
	invoice_generation_mode,
	created_at, created_by, last_updated_at, last_updated_by`

// FindSettings retrieves the settings of a company. A company that never saved
// settings gets the normalized defaults rather than an error.
func (r *PgxCompanyRepository) FindSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM company_settings WHERE company_id = $1;`
	var m models.CompanySettings
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID, &m.CurrencyCode, &m.TaxRatePercent, &m.DefaultHourlyRate,
		&m.CashKeptByEmployee, &m.AutoGenerateReceipt, &m.AutoSendReceipt,
		&m.InvoiceGenerationMode,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			defaults := domain.DefaultCompanySettings(companyID)
			return &defaults, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find settings for company "+companyID, err)
	}
	d := mapping.ToDomainCompanySettings(m)
	return &d, nil
}

// SaveSettings upserts the settings row of a company.
func (r *PgxCompanyRepository) SaveSettings(ctx context.Context, settings domain.CompanySettings) error {
	m := mapping.ToModelCompanySettings(settings)
	query := `
		INSERT INTO company_settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id) DO UPDATE SET
			currency_code = EXCLUDED.currency_code,
			tax_rate_percent = EXCLUDED.tax_rate_percent,
			default_hourly_rate = EXCLUDED.default_hourly_rate,
			cash_kept_by_employee = EXCLUDED.cash_kept_by_employee,
			auto_generate_receipt = EXCLUDED.auto_generate_receipt,
			auto_send_receipt = EXCLUDED.auto_send_receipt,
			invoice_generation_mode = EXCLUDED.invoice_generation_mode,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.CurrencyCode, m.TaxRatePercent, m.DefaultHourlyRate,
		m.CashKeptByEmployee, m.AutoGenerateReceipt, m.AutoSendReceipt,
		m.InvoiceGenerationMode,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save settings for company "+settings.CompanyID, err)
	}
	return nil
}
