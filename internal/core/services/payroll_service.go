package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
)

// PayrollService aggregates the derived cleaner payments into per-employee
// summaries. The rows it reads were derived at completion time and are never
// recomputed here.
type PayrollService struct {
	BaseService
	paymentRepo portsrepo.CleanerPaymentRepositoryFacade
}

// NewPayrollService creates a new PayrollService.
func NewPayrollService(paymentRepo portsrepo.CleanerPaymentRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.PayrollSvcFacade {
	return &PayrollService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		paymentRepo: paymentRepo,
	}
}

var _ portssvc.PayrollSvcFacade = (*PayrollService)(nil)

// SummarizeEarnings computes per-employee gross earnings, approved kept-cash
// deductions and net payable over a date range. Admin/manager only.
func (s *PayrollService) SummarizeEarnings(ctx context.Context, companyID string, from, to time.Time, requestingUserID string) ([]domain.EarningsSummary, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end precedes range start", apperrors.ErrValidation)
	}

	summaries, err := s.paymentRepo.SummarizeEarnings(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize earnings", slog.String("company_id", companyID))
		return nil, err
	}
	if summaries == nil {
		summaries = []domain.EarningsSummary{}
	}
	s.LogDebug(ctx, "Earnings summarized", slog.String("company_id", companyID), slog.Int("employees", len(summaries)))
	return summaries, nil
}
