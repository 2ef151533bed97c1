package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
)

// AbsenceService manages employee absence requests. Approved absences block
// scheduling for the covered dates.
type AbsenceService struct {
	BaseService
	absenceRepo portsrepo.AbsenceRepositoryFacade
	notifier    portssvc.NotifierSvc
}

// NewAbsenceService creates a new AbsenceService.
func NewAbsenceService(absenceRepo portsrepo.AbsenceRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc, notifier portssvc.NotifierSvc) portssvc.AbsenceSvcFacade {
	return &AbsenceService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		absenceRepo: absenceRepo,
		notifier:    notifier,
	}
}

var _ portssvc.AbsenceSvcFacade = (*AbsenceService)(nil)

// RequestAbsence files a new absence request. Employees file their own;
// managers may file on behalf of anyone.
func (s *AbsenceService) RequestAbsence(ctx context.Context, absence domain.AbsenceRequest, requestingUserID string) (*domain.AbsenceRequest, error) {
	if absence.EmployeeID == requestingUserID {
		if err := s.AuthorizeUser(ctx, requestingUserID, absence.CompanyID, domain.RoleCleaner); err != nil {
			return nil, err
		}
	} else if err := s.AuthorizeUser(ctx, requestingUserID, absence.CompanyID, domain.RoleManager); err != nil {
		return nil, err
	}

	if absence.EndDate.Before(absence.StartDate) {
		return nil, fmt.Errorf("%w: absence end date precedes start date", apperrors.ErrValidation)
	}

	now := time.Now()
	absence.AbsenceID = uuid.NewString()
	absence.Status = domain.AbsenceRequested
	absence.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     requestingUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: requestingUserID,
	}

	if err := s.absenceRepo.SaveAbsenceRequest(ctx, absence); err != nil {
		s.LogError(ctx, err, "Failed to save absence request", slog.String("employee_id", absence.EmployeeID))
		return nil, err
	}

	s.LogInfo(ctx, "Absence requested", slog.String("absence_id", absence.AbsenceID))
	s.notifier.NotifyAdmins(ctx, absence.CompanyID, "Absence requested",
		fmt.Sprintf("An absence from %s to %s awaits review", absence.StartDate.Format("2006-01-02"), absence.EndDate.Format("2006-01-02")))
	return &absence, nil
}

// ReviewAbsence approves or rejects an absence request. Admin/manager only.
func (s *AbsenceService) ReviewAbsence(ctx context.Context, companyID, absenceID string, approve bool, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return err
	}

	status := domain.AbsenceRejected
	if approve {
		status = domain.AbsenceApproved
	}
	if err := s.absenceRepo.UpdateAbsenceStatus(ctx, companyID, absenceID, status, requestingUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to review absence request", slog.String("absence_id", absenceID))
		return err
	}

	s.LogInfo(ctx, "Absence reviewed", slog.String("absence_id", absenceID), slog.String("status", string(status)))
	return nil
}

// ListAbsences retrieves absence requests for a company.
func (s *AbsenceService) ListAbsences(ctx context.Context, companyID string, status *domain.AbsenceStatus, requestingUserID string) ([]domain.AbsenceRequest, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}

	absences, err := s.absenceRepo.ListAbsencesByCompany(ctx, companyID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list absence requests", slog.String("company_id", companyID))
		return nil, err
	}
	if absences == nil {
		absences = []domain.AbsenceRequest{}
	}
	return absences, nil
}
