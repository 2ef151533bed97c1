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

// CashService owns the cash collection records and their approval workflow.
type CashService struct {
	BaseService
	cashRepo portsrepo.CashCollectionRepositoryFacade
	activity portssvc.ActivityEmitterSvc
	notifier portssvc.NotifierSvc
}

// NewCashService creates a new CashService.
func NewCashService(
	cashRepo portsrepo.CashCollectionRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
	activity portssvc.ActivityEmitterSvc,
	notifier portssvc.NotifierSvc,
) portssvc.CashSvcFacade {
	return &CashService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		cashRepo:    cashRepo,
		activity:    activity,
		notifier:    notifier,
	}
}

var _ portssvc.CashSvcFacade = (*CashService)(nil)

// RecordFromCompletion creates the cash collection for a job completed with a
// cash payment. Cash counts as kept only when the tenant allows keeping AND the
// cleaner received it AND chose to keep it; anything else falls back to
// delivered-to-office. Kept cash starts Pending and pings the admins.
func (s *CashService) RecordFromCompletion(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) (*domain.CashCollection, error) {
	if job.Payment == nil || job.Payment.Method != domain.PaymentCash {
		return nil, fmt.Errorf("%w: job %s has no cash payment", apperrors.ErrValidation, job.JobID)
	}
	if job.EmployeeID == nil {
		return nil, fmt.Errorf("%w: job %s has no assigned employee", apperrors.ErrValidation, job.JobID)
	}

	handling := domain.DeliveredToOffice
	status := domain.CompensationNotApplicable
	kept := settings.CashKeptByEmployee &&
		job.Payment.ReceivedBy == domain.ReceivedByCleaner &&
		job.Payment.CashChoice == domain.ChoiceKeepCash
	if kept {
		handling = domain.KeptByCleaner
		status = domain.CompensationPending
	}

	now := time.Now()
	collection := domain.CashCollection{
		CollectionID:       uuid.NewString(),
		CompanyID:          job.CompanyID,
		JobID:              job.JobID,
		CleanerID:          *job.EmployeeID,
		ClientID:           job.ClientID,
		Amount:             job.Payment.Amount,
		Handling:           handling,
		CompensationStatus: status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.cashRepo.SaveCashCollection(ctx, collection); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Cash collection recorded", slog.String("collection_id", collection.CollectionID), slog.String("handling", string(handling)))
	if handling == domain.KeptByCleaner {
		s.notifier.NotifyAdmins(ctx, job.CompanyID, "Cash kept by cleaner",
			fmt.Sprintf("A cleaner kept %s in cash from a job and needs approval", collection.Amount.StringFixed(2)))
	}
	return &collection, nil
}

func (s *CashService) transition(ctx context.Context, companyID, collectionID string, status domain.CompensationStatus, action domain.ActivityAction, actorUserID string) error {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	collection, err := s.cashRepo.FindCashCollectionByID(ctx, companyID, collectionID)
	if err != nil {
		return err
	}
	if collection.Handling != domain.KeptByCleaner {
		return fmt.Errorf("%w: collection %s was delivered to the office and needs no decision", apperrors.ErrConflict, collectionID)
	}

	switch status {
	case domain.CompensationApproved, domain.CompensationDisputed:
		if collection.CompensationStatus != domain.CompensationPending {
			return fmt.Errorf("%w: collection %s is %s, only pending collections can be decided", apperrors.ErrConflict, collectionID, collection.CompensationStatus)
		}
	case domain.CompensationSettled:
		if collection.CompensationStatus != domain.CompensationApproved {
			return fmt.Errorf("%w: collection %s is %s, only approved collections can be settled", apperrors.ErrConflict, collectionID, collection.CompensationStatus)
		}
	}

	if err := s.cashRepo.UpdateCompensationStatus(ctx, companyID, collectionID, status, actorUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to transition cash collection", slog.String("collection_id", collectionID))
		return err
	}

	s.LogInfo(ctx, "Cash collection transitioned", slog.String("collection_id", collectionID), slog.String("status", string(status)))
	s.activity.Emit(ctx, companyID, actorUserID, action, "CASH_COLLECTION", collectionID, "")
	s.notifier.NotifyUser(ctx, companyID, collection.CleanerID, "Cash handling decision",
		fmt.Sprintf("Your kept cash of %s was %s", collection.Amount.StringFixed(2), status))
	return nil
}

// ApproveCashCollection transitions pending -> approved.
func (s *CashService) ApproveCashCollection(ctx context.Context, companyID, collectionID string, actorUserID string) error {
	return s.transition(ctx, companyID, collectionID, domain.CompensationApproved, domain.ActionCashApproved, actorUserID)
}

// DisputeCashCollection transitions pending -> disputed.
func (s *CashService) DisputeCashCollection(ctx context.Context, companyID, collectionID string, actorUserID string) error {
	return s.transition(ctx, companyID, collectionID, domain.CompensationDisputed, domain.ActionCashDisputed, actorUserID)
}

// SettleCashCollection transitions approved -> settled once the payroll
// deduction has been applied.
func (s *CashService) SettleCashCollection(ctx context.Context, companyID, collectionID string, actorUserID string) error {
	return s.transition(ctx, companyID, collectionID, domain.CompensationSettled, domain.ActionCashSettled, actorUserID)
}

// ListCashCollections retrieves collections filtered by compensation status.
func (s *CashService) ListCashCollections(ctx context.Context, companyID string, status *domain.CompensationStatus, limit int, nextToken *string, requestingUserID string) ([]domain.CashCollection, *string, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, nil, err
	}

	collections, token, err := s.cashRepo.ListCashCollectionsByCompany(ctx, companyID, status, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash collections", slog.String("company_id", companyID))
		return nil, nil, err
	}
	if collections == nil {
		collections = []domain.CashCollection{}
	}
	return collections, token, nil
}
