package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portsrepo "github.com/tidyops/cleanops_backend/internal/core/ports/repositories"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
)

// ActivityService is the best-effort audit trail. Append failures are logged
// and swallowed; the mutation that produced the entry has already committed.
type ActivityService struct {
	BaseService
	activityRepo portsrepo.ActivityLogRepositoryFacade
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo portsrepo.ActivityLogRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.ActivityEmitterSvc {
	return &ActivityService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		activityRepo: activityRepo,
	}
}

var _ portssvc.ActivityEmitterSvc = (*ActivityService)(nil)

// Emit appends an audit entry. Never returns an error to the caller's flow.
func (s *ActivityService) Emit(ctx context.Context, companyID, actorID string, action domain.ActivityAction, entityType, entityID, detail string) {
	entry := domain.ActivityLog{
		LogID:      uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		LoggedAt:   time.Now(),
	}
	if err := s.activityRepo.AppendActivityLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to append activity log",
			slog.String("action", string(action)),
			slog.String("entity_id", entityID))
	}
}

// ListRecent retrieves the most recent audit entries for a company.
func (s *ActivityService) ListRecent(ctx context.Context, companyID string, limit int, requestingUserID string) ([]domain.ActivityLog, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleManager); err != nil {
		return nil, err
	}

	entries, err := s.activityRepo.ListActivityLogs(ctx, companyID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list activity logs", slog.String("company_id", companyID))
		return nil, err
	}
	if entries == nil {
		entries = []domain.ActivityLog{}
	}
	return entries, nil
}
