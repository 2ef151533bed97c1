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

// ClientService manages the customer roster consumed by scheduling and billing.
type ClientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new ClientService.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.ClientSvcFacade {
	return &ClientService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		clientRepo:  clientRepo,
	}
}

var _ portssvc.ClientSvcFacade = (*ClientService)(nil)

// GetClientByID retrieves a client.
func (s *ClientService) GetClientByID(ctx context.Context, companyID, clientID string, requestingUserID string) (*domain.Client, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, err
	}
	return s.clientRepo.FindClientByID(ctx, companyID, clientID)
}

// ListClients retrieves all clients of a company.
func (s *ClientService) ListClients(ctx context.Context, companyID string, requestingUserID string) ([]domain.Client, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleCleaner); err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.ListClientsByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients", slog.String("company_id", companyID))
		return nil, err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// CreateClient persists a new client. Manager rights required.
func (s *ClientService) CreateClient(ctx context.Context, client domain.Client, requestingUserID string) (*domain.Client, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, client.CompanyID, domain.RoleManager); err != nil {
		return nil, err
	}
	if client.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", apperrors.ErrValidation)
	}

	now := time.Now()
	client.ClientID = uuid.NewString()
	if client.ContractStatus == "" {
		client.ContractStatus = domain.ContractActive
	}
	client.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     requestingUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: requestingUserID,
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("company_id", client.CompanyID))
		return nil, err
	}

	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

// UpdateClient updates a client's details.
func (s *ClientService) UpdateClient(ctx context.Context, client domain.Client, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, client.CompanyID, domain.RoleManager); err != nil {
		return err
	}

	client.LastUpdatedAt = time.Now()
	client.LastUpdatedBy = requestingUserID
	if err := s.clientRepo.UpdateClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", client.ClientID))
		return err
	}

	s.LogInfo(ctx, "Client updated", slog.String("client_id", client.ClientID))
	return nil
}
