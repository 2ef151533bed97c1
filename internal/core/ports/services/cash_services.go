package services

import (
	"context"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
)

// CashHandlingSvc derives cash collections out of completed cash payments.
type CashHandlingSvc interface {
	// RecordFromCompletion creates the cash collection for a job completed with
	// a cash payment, deriving handling and compensation status from the
	// tenant preference and the employee's declared choice. Emits the admin
	// approval notification when the cash was kept.
	RecordFromCompletion(ctx context.Context, job domain.Job, settings domain.CompanySettings, actorUserID string) (*domain.CashCollection, error)
}

// CashApprovalSvc exposes the admin approval transitions.
type CashApprovalSvc interface {
	// ApproveCashCollection transitions pending -> approved. Approved is the
	// only status that can feed a payroll deduction.
	ApproveCashCollection(ctx context.Context, companyID, collectionID string, actorUserID string) error

	// DisputeCashCollection transitions pending -> disputed (terminal for
	// payroll eligibility).
	DisputeCashCollection(ctx context.Context, companyID, collectionID string, actorUserID string) error

	// SettleCashCollection transitions approved -> settled once the deduction
	// has been applied.
	SettleCashCollection(ctx context.Context, companyID, collectionID string, actorUserID string) error

	// ListCashCollections retrieves collections filtered by compensation status.
	ListCashCollections(ctx context.Context, companyID string, status *domain.CompensationStatus, limit int, nextToken *string, requestingUserID string) ([]domain.CashCollection, *string, error)
}

// CashSvcFacade combines cash-handling service interfaces
type CashSvcFacade interface {
	CashHandlingSvc
	CashApprovalSvc
}
