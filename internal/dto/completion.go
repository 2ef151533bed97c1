package dto

import "github.com/shopspring/decimal"

// StartJobRequest begins work on a scheduled job.
type StartJobRequest struct {
	BeforePhotos []string `json:"beforePhotos"`
}

// ChecklistSelection is one checked-off checklist entry at completion.
type ChecklistSelection struct {
	Item      string `json:"item" binding:"required"`
	Completed bool   `json:"completed"`
}

// PaymentInput is the payment payload captured at completion of a billable job.
// Field-level validation beyond shape (cash preference rules, amount > 0) is
// enforced by the completion service so the rules hold server-side.
type PaymentInput struct {
	Method     string          `json:"method" binding:"required,oneof=CASH E_TRANSFER CHEQUE CREDIT_CARD BANK_TRANSFER"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Reference  string          `json:"reference"`
	ReceivedBy string          `json:"receivedBy" binding:"omitempty,oneof=CLEANER COMPANY"`
	CashChoice string          `json:"cashChoice" binding:"omitempty,oneof=KEEP_CASH HAND_TO_ADMIN"`
}

// CompleteJobRequest finishes a billable job. Payment is required for billable
// services and rejected for visits.
type CompleteJobRequest struct {
	AfterPhotos []string             `json:"afterPhotos"`
	Notes       string               `json:"notes"`
	Checklist   []ChecklistSelection `json:"checklist"`
	Payment     *PaymentInput        `json:"payment"`
}

// CompleteVisitRequest finishes a non-billable visit.
type CompleteVisitRequest struct {
	Purpose    string `json:"purpose"`
	Outcome    string `json:"outcome" binding:"required"`
	Notes      string `json:"notes"`
	NextAction string `json:"nextAction"`
}
