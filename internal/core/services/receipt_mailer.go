package services

import (
	"context"
	"log/slog"

	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// LoggingReceiptMailer records the dispatch instead of talking to a mail
// provider. Swap in a real implementation behind the same interface when an
// email integration lands.
type LoggingReceiptMailer struct{}

// NewLoggingReceiptMailer creates the log-only mailer.
func NewLoggingReceiptMailer() portssvc.ReceiptMailer {
	return &LoggingReceiptMailer{}
}

var _ portssvc.ReceiptMailer = (*LoggingReceiptMailer)(nil)

// SendReceipt logs the would-be dispatch and reports success.
func (m *LoggingReceiptMailer) SendReceipt(ctx context.Context, receipt domain.PaymentReceipt, recipientEmail string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Dispatching receipt email",
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("receipt_number", receipt.ReceiptNumber),
		slog.String("recipient", recipientEmail),
		slog.String("total", receipt.Total.StringFixed(2)),
	)
	return nil
}
