// Package notify contains credit notification adapters.
package notify

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
)

// LogNotifier records credit notifications through the structured logger.
// It stands in for an email or push provider; swapping one in only requires
// another Notifier implementation.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a logging notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

// NotifyCredit logs the credit event for the user.
func (n *LogNotifier) NotifyCredit(ctx context.Context, userID string, kind domain.TransactionType, amount, rate decimal.Decimal) error {
	n.logger.InfoContext(ctx, "Credit notification",
		slog.String("user_id", userID),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.String()),
		slog.String("rate", rate.String()),
	)
	return nil
}
