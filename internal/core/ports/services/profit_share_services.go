package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
	"github.com/veltapay/velta_backend/internal/dto"
)

// ProfitShareSvcFacade is the daily accrual engine plus the administrator
// override path. RunDailyAccrual is safe to invoke any number of times for
// the same calendar day.
type ProfitShareSvcFacade interface {
	// RunDailyAccrual credits every eligible account its tiered daily yield
	// for the calendar day of asOf, exactly once per day per account.
	// triggeredBy records who started the run (admin UserID or "scheduler").
	RunDailyAccrual(ctx context.Context, asOf time.Time, triggeredBy string) (*domain.AccrualRun, error)

	// CreditFixedAmount is the administrator override crediting an absolute
	// amount outside the daily schedule.
	CreditFixedAmount(ctx context.Context, adminID string, req dto.ManualCreditRequest) (*domain.ProfitEntry, error)

	// CreditFixedPercentage credits depositBalance * percentage / 100.
	CreditFixedPercentage(ctx context.Context, adminID string, req dto.ManualPercentCreditRequest) (*domain.ProfitEntry, error)

	// ListOwnEntries returns the requesting user's profit-share history.
	ListOwnEntries(ctx context.Context, userID string, limit int, offset int) ([]domain.ProfitEntry, error)

	// ListRuns returns recent run summaries; restricted to administrators.
	ListRuns(ctx context.Context, adminID string, limit int) ([]domain.AccrualRun, error)
}

// Notifier dispatches best-effort credit notifications. Implementations must
// never influence the outcome of the credit that triggered them.
type Notifier interface {
	NotifyCredit(ctx context.Context, userID string, kind domain.TransactionType, amount, rate decimal.Decimal) error
}
