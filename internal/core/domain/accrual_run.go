package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchedulerActor is recorded as TriggeredBy for cron-initiated runs.
const SchedulerActor = "scheduler"

// AccrualResult is the per-account outcome of one daily accrual run.
type AccrualResult struct {
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	Tier      string          `json:"tier"`
}

// AccrualRun is the persisted summary of one daily profit-share run. It exists
// for observability only; idempotence is enforced by the ledger's uniqueness
// constraint, never by consulting past runs.
type AccrualRun struct {
	RunID          string          `json:"runID"` // Primary Key (UUID)
	RunDate        time.Time       `json:"runDate"`
	UsersProcessed int             `json:"usersProcessed"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Results        []AccrualResult `json:"results"`
	// TriggeredBy is the admin UserID for manual triggers, or "scheduler" for
	// cron-initiated runs.
	TriggeredBy string    `json:"triggeredBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
