package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TierCustom is the sentinel tier name recorded on administrator override
// credits, which bypass the tier table entirely.
const TierCustom = "CUSTOM"

// ProfitEntry is one immutable row in the profit-share ledger. For scheduled
// daily entries EntryDate is normalized to UTC midnight and the database
// enforces at most one non-custom entry per (account, day). Custom entries
// carry the actual credit instant instead, so they can never collide with the
// daily uniqueness constraint.
type ProfitEntry struct {
	EntryID   string    `json:"entryID"` // Primary Key (UUID)
	AccountID string    `json:"accountID"`
	EntryDate time.Time `json:"entryDate"`
	// BalanceSnapshot is the deposit balance the rate was applied to, captured
	// at computation time and never recomputed.
	BalanceSnapshot decimal.Decimal `json:"balanceSnapshot"`
	Tier            string          `json:"tier"`
	Percentage      decimal.Decimal `json:"percentage"`
	Amount          decimal.Decimal `json:"amount"`
	// Credited records whether the matching balance mutation has been applied.
	// Entries are currently only written with Credited=true; the field leaves
	// room for a two-phase writer.
	Credited bool `json:"credited"`
	IsCustom bool `json:"isCustom"`
	// CreatedBy is the administrator for custom entries, empty for scheduled runs.
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyEntryDate normalizes an instant to the UTC midnight boundary used as
// the calendar-day key for scheduled ledger entries.
func DailyEntryDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
