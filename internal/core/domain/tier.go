package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/apperrors"
)

// Tier is one administrator-configured rate band. Boundaries are inclusive on
// both ends; bands are kept in ascending MinAmount order and the first match
// wins.
type Tier struct {
	Name      string          `json:"name"`
	MinAmount decimal.Decimal `json:"minAmount"`
	MaxAmount decimal.Decimal `json:"maxAmount"`
	DailyRate decimal.Decimal `json:"dailyRate"` // percent per day
}

// Contains reports whether balance falls within the band (inclusive).
func (t Tier) Contains(balance decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(t.MinAmount) && balance.LessThanOrEqual(t.MaxAmount)
}

// TierTable is a versioned snapshot of the configured rate bands. Resolution
// reads the snapshot it was handed; administrator changes take effect on the
// next run, never retroactively.
type TierTable struct {
	Version int    `json:"version"`
	Tiers   []Tier `json:"tiers"`
}

// Resolve maps a non-negative deposit balance to its rate band. If no band
// matches (a configuration gap, or the balance exceeds the top band) it falls
// back to the first configured band, so a misconfiguration under-credits
// instead of failing a batch run. An empty table returns ErrValidation.
func (t TierTable) Resolve(depositBalance decimal.Decimal) (Tier, error) {
	if len(t.Tiers) == 0 {
		return Tier{}, fmt.Errorf("%w: tier table has no bands", apperrors.ErrValidation)
	}
	for _, tier := range t.Tiers {
		if tier.Contains(depositBalance) {
			return tier, nil
		}
	}
	return t.Tiers[0], nil
}

// Validate checks a candidate tier table before it is persisted: at least one
// band, positive rates, min <= max, and bands in ascending, non-overlapping
// order.
func (t TierTable) Validate() error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("%w: tier table must contain at least one band", apperrors.ErrValidation)
	}
	for i, tier := range t.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("%w: band %d is missing a name", apperrors.ErrValidation, i)
		}
		if tier.MinAmount.IsNegative() {
			return fmt.Errorf("%w: band %q has a negative minimum", apperrors.ErrValidation, tier.Name)
		}
		if tier.MaxAmount.LessThan(tier.MinAmount) {
			return fmt.Errorf("%w: band %q has max below min", apperrors.ErrValidation, tier.Name)
		}
		if !tier.DailyRate.IsPositive() {
			return fmt.Errorf("%w: band %q must have a positive daily rate", apperrors.ErrValidation, tier.Name)
		}
		if i > 0 {
			prev := t.Tiers[i-1]
			if !tier.MinAmount.GreaterThan(prev.MaxAmount) {
				return fmt.Errorf("%w: band %q overlaps band %q", apperrors.ErrValidation, tier.Name, prev.Name)
			}
		}
	}
	return nil
}
