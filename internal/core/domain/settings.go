package domain

import (
	"github.com/shopspring/decimal"
)

// ReferralReward is one band of the referral reward schedule: the reward paid
// for a referee's first approved deposit once the referrer has at least
// MinReferrals referred users.
type ReferralReward struct {
	MinReferrals int             `json:"minReferrals"`
	Amount       decimal.Decimal `json:"amount"`
}

// Settings is the administrator-configured platform settings snapshot.
type Settings struct {
	// ProfitSharingEnabled gates the daily accrual run; when false the run
	// returns a zero-effect result without touching any account.
	ProfitSharingEnabled bool `json:"profitSharingEnabled"`
	// ManualCreditCeiling bounds fixed-amount administrator credits.
	ManualCreditCeiling decimal.Decimal `json:"manualCreditCeiling"`
	// ReferralRewards is kept in ascending MinReferrals order; the highest
	// band at or below the referrer's count applies.
	ReferralRewards []ReferralReward `json:"referralRewards"`
	AuditFields
}

// ReferralRewardFor returns the reward amount for a referrer with the given
// referral count, or zero when no band applies.
func (s Settings) ReferralRewardFor(referralCount int) decimal.Decimal {
	amount := decimal.Zero
	for _, band := range s.ReferralRewards {
		if referralCount >= band.MinReferrals {
			amount = band.Amount
		}
	}
	return amount
}
