package dto

import (
	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// TierRequest is one band of a tier table update.
type TierRequest struct {
	Name      string          `json:"name" binding:"required"`
	MinAmount decimal.Decimal `json:"minAmount"`
	MaxAmount decimal.Decimal `json:"maxAmount"`
	DailyRate decimal.Decimal `json:"dailyRate"`
}

// UpdateTierTableRequest replaces the active tier table with a new version.
type UpdateTierTableRequest struct {
	Tiers []TierRequest `json:"tiers" binding:"required,min=1,dive"`
}

// ToDomainTierTable converts the request into an unversioned domain table.
// The repository assigns the version on save.
func (r UpdateTierTableRequest) ToDomainTierTable() domain.TierTable {
	tiers := make([]domain.Tier, len(r.Tiers))
	for i, t := range r.Tiers {
		tiers[i] = domain.Tier{
			Name:      t.Name,
			MinAmount: t.MinAmount,
			MaxAmount: t.MaxAmount,
			DailyRate: t.DailyRate,
		}
	}
	return domain.TierTable{Tiers: tiers}
}

// ReferralRewardRequest is one band of the referral reward schedule.
type ReferralRewardRequest struct {
	MinReferrals int             `json:"minReferrals" binding:"min=0"`
	Amount       decimal.Decimal `json:"amount"`
}

// UpdateSettingsRequest updates platform settings. Pointers distinguish
// "leave unchanged" from explicit values.
type UpdateSettingsRequest struct {
	ProfitSharingEnabled *bool                   `json:"profitSharingEnabled"`
	ManualCreditCeiling  *decimal.Decimal        `json:"manualCreditCeiling"`
	ReferralRewards      []ReferralRewardRequest `json:"referralRewards"`
}

// TierTableResponse is the active tier table.
type TierTableResponse struct {
	Version int           `json:"version"`
	Tiers   []TierRequest `json:"tiers"`
}

// SettingsResponse is the current settings snapshot.
type SettingsResponse struct {
	ProfitSharingEnabled bool                    `json:"profitSharingEnabled"`
	ManualCreditCeiling  decimal.Decimal         `json:"manualCreditCeiling"`
	ReferralRewards      []ReferralRewardRequest `json:"referralRewards"`
}

// ToTierTableResponse converts a domain.TierTable to its DTO
func ToTierTableResponse(t *domain.TierTable) TierTableResponse {
	tiers := make([]TierRequest, len(t.Tiers))
	for i, tier := range t.Tiers {
		tiers[i] = TierRequest{
			Name:      tier.Name,
			MinAmount: tier.MinAmount,
			MaxAmount: tier.MaxAmount,
			DailyRate: tier.DailyRate,
		}
	}
	return TierTableResponse{Version: t.Version, Tiers: tiers}
}

// ToSettingsResponse converts domain.Settings to its DTO
func ToSettingsResponse(s *domain.Settings) SettingsResponse {
	rewards := make([]ReferralRewardRequest, len(s.ReferralRewards))
	for i, r := range s.ReferralRewards {
		rewards[i] = ReferralRewardRequest{MinReferrals: r.MinReferrals, Amount: r.Amount}
	}
	return SettingsResponse{
		ProfitSharingEnabled: s.ProfitSharingEnabled,
		ManualCreditCeiling:  s.ManualCreditCeiling,
		ReferralRewards:      rewards,
	}
}
