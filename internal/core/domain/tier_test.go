package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testTierTable() domain.TierTable {
	return domain.TierTable{
		Version: 1,
		Tiers: []domain.Tier{
			{Name: "Bronze", MinAmount: dec("0"), MaxAmount: dec("999.99"), DailyRate: dec("0.10")},
			{Name: "Silver", MinAmount: dec("1000"), MaxAmount: dec("9999.99"), DailyRate: dec("0.15")},
			{Name: "Gold", MinAmount: dec("10000"), MaxAmount: dec("49999.99"), DailyRate: dec("0.20")},
		},
	}
}

func TestTierTable_Resolve(t *testing.T) {
	table := testTierTable()

	tests := []struct {
		name     string
		balance  string
		wantTier string
	}{
		{"zero balance hits the first band", "0", "Bronze"},
		{"mid band", "500", "Bronze"},
		{"upper boundary is inclusive", "999.99", "Bronze"},
		{"lower boundary is inclusive", "1000", "Silver"},
		{"top band", "49999.99", "Gold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := table.Resolve(dec(tt.balance))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, tier.Name)
		})
	}
}

func TestTierTable_Resolve_GapFallsBackToFirstBand(t *testing.T) {
	// Gap between 999.99 and 2000 plus a balance above the top band.
	table := domain.TierTable{Tiers: []domain.Tier{
		{Name: "Low", MinAmount: dec("0"), MaxAmount: dec("999.99"), DailyRate: dec("0.10")},
		{Name: "High", MinAmount: dec("2000"), MaxAmount: dec("5000"), DailyRate: dec("0.20")},
	}}

	tier, err := table.Resolve(dec("1500"))
	require.NoError(t, err)
	assert.Equal(t, "Low", tier.Name)

	tier, err = table.Resolve(dec("999999"))
	require.NoError(t, err)
	assert.Equal(t, "Low", tier.Name)
}

func TestTierTable_Resolve_EmptyTable(t *testing.T) {
	_, err := domain.TierTable{}.Resolve(dec("100"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTierTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   domain.TierTable
		wantErr bool
	}{
		{"valid table", testTierTable(), false},
		{"empty table", domain.TierTable{}, true},
		{"missing name", domain.TierTable{Tiers: []domain.Tier{
			{MinAmount: dec("0"), MaxAmount: dec("10"), DailyRate: dec("0.1")},
		}}, true},
		{"negative minimum", domain.TierTable{Tiers: []domain.Tier{
			{Name: "A", MinAmount: dec("-1"), MaxAmount: dec("10"), DailyRate: dec("0.1")},
		}}, true},
		{"max below min", domain.TierTable{Tiers: []domain.Tier{
			{Name: "A", MinAmount: dec("10"), MaxAmount: dec("5"), DailyRate: dec("0.1")},
		}}, true},
		{"zero rate", domain.TierTable{Tiers: []domain.Tier{
			{Name: "A", MinAmount: dec("0"), MaxAmount: dec("10"), DailyRate: dec("0")},
		}}, true},
		{"overlapping bands", domain.TierTable{Tiers: []domain.Tier{
			{Name: "A", MinAmount: dec("0"), MaxAmount: dec("100"), DailyRate: dec("0.1")},
			{Name: "B", MinAmount: dec("100"), MaxAmount: dec("200"), DailyRate: dec("0.2")},
		}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDailyEntryDate(t *testing.T) {
	in := time.Date(2025, time.March, 14, 18, 42, 7, 123, time.FixedZone("IST", 5*3600+1800))
	got := domain.DailyEntryDate(in)

	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), got)
	// Two instants on the same UTC day normalize identically.
	assert.Equal(t, got, domain.DailyEntryDate(in.Add(3*time.Hour)))
}

func TestSettings_ReferralRewardFor(t *testing.T) {
	settings := domain.Settings{ReferralRewards: []domain.ReferralReward{
		{MinReferrals: 1, Amount: dec("10")},
		{MinReferrals: 5, Amount: dec("25")},
	}}

	assert.True(t, settings.ReferralRewardFor(0).IsZero())
	assert.True(t, settings.ReferralRewardFor(1).Equal(dec("10")))
	assert.True(t, settings.ReferralRewardFor(4).Equal(dec("10")))
	assert.True(t, settings.ReferralRewardFor(5).Equal(dec("25")))
	assert.True(t, settings.ReferralRewardFor(50).Equal(dec("25")))
}
