package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/core/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

type SettingsServiceTestSuite struct {
	suite.Suite
	mockSettingsRepo *MockSettingsRepository
	mockAuditRepo    *MockAuditRepository
	mockUserRepo     *MockUserRepository
	service          portssvc.SettingsSvcFacade
}

func (s *SettingsServiceTestSuite) SetupTest() {
	s.mockSettingsRepo = new(MockSettingsRepository)
	s.mockAuditRepo = new(MockAuditRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewSettingsService(s.mockSettingsRepo, s.mockAuditRepo, s.mockUserRepo)
}

func (s *SettingsServiceTestSuite) expectAdmin(userID string) {
	s.mockUserRepo.On("FindUserByID", mock.Anything, userID).
		Return(&domain.User{UserID: userID, Role: domain.RoleAdmin}, nil).Once()
}

func (s *SettingsServiceTestSuite) TestUpdateSettings_SortsRewardsByThreshold() {
	ctx := context.Background()

	s.expectAdmin(adminID)
	s.mockSettingsRepo.On("GetSettings", ctx).
		Return(&domain.Settings{ProfitSharingEnabled: true}, nil).Once()
	s.mockSettingsRepo.On("SaveSettings", ctx, mock.MatchedBy(func(st domain.Settings) bool {
		return len(st.ReferralRewards) == 2 &&
			st.ReferralRewards[0].MinReferrals == 1 &&
			st.ReferralRewards[1].MinReferrals == 5
	})).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	updated, err := s.service.UpdateSettings(ctx, adminID, dto.UpdateSettingsRequest{
		ReferralRewards: []dto.ReferralRewardRequest{
			{MinReferrals: 5, Amount: dec("25")},
			{MinReferrals: 1, Amount: dec("10")},
		},
	})

	s.Require().NoError(err)
	s.Equal(1, updated.ReferralRewards[0].MinReferrals)
	s.mockSettingsRepo.AssertExpectations(s.T())
}

func (s *SettingsServiceTestSuite) TestUpdateSettings_NoChangesSkipsSave() {
	ctx := context.Background()

	s.expectAdmin(adminID)
	s.mockSettingsRepo.On("GetSettings", ctx).
		Return(&domain.Settings{ProfitSharingEnabled: true}, nil).Once()

	_, err := s.service.UpdateSettings(ctx, adminID, dto.UpdateSettingsRequest{})

	s.Require().NoError(err)
	s.mockSettingsRepo.AssertNotCalled(s.T(), "SaveSettings", mock.Anything, mock.Anything)
	s.mockAuditRepo.AssertNotCalled(s.T(), "SaveAuditRecord", mock.Anything, mock.Anything)
}

func (s *SettingsServiceTestSuite) TestUpdateSettings_NegativeCeiling() {
	ctx := context.Background()
	negative := dec("-5")

	s.expectAdmin(adminID)
	s.mockSettingsRepo.On("GetSettings", ctx).
		Return(&domain.Settings{ProfitSharingEnabled: true}, nil).Once()

	_, err := s.service.UpdateSettings(ctx, adminID, dto.UpdateSettingsRequest{
		ManualCreditCeiling: &negative,
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *SettingsServiceTestSuite) TestUpdateTierTable_RejectsOverlappingBands() {
	ctx := context.Background()

	s.expectAdmin(adminID)

	_, err := s.service.UpdateTierTable(ctx, adminID, dto.UpdateTierTableRequest{
		Tiers: []dto.TierRequest{
			{Name: "A", MinAmount: dec("0"), MaxAmount: dec("100"), DailyRate: dec("0.1")},
			{Name: "B", MinAmount: dec("100"), MaxAmount: dec("200"), DailyRate: dec("0.2")},
		},
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockSettingsRepo.AssertNotCalled(s.T(), "SaveTierTable", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettingsServiceTestSuite) TestUpdateTierTable_ActivatesNewVersion() {
	ctx := context.Background()
	saved := domain.TierTable{Version: 4, Tiers: []domain.Tier{
		{Name: "Flat", MinAmount: dec("0"), MaxAmount: dec("1000000"), DailyRate: dec("0.1")},
	}}

	s.expectAdmin(adminID)
	s.mockSettingsRepo.On("SaveTierTable", ctx, mock.AnythingOfType("domain.TierTable"), adminID).
		Return(&saved, nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	got, err := s.service.UpdateTierTable(ctx, adminID, dto.UpdateTierTableRequest{
		Tiers: []dto.TierRequest{
			{Name: "Flat", MinAmount: dec("0"), MaxAmount: dec("1000000"), DailyRate: dec("0.1")},
		},
	})

	s.Require().NoError(err)
	s.Equal(4, got.Version)
	s.mockAuditRepo.AssertExpectations(s.T())
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}
