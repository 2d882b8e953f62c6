package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// settingsService implements the SettingsSvcFacade interface.
type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepositoryFacade
	auditRepo    portsrepo.AuditRepository
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	settingsRepo portsrepo.SettingsRepositoryFacade,
	auditRepo portsrepo.AuditRepository,
	userRepo portsrepo.UserReader,
) portssvc.SettingsSvcFacade {
	return &settingsService{
		BaseService:  BaseService{userReader: userRepo},
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings returns the current settings snapshot; admin only.
func (s *settingsService) GetSettings(ctx context.Context, requestingUserID string) (*domain.Settings, error) {
	if err := s.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	return s.settingsRepo.GetSettings(ctx)
}

// UpdateSettings applies a partial settings update; admin only.
func (s *settingsService) UpdateSettings(ctx context.Context, adminID string, req dto.UpdateSettingsRequest) (*domain.Settings, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	changes := map[string]any{}
	if req.ProfitSharingEnabled != nil {
		changes["profitSharingEnabled"] = *req.ProfitSharingEnabled
		settings.ProfitSharingEnabled = *req.ProfitSharingEnabled
	}
	if req.ManualCreditCeiling != nil {
		if req.ManualCreditCeiling.IsNegative() {
			return nil, fmt.Errorf("%w: manual credit ceiling cannot be negative", apperrors.ErrValidation)
		}
		changes["manualCreditCeiling"] = req.ManualCreditCeiling.String()
		settings.ManualCreditCeiling = *req.ManualCreditCeiling
	}
	if req.ReferralRewards != nil {
		rewards := make([]domain.ReferralReward, len(req.ReferralRewards))
		for i, r := range req.ReferralRewards {
			if r.Amount.IsNegative() {
				return nil, fmt.Errorf("%w: referral reward amount cannot be negative", apperrors.ErrValidation)
			}
			rewards[i] = domain.ReferralReward{MinReferrals: r.MinReferrals, Amount: r.Amount}
		}
		sort.Slice(rewards, func(i, j int) bool { return rewards[i].MinReferrals < rewards[j].MinReferrals })
		settings.ReferralRewards = rewards
		changes["referralRewards"] = len(rewards)
	}
	if len(changes) == 0 {
		return settings, nil
	}

	now := time.Now().UTC()
	settings.LastUpdatedAt = now
	settings.LastUpdatedBy = adminID
	if err := s.settingsRepo.SaveSettings(ctx, *settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:  uuid.NewString(),
		Action:    "settings.update",
		ActorID:   adminID,
		Details:   changes,
		CreatedAt: now,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for settings update")
	}

	s.LogInfo(ctx, "Settings updated", slog.Int("fields_changed", len(changes)))
	return settings, nil
}

// GetTierTable returns the active tier table snapshot.
func (s *settingsService) GetTierTable(ctx context.Context) (*domain.TierTable, error) {
	return s.settingsRepo.GetActiveTierTable(ctx)
}

// UpdateTierTable validates and activates a new tier table version.
func (s *settingsService) UpdateTierTable(ctx context.Context, adminID string, req dto.UpdateTierTableRequest) (*domain.TierTable, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	table := req.ToDomainTierTable()
	if err := table.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.settingsRepo.SaveTierTable(ctx, table, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to save tier table: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:  uuid.NewString(),
		Action:    "tier_table.update",
		ActorID:   adminID,
		Details:   map[string]any{"version": saved.Version, "tiers": len(saved.Tiers)},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for tier table update")
	}

	s.LogInfo(ctx, "Tier table updated", slog.Int("version", saved.Version), slog.Int("tiers", len(saved.Tiers)))
	return saved, nil
}

// ListAuditRecords returns a page of the audit trail; admin only.
func (s *settingsService) ListAuditRecords(ctx context.Context, adminID string, limit int, offset int) ([]domain.AuditRecord, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListAuditRecords(ctx, limit, offset)
}
