package services

import (
	"context"

	"github.com/veltapay/velta_backend/internal/core/domain"
	"github.com/veltapay/velta_backend/internal/dto"
)

// SettingsSvcFacade manages platform settings and the tier table.
type SettingsSvcFacade interface {
	GetSettings(ctx context.Context, requestingUserID string) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, adminID string, req dto.UpdateSettingsRequest) (*domain.Settings, error)

	// GetTierTable returns the active tier table snapshot.
	GetTierTable(ctx context.Context) (*domain.TierTable, error)

	// UpdateTierTable validates and activates a new tier table version;
	// restricted to administrators.
	UpdateTierTable(ctx context.Context, adminID string, req dto.UpdateTierTableRequest) (*domain.TierTable, error)

	// ListAuditRecords returns a page of the audit trail, newest first;
	// restricted to administrators.
	ListAuditRecords(ctx context.Context, adminID string, limit int, offset int) ([]domain.AuditRecord, error)
}
