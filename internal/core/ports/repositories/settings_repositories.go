package repositories

import (
	"context"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// SettingsRepositoryFacade persists platform settings and the versioned tier table.
type SettingsRepositoryFacade interface {
	// GetSettings returns the current settings snapshot.
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error

	// GetActiveTierTable returns the currently active tier table version.
	// Returns ErrNotFound when no table has been configured yet.
	GetActiveTierTable(ctx context.Context) (*domain.TierTable, error)

	// SaveTierTable persists a new table version and marks it active. The
	// previous version is retained for audit.
	SaveTierTable(ctx context.Context, table domain.TierTable, userID string) (*domain.TierTable, error)
}

// AuditRepository appends administrator audit records.
type AuditRepository interface {
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
	ListAuditRecords(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error)
}
