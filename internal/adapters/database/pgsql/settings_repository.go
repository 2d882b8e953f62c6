package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

// settingsRowID pins the app_settings table to a single row.
const settingsRowID = 1

type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new repository for settings and tier tables.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

var _ portsrepo.SettingsRepositoryFacade = (*SettingsRepository)(nil)

func (r *SettingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	query := `
        SELECT profit_sharing_enabled, manual_credit_ceiling, referral_rewards, created_at, created_by, last_updated_at, last_updated_by
        FROM app_settings
        WHERE id = $1;
    `
	var settings domain.Settings
	var rewards []byte
	err := r.pool.QueryRow(ctx, query, settingsRowID).Scan(
		&settings.ProfitSharingEnabled,
		&settings.ManualCreditCeiling,
		&rewards,
		&settings.CreatedAt,
		&settings.CreatedBy,
		&settings.LastUpdatedAt,
		&settings.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := json.Unmarshal(rewards, &settings.ReferralRewards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal referral rewards: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	rewards, err := json.Marshal(settings.ReferralRewards)
	if err != nil {
		return fmt.Errorf("failed to marshal referral rewards: %w", err)
	}

	query := `
        UPDATE app_settings
        SET profit_sharing_enabled = $1, manual_credit_ceiling = $2, referral_rewards = $3, last_updated_at = $4, last_updated_by = $5
        WHERE id = $6;
    `
	cmdTag, err := r.pool.Exec(ctx, query,
		settings.ProfitSharingEnabled,
		settings.ManualCreditCeiling,
		rewards,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
		settingsRowID,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SettingsRepository) GetActiveTierTable(ctx context.Context) (*domain.TierTable, error) {
	query := `
        SELECT version, tiers
        FROM tier_tables
        WHERE is_active
        ORDER BY version DESC
        LIMIT 1;
    `
	var table domain.TierTable
	var tiers []byte
	err := r.pool.QueryRow(ctx, query).Scan(&table.Version, &tiers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load active tier table: %w", err)
	}
	if err := json.Unmarshal(tiers, &table.Tiers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tier table: %w", err)
	}
	return &table, nil
}

// SaveTierTable inserts the next version and flips the active flag in one
// database transaction. Old versions stay around for audit.
func (r *SettingsRepository) SaveTierTable(ctx context.Context, table domain.TierTable, userID string) (*domain.TierTable, error) {
	tiers, err := json.Marshal(table.Tiers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tier table: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `UPDATE tier_tables SET is_active = FALSE WHERE is_active;`); err != nil {
		return nil, fmt.Errorf("failed to deactivate tier tables: %w", err)
	}

	var version int
	err = tx.QueryRow(ctx, `
        INSERT INTO tier_tables (version, tiers, is_active, created_at, created_by)
        VALUES ((SELECT COALESCE(MAX(version), 0) + 1 FROM tier_tables), $1, TRUE, $2, $3)
        RETURNING version;
    `, tiers, time.Now().UTC(), userID).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tier table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tier table update: %w", err)
	}

	table.Version = version
	return &table, nil
}
