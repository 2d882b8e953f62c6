package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

type ProfitLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewProfitLedgerRepository creates a new repository for the profit-share ledger.
func NewProfitLedgerRepository(pool *pgxpool.Pool) *ProfitLedgerRepository {
	return &ProfitLedgerRepository{pool: pool}
}

var _ portsrepo.ProfitLedgerRepositoryFacade = (*ProfitLedgerRepository)(nil)

// HasDailyEntry reports whether a non-custom entry exists for the account on
// the given day. Callers normalize date to UTC midnight before calling.
func (r *ProfitLedgerRepository) HasDailyEntry(ctx context.Context, accountID string, date time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM profit_ledger
            WHERE account_id = $1 AND entry_date = $2 AND NOT is_custom
        );
    `
	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check daily entry: %w", err)
	}
	return exists, nil
}

// SaveEntry appends a ledger entry. A partial unique index on
// (account_id, entry_date) WHERE NOT is_custom makes the second daily insert
// for the same account fail; that conflict maps to ErrDuplicate.
func (r *ProfitLedgerRepository) SaveEntry(ctx context.Context, entry domain.ProfitEntry) error {
	query := `
        INSERT INTO profit_ledger (entry_id, account_id, entry_date, balance_snapshot, tier, percentage, amount, credited, is_custom, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.pool.Exec(ctx, query,
		entry.EntryID,
		entry.AccountID,
		entry.EntryDate,
		entry.BalanceSnapshot,
		entry.Tier,
		entry.Percentage,
		entry.Amount,
		entry.Credited,
		entry.IsCustom,
		entry.CreatedBy,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ledger entry for account %s on %s: %w", entry.AccountID, entry.EntryDate.Format("2006-01-02"), apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}
	return nil
}

func (r *ProfitLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.ProfitEntry, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT entry_id, account_id, entry_date, balance_snapshot, tier, percentage, amount, credited, is_custom, created_by, created_at
        FROM profit_ledger
        WHERE account_id = $1
        ORDER BY entry_date DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.ProfitEntry{}
	for rows.Next() {
		var entry domain.ProfitEntry
		err := rows.Scan(
			&entry.EntryID,
			&entry.AccountID,
			&entry.EntryDate,
			&entry.BalanceSnapshot,
			&entry.Tier,
			&entry.Percentage,
			&entry.Amount,
			&entry.Credited,
			&entry.IsCustom,
			&entry.CreatedBy,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", rows.Err())
	}
	return entries, nil
}
