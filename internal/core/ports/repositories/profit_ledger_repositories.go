package repositories

import (
	"context"
	"time"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// ProfitLedgerReader defines read operations on the profit-share ledger.
type ProfitLedgerReader interface {
	// HasDailyEntry reports whether a non-custom entry already exists for the
	// account on the given (midnight-normalized) day. This is a cheap
	// skip-ahead check; the write-time uniqueness constraint is the actual
	// correctness guarantee.
	HasDailyEntry(ctx context.Context, accountID string, date time.Time) (bool, error)

	// ListEntriesByAccount retrieves ledger entries for an account, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.ProfitEntry, error)
}

// ProfitLedgerWriter defines write operations on the profit-share ledger.
type ProfitLedgerWriter interface {
	// SaveEntry appends a ledger entry. For non-custom entries the database
	// rejects a second entry for the same (account, day) pair; that conflict
	// surfaces as apperrors.ErrDuplicate and callers treat it as "already
	// processed".
	SaveEntry(ctx context.Context, entry domain.ProfitEntry) error
}

// AccrualRunRepository persists per-run summaries for observability.
type AccrualRunRepository interface {
	SaveRun(ctx context.Context, run domain.AccrualRun) error
	ListRuns(ctx context.Context, limit int) ([]domain.AccrualRun, error)
}

// ProfitLedgerRepositoryFacade combines the ledger interfaces.
type ProfitLedgerRepositoryFacade interface {
	ProfitLedgerReader
	ProfitLedgerWriter
}
