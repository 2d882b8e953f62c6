package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

type AccrualRunRepository struct {
	pool *pgxpool.Pool
}

// NewAccrualRunRepository creates a new repository for accrual run summaries.
func NewAccrualRunRepository(pool *pgxpool.Pool) *AccrualRunRepository {
	return &AccrualRunRepository{pool: pool}
}

var _ portsrepo.AccrualRunRepository = (*AccrualRunRepository)(nil)

func (r *AccrualRunRepository) SaveRun(ctx context.Context, run domain.AccrualRun) error {
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal run results: %w", err)
	}

	query := `
        INSERT INTO accrual_runs (run_id, run_date, users_processed, total_amount, results, triggered_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err = r.pool.Exec(ctx, query,
		run.RunID,
		run.RunDate,
		run.UsersProcessed,
		run.TotalAmount,
		results,
		run.TriggeredBy,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save accrual run: %w", err)
	}
	return nil
}

func (r *AccrualRunRepository) ListRuns(ctx context.Context, limit int) ([]domain.AccrualRun, error) {
	limit, _ = clampPage(limit, 0)
	query := `
        SELECT run_id, run_date, users_processed, total_amount, results, triggered_by, created_at
        FROM accrual_runs
        ORDER BY created_at DESC
        LIMIT $1;
    `
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.AccrualRun{}
	for rows.Next() {
		var run domain.AccrualRun
		var results []byte
		err := rows.Scan(
			&run.RunID,
			&run.RunDate,
			&run.UsersProcessed,
			&run.TotalAmount,
			&results,
			&run.TriggeredBy,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accrual run row: %w", err)
		}
		if err := json.Unmarshal(results, &run.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run results for %s: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating accrual run rows: %w", rows.Err())
	}
	return runs, nil
}
