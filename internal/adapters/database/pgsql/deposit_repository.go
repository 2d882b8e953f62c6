package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

type DepositRepository struct {
	pool *pgxpool.Pool
}

// NewDepositRepository creates a new repository for deposit requests.
func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{pool: pool}
}

var _ portsrepo.DepositRepositoryFacade = (*DepositRepository)(nil)

const depositColumns = `deposit_id, account_id, amount, method_ref, status, created_at, created_by, last_updated_at, last_updated_by`

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var d domain.Deposit
	err := row.Scan(
		&d.DepositID,
		&d.AccountID,
		&d.Amount,
		&d.MethodRef,
		&d.Status,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan deposit row: %w", err)
	}
	return &d, nil
}

func (r *DepositRepository) SaveDeposit(ctx context.Context, deposit domain.Deposit) error {
	query := `
        INSERT INTO deposits (` + depositColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.pool.Exec(ctx, query,
		deposit.DepositID,
		deposit.AccountID,
		deposit.Amount,
		deposit.MethodRef,
		deposit.Status,
		deposit.CreatedAt,
		deposit.CreatedBy,
		deposit.LastUpdatedAt,
		deposit.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save deposit: %w", err)
	}
	return nil
}

func (r *DepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE deposit_id = $1;`
	return scanDeposit(r.pool.QueryRow(ctx, query, depositID))
}

func (r *DepositRepository) ListDepositsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Deposit, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT ` + depositColumns + `
        FROM deposits
        WHERE account_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer rows.Close()
	return collectDeposits(rows)
}

func (r *DepositRepository) ListDepositsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.Deposit, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT ` + depositColumns + `
        FROM deposits
        WHERE status = $1
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits by status: %w", err)
	}
	defer rows.Close()
	return collectDeposits(rows)
}

func collectDeposits(rows pgx.Rows) ([]domain.Deposit, error) {
	deposits := []domain.Deposit{}
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, *d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating deposit rows: %w", rows.Err())
	}
	return deposits, nil
}

// UpdateDepositStatus transitions a pending deposit. The WHERE clause keeps
// the transition one-way; a deposit already reviewed is never flipped again.
func (r *DepositRepository) UpdateDepositStatus(ctx context.Context, depositID string, status domain.RequestStatus, reviewerID string, now time.Time) error {
	query := `
        UPDATE deposits
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE deposit_id = $4 AND status = $5;
    `
	cmdTag, err := r.pool.Exec(ctx, query, status, now, reviewerID, depositID, domain.RequestPending)
	if err != nil {
		return fmt.Errorf("failed to update deposit status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DepositRepository) CountApprovedByAccount(ctx context.Context, accountID string) (int, error) {
	query := `SELECT COUNT(*) FROM deposits WHERE account_id = $1 AND status = $2;`
	var count int
	if err := r.pool.QueryRow(ctx, query, accountID, domain.RequestApproved).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved deposits: %w", err)
	}
	return count, nil
}
