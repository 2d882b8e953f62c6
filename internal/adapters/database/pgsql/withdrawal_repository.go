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

type WithdrawalRepository struct {
	pool *pgxpool.Pool
}

// NewWithdrawalRepository creates a new repository for withdrawal requests.
func NewWithdrawalRepository(pool *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{pool: pool}
}

var _ portsrepo.WithdrawalRepositoryFacade = (*WithdrawalRepository)(nil)

const withdrawalColumns = `withdrawal_id, account_id, amount, destination, status, created_at, created_by, last_updated_at, last_updated_by`

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	err := row.Scan(
		&w.WithdrawalID,
		&w.AccountID,
		&w.Amount,
		&w.Destination,
		&w.Status,
		&w.CreatedAt,
		&w.CreatedBy,
		&w.LastUpdatedAt,
		&w.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan withdrawal row: %w", err)
	}
	return &w, nil
}

func (r *WithdrawalRepository) SaveWithdrawal(ctx context.Context, withdrawal domain.Withdrawal) error {
	query := `
        INSERT INTO withdrawals (` + withdrawalColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.pool.Exec(ctx, query,
		withdrawal.WithdrawalID,
		withdrawal.AccountID,
		withdrawal.Amount,
		withdrawal.Destination,
		withdrawal.Status,
		withdrawal.CreatedAt,
		withdrawal.CreatedBy,
		withdrawal.LastUpdatedAt,
		withdrawal.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save withdrawal: %w", err)
	}
	return nil
}

func (r *WithdrawalRepository) FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE withdrawal_id = $1;`
	return scanWithdrawal(r.pool.QueryRow(ctx, query, withdrawalID))
}

func (r *WithdrawalRepository) ListWithdrawalsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Withdrawal, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE account_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func (r *WithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.Withdrawal, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE status = $1
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals by status: %w", err)
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func collectWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	withdrawals := []domain.Withdrawal{}
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *w)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating withdrawal rows: %w", rows.Err())
	}
	return withdrawals, nil
}

func (r *WithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, withdrawalID string, status domain.RequestStatus, reviewerID string, now time.Time) error {
	query := `
        UPDATE withdrawals
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE withdrawal_id = $4 AND status = $5;
    `
	cmdTag, err := r.pool.Exec(ctx, query, status, now, reviewerID, withdrawalID, domain.RequestPending)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
