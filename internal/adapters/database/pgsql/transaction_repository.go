package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

// TransactionRepository reads transaction history. Records are written by the
// account repository inside the same database transaction as the balance
// mutation they mirror.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new repository for transaction history.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

var _ portsrepo.TransactionReader = (*TransactionRepository)(nil)

func (r *TransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.TransactionRecord, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT transaction_id, account_id, type, amount, status, previous_balance, new_balance, description, created_at, created_by
        FROM transactions
        WHERE account_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	records := []domain.TransactionRecord{}
	for rows.Next() {
		var txn domain.TransactionRecord
		err := rows.Scan(
			&txn.TransactionID,
			&txn.AccountID,
			&txn.Type,
			&txn.Amount,
			&txn.Status,
			&txn.PreviousBalance,
			&txn.NewBalance,
			&txn.Description,
			&txn.CreatedAt,
			&txn.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		records = append(records, txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return records, nil
}
