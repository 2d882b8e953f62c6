package repositories

import (
	"context"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// TransactionReader lists transaction history records. Records are written by
// the account repository inside the same database transaction as the balance
// mutation they mirror; there is no standalone writer.
type TransactionReader interface {
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.TransactionRecord, error)
}
