package services

import (
	"context"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// AccountSvcFacade exposes account reads, status transitions, and history.
type AccountSvcFacade interface {
	// GetOwnAccount returns the account owned by the requesting user.
	GetOwnAccount(ctx context.Context, userID string) (*domain.Account, error)

	// GetAccountByID returns any account; restricted to administrators.
	GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error)

	// ListAccounts returns a page of accounts; restricted to administrators.
	ListAccounts(ctx context.Context, requestingUserID string, limit int, offset int) ([]domain.Account, error)

	// SetAccountStatus suspends or reactivates an account; restricted to
	// administrators and recorded in the audit trail.
	SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, adminID string) (*domain.Account, error)

	// ListTransactions returns the account's history. Owners see their own
	// account; administrators see any.
	ListTransactions(ctx context.Context, accountID string, requestingUserID string, limit int, offset int) ([]domain.TransactionRecord, error)
}
