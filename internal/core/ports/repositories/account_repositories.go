package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUserID retrieves the account owned by the given user.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// ListAccrualCandidates retrieves every account eligible for the daily
	// profit-share run: status ACTIVE with a positive deposit balance.
	ListAccrualCandidates(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus transitions an account between ACTIVE and SUSPENDED.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error

	// CreditBalance atomically increments the spendable balance by amount and
	// writes the given transaction record (with previous/new balance filled
	// in) in the same database transaction. Returns the updated account.
	CreditBalance(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error)

	// DebitBalance atomically decrements the spendable balance, guarded so
	// the balance can never go negative; returns ErrInsufficientFunds when
	// the guard fails. Writes the transaction record in the same database
	// transaction.
	DebitBalance(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error)

	// ApplyDeposit atomically increases the deposit balance (the accrual
	// principal) and records the transaction.
	ApplyDeposit(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error)

	// TouchLastAccrual updates the advisory last-accrual timestamp.
	TouchLastAccrual(ctx context.Context, accountID string, at time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
