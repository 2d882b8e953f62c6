package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

const accountColumns = `account_id, user_id, balance, deposit_balance, status, last_accrual_at, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.UserID,
		&account.Balance,
		&account.DepositBalance,
		&account.Status,
		&account.LastAccrualAt,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
        INSERT INTO accounts (` + accountColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Balance,
		account.DepositBalance,
		account.Status,
		account.LastAccrualAt,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return scanAccount(r.pool.QueryRow(ctx, query, accountID))
}

func (r *AccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1;`
	return scanAccount(r.pool.QueryRow(ctx, query, userID))
}

func (r *AccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListAccrualCandidates returns every ACTIVE account with a positive deposit
// balance. The run iterates this snapshot; per-account idempotence is handled
// downstream by the ledger.
func (r *AccountRepository) ListAccrualCandidates(ctx context.Context) ([]domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE status = $1 AND deposit_balance > 0
        ORDER BY account_id;
    `
	rows, err := r.pool.Query(ctx, query, domain.AccountActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual candidates: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
        UPDATE accounts
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE account_id = $4;
    `
	cmdTag, err := r.pool.Exec(ctx, query, status, now, userID, accountID)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CreditBalance increments the spendable balance with a single UPDATE and
// writes the mirroring transaction record in the same database transaction.
// The increment runs against the row's current value, so concurrent credits
// never lose updates.
func (r *AccountRepository) CreditBalance(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error) {
	return r.adjustBalance(ctx, accountID, txn, `
        UPDATE accounts
        SET balance = balance + $1, last_updated_at = $2
        WHERE account_id = $3
        RETURNING `+accountColumns+`;
    `, amount)
}

// DebitBalance decrements the spendable balance with a guarded UPDATE. The
// WHERE clause rejects the debit when funds are insufficient, so the balance
// can never go negative even under concurrent withdrawals.
func (r *AccountRepository) DebitBalance(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error) {
	account, err := r.adjustBalance(ctx, accountID, txn, `
        UPDATE accounts
        SET balance = balance - $1, last_updated_at = $2
        WHERE account_id = $3 AND balance >= $1
        RETURNING `+accountColumns+`;
    `, amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Distinguish "no such account" from "guard rejected the debit".
			if _, findErr := r.FindAccountByID(ctx, accountID); findErr == nil {
				return nil, apperrors.ErrInsufficientFunds
			}
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// ApplyDeposit increases the deposit balance (the accrual principal) and the
// spendable balance together, recording the transaction atomically.
func (r *AccountRepository) ApplyDeposit(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error) {
	return r.adjustBalance(ctx, accountID, txn, `
        UPDATE accounts
        SET balance = balance + $1, deposit_balance = deposit_balance + $1, last_updated_at = $2
        WHERE account_id = $3
        RETURNING `+accountColumns+`;
    `, amount)
}

func (r *AccountRepository) adjustBalance(ctx context.Context, accountID string, txn domain.TransactionRecord, updateQuery string, amount decimal.Decimal) (*domain.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var previous decimal.Decimal
	if err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	account, err := scanAccount(tx.QueryRow(ctx, updateQuery, amount, time.Now().UTC(), accountID))
	if err != nil {
		return nil, err
	}

	txn.PreviousBalance = previous
	txn.NewBalance = account.Balance
	if err := insertTransactionRecord(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit balance adjustment for account %s: %w", accountID, err)
	}
	return account, nil
}

func insertTransactionRecord(ctx context.Context, tx pgx.Tx, txn domain.TransactionRecord) error {
	query := `
        INSERT INTO transactions (transaction_id, account_id, type, amount, status, previous_balance, new_balance, description, created_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.Status,
		txn.PreviousBalance,
		txn.NewBalance,
		txn.Description,
		txn.CreatedAt,
		txn.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction record %s: %w", txn.TransactionID, err)
	}
	return nil
}

func (r *AccountRepository) TouchLastAccrual(ctx context.Context, accountID string, at time.Time) error {
	query := `UPDATE accounts SET last_accrual_at = $1 WHERE account_id = $2;`
	cmdTag, err := r.pool.Exec(ctx, query, at, accountID)
	if err != nil {
		return fmt.Errorf("failed to touch last accrual: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
