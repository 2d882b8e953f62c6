package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs every PostgreSQL repository over the shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         NewUserRepository(pool),
		AccountRepo:      NewAccountRepository(pool),
		ProfitLedgerRepo: NewProfitLedgerRepository(pool),
		AccrualRunRepo:   NewAccrualRunRepository(pool),
		TransactionRepo:  NewTransactionRepository(pool),
		DepositRepo:      NewDepositRepository(pool),
		WithdrawalRepo:   NewWithdrawalRepository(pool),
		SettingsRepo:     NewSettingsRepository(pool),
		AuditRepo:        NewAuditRepository(pool),
	}
}
