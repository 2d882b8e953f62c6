package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	ProfitLedgerRepo ProfitLedgerRepositoryFacade
	AccrualRunRepo   AccrualRunRepository
	TransactionRepo  TransactionReader
	DepositRepo      DepositRepositoryFacade
	WithdrawalRepo   WithdrawalRepositoryFacade
	SettingsRepo     SettingsRepositoryFacade
	AuditRepo        AuditRepository
}
