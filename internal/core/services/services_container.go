package services

import (
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repository
// provider and the notification adapter.
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:    NewUserService(repos.UserRepo, repos.AccountRepo),
		Account: NewAccountService(repos.AccountRepo, repos.TransactionRepo, repos.AuditRepo, repos.UserRepo),
		Deposit: NewDepositService(repos.DepositRepo, repos.AccountRepo, repos.UserRepo, repos.SettingsRepo, repos.AuditRepo, notifier),
		Withdrawal: NewWithdrawalService(
			repos.WithdrawalRepo, repos.AccountRepo, repos.AuditRepo, repos.UserRepo),
		ProfitShare: NewProfitShareService(
			repos.AccountRepo, repos.ProfitLedgerRepo, repos.AccrualRunRepo,
			repos.SettingsRepo, repos.AuditRepo, repos.UserRepo, notifier),
		Settings: NewSettingsService(repos.SettingsRepo, repos.AuditRepo, repos.UserRepo),
	}
}
