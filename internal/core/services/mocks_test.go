package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccrualCandidates(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) CreditBalance(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error) {
	args := m.Called(ctx, accountID, amount, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DebitBalance(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error) {
	args := m.Called(ctx, accountID, amount, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyDeposit(ctx context.Context, accountID string, amount decimal.Decimal, txn domain.TransactionRecord) (*domain.Account, error) {
	args := m.Called(ctx, accountID, amount, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) TouchLastAccrual(ctx context.Context, accountID string, at time.Time) error {
	args := m.Called(ctx, accountID, at)
	return args.Error(0)
}

// --- Mock ProfitLedgerRepository ---

type MockProfitLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.ProfitLedgerRepositoryFacade = (*MockProfitLedgerRepository)(nil)

func (m *MockProfitLedgerRepository) HasDailyEntry(ctx context.Context, accountID string, date time.Time) (bool, error) {
	args := m.Called(ctx, accountID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfitLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.ProfitEntry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProfitEntry), args.Error(1)
}

func (m *MockProfitLedgerRepository) SaveEntry(ctx context.Context, entry domain.ProfitEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock AccrualRunRepository ---

type MockAccrualRunRepository struct {
	mock.Mock
}

var _ portsrepo.AccrualRunRepository = (*MockAccrualRunRepository)(nil)

func (m *MockAccrualRunRepository) SaveRun(ctx context.Context, run domain.AccrualRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockAccrualRunRepository) ListRuns(ctx context.Context, limit int) ([]domain.AccrualRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccrualRun), args.Error(1)
}

// --- Mock SettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

var _ portsrepo.SettingsRepositoryFacade = (*MockSettingsRepository)(nil)

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetActiveTierTable(ctx context.Context) (*domain.TierTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TierTable), args.Error(1)
}

func (m *MockSettingsRepository) SaveTierTable(ctx context.Context, table domain.TierTable, userID string) (*domain.TierTable, error) {
	args := m.Called(ctx, table, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TierTable), args.Error(1)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepository = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditRecords(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementReferralCount(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock DepositRepository ---

type MockDepositRepository struct {
	mock.Mock
}

var _ portsrepo.DepositRepositoryFacade = (*MockDepositRepository)(nil)

func (m *MockDepositRepository) SaveDeposit(ctx context.Context, deposit domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	args := m.Called(ctx, depositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) ListDepositsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Deposit, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) ListDepositsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.Deposit, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) UpdateDepositStatus(ctx context.Context, depositID string, status domain.RequestStatus, reviewerID string, now time.Time) error {
	args := m.Called(ctx, depositID, status, reviewerID, now)
	return args.Error(0)
}

func (m *MockDepositRepository) CountApprovedByAccount(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

// --- Mock WithdrawalRepository ---

type MockWithdrawalRepository struct {
	mock.Mock
}

var _ portsrepo.WithdrawalRepositoryFacade = (*MockWithdrawalRepository)(nil)

func (m *MockWithdrawalRepository) SaveWithdrawal(ctx context.Context, withdrawal domain.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, withdrawalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Withdrawal, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.Withdrawal, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, withdrawalID string, status domain.RequestStatus, reviewerID string, now time.Time) error {
	args := m.Called(ctx, withdrawalID, status, reviewerID, now)
	return args.Error(0)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyCredit(ctx context.Context, userID string, kind domain.TransactionType, amount, rate decimal.Decimal) error {
	args := m.Called(ctx, userID, kind, amount, rate)
	return args.Error(0)
}
