package repositories

import (
	"context"
	"time"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// DepositRepositoryFacade persists deposit requests and their review status.
type DepositRepositoryFacade interface {
	SaveDeposit(ctx context.Context, deposit domain.Deposit) error
	FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error)
	ListDepositsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Deposit, error)
	ListDepositsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.Deposit, error)
	UpdateDepositStatus(ctx context.Context, depositID string, status domain.RequestStatus, reviewerID string, now time.Time) error

	// CountApprovedByAccount supports first-deposit detection for referral rewards.
	CountApprovedByAccount(ctx context.Context, accountID string) (int, error)
}

// WithdrawalRepositoryFacade persists withdrawal requests and their review status.
type WithdrawalRepositoryFacade interface {
	SaveWithdrawal(ctx context.Context, withdrawal domain.Withdrawal) error
	FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	ListWithdrawalsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Withdrawal, error)
	ListWithdrawalsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.Withdrawal, error)
	UpdateWithdrawalStatus(ctx context.Context, withdrawalID string, status domain.RequestStatus, reviewerID string, now time.Time) error
}
