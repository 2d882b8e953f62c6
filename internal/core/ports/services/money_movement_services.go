package services

import (
	"context"

	"github.com/veltapay/velta_backend/internal/core/domain"
	"github.com/veltapay/velta_backend/internal/dto"
)

// DepositSvcFacade manages deposit requests and their administrator review.
type DepositSvcFacade interface {
	RequestDeposit(ctx context.Context, userID string, req dto.CreateDepositRequest) (*domain.Deposit, error)
	ListOwnDeposits(ctx context.Context, userID string, limit int, offset int) ([]domain.Deposit, error)
	ListPendingDeposits(ctx context.Context, adminID string, limit int, offset int) ([]domain.Deposit, error)

	// ApproveDeposit applies the principal increase and, for the referee's
	// first approved deposit, credits the referrer's reward.
	ApproveDeposit(ctx context.Context, depositID string, adminID string) (*domain.Deposit, error)
	RejectDeposit(ctx context.Context, depositID string, adminID string) (*domain.Deposit, error)
}

// WithdrawalSvcFacade manages withdrawal requests and their administrator review.
type WithdrawalSvcFacade interface {
	RequestWithdrawal(ctx context.Context, userID string, req dto.CreateWithdrawalRequest) (*domain.Withdrawal, error)
	ListOwnWithdrawals(ctx context.Context, userID string, limit int, offset int) ([]domain.Withdrawal, error)
	ListPendingWithdrawals(ctx context.Context, adminID string, limit int, offset int) ([]domain.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.Withdrawal, error)
}
