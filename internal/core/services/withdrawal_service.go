package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// withdrawalService implements the WithdrawalSvcFacade interface.
type withdrawalService struct {
	BaseService
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
	auditRepo      portsrepo.AuditRepository
}

// NewWithdrawalService creates a new withdrawal service.
func NewWithdrawalService(
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	auditRepo portsrepo.AuditRepository,
	userRepo portsrepo.UserReader,
) portssvc.WithdrawalSvcFacade {
	return &withdrawalService{
		BaseService:    BaseService{userReader: userRepo},
		withdrawalRepo: withdrawalRepo,
		accountRepo:    accountRepo,
		auditRepo:      auditRepo,
	}
}

var _ portssvc.WithdrawalSvcFacade = (*withdrawalService)(nil)

// RequestWithdrawal records a pending withdrawal. The balance check here is
// advisory; the authoritative guard runs at approval time inside DebitBalance.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, userID string, req dto.CreateWithdrawalRequest) (*domain.Withdrawal, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account is suspended", apperrors.ErrValidation)
	}
	if account.Balance.LessThan(req.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	withdrawal := domain.Withdrawal{
		WithdrawalID: uuid.NewString(),
		AccountID:    account.AccountID,
		Amount:       req.Amount,
		Destination:  req.Destination,
		Status:       domain.RequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.withdrawalRepo.SaveWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to save withdrawal request: %w", err)
	}

	s.LogInfo(ctx, "Withdrawal requested", slog.String("withdrawal_id", withdrawal.WithdrawalID), slog.String("amount", req.Amount.String()))
	return &withdrawal, nil
}

// ListOwnWithdrawals returns the user's withdrawal requests.
func (s *withdrawalService) ListOwnWithdrawals(ctx context.Context, userID string, limit int, offset int) ([]domain.Withdrawal, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withdrawalRepo.ListWithdrawalsByAccount(ctx, account.AccountID, limit, offset)
}

// ListPendingWithdrawals returns withdrawals awaiting review; admin only.
func (s *withdrawalService) ListPendingWithdrawals(ctx context.Context, adminID string, limit int, offset int) ([]domain.Withdrawal, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.withdrawalRepo.ListWithdrawalsByStatus(ctx, domain.RequestPending, limit, offset)
}

// ApproveWithdrawal debits the account and completes the request. The debit
// and its transaction record commit atomically; if funds have drained since
// the request was made the approval fails with ErrInsufficientFunds.
func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.Withdrawal, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	withdrawal, err := s.withdrawalRepo.FindWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: withdrawal is already %s", apperrors.ErrValidation, withdrawal.Status)
	}

	now := time.Now().UTC()
	txn := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		AccountID:     withdrawal.AccountID,
		Type:          domain.TxnWithdrawal,
		Amount:        withdrawal.Amount,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Withdrawal to %s", withdrawal.Destination),
		CreatedAt:     now,
		CreatedBy:     adminID,
	}
	if _, err := s.accountRepo.DebitBalance(ctx, withdrawal.AccountID, withdrawal.Amount, txn); err != nil {
		return nil, err
	}

	if err := s.withdrawalRepo.UpdateWithdrawalStatus(ctx, withdrawalID, domain.RequestApproved, adminID, now); err != nil {
		return nil, fmt.Errorf("failed to approve withdrawal: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:        uuid.NewString(),
		Action:          "withdrawal.approve",
		ActorID:         adminID,
		TargetAccountID: withdrawal.AccountID,
		Details:         map[string]any{"withdrawalID": withdrawalID, "amount": withdrawal.Amount.String()},
		CreatedAt:       now,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for withdrawal approval", slog.String("withdrawal_id", withdrawalID))
	}

	withdrawal.Status = domain.RequestApproved
	withdrawal.LastUpdatedAt = now
	withdrawal.LastUpdatedBy = adminID
	s.LogInfo(ctx, "Withdrawal approved", slog.String("withdrawal_id", withdrawalID), slog.String("amount", withdrawal.Amount.String()))
	return withdrawal, nil
}

// RejectWithdrawal marks a pending withdrawal rejected. No funds move.
func (s *withdrawalService) RejectWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.Withdrawal, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	withdrawal, err := s.withdrawalRepo.FindWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: withdrawal is already %s", apperrors.ErrValidation, withdrawal.Status)
	}

	now := time.Now().UTC()
	if err := s.withdrawalRepo.UpdateWithdrawalStatus(ctx, withdrawalID, domain.RequestRejected, adminID, now); err != nil {
		return nil, fmt.Errorf("failed to reject withdrawal: %w", err)
	}

	withdrawal.Status = domain.RequestRejected
	withdrawal.LastUpdatedAt = now
	withdrawal.LastUpdatedBy = adminID
	return withdrawal, nil
}
