package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// depositService implements the DepositSvcFacade interface.
type depositService struct {
	BaseService
	depositRepo  portsrepo.DepositRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	settingsRepo portsrepo.SettingsRepositoryFacade
	auditRepo    portsrepo.AuditRepository
	notifier     portssvc.Notifier
}

// NewDepositService creates a new deposit service.
func NewDepositService(
	depositRepo portsrepo.DepositRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	settingsRepo portsrepo.SettingsRepositoryFacade,
	auditRepo portsrepo.AuditRepository,
	notifier portssvc.Notifier,
) portssvc.DepositSvcFacade {
	return &depositService{
		BaseService:  BaseService{userReader: userRepo},
		depositRepo:  depositRepo,
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
	}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

// RequestDeposit records a pending deposit for administrator review.
func (s *depositService) RequestDeposit(ctx context.Context, userID string, req dto.CreateDepositRequest) (*domain.Deposit, error) {
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

	now := time.Now().UTC()
	deposit := domain.Deposit{
		DepositID: uuid.NewString(),
		AccountID: account.AccountID,
		Amount:    req.Amount,
		MethodRef: req.MethodRef,
		Status:    domain.RequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.depositRepo.SaveDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to save deposit request: %w", err)
	}

	s.LogInfo(ctx, "Deposit requested", slog.String("deposit_id", deposit.DepositID), slog.String("amount", req.Amount.String()))
	return &deposit, nil
}

// ListOwnDeposits returns the user's deposit requests.
func (s *depositService) ListOwnDeposits(ctx context.Context, userID string, limit int, offset int) ([]domain.Deposit, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.depositRepo.ListDepositsByAccount(ctx, account.AccountID, limit, offset)
}

// ListPendingDeposits returns deposits awaiting review; admin only.
func (s *depositService) ListPendingDeposits(ctx context.Context, adminID string, limit int, offset int) ([]domain.Deposit, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.depositRepo.ListDepositsByStatus(ctx, domain.RequestPending, limit, offset)
}

// ApproveDeposit applies the principal increase and, for the referee's first
// approved deposit, credits the referrer's reward through the same balance
// primitive the accrual engine uses.
func (s *depositService) ApproveDeposit(ctx context.Context, depositID string, adminID string) (*domain.Deposit, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	deposit, err := s.depositRepo.FindDepositByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if deposit.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: deposit is already %s", apperrors.ErrValidation, deposit.Status)
	}

	// Count before flipping status so "first deposit" means "no approved
	// deposit before this one".
	approvedBefore, err := s.depositRepo.CountApprovedByAccount(ctx, deposit.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved deposits: %w", err)
	}

	now := time.Now().UTC()
	if err := s.depositRepo.UpdateDepositStatus(ctx, depositID, domain.RequestApproved, adminID, now); err != nil {
		return nil, fmt.Errorf("failed to approve deposit: %w", err)
	}

	txn := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		AccountID:     deposit.AccountID,
		Type:          domain.TxnDeposit,
		Amount:        deposit.Amount,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Deposit approved (%s)", deposit.MethodRef),
		CreatedAt:     now,
		CreatedBy:     adminID,
	}
	if _, err := s.accountRepo.ApplyDeposit(ctx, deposit.AccountID, deposit.Amount, txn); err != nil {
		return nil, fmt.Errorf("failed to apply deposit to account: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:        uuid.NewString(),
		Action:          "deposit.approve",
		ActorID:         adminID,
		TargetAccountID: deposit.AccountID,
		Details:         map[string]any{"depositID": depositID, "amount": deposit.Amount.String()},
		CreatedAt:       now,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for deposit approval", slog.String("deposit_id", depositID))
	}

	if approvedBefore == 0 {
		// Referral reward failures never roll back an approved deposit.
		if err := s.creditReferralReward(ctx, deposit.AccountID); err != nil {
			s.LogError(ctx, err, "Failed to credit referral reward", slog.String("deposit_id", depositID))
		}
	}

	deposit.Status = domain.RequestApproved
	deposit.LastUpdatedAt = now
	deposit.LastUpdatedBy = adminID
	s.LogInfo(ctx, "Deposit approved", slog.String("deposit_id", depositID), slog.String("amount", deposit.Amount.String()))
	return deposit, nil
}

// creditReferralReward pays the configured reward to the referrer of the
// account owner, if any.
func (s *depositService) creditReferralReward(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindUserByID(ctx, account.UserID)
	if err != nil {
		return err
	}
	if user.ReferredBy == "" {
		return nil
	}

	referrer, err := s.userRepo.FindUserByID(ctx, user.ReferredBy)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.userRepo.IncrementReferralCount(ctx, referrer.UserID); err != nil {
		return fmt.Errorf("failed to increment referral count: %w", err)
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	reward := settings.ReferralRewardFor(referrer.ReferralCount + 1)
	if !reward.IsPositive() {
		return nil
	}

	referrerAccount, err := s.accountRepo.FindAccountByUserID(ctx, referrer.UserID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	txn := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		AccountID:     referrerAccount.AccountID,
		Type:          domain.TxnReferralReward,
		Amount:        reward,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Referral reward for %s's first deposit", user.Name),
		CreatedAt:     now,
	}
	if _, err := s.accountRepo.CreditBalance(ctx, referrerAccount.AccountID, reward, txn); err != nil {
		return fmt.Errorf("failed to credit referral reward: %w", err)
	}

	if s.notifier != nil {
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.NotifyCredit(notifyCtx, referrer.UserID, domain.TxnReferralReward, reward, decimal.Zero); err != nil {
				s.GetLogger(ctx).Warn("Referral reward notification failed", slog.String("user_id", referrer.UserID), slog.String("error", err.Error()))
			}
		}()
	}

	s.LogInfo(ctx, "Referral reward credited",
		slog.String("referrer_id", referrer.UserID),
		slog.String("amount", reward.String()))
	return nil
}

// RejectDeposit marks a pending deposit rejected.
func (s *depositService) RejectDeposit(ctx context.Context, depositID string, adminID string) (*domain.Deposit, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	deposit, err := s.depositRepo.FindDepositByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if deposit.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: deposit is already %s", apperrors.ErrValidation, deposit.Status)
	}

	now := time.Now().UTC()
	if err := s.depositRepo.UpdateDepositStatus(ctx, depositID, domain.RequestRejected, adminID, now); err != nil {
		return nil, fmt.Errorf("failed to reject deposit: %w", err)
	}

	deposit.Status = domain.RequestRejected
	deposit.LastUpdatedAt = now
	deposit.LastUpdatedBy = adminID
	return deposit, nil
}
