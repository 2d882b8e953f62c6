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
)

// accountService implements the AccountSvcFacade interface.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	auditRepo   portsrepo.AuditRepository
}

// NewAccountService creates a new account service.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	auditRepo portsrepo.AuditRepository,
	userRepo portsrepo.UserReader,
) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: BaseService{userReader: userRepo},
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetOwnAccount returns the account owned by the requesting user.
func (s *accountService) GetOwnAccount(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByUserID(ctx, userID)
}

// GetAccountByID returns any account; restricted to administrators.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// ListAccounts returns a page of accounts; restricted to administrators.
func (s *accountService) ListAccounts(ctx context.Context, requestingUserID string, limit int, offset int) ([]domain.Account, error) {
	if err := s.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// SetAccountStatus suspends or reactivates an account.
func (s *accountService) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, adminID string) (*domain.Account, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if status != domain.AccountActive && status != domain.AccountSuspended {
		return nil, fmt.Errorf("%w: invalid account status %q", apperrors.ErrValidation, status)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == status {
		return account, nil
	}

	now := time.Now().UTC()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, adminID, now); err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:        uuid.NewString(),
		Action:          "account.set_status",
		ActorID:         adminID,
		TargetAccountID: accountID,
		Details: map[string]any{
			"previousStatus": string(account.Status),
			"newStatus":      string(status),
		},
		CreatedAt: now,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for status change", slog.String("account_id", accountID))
	}

	account.Status = status
	account.LastUpdatedAt = now
	account.LastUpdatedBy = adminID
	s.LogInfo(ctx, "Account status changed", slog.String("account_id", accountID), slog.String("status", string(status)))
	return account, nil
}

// ListTransactions returns the account's history. Owners see their own
// account; administrators see any.
func (s *accountService) ListTransactions(ctx context.Context, accountID string, requestingUserID string, limit int, offset int) ([]domain.TransactionRecord, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != requestingUserID {
		if err := s.AuthorizeAdmin(ctx, requestingUserID); err != nil {
			return nil, err
		}
	}
	return s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, offset)
}
