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

var oneHundred = decimal.NewFromInt(100)

// profitShareService implements the ProfitShareSvcFacade interface.
type profitShareService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	ledgerRepo   portsrepo.ProfitLedgerRepositoryFacade
	runRepo      portsrepo.AccrualRunRepository
	settingsRepo portsrepo.SettingsRepositoryFacade
	auditRepo    portsrepo.AuditRepository
	notifier     portssvc.Notifier
}

// NewProfitShareService creates the accrual engine service.
func NewProfitShareService(
	accountRepo portsrepo.AccountRepositoryFacade,
	ledgerRepo portsrepo.ProfitLedgerRepositoryFacade,
	runRepo portsrepo.AccrualRunRepository,
	settingsRepo portsrepo.SettingsRepositoryFacade,
	auditRepo portsrepo.AuditRepository,
	userRepo portsrepo.UserReader,
	notifier portssvc.Notifier,
) portssvc.ProfitShareSvcFacade {
	return &profitShareService{
		BaseService:  BaseService{userReader: userRepo},
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		runRepo:      runRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
	}
}

var _ portssvc.ProfitShareSvcFacade = (*profitShareService)(nil)

// RunDailyAccrual credits every eligible account its tiered daily yield for
// the calendar day of asOf. Safe to re-run: the skip check plus the ledger's
// uniqueness constraint guarantee at most one credit per account per day no
// matter how many overlapping invocations race.
func (s *profitShareService) RunDailyAccrual(ctx context.Context, asOf time.Time, triggeredBy string) (*domain.AccrualRun, error) {
	logger := s.GetLogger(ctx)

	if triggeredBy != domain.SchedulerActor {
		if err := s.AuthorizeAdmin(ctx, triggeredBy); err != nil {
			return nil, err
		}
	}

	runDate := domain.DailyEntryDate(asOf)
	run := &domain.AccrualRun{
		RunID:       uuid.NewString(),
		RunDate:     runDate,
		TotalAmount: decimal.Zero,
		Results:     []domain.AccrualResult{},
		TriggeredBy: triggeredBy,
		CreatedAt:   time.Now().UTC(),
	}

	// Run-level setup failures abort before any mutation.
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.ProfitSharingEnabled {
		logger.Info("Profit sharing is disabled, skipping accrual run", slog.Time("run_date", runDate))
		return run, nil
	}

	tierTable, err := s.settingsRepo.GetActiveTierTable(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load tier table: %w", err)
		}
		logger.Warn("No tier table configured, accounts will be skipped")
		tierTable = &domain.TierTable{}
	}

	accounts, err := s.accountRepo.ListAccrualCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accrual candidates: %w", err)
	}

	for _, account := range accounts {
		result, err := s.accrueForAccount(ctx, account, *tierTable, runDate)
		if err != nil {
			// Per-account failures are contained; the rest of the batch
			// continues.
			s.LogError(ctx, err, "Accrual failed for account", slog.String("account_id", account.AccountID))
			continue
		}
		if result == nil {
			continue // already credited today, or nothing to credit
		}
		run.Results = append(run.Results, *result)
		run.TotalAmount = run.TotalAmount.Add(result.Amount)
		run.UsersProcessed++
	}

	if err := s.runRepo.SaveRun(ctx, *run); err != nil {
		// The summary is observability only; losing it never fails the run.
		s.LogError(ctx, err, "Failed to persist accrual run summary", slog.String("run_id", run.RunID))
	}

	logger.Info("Daily accrual run completed",
		slog.Time("run_date", runDate),
		slog.Int("users_processed", run.UsersProcessed),
		slog.String("total_amount", run.TotalAmount.String()),
		slog.String("triggered_by", triggeredBy),
	)
	return run, nil
}

// accrueForAccount runs one account's pipeline: skip-check, resolve tier,
// compute, write ledger, credit, notify. A nil result with nil error means
// the account was skipped.
func (s *profitShareService) accrueForAccount(ctx context.Context, account domain.Account, tierTable domain.TierTable, runDate time.Time) (*domain.AccrualResult, error) {
	exists, err := s.ledgerRepo.HasDailyEntry(ctx, account.AccountID, runDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing ledger entry: %w", err)
	}
	if exists {
		return nil, nil
	}

	tier, err := tierTable.Resolve(account.DepositBalance)
	if err != nil {
		// Empty tier table: under-credit (skip) rather than fail the account.
		s.LogWarn(ctx, "No tier resolvable for account, skipping",
			slog.String("account_id", account.AccountID),
			slog.String("deposit_balance", account.DepositBalance.String()))
		return nil, nil
	}

	amount := account.DepositBalance.Mul(tier.DailyRate).Div(oneHundred)
	if !amount.IsPositive() {
		return nil, nil
	}

	entry := domain.ProfitEntry{
		EntryID:         uuid.NewString(),
		AccountID:       account.AccountID,
		EntryDate:       runDate,
		BalanceSnapshot: account.DepositBalance,
		Tier:            tier.Name,
		Percentage:      tier.DailyRate,
		Amount:          amount,
		Credited:        true,
		IsCustom:        false,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent run; the other writer owns the
			// credit for this day.
			s.LogInfo(ctx, "Ledger entry already exists, skipping account",
				slog.String("account_id", account.AccountID), slog.Time("run_date", runDate))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to write ledger entry: %w", err)
	}

	txn := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		AccountID:     account.AccountID,
		Type:          domain.TxnProfitShare,
		Amount:        amount,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Daily profit share, %s tier at %s%%", tier.Name, tier.DailyRate.String()),
		CreatedAt:     entry.CreatedAt,
	}
	if _, err := s.accountRepo.CreditBalance(ctx, account.AccountID, amount, txn); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Accounts are never deleted; handled defensively anyway.
			s.LogWarn(ctx, "Account vanished between scan and credit, skipping",
				slog.String("account_id", account.AccountID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to credit account: %w", err)
	}

	if err := s.accountRepo.TouchLastAccrual(ctx, account.AccountID, entry.CreatedAt); err != nil {
		// Advisory timestamp only.
		s.LogWarn(ctx, "Failed to update last accrual timestamp",
			slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
	}

	s.notifyAsync(ctx, account.UserID, domain.TxnProfitShare, amount, tier.DailyRate)

	return &domain.AccrualResult{AccountID: account.AccountID, Amount: amount, Tier: tier.Name}, nil
}

// CreditFixedAmount credits an absolute amount outside the daily schedule.
// The recorded percentage is back-computed for audit display only.
func (s *profitShareService) CreditFixedAmount(ctx context.Context, adminID string, req dto.ManualCreditRequest) (*domain.ProfitEntry, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.ManualCreditCeiling.IsPositive() && req.Amount.GreaterThan(settings.ManualCreditCeiling) {
		return nil, fmt.Errorf("%w: amount exceeds the manual credit ceiling of %s", apperrors.ErrValidation, settings.ManualCreditCeiling.String())
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	percentage := decimal.Zero
	if account.DepositBalance.IsPositive() {
		percentage = req.Amount.Div(account.DepositBalance).Mul(oneHundred)
	}

	return s.applyCustomCredit(ctx, adminID, *account, req.Amount, percentage, req.Note)
}

// CreditFixedPercentage credits depositBalance * percentage / 100.
func (s *profitShareService) CreditFixedPercentage(ctx context.Context, adminID string, req dto.ManualPercentCreditRequest) (*domain.ProfitEntry, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !req.Percentage.IsPositive() || req.Percentage.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: percentage must be in (0, 100]", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.DepositBalance.IsPositive() {
		return nil, fmt.Errorf("%w: account has no deposit balance to apply a percentage to", apperrors.ErrValidation)
	}

	amount := account.DepositBalance.Mul(req.Percentage).Div(oneHundred)
	return s.applyCustomCredit(ctx, adminID, *account, amount, req.Percentage, req.Note)
}

// applyCustomCredit writes the custom ledger entry, credits the balance, and
// records the audit trail. The entry date is the actual instant, not midnight,
// so it can never collide with a scheduled entry for the same day.
func (s *profitShareService) applyCustomCredit(ctx context.Context, adminID string, account domain.Account, amount, percentage decimal.Decimal, note string) (*domain.ProfitEntry, error) {
	now := time.Now().UTC()

	entry := domain.ProfitEntry{
		EntryID:         uuid.NewString(),
		AccountID:       account.AccountID,
		EntryDate:       now,
		BalanceSnapshot: account.DepositBalance,
		Tier:            domain.TierCustom,
		Percentage:      percentage,
		Amount:          amount,
		Credited:        true,
		IsCustom:        true,
		CreatedBy:       adminID,
		CreatedAt:       now,
	}
	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write custom ledger entry: %w", err)
	}

	txn := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		AccountID:     account.AccountID,
		Type:          domain.TxnAdminAdjustment,
		Amount:        amount,
		Status:        domain.TxnCompleted,
		Description:   "Manual profit-share credit",
		CreatedAt:     now,
		CreatedBy:     adminID,
	}
	updated, err := s.accountRepo.CreditBalance(ctx, account.AccountID, amount, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to credit account: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:        uuid.NewString(),
		Action:          "profit_share.manual_credit",
		ActorID:         adminID,
		TargetAccountID: account.AccountID,
		Details: map[string]any{
			"amount":          amount.String(),
			"percentage":      percentage.String(),
			"previousBalance": account.Balance.String(),
			"newBalance":      updated.Balance.String(),
			"note":            note,
		},
		CreatedAt: now,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for manual credit",
			slog.String("account_id", account.AccountID))
	}

	s.notifyAsync(ctx, account.UserID, domain.TxnAdminAdjustment, amount, percentage)

	s.LogInfo(ctx, "Manual profit-share credit applied",
		slog.String("account_id", account.AccountID),
		slog.String("amount", amount.String()),
		slog.String("admin_id", adminID),
	)
	return &entry, nil
}

// ListOwnEntries returns the requesting user's profit-share history.
func (s *profitShareService) ListOwnEntries(ctx context.Context, userID string, limit int, offset int) ([]domain.ProfitEntry, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListEntriesByAccount(ctx, account.AccountID, limit, offset)
}

// ListRuns returns recent run summaries; restricted to administrators.
func (s *profitShareService) ListRuns(ctx context.Context, adminID string, limit int) ([]domain.AccrualRun, error) {
	if err := s.AuthorizeAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.runRepo.ListRuns(ctx, limit)
}

// notifyAsync dispatches the credit notification without ever affecting the
// credit itself: it runs detached from the request, and failures are logged
// and never retried within the run.
func (s *profitShareService) notifyAsync(ctx context.Context, userID string, kind domain.TransactionType, amount, rate decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	logger := s.GetLogger(ctx)
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.NotifyCredit(notifyCtx, userID, kind, amount, rate); err != nil {
			logger.Warn("Credit notification failed",
				slog.String("user_id", userID),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()))
		}
	}()
}
