package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/core/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

type DepositServiceTestSuite struct {
	suite.Suite
	mockDepositRepo  *MockDepositRepository
	mockAccountRepo  *MockAccountRepository
	mockUserRepo     *MockUserRepository
	mockSettingsRepo *MockSettingsRepository
	mockAuditRepo    *MockAuditRepository
	service          portssvc.DepositSvcFacade
}

func (s *DepositServiceTestSuite) SetupTest() {
	s.mockDepositRepo = new(MockDepositRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockSettingsRepo = new(MockSettingsRepository)
	s.mockAuditRepo = new(MockAuditRepository)
	s.service = services.NewDepositService(
		s.mockDepositRepo,
		s.mockAccountRepo,
		s.mockUserRepo,
		s.mockSettingsRepo,
		s.mockAuditRepo,
		nil,
	)
}

func (s *DepositServiceTestSuite) expectAdmin(userID string) {
	s.mockUserRepo.On("FindUserByID", mock.Anything, userID).
		Return(&domain.User{UserID: userID, Role: domain.RoleAdmin}, nil).Once()
}

func pendingDeposit(id, accountID, amount string) domain.Deposit {
	return domain.Deposit{
		DepositID: id,
		AccountID: accountID,
		Amount:    dec(amount),
		MethodRef: "wire-001",
		Status:    domain.RequestPending,
	}
}

func (s *DepositServiceTestSuite) TestRequestDeposit_CreatesPendingRequest() {
	ctx := context.Background()
	acct := account("acc-1", regularID, "0")

	s.mockAccountRepo.On("FindAccountByUserID", ctx, regularID).Return(&acct, nil).Once()
	s.mockDepositRepo.On("SaveDeposit", ctx, mock.MatchedBy(func(d domain.Deposit) bool {
		return d.AccountID == "acc-1" && d.Status == domain.RequestPending && d.Amount.Equal(dec("250"))
	})).Return(nil).Once()

	deposit, err := s.service.RequestDeposit(ctx, regularID, dto.CreateDepositRequest{
		Amount:    dec("250"),
		MethodRef: "wire-001",
	})

	s.Require().NoError(err)
	s.Equal(domain.RequestPending, deposit.Status)
	s.mockDepositRepo.AssertExpectations(s.T())
}

func (s *DepositServiceTestSuite) TestRequestDeposit_SuspendedAccount() {
	ctx := context.Background()
	acct := account("acc-1", regularID, "0")
	acct.Status = domain.AccountSuspended

	s.mockAccountRepo.On("FindAccountByUserID", ctx, regularID).Return(&acct, nil).Once()

	_, err := s.service.RequestDeposit(ctx, regularID, dto.CreateDepositRequest{
		Amount:    dec("250"),
		MethodRef: "wire-001",
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockDepositRepo.AssertNotCalled(s.T(), "SaveDeposit", mock.Anything, mock.Anything)
}

func (s *DepositServiceTestSuite) TestApproveDeposit_AppliesPrincipal() {
	ctx := context.Background()
	deposit := pendingDeposit("dep-1", "acc-1", "500")
	acct := account("acc-1", regularID, "500")

	s.expectAdmin(adminID)
	s.mockDepositRepo.On("FindDepositByID", ctx, "dep-1").Return(&deposit, nil).Once()
	// One earlier approval, so no referral reward fires.
	s.mockDepositRepo.On("CountApprovedByAccount", ctx, "acc-1").Return(1, nil).Once()
	s.mockDepositRepo.On("UpdateDepositStatus", ctx, "dep-1", domain.RequestApproved, adminID, mock.Anything).Return(nil).Once()
	s.mockAccountRepo.On("ApplyDeposit", ctx, "acc-1", mock.Anything, mock.MatchedBy(func(txn domain.TransactionRecord) bool {
		return txn.Type == domain.TxnDeposit && txn.Amount.Equal(dec("500"))
	})).Return(&acct, nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	approved, err := s.service.ApproveDeposit(ctx, "dep-1", adminID)

	s.Require().NoError(err)
	s.Equal(domain.RequestApproved, approved.Status)
	s.mockUserRepo.AssertNotCalled(s.T(), "IncrementReferralCount", mock.Anything, mock.Anything)
	s.mockDepositRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *DepositServiceTestSuite) TestApproveDeposit_FirstDepositPaysReferralReward() {
	ctx := context.Background()
	deposit := pendingDeposit("dep-1", "acc-1", "500")
	acct := account("acc-1", regularID, "500")
	referee := domain.User{UserID: regularID, Name: "Dana", ReferredBy: "ref-1"}
	referrer := domain.User{UserID: "ref-1", ReferralCount: 0}
	referrerAcct := account("acc-ref", "ref-1", "100")

	s.expectAdmin(adminID)
	s.mockDepositRepo.On("FindDepositByID", ctx, "dep-1").Return(&deposit, nil).Once()
	s.mockDepositRepo.On("CountApprovedByAccount", ctx, "acc-1").Return(0, nil).Once()
	s.mockDepositRepo.On("UpdateDepositStatus", ctx, "dep-1", domain.RequestApproved, adminID, mock.Anything).Return(nil).Once()
	s.mockAccountRepo.On("ApplyDeposit", ctx, "acc-1", mock.Anything, mock.AnythingOfType("domain.TransactionRecord")).
		Return(&acct, nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(&acct, nil).Once()
	s.mockUserRepo.On("FindUserByID", ctx, regularID).Return(&referee, nil).Once()
	s.mockUserRepo.On("FindUserByID", ctx, "ref-1").Return(&referrer, nil).Once()
	s.mockUserRepo.On("IncrementReferralCount", ctx, "ref-1").Return(nil).Once()
	s.mockSettingsRepo.On("GetSettings", ctx).Return(&domain.Settings{
		ReferralRewards: []domain.ReferralReward{{MinReferrals: 1, Amount: dec("10")}},
	}, nil).Once()
	s.mockAccountRepo.On("FindAccountByUserID", ctx, "ref-1").Return(&referrerAcct, nil).Once()
	s.mockAccountRepo.On("CreditBalance", ctx, "acc-ref", mock.Anything, mock.MatchedBy(func(txn domain.TransactionRecord) bool {
		return txn.Type == domain.TxnReferralReward && txn.Amount.Equal(dec("10"))
	})).Return(&referrerAcct, nil).Once()

	approved, err := s.service.ApproveDeposit(ctx, "dep-1", adminID)

	s.Require().NoError(err)
	s.Equal(domain.RequestApproved, approved.Status)
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *DepositServiceTestSuite) TestApproveDeposit_NoReferrerIsNoOp() {
	ctx := context.Background()
	deposit := pendingDeposit("dep-1", "acc-1", "500")
	acct := account("acc-1", regularID, "500")
	organic := domain.User{UserID: regularID, Name: "Dana"}

	s.expectAdmin(adminID)
	s.mockDepositRepo.On("FindDepositByID", ctx, "dep-1").Return(&deposit, nil).Once()
	s.mockDepositRepo.On("CountApprovedByAccount", ctx, "acc-1").Return(0, nil).Once()
	s.mockDepositRepo.On("UpdateDepositStatus", ctx, "dep-1", domain.RequestApproved, adminID, mock.Anything).Return(nil).Once()
	s.mockAccountRepo.On("ApplyDeposit", ctx, "acc-1", mock.Anything, mock.AnythingOfType("domain.TransactionRecord")).
		Return(&acct, nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(&acct, nil).Once()
	s.mockUserRepo.On("FindUserByID", ctx, regularID).Return(&organic, nil).Once()

	_, err := s.service.ApproveDeposit(ctx, "dep-1", adminID)

	s.Require().NoError(err)
	s.mockUserRepo.AssertNotCalled(s.T(), "IncrementReferralCount", mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertNotCalled(s.T(), "CreditBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DepositServiceTestSuite) TestApproveDeposit_RewardFailureDoesNotFailApproval() {
	ctx := context.Background()
	deposit := pendingDeposit("dep-1", "acc-1", "500")
	acct := account("acc-1", regularID, "500")

	s.expectAdmin(adminID)
	s.mockDepositRepo.On("FindDepositByID", ctx, "dep-1").Return(&deposit, nil).Once()
	s.mockDepositRepo.On("CountApprovedByAccount", ctx, "acc-1").Return(0, nil).Once()
	s.mockDepositRepo.On("UpdateDepositStatus", ctx, "dep-1", domain.RequestApproved, adminID, mock.Anything).Return(nil).Once()
	s.mockAccountRepo.On("ApplyDeposit", ctx, "acc-1", mock.Anything, mock.AnythingOfType("domain.TransactionRecord")).
		Return(&acct, nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").
		Return(nil, errors.New("replica lagging")).Once()

	approved, err := s.service.ApproveDeposit(ctx, "dep-1", adminID)

	s.Require().NoError(err)
	s.Equal(domain.RequestApproved, approved.Status)
}

func (s *DepositServiceTestSuite) TestApproveDeposit_AlreadyReviewed() {
	ctx := context.Background()
	deposit := pendingDeposit("dep-1", "acc-1", "500")
	deposit.Status = domain.RequestApproved

	s.expectAdmin(adminID)
	s.mockDepositRepo.On("FindDepositByID", ctx, "dep-1").Return(&deposit, nil).Once()

	_, err := s.service.ApproveDeposit(ctx, "dep-1", adminID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockDepositRepo.AssertNotCalled(s.T(), "UpdateDepositStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DepositServiceTestSuite) TestRejectDeposit() {
	ctx := context.Background()
	deposit := pendingDeposit("dep-1", "acc-1", "500")

	s.expectAdmin(adminID)
	s.mockDepositRepo.On("FindDepositByID", ctx, "dep-1").Return(&deposit, nil).Once()
	s.mockDepositRepo.On("UpdateDepositStatus", ctx, "dep-1", domain.RequestRejected, adminID, mock.Anything).Return(nil).Once()

	rejected, err := s.service.RejectDeposit(ctx, "dep-1", adminID)

	s.Require().NoError(err)
	s.Equal(domain.RequestRejected, rejected.Status)
	s.mockAccountRepo.AssertNotCalled(s.T(), "ApplyDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DepositServiceTestSuite))
}
