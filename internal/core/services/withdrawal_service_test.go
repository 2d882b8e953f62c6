package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/veltapay/velta_backend/internal/apperrors"
	"github.com/veltapay/velta_backend/internal/core/domain"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/core/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

type WithdrawalServiceTestSuite struct {
	suite.Suite
	mockWithdrawalRepo *MockWithdrawalRepository
	mockAccountRepo    *MockAccountRepository
	mockAuditRepo      *MockAuditRepository
	mockUserRepo       *MockUserRepository
	service            portssvc.WithdrawalSvcFacade
}

func (s *WithdrawalServiceTestSuite) SetupTest() {
	s.mockWithdrawalRepo = new(MockWithdrawalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockAuditRepo = new(MockAuditRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewWithdrawalService(
		s.mockWithdrawalRepo,
		s.mockAccountRepo,
		s.mockAuditRepo,
		s.mockUserRepo,
	)
}

func (s *WithdrawalServiceTestSuite) expectAdmin(userID string) {
	s.mockUserRepo.On("FindUserByID", mock.Anything, userID).
		Return(&domain.User{UserID: userID, Role: domain.RoleAdmin}, nil).Once()
}

func pendingWithdrawal(id, accountID, amount string) domain.Withdrawal {
	return domain.Withdrawal{
		WithdrawalID: id,
		AccountID:    accountID,
		Amount:       dec(amount),
		Destination:  "bank-xyz",
		Status:       domain.RequestPending,
	}
}

func (s *WithdrawalServiceTestSuite) TestRequestWithdrawal_InsufficientBalance() {
	ctx := context.Background()
	acct := account("acc-1", regularID, "50")

	s.mockAccountRepo.On("FindAccountByUserID", ctx, regularID).Return(&acct, nil).Once()

	_, err := s.service.RequestWithdrawal(ctx, regularID, dto.CreateWithdrawalRequest{
		Amount:      dec("100"),
		Destination: "bank-xyz",
	})

	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.mockWithdrawalRepo.AssertNotCalled(s.T(), "SaveWithdrawal", mock.Anything, mock.Anything)
}

func (s *WithdrawalServiceTestSuite) TestRequestWithdrawal_CreatesPendingRequest() {
	ctx := context.Background()
	acct := account("acc-1", regularID, "500")

	s.mockAccountRepo.On("FindAccountByUserID", ctx, regularID).Return(&acct, nil).Once()
	s.mockWithdrawalRepo.On("SaveWithdrawal", ctx, mock.MatchedBy(func(w domain.Withdrawal) bool {
		return w.AccountID == "acc-1" && w.Status == domain.RequestPending && w.Amount.Equal(dec("100"))
	})).Return(nil).Once()

	withdrawal, err := s.service.RequestWithdrawal(ctx, regularID, dto.CreateWithdrawalRequest{
		Amount:      dec("100"),
		Destination: "bank-xyz",
	})

	s.Require().NoError(err)
	s.Equal(domain.RequestPending, withdrawal.Status)
	s.mockWithdrawalRepo.AssertExpectations(s.T())
}

func (s *WithdrawalServiceTestSuite) TestApproveWithdrawal_DebitsBeforeCompleting() {
	ctx := context.Background()
	withdrawal := pendingWithdrawal("wd-1", "acc-1", "100")
	acct := account("acc-1", regularID, "400")

	s.expectAdmin(adminID)
	s.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, "wd-1").Return(&withdrawal, nil).Once()
	s.mockAccountRepo.On("DebitBalance", ctx, "acc-1", mock.Anything, mock.MatchedBy(func(txn domain.TransactionRecord) bool {
		return txn.Type == domain.TxnWithdrawal && txn.Amount.Equal(dec("100"))
	})).Return(&acct, nil).Once()
	s.mockWithdrawalRepo.On("UpdateWithdrawalStatus", ctx, "wd-1", domain.RequestApproved, adminID, mock.Anything).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	approved, err := s.service.ApproveWithdrawal(ctx, "wd-1", adminID)

	s.Require().NoError(err)
	s.Equal(domain.RequestApproved, approved.Status)
	s.mockWithdrawalRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *WithdrawalServiceTestSuite) TestApproveWithdrawal_FundsDrainedSinceRequest() {
	ctx := context.Background()
	withdrawal := pendingWithdrawal("wd-1", "acc-1", "100")

	s.expectAdmin(adminID)
	s.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, "wd-1").Return(&withdrawal, nil).Once()
	s.mockAccountRepo.On("DebitBalance", ctx, "acc-1", mock.Anything, mock.AnythingOfType("domain.TransactionRecord")).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := s.service.ApproveWithdrawal(ctx, "wd-1", adminID)

	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	// The request stays pending so it can be retried or rejected.
	s.mockWithdrawalRepo.AssertNotCalled(s.T(), "UpdateWithdrawalStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *WithdrawalServiceTestSuite) TestRejectWithdrawal_NoFundsMove() {
	ctx := context.Background()
	withdrawal := pendingWithdrawal("wd-1", "acc-1", "100")

	s.expectAdmin(adminID)
	s.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, "wd-1").Return(&withdrawal, nil).Once()
	s.mockWithdrawalRepo.On("UpdateWithdrawalStatus", ctx, "wd-1", domain.RequestRejected, adminID, mock.Anything).Return(nil).Once()

	rejected, err := s.service.RejectWithdrawal(ctx, "wd-1", adminID)

	s.Require().NoError(err)
	s.Equal(domain.RequestRejected, rejected.Status)
	s.mockAccountRepo.AssertNotCalled(s.T(), "DebitBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdrawalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalServiceTestSuite))
}
