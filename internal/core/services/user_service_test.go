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
	"github.com/veltapay/velta_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.UserSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.service = services.NewUserService(s.mockUserRepo, s.mockAccountRepo)
}

func (s *UserServiceTestSuite) TestRegister_CreatesUserAndAccount() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	}

	s.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	// The freshly generated referral code must be unused.
	s.mockUserRepo.On("FindUserByReferralCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email && u.Role == domain.RoleUser && u.ReferredBy == "" && len(u.ReferralCode) == 8
	})).Return(nil).Once()
	s.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Status == domain.AccountActive && a.Balance.IsZero() && a.DepositBalance.IsZero()
	})).Return(nil).Once()

	user, err := s.service.Register(ctx, req)

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.NotEmpty(user.UserID)
	s.NotEqual(req.Password, user.PasswordHash)
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByEmail", ctx, "taken@example.com").
		Return(&domain.User{UserID: "existing"}, nil).Once()

	user, err := s.service.Register(ctx, dto.RegisterRequest{
		Name:     "Dana",
		Email:    "taken@example.com",
		Password: "hunter2hunter2",
	})

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(user)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestRegister_UnknownReferralCode() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("FindUserByReferralCode", ctx, "NOSUCH01").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.Register(ctx, dto.RegisterRequest{
		Name:         "Dana",
		Email:        "dana@example.com",
		Password:     "hunter2hunter2",
		ReferralCode: "NOSUCH01",
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *UserServiceTestSuite) TestRegister_LinksReferrer() {
	ctx := context.Background()
	referrer := domain.User{UserID: "ref-1", ReferralCode: "FRIEND01"}

	s.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("FindUserByReferralCode", ctx, "FRIEND01").Return(&referrer, nil).Once()
	s.mockUserRepo.On("FindUserByReferralCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()
	s.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	user, err := s.service.Register(ctx, dto.RegisterRequest{
		Name:         "Dana",
		Email:        "dana@example.com",
		Password:     "hunter2hunter2",
		ReferralCode: "FRIEND01",
	})

	s.Require().NoError(err)
	s.Equal("ref-1", user.ReferredBy)
}

func (s *UserServiceTestSuite) TestAuthenticate() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse")
	s.Require().NoError(err)
	user := domain.User{UserID: regularID, Email: "dana@example.com", PasswordHash: hash}

	s.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(&user, nil).Twice()

	got, err := s.service.Authenticate(ctx, "dana@example.com", "correct horse")
	s.Require().NoError(err)
	s.Equal(regularID, got.UserID)

	// A wrong password is indistinguishable from an unknown address.
	_, err = s.service.Authenticate(ctx, "dana@example.com", "wrong")
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserServiceTestSuite) TestAuthenticate_UnknownEmail() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.Authenticate(ctx, "ghost@example.com", "whatever")
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserServiceTestSuite) TestUpdateUser_RejectsShortPassword() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByID", ctx, regularID).
		Return(&domain.User{UserID: regularID}, nil).Once()

	short := "tiny"
	_, err := s.service.UpdateUser(ctx, regularID, dto.UpdateUserRequest{Password: &short})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestListUsers_RequiresAdmin() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByID", mock.Anything, regularID).
		Return(&domain.User{UserID: regularID, Role: domain.RoleUser}, nil).Once()

	_, err := s.service.ListUsers(ctx, regularID, 20, 0)
	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
