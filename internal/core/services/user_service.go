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
	"github.com/veltapay/velta_backend/internal/utils"
)

const referralCodeLength = 8

// userService implements the UserSvcFacade interface.
type userService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	accountRepo portsrepo.AccountWriter
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountRepo portsrepo.AccountWriter) portssvc.UserSvcFacade {
	return &userService{
		BaseService: BaseService{userReader: userRepo},
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register creates the user and their account in one logical operation.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := s.GetLogger(ctx)

	if existing, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	referredBy := ""
	if req.ReferralCode != "" {
		referrer, err := s.userRepo.FindUserByReferralCode(ctx, req.ReferralCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown referral code", apperrors.ErrValidation)
			}
			return nil, fmt.Errorf("failed to look up referral code: %w", err)
		}
		referredBy = referrer.UserID
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.newReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		ReferralCode: code,
		ReferredBy:   referredBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "self",
			LastUpdatedAt: now,
			LastUpdatedBy: "self",
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         user.UserID,
		Balance:        decimal.Zero,
		DepositBalance: decimal.Zero,
		Status:         domain.AccountActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     user.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: user.UserID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account for user %s: %w", user.UserID, err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.Bool("referred", referredBy != ""))
	return &user, nil
}

// newReferralCode generates a code not yet in use. Collisions on an 8-char
// code are rare enough that a few retries always suffice in practice.
func (s *userService) newReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateReferralCode(referralCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		_, err = s.userRepo.FindUserByReferralCode(ctx, code)
		if errors.Is(err, apperrors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check referral code: %w", err)
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique referral code", apperrors.ErrInternal)
}

// Authenticate verifies credentials. Unknown email and bad password both
// return ErrNotFound so callers cannot probe for registered addresses.
func (s *userService) Authenticate(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers returns a page of users; restricted to administrators.
func (s *userService) ListUsers(ctx context.Context, requestingUserID string, limit int, offset int) ([]domain.User, error) {
	if err := s.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// UpdateUser applies profile changes for the user themselves.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
