package services

import (
	"context"

	"github.com/veltapay/velta_backend/internal/core/domain"
	"github.com/veltapay/velta_backend/internal/dto"
)

// UserReaderSvc defines read operations for users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, requestingUserID string, limit int, offset int) ([]domain.User, error)
}

// UserSvcFacade combines user account management and credential verification.
type UserSvcFacade interface {
	UserReaderSvc

	// Register creates the user and their account in one logical operation.
	// An unknown referral code is rejected with ErrValidation.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies credentials and returns the user, or ErrNotFound
	// for both unknown email and bad password (no account probing).
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)

	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
}

// AdminAuthorizerSvc checks that a user holds the administrator role.
// Returns ErrForbidden otherwise.
type AdminAuthorizerSvc interface {
	AuthorizeAdmin(ctx context.Context, userID string) error
}
