package dto

import (
	"time"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// RegisterRequest defines the data needed to register a new user.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	// ReferralCode is the referrer's code, optional.
	ReferralCode string `json:"referralCode"`
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          domain.UserRole `json:"role"`
	ReferralCode  string          `json:"referralCode"`
	ReferralCount int             `json:"referralCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// UpdateUserRequest defines the fields a user may change on their profile.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		ReferralCode:  u.ReferralCode,
		ReferralCount: u.ReferralCount,
		CreatedAt:     u.CreatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to UserResponse DTOs
func ToListUserResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = ToUserResponse(&u)
	}
	return res
}
