package domain

// UserRole distinguishes ordinary investors from platform administrators.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User represents a registered platform user.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	// ReferralCode is the user's own shareable code, assigned at registration.
	ReferralCode string `json:"referralCode"`
	// ReferredBy is the UserID of the referrer, empty when the user signed up
	// without a code.
	ReferredBy string `json:"referredBy,omitempty"`
	// ReferralCount is the number of users this user has referred.
	ReferralCount int `json:"referralCount"`
	AuditFields
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
