package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle status of an account. Accounts are never
// deleted, only status-transitioned.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// Account holds a user's balances. Balance is spendable; DepositBalance is the
// cumulative principal on which the daily profit share is computed. Accrual
// only ever increases Balance, never touches DepositBalance.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (UUID)
	UserID         string          `json:"userID"`    // FK -> users.user_id, one account per user
	Balance        decimal.Decimal `json:"balance"`
	DepositBalance decimal.Decimal `json:"depositBalance"`
	Status         AccountStatus   `json:"status"`
	// LastAccrualAt is advisory only; duplicate prevention is the ledger's job.
	LastAccrualAt *time.Time `json:"lastAccrualAt,omitempty"`
	AuditFields
}

// IsActive reports whether the account participates in daily accrual.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}
