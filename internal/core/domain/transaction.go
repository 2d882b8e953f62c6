package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance mutation for user-facing history.
type TransactionType string

const (
	TxnDeposit         TransactionType = "DEPOSIT"
	TxnWithdrawal      TransactionType = "WITHDRAWAL"
	TxnProfitShare     TransactionType = "PROFIT_SHARE"
	TxnReferralReward  TransactionType = "REFERRAL_REWARD"
	TxnAdminAdjustment TransactionType = "ADMIN_ADJUSTMENT"
)

// TransactionStatus is the settlement status of a transaction record.
type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnPending   TransactionStatus = "PENDING"
	TxnRejected  TransactionStatus = "REJECTED"
)

// TransactionRecord mirrors every balance mutation for display and audit. It
// is append-only and never read back to derive a balance.
type TransactionRecord struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	AccountID       string            `json:"accountID"`
	Type            TransactionType   `json:"type"`
	Amount          decimal.Decimal   `json:"amount"`
	Status          TransactionStatus `json:"status"`
	PreviousBalance decimal.Decimal   `json:"previousBalance"`
	NewBalance      decimal.Decimal   `json:"newBalance"`
	Description     string            `json:"description"`
	CreatedAt       time.Time         `json:"createdAt"`
	CreatedBy       string            `json:"createdBy,omitempty"`
}
