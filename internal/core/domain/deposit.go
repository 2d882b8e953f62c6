package domain

import (
	"github.com/shopspring/decimal"
)

// RequestStatus is the review status of a deposit or withdrawal request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Deposit is a user-submitted deposit request awaiting administrator review.
// Approval increases the account's deposit balance (the accrual principal).
type Deposit struct {
	DepositID string          `json:"depositID"` // Primary Key (UUID)
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	// MethodRef is a free-form reference to the payment rail (txid, receipt no).
	MethodRef string        `json:"methodRef"`
	Status    RequestStatus `json:"status"`
	AuditFields
}

// Withdrawal is a user-submitted withdrawal request. Approval decrements the
// spendable balance, never the deposit balance.
type Withdrawal struct {
	WithdrawalID string          `json:"withdrawalID"` // Primary Key (UUID)
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	// Destination is a free-form payout destination reference.
	Destination string        `json:"destination"`
	Status      RequestStatus `json:"status"`
	AuditFields
}
