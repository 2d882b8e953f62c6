package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// CreateDepositRequest defines a user-submitted deposit request.
type CreateDepositRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required,dpositive"`
	MethodRef string          `json:"methodRef" binding:"required"`
}

// CreateWithdrawalRequest defines a user-submitted withdrawal request.
type CreateWithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,dpositive"`
	Destination string          `json:"destination" binding:"required"`
}

// DepositResponse defines the data returned for a deposit request.
type DepositResponse struct {
	DepositID string               `json:"depositID"`
	AccountID string               `json:"accountID"`
	Amount    decimal.Decimal      `json:"amount"`
	MethodRef string               `json:"methodRef"`
	Status    domain.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

// WithdrawalResponse defines the data returned for a withdrawal request.
type WithdrawalResponse struct {
	WithdrawalID string               `json:"withdrawalID"`
	AccountID    string               `json:"accountID"`
	Amount       decimal.Decimal      `json:"amount"`
	Destination  string               `json:"destination"`
	Status       domain.RequestStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ToDepositResponse converts a domain.Deposit to its DTO
func ToDepositResponse(d *domain.Deposit) DepositResponse {
	return DepositResponse{
		DepositID: d.DepositID,
		AccountID: d.AccountID,
		Amount:    d.Amount,
		MethodRef: d.MethodRef,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

// ToListDepositResponse converts deposits to DTOs
func ToListDepositResponse(deposits []domain.Deposit) []DepositResponse {
	res := make([]DepositResponse, len(deposits))
	for i, d := range deposits {
		res[i] = ToDepositResponse(&d)
	}
	return res
}

// ToWithdrawalResponse converts a domain.Withdrawal to its DTO
func ToWithdrawalResponse(w *domain.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		WithdrawalID: w.WithdrawalID,
		AccountID:    w.AccountID,
		Amount:       w.Amount,
		Destination:  w.Destination,
		Status:       w.Status,
		CreatedAt:    w.CreatedAt,
	}
}

// ToListWithdrawalResponse converts withdrawals to DTOs
func ToListWithdrawalResponse(withdrawals []domain.Withdrawal) []WithdrawalResponse {
	res := make([]WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		res[i] = ToWithdrawalResponse(&w)
	}
	return res
}
