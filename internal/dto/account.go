package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string               `json:"accountID"`
	UserID         string               `json:"userID"`
	Balance        decimal.Decimal      `json:"balance"`
	DepositBalance decimal.Decimal      `json:"depositBalance"`
	Status         domain.AccountStatus `json:"status"`
	LastAccrualAt  *time.Time           `json:"lastAccrualAt,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// SetAccountStatusRequest defines an admin status transition.
type SetAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE SUSPENDED"`
}

// ListParams defines shared pagination query parameters.
type ListParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		UserID:         a.UserID,
		Balance:        a.Balance,
		DepositBalance: a.DepositBalance,
		Status:         a.Status,
		LastAccrualAt:  a.LastAccrualAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		res[i] = ToAccountResponse(&a)
	}
	return res
}

// TransactionResponse defines one history row.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	AccountID       string                   `json:"accountID"`
	Type            domain.TransactionType   `json:"type"`
	Amount          decimal.Decimal          `json:"amount"`
	Status          domain.TransactionStatus `json:"status"`
	PreviousBalance decimal.Decimal          `json:"previousBalance"`
	NewBalance      decimal.Decimal          `json:"newBalance"`
	Description     string                   `json:"description"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// ToListTransactionResponse converts history records to DTOs
func ToListTransactionResponse(records []domain.TransactionRecord) []TransactionResponse {
	res := make([]TransactionResponse, len(records))
	for i, r := range records {
		res[i] = TransactionResponse{
			TransactionID:   r.TransactionID,
			AccountID:       r.AccountID,
			Type:            r.Type,
			Amount:          r.Amount,
			Status:          r.Status,
			PreviousBalance: r.PreviousBalance,
			NewBalance:      r.NewBalance,
			Description:     r.Description,
			CreatedAt:       r.CreatedAt,
		}
	}
	return res
}
