package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/velta_backend/internal/core/domain"
)

// RunAccrualRequest optionally overrides the calendar day the run applies to
// (YYYY-MM-DD). Defaults to today when omitted.
type RunAccrualRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ManualCreditRequest is the fixed-amount administrator override.
type ManualCreditRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note"`
}

// ManualPercentCreditRequest is the fixed-percentage administrator override.
type ManualPercentCreditRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
	Note       string          `json:"note"`
}

// AccrualResultResponse is one per-account line of a run result.
type AccrualResultResponse struct {
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	Tier      string          `json:"tier"`
}

// AccrualRunResponse is the aggregate result surfaced to the trigger caller.
type AccrualRunResponse struct {
	UsersProcessed int                     `json:"usersProcessed"`
	TotalAmount    decimal.Decimal         `json:"totalAmount"`
	Date           time.Time               `json:"date"`
	Results        []AccrualResultResponse `json:"results"`
}

// ProfitEntryResponse is one profit-share ledger row.
type ProfitEntryResponse struct {
	EntryID         string          `json:"entryID"`
	AccountID       string          `json:"accountID"`
	EntryDate       time.Time       `json:"entryDate"`
	BalanceSnapshot decimal.Decimal `json:"balanceSnapshot"`
	Tier            string          `json:"tier"`
	Percentage      decimal.Decimal `json:"percentage"`
	Amount          decimal.Decimal `json:"amount"`
	IsCustom        bool            `json:"isCustom"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToAccrualRunResponse converts a domain.AccrualRun to its DTO
func ToAccrualRunResponse(run *domain.AccrualRun) AccrualRunResponse {
	results := make([]AccrualResultResponse, len(run.Results))
	for i, r := range run.Results {
		results[i] = AccrualResultResponse{AccountID: r.AccountID, Amount: r.Amount, Tier: r.Tier}
	}
	return AccrualRunResponse{
		UsersProcessed: run.UsersProcessed,
		TotalAmount:    run.TotalAmount,
		Date:           run.RunDate,
		Results:        results,
	}
}

// ToProfitEntryResponse converts a domain.ProfitEntry to its DTO
func ToProfitEntryResponse(e *domain.ProfitEntry) ProfitEntryResponse {
	return ProfitEntryResponse{
		EntryID:         e.EntryID,
		AccountID:       e.AccountID,
		EntryDate:       e.EntryDate,
		BalanceSnapshot: e.BalanceSnapshot,
		Tier:            e.Tier,
		Percentage:      e.Percentage,
		Amount:          e.Amount,
		IsCustom:        e.IsCustom,
		CreatedAt:       e.CreatedAt,
	}
}

// ToListProfitEntryResponse converts ledger entries to DTOs
func ToListProfitEntryResponse(entries []domain.ProfitEntry) []ProfitEntryResponse {
	res := make([]ProfitEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToProfitEntryResponse(&e)
	}
	return res
}
