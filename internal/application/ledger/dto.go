package ledger

import (
	"time"

	"github.com/estate/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryResponse represents one ledger entry in API responses
type EntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransactionDate time.Time       `json:"transaction_date"`
	AccountName     string          `json:"account_name"`
	AccountType     string          `json:"account_type"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	TransactionType string          `json:"transaction_type"`
	ReferenceID     uuid.UUID       `json:"reference_id"`
	ReferenceNumber string          `json:"reference_number"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToEntryResponse converts an Entry to EntryResponse
func ToEntryResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		TransactionDate: e.TransactionDate,
		AccountName:     e.AccountName,
		AccountType:     string(e.AccountType),
		Debit:           e.Debit,
		Credit:          e.Credit,
		TransactionType: string(e.TransactionType),
		ReferenceID:     e.ReferenceID,
		ReferenceNumber: e.ReferenceNumber,
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
	}
}

// EntryListFilter captures query parameters for listing ledger entries
type EntryListFilter struct {
	AccountName     string `form:"account_name"`
	AccountType     string `form:"account_type"`
	TransactionType string `form:"transaction_type"`
	ReferenceID     string `form:"reference_id"`
	FromDate        string `form:"from_date"`
	ToDate          string `form:"to_date"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

// AccountBalanceResponse represents one aggregated account row
type AccountBalanceResponse struct {
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse represents the trial balance of a branch over a
// period. Debits and credits must agree; Balanced surfaces any drift.
type TrialBalanceResponse struct {
	From        time.Time                `json:"from"`
	To          time.Time                `json:"to"`
	Accounts    []AccountBalanceResponse `json:"accounts"`
	TotalDebit  decimal.Decimal          `json:"total_debit"`
	TotalCredit decimal.Decimal          `json:"total_credit"`
	Balanced    bool                     `json:"balanced"`
}

// TrialBalanceQuery captures the date range for a trial balance
type TrialBalanceQuery struct {
	FromDate string `form:"from_date" binding:"required"`
	ToDate   string `form:"to_date" binding:"required"`
}
