package ledger

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType is the classical account classification
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// TransactionType names the business event an entry belongs to
type TransactionType string

const (
	TransactionSale    TransactionType = "SALE"
	TransactionReceipt TransactionType = "RECEIPT"
	TransactionRefund  TransactionType = "REFUND"
	TransactionExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionSale, TransactionReceipt, TransactionRefund, TransactionExpense:
		return true
	}
	return false
}

// Well-known account names used by the posting builders
const (
	AccountCash               = "Cash"
	AccountBank               = "Bank"
	AccountAccountsReceivable = "Accounts Receivable"
	AccountSalesRevenue       = "Sales Revenue"
	AccountGeneralExpense     = "General Expense"
)

// Entry is one line of a double-entry posting. Entries are append-only;
// corrections are made with reversing entries, never updates.
type Entry struct {
	ID              uuid.UUID       `json:"id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	AccountName     string          `json:"account_name"`
	AccountType     AccountType     `json:"account_type"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	TransactionType TransactionType `json:"transaction_type"`
	ReferenceID     uuid.UUID       `json:"reference_id"`
	ReferenceNumber string          `json:"reference_number"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate checks the single-entry rules: a known account type and exactly
// one positive side.
func (e *Entry) Validate() error {
	if e.AccountName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Account name cannot be empty")
	}
	if !e.AccountType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown account type")
	}
	if !e.TransactionType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown transaction type")
	}
	debitSet := e.Debit.IsPositive()
	creditSet := e.Credit.IsPositive()
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Entry amounts cannot be negative")
	}
	if debitSet == creditSet {
		return shared.NewDomainError("INVALID_INPUT",
			"Exactly one of debit and credit must be positive")
	}
	return nil
}

// ValidateBalanced checks each entry individually and requires the set's
// debits and credits to sum to the same total. Called before every write.
func ValidateBalanced(entries []Entry) error {
	if len(entries) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "A posting needs at least one entry")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
		debits = debits.Add(entries[i].Debit)
		credits = credits.Add(entries[i].Credit)
	}

	if !debits.Equal(credits) {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			"Posting is unbalanced: debits "+debits.String()+" vs credits "+credits.String())
	}

	return nil
}

// AccountBalance is one row of a trial-balance style aggregation
type AccountBalance struct {
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"` // debit minus credit
}
