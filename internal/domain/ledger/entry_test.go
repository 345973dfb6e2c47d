package ledger

import (
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() Entry {
	return Entry{
		ID:              uuid.New(),
		BranchID:        uuid.New(),
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AccountName:     AccountCash,
		AccountType:     AccountTypeAsset,
		Debit:           decimal.NewFromInt(1000),
		Credit:          decimal.Zero,
		TransactionType: TransactionReceipt,
		ReferenceID:     uuid.New(),
		ReferenceNumber: "RCP-2024-03-00001",
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantErr bool
	}{
		{"valid debit entry", func(e *Entry) {}, false},
		{"valid credit entry", func(e *Entry) {
			e.Debit = decimal.Zero
			e.Credit = decimal.NewFromInt(1000)
		}, false},
		{"both sides set", func(e *Entry) {
			e.Credit = decimal.NewFromInt(1000)
		}, true},
		{"neither side set", func(e *Entry) {
			e.Debit = decimal.Zero
		}, true},
		{"negative debit", func(e *Entry) {
			e.Debit = decimal.NewFromInt(-1000)
		}, true},
		{"empty account name", func(e *Entry) {
			e.AccountName = ""
		}, true},
		{"unknown account type", func(e *Entry) {
			e.AccountType = AccountType("WEIRD")
		}, true},
		{"unknown transaction type", func(e *Entry) {
			e.TransactionType = TransactionType("TRANSFER")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateBalanced(t *testing.T) {
	t.Run("balanced pair passes", func(t *testing.T) {
		debit := validEntry()
		credit := validEntry()
		credit.AccountName = AccountAccountsReceivable
		credit.Debit = decimal.Zero
		credit.Credit = decimal.NewFromInt(1000)

		require.NoError(t, ValidateBalanced([]Entry{debit, credit}))
	})

	t.Run("unbalanced set fails", func(t *testing.T) {
		debit := validEntry()
		credit := validEntry()
		credit.Debit = decimal.Zero
		credit.Credit = decimal.NewFromInt(999)

		err := ValidateBalanced([]Entry{debit, credit})
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVARIANT_VIOLATION", de.Code)
	})

	t.Run("empty set fails", func(t *testing.T) {
		require.Error(t, ValidateBalanced(nil))
	})

	t.Run("one bad entry fails the set", func(t *testing.T) {
		debit := validEntry()
		bad := validEntry()
		bad.Credit = decimal.NewFromInt(1000)

		require.Error(t, ValidateBalanced([]Entry{debit, bad}))
	})
}

func TestPostingBuilders(t *testing.T) {
	branchID := uuid.New()
	refID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(200000)

	t.Run("sale posting", func(t *testing.T) {
		entries := SalePosting(branchID, refID, "SAL-2024-01-00001", amount, date)
		require.Len(t, entries, 2)
		require.NoError(t, ValidateBalanced(entries))

		assert.Equal(t, AccountAccountsReceivable, entries[0].AccountName)
		assert.True(t, entries[0].Debit.Equal(amount))
		assert.Equal(t, AccountSalesRevenue, entries[1].AccountName)
		assert.Equal(t, AccountTypeIncome, entries[1].AccountType)
		assert.True(t, entries[1].Credit.Equal(amount))
		for _, e := range entries {
			assert.Equal(t, refID, e.ReferenceID)
			assert.Equal(t, TransactionSale, e.TransactionType)
		}
	})

	t.Run("cash receipt debits cash", func(t *testing.T) {
		entries := ReceiptPosting(branchID, refID, "RCP-2024-03-00001", amount, "CASH", date)
		require.NoError(t, ValidateBalanced(entries))
		assert.Equal(t, AccountCash, entries[0].AccountName)
		assert.Equal(t, AccountAccountsReceivable, entries[1].AccountName)
	})

	t.Run("bank transfer receipt debits bank", func(t *testing.T) {
		entries := ReceiptPosting(branchID, refID, "RCP-2024-03-00002", amount, "BANK_TRANSFER", date)
		require.NoError(t, ValidateBalanced(entries))
		assert.Equal(t, AccountBank, entries[0].AccountName)
	})

	t.Run("refund posting reverses the receivable relief", func(t *testing.T) {
		entries := RefundPosting(branchID, refID, "RFD-2024-05-00001", amount, "CASH", date)
		require.NoError(t, ValidateBalanced(entries))
		assert.Equal(t, AccountAccountsReceivable, entries[0].AccountName)
		assert.True(t, entries[0].Debit.Equal(amount))
		assert.Equal(t, AccountCash, entries[1].AccountName)
		assert.True(t, entries[1].Credit.Equal(amount))
	})

	t.Run("expense posting uses the category account", func(t *testing.T) {
		entries := ExpensePosting(branchID, refID, "EXP-2024-03-00001", "Site Development", amount, "CASH", date)
		require.NoError(t, ValidateBalanced(entries))
		assert.Equal(t, "Site Development", entries[0].AccountName)
		assert.Equal(t, AccountTypeExpense, entries[0].AccountType)
	})

	t.Run("expense posting falls back to the general account", func(t *testing.T) {
		entries := ExpensePosting(branchID, refID, "EXP-2024-03-00002", "", amount, "CASH", date)
		require.NoError(t, ValidateBalanced(entries))
		assert.Equal(t, AccountGeneralExpense, entries[0].AccountName)
	})
}
