package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cashAccountFor maps a payment method to the asset account the money
// lands in. Everything that is not hard cash flows through the bank.
func cashAccountFor(paymentMethod string) string {
	if paymentMethod == "CASH" {
		return AccountCash
	}
	return AccountBank
}

// SalePosting builds the pair recognizing a sale: the full price becomes a
// receivable against sales revenue.
func SalePosting(branchID, saleID uuid.UUID, saleNumber string, totalPrice decimal.Decimal, date time.Time) []Entry {
	now := time.Now()
	return []Entry{
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     AccountAccountsReceivable,
			AccountType:     AccountTypeAsset,
			Debit:           totalPrice,
			Credit:          decimal.Zero,
			TransactionType: TransactionSale,
			ReferenceID:     saleID,
			ReferenceNumber: saleNumber,
			Description:     "Plot sale " + saleNumber,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     AccountSalesRevenue,
			AccountType:     AccountTypeIncome,
			Debit:           decimal.Zero,
			Credit:          totalPrice,
			TransactionType: TransactionSale,
			ReferenceID:     saleID,
			ReferenceNumber: saleNumber,
			Description:     "Plot sale " + saleNumber,
			CreatedAt:       now,
		},
	}
}

// ReceiptPosting builds the pair for money received against a sale: cash or
// bank is debited by payment method and the receivable is relieved.
func ReceiptPosting(branchID, receiptID uuid.UUID, receiptNumber string, amount decimal.Decimal, paymentMethod string, date time.Time) []Entry {
	now := time.Now()
	return []Entry{
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     cashAccountFor(paymentMethod),
			AccountType:     AccountTypeAsset,
			Debit:           amount,
			Credit:          decimal.Zero,
			TransactionType: TransactionReceipt,
			ReferenceID:     receiptID,
			ReferenceNumber: receiptNumber,
			Description:     "Receipt " + receiptNumber,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     AccountAccountsReceivable,
			AccountType:     AccountTypeAsset,
			Debit:           decimal.Zero,
			Credit:          amount,
			TransactionType: TransactionReceipt,
			ReferenceID:     receiptID,
			ReferenceNumber: receiptNumber,
			Description:     "Receipt " + receiptNumber,
			CreatedAt:       now,
		},
	}
}

// RefundPosting builds the pair for a refund paid out of a cancellation:
// the earlier receivable relief is reversed and cash or bank is credited.
func RefundPosting(branchID, refundID uuid.UUID, refundNumber string, amount decimal.Decimal, paymentMethod string, date time.Time) []Entry {
	now := time.Now()
	return []Entry{
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     AccountAccountsReceivable,
			AccountType:     AccountTypeAsset,
			Debit:           amount,
			Credit:          decimal.Zero,
			TransactionType: TransactionRefund,
			ReferenceID:     refundID,
			ReferenceNumber: refundNumber,
			Description:     "Refund " + refundNumber,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     cashAccountFor(paymentMethod),
			AccountType:     AccountTypeAsset,
			Debit:           decimal.Zero,
			Credit:          amount,
			TransactionType: TransactionRefund,
			ReferenceID:     refundID,
			ReferenceNumber: refundNumber,
			Description:     "Refund " + refundNumber,
			CreatedAt:       now,
		},
	}
}

// ExpensePosting builds the pair for an approved expense: the expense
// account is debited and cash or bank is credited.
func ExpensePosting(branchID, expenseID uuid.UUID, expenseNumber, category string, amount decimal.Decimal, paymentMethod string, date time.Time) []Entry {
	now := time.Now()
	account := AccountGeneralExpense
	if category != "" {
		account = category
	}
	return []Entry{
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     account,
			AccountType:     AccountTypeExpense,
			Debit:           amount,
			Credit:          decimal.Zero,
			TransactionType: TransactionExpense,
			ReferenceID:     expenseID,
			ReferenceNumber: expenseNumber,
			Description:     "Expense " + expenseNumber,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New(),
			BranchID:        branchID,
			TransactionDate: date,
			AccountName:     cashAccountFor(paymentMethod),
			AccountType:     AccountTypeAsset,
			Debit:           decimal.Zero,
			Credit:          amount,
			TransactionType: TransactionExpense,
			ReferenceID:     expenseID,
			ReferenceNumber: expenseNumber,
			Description:     "Expense " + expenseNumber,
			CreatedAt:       now,
		},
	}
}
