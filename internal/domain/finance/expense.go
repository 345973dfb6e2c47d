package finance

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a money-out record for office running costs, development work
// and the like. It follows the same two-level approval chain as receipts.
type Expense struct {
	shared.BranchAggregateRoot
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	IncurredAt    time.Time       `json:"incurred_at"`
	Approval
}

// NewExpense creates a new expense record in draft state
func NewExpense(
	branchID uuid.UUID,
	expenseNumber, category string,
	amount valueobject.Money,
	description string,
	method PaymentMethod,
	incurredAt time.Time,
) (*Expense, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if incurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}

	e := &Expense{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		ExpenseNumber:       expenseNumber,
		Category:            category,
		Amount:              amount.Amount(),
		Description:         description,
		PaymentMethod:       method,
		IncurredAt:          incurredAt,
		Approval:            NewApproval(),
	}

	e.AddDomainEvent(NewExpenseCreatedEvent(e))

	return e, nil
}

// UpdateDetails edits the expense body while it is still editable
func (e *Expense) UpdateDetails(category string, amount valueobject.Money, description string, method PaymentMethod, incurredAt time.Time) error {
	if !e.IsEditable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot edit an expense in %s status", e.Status))
	}
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if incurredAt.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}

	e.Category = category
	e.Amount = amount.Amount()
	e.Description = description
	e.PaymentMethod = method
	e.IncurredAt = incurredAt
	e.touch()

	return nil
}

// Submit sends the expense into the approval chain
func (e *Expense) Submit(actorID uuid.UUID, role ApproverRole, now time.Time) error {
	if err := e.Approval.Submit(actorID, role, now); err != nil {
		return err
	}
	e.touch()
	return nil
}

// Approve advances the expense one approval level
func (e *Expense) Approve(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if err := e.Approval.Approve(actorID, role, remarks, now); err != nil {
		return err
	}
	e.touch()
	if e.IsApproved() {
		e.AddDomainEvent(NewExpenseApprovedEvent(e))
	}
	return nil
}

// Reject declines the expense at its current level
func (e *Expense) Reject(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if err := e.Approval.Reject(actorID, role, remarks, now); err != nil {
		return err
	}
	e.touch()
	return nil
}

// MarkPosted flags the expense as posted to the ledger
func (e *Expense) MarkPosted(now time.Time) error {
	if err := e.Approval.MarkPosted(now); err != nil {
		return err
	}
	e.touch()
	return nil
}

// GetAmountMoney returns the expense amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(e.Amount)
}

func (e *Expense) touch() {
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
