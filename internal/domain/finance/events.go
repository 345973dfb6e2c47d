package finance

import (
	"github.com/estate/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptCreatedEvent is published when a receipt voucher is drafted
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string          `json:"receipt_number"`
	SaleID        string          `json:"sale_id"`
	StageName     string          `json:"stage_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewReceiptCreatedEvent creates a new receipt created event
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("receipt.created", "Receipt", r.ID, r.BranchID),
		ReceiptNumber:   r.ReceiptNumber,
		SaleID:          r.SaleID.String(),
		StageName:       r.StageName,
		Amount:          r.Amount,
	}
}

// ReceiptSubmittedEvent is published when a receipt enters the approval chain
type ReceiptSubmittedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string          `json:"receipt_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewReceiptSubmittedEvent creates a new receipt submitted event
func NewReceiptSubmittedEvent(r *Receipt) *ReceiptSubmittedEvent {
	return &ReceiptSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("receipt.submitted", "Receipt", r.ID, r.BranchID),
		ReceiptNumber:   r.ReceiptNumber,
		Amount:          r.Amount,
	}
}

// ReceiptApprovedEvent is published once a receipt clears both levels
type ReceiptApprovedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string          `json:"receipt_number"`
	SaleID        string          `json:"sale_id"`
	StageName     string          `json:"stage_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

// NewReceiptApprovedEvent creates a new receipt approved event
func NewReceiptApprovedEvent(r *Receipt) *ReceiptApprovedEvent {
	return &ReceiptApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("receipt.approved", "Receipt", r.ID, r.BranchID),
		ReceiptNumber:   r.ReceiptNumber,
		SaleID:          r.SaleID.String(),
		StageName:       r.StageName,
		Amount:          r.Amount,
		PaymentMethod:   string(r.PaymentMethod),
	}
}

// ReceiptRejectedEvent is published when a receipt is declined
type ReceiptRejectedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string `json:"receipt_number"`
	Remarks       string `json:"remarks"`
}

// NewReceiptRejectedEvent creates a new receipt rejected event
func NewReceiptRejectedEvent(r *Receipt, remarks string) *ReceiptRejectedEvent {
	return &ReceiptRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("receipt.rejected", "Receipt", r.ID, r.BranchID),
		ReceiptNumber:   r.ReceiptNumber,
		Remarks:         remarks,
	}
}

// ExpenseCreatedEvent is published when an expense is drafted
type ExpenseCreatedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewExpenseCreatedEvent creates a new expense created event
func NewExpenseCreatedEvent(e *Expense) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("expense.created", "Expense", e.ID, e.BranchID),
		ExpenseNumber:   e.ExpenseNumber,
		Category:        e.Category,
		Amount:          e.Amount,
	}
}

// ExpenseApprovedEvent is published once an expense clears both levels
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewExpenseApprovedEvent creates a new expense approved event
func NewExpenseApprovedEvent(e *Expense) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("expense.approved", "Expense", e.ID, e.BranchID),
		ExpenseNumber:   e.ExpenseNumber,
		Category:        e.Category,
		Amount:          e.Amount,
	}
}

// CancellationOpenedEvent is published when a settlement is opened
type CancellationOpenedEvent struct {
	shared.BaseDomainEvent
	SaleID           string          `json:"sale_id"`
	SaleNumber       string          `json:"sale_number"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RefundableAmount decimal.Decimal `json:"refundable_amount"`
}

// NewCancellationOpenedEvent creates a new cancellation opened event
func NewCancellationOpenedEvent(c *Cancellation) *CancellationOpenedEvent {
	return &CancellationOpenedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("cancellation.opened", "Cancellation", c.ID, c.BranchID),
		SaleID:           c.SaleID.String(),
		SaleNumber:       c.SaleNumber,
		TotalPaid:        c.TotalPaid,
		RefundableAmount: c.RefundableAmount,
	}
}

// CancellationDecidedEvent is published when a settlement is approved or rejected
type CancellationDecidedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string `json:"sale_number"`
	Decision   string `json:"decision"`
	Status     string `json:"status"`
}

// NewCancellationDecidedEvent creates a new cancellation decided event
func NewCancellationDecidedEvent(c *Cancellation, decision string) *CancellationDecidedEvent {
	return &CancellationDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("cancellation.decided", "Cancellation", c.ID, c.BranchID),
		SaleNumber:      c.SaleNumber,
		Decision:        decision,
		Status:          string(c.Status),
	}
}

// RefundRecordedEvent is published when a refund payout is recorded against
// the settlement
type RefundRecordedEvent struct {
	shared.BaseDomainEvent
	SaleNumber      string          `json:"sale_number"`
	Amount          decimal.Decimal `json:"amount"`
	RefundedAmount  decimal.Decimal `json:"refunded_amount"`
	RemainingRefund decimal.Decimal `json:"remaining_refund"`
	Status          string          `json:"status"`
}

// NewRefundRecordedEvent creates a new refund recorded event
func NewRefundRecordedEvent(c *Cancellation, amount decimal.Decimal) *RefundRecordedEvent {
	return &RefundRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("cancellation.refund_recorded", "Cancellation", c.ID, c.BranchID),
		SaleNumber:      c.SaleNumber,
		Amount:          amount,
		RefundedAmount:  c.RefundedAmount,
		RemainingRefund: c.RemainingRefund,
		Status:          string(c.Status),
	}
}
