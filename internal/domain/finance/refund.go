package finance

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund is one scheduled payout of a cancellation settlement. Each payout
// goes through the approval chain before the money leaves, and marking it
// paid feeds the cancellation recompute.
type Refund struct {
	shared.BranchAggregateRoot
	RefundNumber     string          `json:"refund_number"`
	CancellationID   uuid.UUID       `json:"cancellation_id"`
	SaleNumber       string          `json:"sale_number"`
	ClientName       string          `json:"client_name"`
	Sequence         int             `json:"sequence"`
	DueDate          time.Time       `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	Paid             bool            `json:"paid"`
	PaidAt           *time.Time      `json:"paid_at"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
	Approval
}

// NewRefund creates a refund payout from one refund schedule line
func NewRefund(
	branchID uuid.UUID,
	refundNumber string,
	cancellationID uuid.UUID,
	saleNumber, clientName string,
	line RefundPlanLine,
) (*Refund, error) {
	if refundNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFUND_NUMBER", "Refund number cannot be empty")
	}
	if cancellationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CANCELLATION", "Cancellation ID cannot be empty")
	}
	if line.Sequence <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund sequence must be positive")
	}
	if !line.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if line.DueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Refund due date is required")
	}

	return &Refund{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		RefundNumber:        refundNumber,
		CancellationID:      cancellationID,
		SaleNumber:          saleNumber,
		ClientName:          clientName,
		Sequence:            line.Sequence,
		DueDate:             line.DueDate,
		Amount:              line.Amount,
		Approval:            NewApproval(),
	}, nil
}

// Submit sends the payout into the approval chain
func (r *Refund) Submit(actorID uuid.UUID, role ApproverRole, now time.Time) error {
	if err := r.Approval.Submit(actorID, role, now); err != nil {
		return err
	}
	r.touch()
	return nil
}

// Approve advances the payout one approval level
func (r *Refund) Approve(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if err := r.Approval.Approve(actorID, role, remarks, now); err != nil {
		return err
	}
	r.touch()
	return nil
}

// Reject declines the payout at its current level
func (r *Refund) Reject(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if err := r.Approval.Reject(actorID, role, remarks, now); err != nil {
		return err
	}
	r.touch()
	return nil
}

// MarkPaid records that the money left through the given channel. The
// payout must have cleared approval and can only be paid once.
func (r *Refund) MarkPaid(method PaymentMethod, reference string, now time.Time) error {
	if !r.IsApproved() {
		return shared.NewDomainError("INVALID_STATE", "Only an approved refund can be paid")
	}
	if r.Paid {
		return shared.NewDomainError("CONFLICT", fmt.Sprintf("Refund %s has already been paid", r.RefundNumber))
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	r.Paid = true
	paid := now
	r.PaidAt = &paid
	r.PaymentMethod = method
	r.PaymentReference = reference
	r.touch()

	return nil
}

// MarkPosted flags the refund as posted to the ledger
func (r *Refund) MarkPosted(now time.Time) error {
	if err := r.Approval.MarkPosted(now); err != nil {
		return err
	}
	r.touch()
	return nil
}

// GetAmountMoney returns the refund amount as Money
func (r *Refund) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(r.Amount)
}

func (r *Refund) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
