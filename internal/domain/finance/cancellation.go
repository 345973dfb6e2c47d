package finance

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CancellationStatus is the state of a cancellation settlement
type CancellationStatus string

const (
	CancellationStatusPending       CancellationStatus = "PENDING"
	CancellationStatusApproved      CancellationStatus = "APPROVED"
	CancellationStatusRejected      CancellationStatus = "REJECTED"
	CancellationStatusRefunded      CancellationStatus = "REFUNDED"
	CancellationStatusPartialRefund CancellationStatus = "PARTIAL_REFUND"
)

// IsValid checks if the status is a valid CancellationStatus
func (s CancellationStatus) IsValid() bool {
	switch s {
	case CancellationStatusPending, CancellationStatusApproved, CancellationStatusRejected,
		CancellationStatusRefunded, CancellationStatusPartialRefund:
		return true
	}
	return false
}

// String returns the string representation of CancellationStatus
func (s CancellationStatus) String() string {
	return string(s)
}

// RefundPlanLine is one row of a generated refund schedule. The lines
// become Refund documents once numbered by the caller.
type RefundPlanLine struct {
	Sequence int             `json:"sequence"`
	DueDate  time.Time       `json:"due_date"`
	Amount   decimal.Decimal `json:"amount"`
}

// Cancellation settles a cancelled sale. It snapshots the amount the client
// had paid at cancellation time, deducts the office charge and any other
// deductions, and tracks the refund until the remaining amount reaches zero.
// A sale can have at most one cancellation.
type Cancellation struct {
	shared.BranchAggregateRoot
	SaleID              uuid.UUID          `json:"sale_id"`
	SaleNumber          string             `json:"sale_number"`
	PlotID              uuid.UUID          `json:"plot_id"`
	ClientID            uuid.UUID          `json:"client_id"`
	ClientName          string             `json:"client_name"`
	Reason              string             `json:"reason"`
	TotalPaid           decimal.Decimal    `json:"total_paid"` // snapshot at cancellation time
	OfficeChargePercent decimal.Decimal    `json:"office_charge_percent"`
	OfficeChargeAmount  decimal.Decimal    `json:"office_charge_amount"`
	OtherDeductions     decimal.Decimal    `json:"other_deductions"`
	RefundableAmount    decimal.Decimal    `json:"refundable_amount"`
	RefundedAmount      decimal.Decimal    `json:"refunded_amount"`
	RemainingRefund     decimal.Decimal    `json:"remaining_refund"`
	ScheduleTotal       decimal.Decimal    `json:"schedule_total"`
	ScheduleGenerated   bool               `json:"schedule_generated"`
	Status              CancellationStatus `json:"status"`
	RequestedAt         time.Time          `json:"requested_at"`
	DecidedBy           *uuid.UUID         `json:"decided_by"`
	DecidedAt           *time.Time         `json:"decided_at"`
	DecisionRemarks     string             `json:"decision_remarks"`
}

// NewCancellation opens a settlement for a cancelled sale. The office charge
// is a percentage of the paid snapshot; the refundable amount is what is left
// after the charge and any other deductions.
func NewCancellation(
	branchID uuid.UUID,
	saleID uuid.UUID,
	saleNumber string,
	plotID, clientID uuid.UUID,
	clientName, reason string,
	totalPaid valueobject.Money,
	officeChargePercent decimal.Decimal,
	otherDeductions valueobject.Money,
	requestedAt time.Time,
) (*Cancellation, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	if totalPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid snapshot cannot be negative")
	}
	if officeChargePercent.IsNegative() || officeChargePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Office charge percent must be between 0 and 100")
	}
	if otherDeductions.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deductions cannot be negative")
	}

	officeCharge := totalPaid.Amount().Mul(officeChargePercent).Div(decimal.NewFromInt(100)).Round(2)
	refundable := totalPaid.Amount().Sub(officeCharge).Sub(otherDeductions.Amount())
	if refundable.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Deductions %s exceed the paid amount %s", otherDeductions.Amount().Add(officeCharge), totalPaid.Amount()))
	}

	c := &Cancellation{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		SaleID:              saleID,
		SaleNumber:          saleNumber,
		PlotID:              plotID,
		ClientID:            clientID,
		ClientName:          clientName,
		Reason:              reason,
		TotalPaid:           totalPaid.Amount(),
		OfficeChargePercent: officeChargePercent,
		OfficeChargeAmount:  officeCharge,
		OtherDeductions:     otherDeductions.Amount(),
		RefundableAmount:    refundable,
		RefundedAmount:      decimal.Zero,
		RemainingRefund:     refundable,
		ScheduleTotal:       decimal.Zero,
		Status:              CancellationStatusPending,
		RequestedAt:         requestedAt,
	}

	c.AddDomainEvent(NewCancellationOpenedEvent(c))

	return c, nil
}

// Approve confirms the settlement. Only a senior role may decide. A
// settlement with nothing to refund closes immediately as refunded.
func (c *Cancellation) Approve(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if c.Status != CancellationStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve a cancellation in %s status", c.Status))
	}
	if !role.IsSenior() {
		return shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Role %s cannot decide cancellation settlements", role))
	}

	if c.RefundableAmount.IsZero() {
		c.Status = CancellationStatusRefunded
	} else {
		c.Status = CancellationStatusApproved
	}
	decided := now
	c.DecidedBy = &actorID
	c.DecidedAt = &decided
	c.DecisionRemarks = remarks
	c.touch()

	c.AddDomainEvent(NewCancellationDecidedEvent(c, "APPROVE"))

	return nil
}

// Reject declines the settlement. The caller reinstates the sale in the
// same unit of work.
func (c *Cancellation) Reject(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if c.Status != CancellationStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject a cancellation in %s status", c.Status))
	}
	if !role.IsSenior() {
		return shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Role %s cannot decide cancellation settlements", role))
	}
	if remarks == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection remarks are required")
	}

	c.Status = CancellationStatusRejected
	decided := now
	c.DecidedBy = &actorID
	c.DecidedAt = &decided
	c.DecisionRemarks = remarks
	c.touch()

	c.AddDomainEvent(NewCancellationDecidedEvent(c, "REJECT"))

	return nil
}

// GenerateRefundSchedule divides the refundable amount into count equal
// lines one month apart, spreading any rounding remainder over the leading
// lines. Regeneration is allowed only before any refund has been paid out.
func (c *Cancellation) GenerateRefundSchedule(count int, startDate time.Time) ([]RefundPlanLine, error) {
	if c.Status != CancellationStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot schedule refunds for a cancellation in %s status", c.Status))
	}
	if count <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund count must be positive")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Schedule start date is required")
	}
	if c.RefundedAmount.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot regenerate schedule after refunds have been paid")
	}

	amounts, err := valueobject.NewMoneyBDT(c.RefundableAmount).Allocate(count)
	if err != nil {
		return nil, err
	}

	lines := make([]RefundPlanLine, 0, count)
	total := decimal.Zero
	for i := 0; i < count; i++ {
		lines = append(lines, RefundPlanLine{
			Sequence: i + 1,
			DueDate:  startDate.AddDate(0, i, 0),
			Amount:   amounts[i].Amount(),
		})
		total = total.Add(amounts[i].Amount())
	}

	c.ScheduleTotal = total
	c.ScheduleGenerated = true
	c.touch()

	return lines, nil
}

// RecordRefundPaid applies one refund payout and re-derives the settlement
// totals and status
func (c *Cancellation) RecordRefundPaid(amount valueobject.Money, now time.Time) error {
	if c.Status != CancellationStatusApproved && c.Status != CancellationStatusPartialRefund {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record a refund for a cancellation in %s status", c.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if amount.Amount().GreaterThan(c.RemainingRefund) {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Refund %s exceeds the remaining amount %s", amount.Amount(), c.RemainingRefund))
	}

	c.RefundedAmount = c.RefundedAmount.Add(amount.Amount())
	c.RemainingRefund = c.RefundableAmount.Sub(c.RefundedAmount)
	if c.RemainingRefund.IsZero() {
		c.Status = CancellationStatusRefunded
	} else {
		c.Status = CancellationStatusPartialRefund
	}
	c.touch()

	c.AddDomainEvent(NewRefundRecordedEvent(c, amount.Amount()))

	return nil
}

// ScheduleDiscrepancy returns the difference between the refundable amount
// and the generated schedule total. Drift is surfaced for review, never
// corrected silently. Zero until a schedule exists.
func (c *Cancellation) ScheduleDiscrepancy() decimal.Decimal {
	if !c.ScheduleGenerated {
		return decimal.Zero
	}
	return c.RefundableAmount.Sub(c.ScheduleTotal)
}

// IsSettled returns true once the full refundable amount has been paid out
func (c *Cancellation) IsSettled() bool {
	return c.Status == CancellationStatusRefunded
}

func (c *Cancellation) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
