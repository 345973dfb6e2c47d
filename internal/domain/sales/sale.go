package sales

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a plot sale
type SaleStatus string

const (
	SaleStatusActive    SaleStatus = "ACTIVE"    // Payments in progress
	SaleStatusCompleted SaleStatus = "COMPLETED" // Fully paid
	SaleStatusCancelled SaleStatus = "CANCELLED" // Cancelled, settlement in progress
	SaleStatusOnHold    SaleStatus = "ON_HOLD"   // Temporarily suspended
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusActive, SaleStatusCompleted, SaleStatusCancelled, SaleStatusOnHold:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanCancel returns true if the sale can be cancelled in this status
func (s SaleStatus) CanCancel() bool {
	return s == SaleStatusActive || s == SaleStatusOnHold
}

// CanReceivePayment returns true if payments may be applied in this status
func (s SaleStatus) CanReceivePayment() bool {
	return s == SaleStatusActive || s == SaleStatusOnHold
}

// StageName identifies one phase of a sale's payment plan
type StageName string

const (
	StageBooking      StageName = "BOOKING"
	StageInstallments StageName = "INSTALLMENTS"
	StageRegistration StageName = "REGISTRATION"
	StageHandover     StageName = "HANDOVER"
	StageOther        StageName = "OTHER"
)

// IsValid checks if the name is a valid StageName
func (n StageName) IsValid() bool {
	switch n {
	case StageBooking, StageInstallments, StageRegistration, StageHandover, StageOther:
		return true
	}
	return false
}

// String returns the string representation of StageName
func (n StageName) String() string {
	return string(n)
}

// StageStatus represents the payment status of a single stage
type StageStatus string

const (
	StageStatusPending   StageStatus = "PENDING"
	StageStatusPartial   StageStatus = "PARTIAL"
	StageStatusCompleted StageStatus = "COMPLETED"
	StageStatusOverdue   StageStatus = "OVERDUE"
)

// IsValid checks if the status is a valid StageStatus
func (s StageStatus) IsValid() bool {
	switch s {
	case StageStatusPending, StageStatusPartial, StageStatusCompleted, StageStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of StageStatus
func (s StageStatus) String() string {
	return string(s)
}

// Stage is one phase of a sale's payment plan, owned by the Sale aggregate
type Stage struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	Name           StageName       `json:"name"`
	Sequence       int             `json:"sequence"`
	PlannedAmount  decimal.Decimal `json:"planned_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	DueAmount      decimal.Decimal `json:"due_amount"`
	ExpectedDate   *time.Time      `json:"expected_date"`
	CompletedDate  *time.Time      `json:"completed_date"`
	Status         StageStatus     `json:"status"`
}

// StagePlan describes one stage when creating a sale
type StagePlan struct {
	Name          StageName
	PlannedAmount valueobject.Money
	ExpectedDate  *time.Time
}

// Sale represents a plot sale aggregate root. It owns the ordered payment
// stages and the installment schedule, and keeps the derived amounts
// consistent through the fixed-order Recalculate pass.
type Sale struct {
	shared.BranchAggregateRoot
	SaleNumber   string            `json:"sale_number"`
	PlotID       uuid.UUID         `json:"plot_id"`
	ParcelID     uuid.UUID         `json:"parcel_id"`
	ClientID     uuid.UUID         `json:"client_id"`
	ClientName   string            `json:"client_name"`
	ClientPhone  string            `json:"client_phone"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
	PaidAmount   decimal.Decimal   `json:"paid_amount"` // derived: sum of stage received amounts
	DueAmount    decimal.Decimal   `json:"due_amount"`  // derived: total - paid
	Status       SaleStatus        `json:"status"`
	SaleDate     time.Time         `json:"sale_date"`
	Stages       []Stage           `json:"stages"`
	Installments []InstallmentLine `json:"installments"`
	CompletedAt  *time.Time        `json:"completed_at"`
	CancelledAt  *time.Time        `json:"cancelled_at"`
	CancelReason string            `json:"cancel_reason"`
	Remark       string            `json:"remark"`
}

// NewSale creates a new sale with its stage plan.
// The planned stage amounts must sum to the total price so the derived due
// amounts stay consistent across stage and sale level.
func NewSale(
	branchID uuid.UUID,
	saleNumber string,
	plotID, parcelID, clientID uuid.UUID,
	clientName, clientPhone string,
	totalPrice valueobject.Money,
	saleDate time.Time,
	plan []StagePlan,
) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if plotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if !totalPrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total price must be positive")
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SALE_DATE", "Sale date is required")
	}
	if len(plan) == 0 {
		return nil, shared.NewDomainError("INVALID_STAGE_PLAN", "At least one stage is required")
	}

	plannedTotal := decimal.Zero
	seen := make(map[StageName]bool, len(plan))
	for _, sp := range plan {
		if !sp.Name.IsValid() {
			return nil, shared.NewDomainError("INVALID_STAGE_PLAN", fmt.Sprintf("Unknown stage name %q", sp.Name))
		}
		if seen[sp.Name] {
			return nil, shared.NewDomainError("INVALID_STAGE_PLAN", fmt.Sprintf("Duplicate stage %s", sp.Name))
		}
		seen[sp.Name] = true
		if sp.PlannedAmount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_STAGE_PLAN", "Stage planned amount cannot be negative")
		}
		plannedTotal = plannedTotal.Add(sp.PlannedAmount.Amount())
	}
	if !plannedTotal.Equal(totalPrice.Amount()) {
		return nil, shared.NewDomainError("INVALID_STAGE_PLAN",
			fmt.Sprintf("Stage plan total %s does not match sale price %s", plannedTotal, totalPrice.Amount()))
	}

	s := &Sale{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		SaleNumber:          saleNumber,
		PlotID:              plotID,
		ParcelID:            parcelID,
		ClientID:            clientID,
		ClientName:          clientName,
		ClientPhone:         clientPhone,
		TotalPrice:          totalPrice.Amount(),
		PaidAmount:          decimal.Zero,
		DueAmount:           totalPrice.Amount(),
		Status:              SaleStatusActive,
		SaleDate:            saleDate,
		Stages:              make([]Stage, 0, len(plan)),
		Installments:        make([]InstallmentLine, 0),
	}

	for i, sp := range plan {
		s.Stages = append(s.Stages, Stage{
			ID:             uuid.New(),
			SaleID:         s.ID,
			Name:           sp.Name,
			Sequence:       i + 1,
			PlannedAmount:  sp.PlannedAmount.Amount(),
			ReceivedAmount: decimal.Zero,
			DueAmount:      sp.PlannedAmount.Amount(),
			ExpectedDate:   sp.ExpectedDate,
			Status:         StageStatusPending,
		})
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// FindStage returns the stage with the given name, or nil
func (s *Sale) FindStage(name StageName) *Stage {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i]
		}
	}
	return nil
}

// ApplyPayment applies a received amount to the named stage and re-derives
// every dependent amount and status. For the Installments stage the amount
// is also waterfalled across the installment lines, oldest due date first.
func (s *Sale) ApplyPayment(stageName StageName, amount valueobject.Money, now time.Time) error {
	if !s.Status.CanReceivePayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to a %s sale", s.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	stage := s.FindStage(stageName)
	if stage == nil {
		return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Sale has no %s stage", stageName))
	}
	if amount.Amount().GreaterThan(stage.DueAmount) {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Payment %s exceeds stage due amount %s", amount.Amount(), stage.DueAmount))
	}

	stage.ReceivedAmount = stage.ReceivedAmount.Add(amount.Amount())

	if stageName == StageInstallments {
		s.applyToInstallments(amount.Amount(), now)
	}

	s.Recalculate(now)
	s.touch()

	s.AddDomainEvent(NewSalePaymentAppliedEvent(s, stageName, amount.Amount()))
	if s.Status == SaleStatusCompleted {
		s.AddDomainEvent(NewSaleCompletedEvent(s))
	}

	return nil
}

// Recalculate re-derives all dependent amounts and statuses in a fixed order:
// sale paid amount, sale due amount, per-stage due amount and status, then the
// sale status. It is idempotent and runs in full after every stage mutation
// rather than patching increments, so a re-run after a crash is safe.
func (s *Sale) Recalculate(now time.Time) {
	// (1) paid amount is the sum of stage received amounts
	paid := decimal.Zero
	for i := range s.Stages {
		paid = paid.Add(s.Stages[i].ReceivedAmount)
	}
	s.PaidAmount = paid

	// (2) sale due amount
	s.DueAmount = s.TotalPrice.Sub(s.PaidAmount)

	// (3) per-stage due amount and status
	for i := range s.Stages {
		st := &s.Stages[i]
		st.DueAmount = st.PlannedAmount.Sub(st.ReceivedAmount)
		switch {
		case st.ReceivedAmount.GreaterThanOrEqual(st.PlannedAmount):
			st.Status = StageStatusCompleted
			if st.CompletedDate == nil {
				completed := now
				st.CompletedDate = &completed
			}
		case st.ReceivedAmount.GreaterThan(decimal.Zero):
			st.Status = StageStatusPartial
		case st.ExpectedDate != nil && st.ExpectedDate.Before(now):
			st.Status = StageStatusOverdue
		default:
			st.Status = StageStatusPending
		}
	}

	// (4) sale status
	if s.Status == SaleStatusCancelled {
		return
	}
	if s.PaidAmount.GreaterThanOrEqual(s.TotalPrice) {
		if s.Status != SaleStatusCompleted {
			s.Status = SaleStatusCompleted
			completed := now
			s.CompletedAt = &completed
		}
	} else if s.Status == SaleStatusOnHold && s.PaidAmount.GreaterThan(decimal.Zero) {
		s.Status = SaleStatusActive
	}
}

// Cancel marks the sale as cancelled. Area reversal and settlement are
// orchestrated by the caller within the same unit of work.
func (s *Sale) Cancel(reason string, now time.Time) error {
	if !s.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	s.Status = SaleStatusCancelled
	cancelled := now
	s.CancelledAt = &cancelled
	s.CancelReason = reason
	s.touch()

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// Reinstate returns a cancelled sale to Active, used when the cancellation
// request is rejected by the approver.
func (s *Sale) Reinstate() error {
	if s.Status != SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only a cancelled sale can be reinstated")
	}

	s.Status = SaleStatusActive
	s.CancelledAt = nil
	s.CancelReason = ""
	s.touch()

	s.AddDomainEvent(NewSaleReinstatedEvent(s))

	return nil
}

// Hold suspends an active sale
func (s *Sale) Hold(reason string) error {
	if s.Status != SaleStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot hold sale in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Hold reason is required")
	}

	s.Status = SaleStatusOnHold
	s.Remark = reason
	s.touch()

	return nil
}

// Resume returns a held sale to Active
func (s *Sale) Resume() error {
	if s.Status != SaleStatusOnHold {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot resume sale in %s status", s.Status))
	}

	s.Status = SaleStatusActive
	s.touch()

	return nil
}

// GetTotalPriceMoney returns the total price as Money
func (s *Sale) GetTotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(s.TotalPrice)
}

// GetPaidAmountMoney returns the paid amount as Money
func (s *Sale) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(s.PaidAmount)
}

// GetDueAmountMoney returns the due amount as Money
func (s *Sale) GetDueAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(s.DueAmount)
}

// IsActive returns true if the sale is active
func (s *Sale) IsActive() bool {
	return s.Status == SaleStatusActive
}

// IsCompleted returns true if the sale is fully paid
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

func (s *Sale) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
