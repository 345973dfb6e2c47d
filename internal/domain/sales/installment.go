package sales

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentFrequency is the spacing between scheduled installments
type InstallmentFrequency string

const (
	FrequencyMonthly    InstallmentFrequency = "MONTHLY"
	FrequencyQuarterly  InstallmentFrequency = "QUARTERLY"
	FrequencyHalfYearly InstallmentFrequency = "HALF_YEARLY"
	FrequencyYearly     InstallmentFrequency = "YEARLY"
)

// IsValid checks if the frequency is a valid InstallmentFrequency
func (f InstallmentFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyHalfYearly, FrequencyYearly:
		return true
	}
	return false
}

// MonthInterval returns the number of months between two installments
func (f InstallmentFrequency) MonthInterval() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencyHalfYearly:
		return 6
	case FrequencyYearly:
		return 12
	default:
		return 1
	}
}

// InstallmentStatus represents the payment status of one installment line
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPartial InstallmentStatus = "PARTIAL"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
	InstallmentStatusMissed  InstallmentStatus = "MISSED"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPartial, InstallmentStatusOverdue,
		InstallmentStatusMissed, InstallmentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// An unpaid installment this many days past due counts as missed
const missedThresholdDays = 30

// InstallmentLine is one scheduled installment of a sale, owned by the
// Sale aggregate
type InstallmentLine struct {
	ID         uuid.UUID         `json:"id"`
	SaleID     uuid.UUID         `json:"sale_id"`
	Sequence   int               `json:"sequence"`
	DueDate    time.Time         `json:"due_date"`
	Amount     decimal.Decimal   `json:"amount"`
	PaidAmount decimal.Decimal   `json:"paid_amount"`
	Status     InstallmentStatus `json:"status"`
	PaidAt     *time.Time        `json:"paid_at"`
}

// IsPaid returns true if the line is fully paid
func (l *InstallmentLine) IsPaid() bool {
	return l.PaidAmount.GreaterThanOrEqual(l.Amount)
}

// Outstanding returns the unpaid remainder of the line
func (l *InstallmentLine) Outstanding() decimal.Decimal {
	out := l.Amount.Sub(l.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// refreshStatus re-derives the line status from paid amount and due date
func (l *InstallmentLine) refreshStatus(now time.Time) {
	switch {
	case l.IsPaid():
		l.Status = InstallmentStatusPaid
	case l.PaidAmount.GreaterThan(decimal.Zero):
		if l.DueDate.Before(now) {
			l.Status = InstallmentStatusOverdue
		} else {
			l.Status = InstallmentStatusPartial
		}
	case l.DueDate.Before(now):
		if now.Sub(l.DueDate) > missedThresholdDays*24*time.Hour {
			l.Status = InstallmentStatusMissed
		} else {
			l.Status = InstallmentStatusOverdue
		}
	default:
		l.Status = InstallmentStatusPending
	}
}

// GenerateInstallmentSchedule splits the Installments stage into count equal
// lines spaced by the given frequency starting from startDate. The planned
// amount is divided with remainder spreading so the lines sum exactly to the
// stage amount. Regeneration is allowed only while no installment payment has
// been received.
func (s *Sale) GenerateInstallmentSchedule(count int, frequency InstallmentFrequency, startDate time.Time) error {
	if count <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Installment count must be positive")
	}
	if !frequency.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown installment frequency %q", frequency))
	}
	if startDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Schedule start date is required")
	}

	stage := s.FindStage(StageInstallments)
	if stage == nil {
		return shared.NewDomainError("NOT_FOUND", "Sale has no installments stage")
	}
	if !stage.PlannedAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Installments stage has no planned amount")
	}
	if stage.ReceivedAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot regenerate schedule after payments have been received")
	}

	amounts, err := valueobject.NewMoneyBDT(stage.PlannedAmount).Allocate(count)
	if err != nil {
		return err
	}

	lines := make([]InstallmentLine, 0, count)
	interval := frequency.MonthInterval()
	for i := 0; i < count; i++ {
		lines = append(lines, InstallmentLine{
			ID:         uuid.New(),
			SaleID:     s.ID,
			Sequence:   i + 1,
			DueDate:    startDate.AddDate(0, i*interval, 0),
			Amount:     amounts[i].Amount(),
			PaidAmount: decimal.Zero,
			Status:     InstallmentStatusPending,
		})
	}

	s.Installments = lines
	s.touch()

	s.AddDomainEvent(NewInstallmentScheduleGeneratedEvent(s, count, string(frequency), startDate))

	return nil
}

// RefreshInstallmentStatuses re-derives every installment line status
// against the given point in time. Returns the number of lines whose
// status changed, so the caller can skip persisting untouched sales.
func (s *Sale) RefreshInstallmentStatuses(now time.Time) int {
	changed := 0
	for i := range s.Installments {
		before := s.Installments[i].Status
		s.Installments[i].refreshStatus(now)
		if s.Installments[i].Status != before {
			changed++
		}
	}
	if changed > 0 {
		s.touch()
	}
	return changed
}

// applyToInstallments waterfalls a received amount across the installment
// lines in due date order, filling each line before moving to the next
func (s *Sale) applyToInstallments(amount decimal.Decimal, now time.Time) {
	remaining := amount
	for i := range s.Installments {
		if !remaining.IsPositive() {
			break
		}
		line := &s.Installments[i]
		out := line.Outstanding()
		if !out.IsPositive() {
			continue
		}
		applied := decimal.Min(out, remaining)
		line.PaidAmount = line.PaidAmount.Add(applied)
		remaining = remaining.Sub(applied)
		if line.IsPaid() && line.PaidAt == nil {
			paidAt := now
			line.PaidAt = &paidAt
		}
	}
	s.RefreshInstallmentStatuses(now)
}

// OverdueInstallments returns the lines that are overdue or missed at the
// given point in time
func (s *Sale) OverdueInstallments(now time.Time) []InstallmentLine {
	var overdue []InstallmentLine
	for i := range s.Installments {
		l := s.Installments[i]
		if l.IsPaid() {
			continue
		}
		if l.DueDate.Before(now) {
			overdue = append(overdue, l)
		}
	}
	return overdue
}

// NextDueInstallment returns the earliest unpaid line, or nil if the
// schedule is fully paid or empty
func (s *Sale) NextDueInstallment() *InstallmentLine {
	for i := range s.Installments {
		if !s.Installments[i].IsPaid() {
			return &s.Installments[i]
		}
	}
	return nil
}
