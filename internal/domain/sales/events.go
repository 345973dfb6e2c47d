package sales

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleCreatedEvent is published when a new sale is recorded
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string          `json:"sale_number"`
	PlotID     string          `json:"plot_id"`
	ClientID   string          `json:"client_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	SaleDate   time.Time       `json:"sale_date"`
}

// NewSaleCreatedEvent creates a new sale created event
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sale.created", "Sale", s.ID, s.BranchID),
		SaleNumber:      s.SaleNumber,
		PlotID:          s.PlotID.String(),
		ClientID:        s.ClientID.String(),
		TotalPrice:      s.TotalPrice,
		SaleDate:        s.SaleDate,
	}
}

// SalePaymentAppliedEvent is published when a payment is applied to a stage
type SalePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string          `json:"sale_number"`
	Stage      string          `json:"stage"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
}

// NewSalePaymentAppliedEvent creates a new payment applied event
func NewSalePaymentAppliedEvent(s *Sale, stage StageName, amount decimal.Decimal) *SalePaymentAppliedEvent {
	return &SalePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sale.payment_applied", "Sale", s.ID, s.BranchID),
		SaleNumber:      s.SaleNumber,
		Stage:           string(stage),
		Amount:          amount,
		PaidAmount:      s.PaidAmount,
		DueAmount:       s.DueAmount,
	}
}

// SaleCompletedEvent is published when a sale becomes fully paid
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string          `json:"sale_number"`
	ClientID   string          `json:"client_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewSaleCompletedEvent creates a new sale completed event
func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sale.completed", "Sale", s.ID, s.BranchID),
		SaleNumber:      s.SaleNumber,
		ClientID:        s.ClientID.String(),
		TotalPrice:      s.TotalPrice,
	}
}

// SaleCancelledEvent is published when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleNumber string          `json:"sale_number"`
	PlotID     string          `json:"plot_id"`
	ClientID   string          `json:"client_id"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Reason     string          `json:"reason"`
}

// NewSaleCancelledEvent creates a new sale cancelled event
func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sale.cancelled", "Sale", s.ID, s.BranchID),
		SaleNumber:      s.SaleNumber,
		PlotID:          s.PlotID.String(),
		ClientID:        s.ClientID.String(),
		PaidAmount:      s.PaidAmount,
		Reason:          s.CancelReason,
	}
}

// SaleReinstatedEvent is published when a cancelled sale is restored
type SaleReinstatedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string `json:"sale_number"`
	PlotID     string `json:"plot_id"`
}

// NewSaleReinstatedEvent creates a new sale reinstated event
func NewSaleReinstatedEvent(s *Sale) *SaleReinstatedEvent {
	return &SaleReinstatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sale.reinstated", "Sale", s.ID, s.BranchID),
		SaleNumber:      s.SaleNumber,
		PlotID:          s.PlotID.String(),
	}
}

// InstallmentScheduleGeneratedEvent is published when the installment
// schedule is generated or regenerated
type InstallmentScheduleGeneratedEvent struct {
	shared.BaseDomainEvent
	SaleNumber string    `json:"sale_number"`
	Count      int       `json:"count"`
	Frequency  string    `json:"frequency"`
	StartDate  time.Time `json:"start_date"`
}

// NewInstallmentScheduleGeneratedEvent creates a new schedule generated event
func NewInstallmentScheduleGeneratedEvent(s *Sale, count int, frequency string, startDate time.Time) *InstallmentScheduleGeneratedEvent {
	return &InstallmentScheduleGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sale.schedule_generated", "Sale", s.ID, s.BranchID),
		SaleNumber:      s.SaleNumber,
		Count:           count,
		Frequency:       frequency,
		StartDate:       startDate,
	}
}
