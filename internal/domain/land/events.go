package land

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParcelCreatedEvent is raised when a new land parcel is registered
type ParcelCreatedEvent struct {
	shared.BaseDomainEvent
	ParcelID     uuid.UUID       `json:"parcel_id"`
	ParcelNumber string          `json:"parcel_number"`
	Name         string          `json:"name"`
	TotalArea    decimal.Decimal `json:"total_area"`
}

// EventType returns the event type name
func (e *ParcelCreatedEvent) EventType() string {
	return "ParcelCreated"
}

// NewParcelCreatedEvent creates a new ParcelCreatedEvent
func NewParcelCreatedEvent(p *LandParcel) *ParcelCreatedEvent {
	return &ParcelCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ParcelCreated", "LandParcel", p.ID, p.BranchID),
		ParcelID:        p.ID,
		ParcelNumber:    p.ParcelNumber,
		Name:            p.Name,
		TotalArea:       p.TotalArea,
	}
}

// ParcelAreaChangedEvent is raised whenever the parcel's area ledger moves
type ParcelAreaChangedEvent struct {
	shared.BaseDomainEvent
	ParcelID      uuid.UUID       `json:"parcel_id"`
	ParcelNumber  string          `json:"parcel_number"`
	Operation     string          `json:"operation"` // ALLOCATE, SELL, RELEASE, REVERT_SALE
	Area          decimal.Decimal `json:"area"`
	SoldArea      decimal.Decimal `json:"sold_area"`
	AllocatedArea decimal.Decimal `json:"allocated_area"`
	RemainingArea decimal.Decimal `json:"remaining_area"`
}

// EventType returns the event type name
func (e *ParcelAreaChangedEvent) EventType() string {
	return "ParcelAreaChanged"
}

// NewParcelAreaChangedEvent creates a new ParcelAreaChangedEvent
func NewParcelAreaChangedEvent(p *LandParcel, operation string, area decimal.Decimal) *ParcelAreaChangedEvent {
	return &ParcelAreaChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ParcelAreaChanged", "LandParcel", p.ID, p.BranchID),
		ParcelID:        p.ID,
		ParcelNumber:    p.ParcelNumber,
		Operation:       operation,
		Area:            area,
		SoldArea:        p.SoldArea,
		AllocatedArea:   p.AllocatedArea,
		RemainingArea:   p.RemainingArea,
	}
}

// ParcelDeactivatedEvent is raised when a parcel is soft-deactivated
type ParcelDeactivatedEvent struct {
	shared.BaseDomainEvent
	ParcelID      uuid.UUID `json:"parcel_id"`
	ParcelNumber  string    `json:"parcel_number"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}

// EventType returns the event type name
func (e *ParcelDeactivatedEvent) EventType() string {
	return "ParcelDeactivated"
}

// NewParcelDeactivatedEvent creates a new ParcelDeactivatedEvent
func NewParcelDeactivatedEvent(p *LandParcel) *ParcelDeactivatedEvent {
	deactivatedAt := time.Now()
	if p.DeactivatedAt != nil {
		deactivatedAt = *p.DeactivatedAt
	}
	return &ParcelDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ParcelDeactivated", "LandParcel", p.ID, p.BranchID),
		ParcelID:        p.ID,
		ParcelNumber:    p.ParcelNumber,
		DeactivatedAt:   deactivatedAt,
	}
}

// PlotCreatedEvent is raised when a new plot is carved out of a parcel
type PlotCreatedEvent struct {
	shared.BaseDomainEvent
	PlotID     uuid.UUID       `json:"plot_id"`
	ParcelID   uuid.UUID       `json:"parcel_id"`
	PlotNumber string          `json:"plot_number"`
	Area       decimal.Decimal `json:"area"`
}

// EventType returns the event type name
func (e *PlotCreatedEvent) EventType() string {
	return "PlotCreated"
}

// NewPlotCreatedEvent creates a new PlotCreatedEvent
func NewPlotCreatedEvent(p *Plot) *PlotCreatedEvent {
	return &PlotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PlotCreated", "Plot", p.ID, p.BranchID),
		PlotID:          p.ID,
		ParcelID:        p.ParcelID,
		PlotNumber:      p.PlotNumber,
		Area:            p.Area,
	}
}

// PlotStatusChangedEvent is raised on every plot lifecycle transition
type PlotStatusChangedEvent struct {
	shared.BaseDomainEvent
	PlotID         uuid.UUID  `json:"plot_id"`
	ParcelID       uuid.UUID  `json:"parcel_id"`
	PlotNumber     string     `json:"plot_number"`
	PreviousStatus PlotStatus `json:"previous_status"`
	NewStatus      PlotStatus `json:"new_status"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
}

// EventType returns the event type name
func (e *PlotStatusChangedEvent) EventType() string {
	return "PlotStatusChanged"
}

// NewPlotStatusChangedEvent creates a new PlotStatusChangedEvent
func NewPlotStatusChangedEvent(p *Plot, previous PlotStatus) *PlotStatusChangedEvent {
	return &PlotStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PlotStatusChanged", "Plot", p.ID, p.BranchID),
		PlotID:          p.ID,
		ParcelID:        p.ParcelID,
		PlotNumber:      p.PlotNumber,
		PreviousStatus:  previous,
		NewStatus:       p.Status,
		ClientID:        p.ClientID,
	}
}
