package land

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlotStatus represents the lifecycle status of a plot
type PlotStatus string

const (
	PlotStatusAvailable PlotStatus = "AVAILABLE" // Open for reservation or sale
	PlotStatusReserved  PlotStatus = "RESERVED"  // Held for a client, not yet sold
	PlotStatusSold      PlotStatus = "SOLD"      // Sold to a client
	PlotStatusBlocked   PlotStatus = "BLOCKED"   // Withheld from sale
)

// IsValid checks if the status is a valid PlotStatus
func (s PlotStatus) IsValid() bool {
	switch s {
	case PlotStatusAvailable, PlotStatusReserved, PlotStatusSold, PlotStatusBlocked:
		return true
	}
	return false
}

// String returns the string representation of PlotStatus
func (s PlotStatus) String() string {
	return string(s)
}

// CanReserve returns true if the plot can be reserved in this status
func (s PlotStatus) CanReserve() bool {
	return s == PlotStatusAvailable
}

// CanSell returns true if the plot can be sold in this status
func (s PlotStatus) CanSell() bool {
	return s == PlotStatusAvailable || s == PlotStatusReserved
}

// CanBlock returns true if the plot can be blocked in this status
func (s PlotStatus) CanBlock() bool {
	return s == PlotStatusAvailable || s == PlotStatusReserved
}

// Plot represents a sellable subdivision of a land parcel.
//
// Invariant: a Sold plot always carries its owning client and sale date;
// a plot in any other status carries neither.
type Plot struct {
	shared.BranchAggregateRoot
	ParcelID        uuid.UUID       `json:"parcel_id"`
	PlotNumber      string          `json:"plot_number"`
	Area            decimal.Decimal `json:"area"` // square feet
	Status          PlotStatus      `json:"status"`
	ClientID        *uuid.UUID      `json:"client_id"`        // present iff Sold
	SaleDate        *time.Time      `json:"sale_date"`        // present iff Sold
	ReservationDate *time.Time      `json:"reservation_date"` // set on Reserved
	Facing          string          `json:"facing"`
	Remark          string          `json:"remark"`
}

// NewPlot creates a new plot in Available status.
// The caller is responsible for allocating the area on the owning parcel
// within the same unit of work.
func NewPlot(branchID, parcelID uuid.UUID, plotNumber string, area valueobject.Area) (*Plot, error) {
	if parcelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARCEL", "Parcel ID cannot be empty")
	}
	if plotNumber == "" {
		return nil, shared.NewDomainError("INVALID_PLOT_NUMBER", "Plot number cannot be empty")
	}
	if len(plotNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PLOT_NUMBER", "Plot number cannot exceed 50 characters")
	}
	if !area.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AREA", "Plot area must be positive")
	}

	plot := &Plot{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		ParcelID:            parcelID,
		PlotNumber:          plotNumber,
		Area:                area.Decimal(),
		Status:              PlotStatusAvailable,
	}

	plot.AddDomainEvent(NewPlotCreatedEvent(plot))

	return plot, nil
}

// Reserve moves the plot from Available to Reserved
func (p *Plot) Reserve() error {
	if !p.Status.CanReserve() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reserve plot in %s status", p.Status))
	}

	now := time.Now()
	previous := p.Status
	p.Status = PlotStatusReserved
	p.ReservationDate = &now
	p.touch()

	p.AddDomainEvent(NewPlotStatusChangedEvent(p, previous))

	return nil
}

// MarkSold moves the plot to Sold, attaching the owning client and sale date.
// The caller must move the area from allocated to sold on the owning parcel
// within the same unit of work.
func (p *Plot) MarkSold(clientID uuid.UUID, saleDate time.Time) error {
	if !p.Status.CanSell() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot sell plot in %s status", p.Status))
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID is required to sell a plot")
	}
	if saleDate.IsZero() {
		return shared.NewDomainError("INVALID_SALE_DATE", "Sale date is required to sell a plot")
	}

	previous := p.Status
	p.Status = PlotStatusSold
	p.ClientID = &clientID
	p.SaleDate = &saleDate
	p.touch()

	p.AddDomainEvent(NewPlotStatusChangedEvent(p, previous))

	return nil
}

// RevertToAvailable moves a Sold or Reserved plot back to Available,
// clearing client, sale date and reservation date. Used on sale cancellation.
// The caller must revert the parcel's sold area within the same unit of work.
func (p *Plot) RevertToAvailable() error {
	if p.Status == PlotStatusAvailable {
		return shared.NewDomainError("INVALID_STATE", "Plot is already available")
	}
	if p.Status == PlotStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "Cannot revert a blocked plot; unblock it instead")
	}

	previous := p.Status
	p.Status = PlotStatusAvailable
	p.ClientID = nil
	p.SaleDate = nil
	p.ReservationDate = nil
	p.touch()

	p.AddDomainEvent(NewPlotStatusChangedEvent(p, previous))

	return nil
}

// Block withholds the plot from sale
func (p *Plot) Block(reason string) error {
	if !p.Status.CanBlock() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot block plot in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Block reason is required")
	}

	previous := p.Status
	p.Status = PlotStatusBlocked
	p.ClientID = nil
	p.SaleDate = nil
	p.ReservationDate = nil
	p.Remark = reason
	p.touch()

	p.AddDomainEvent(NewPlotStatusChangedEvent(p, previous))

	return nil
}

// Unblock returns a blocked plot to Available
func (p *Plot) Unblock() error {
	if p.Status != PlotStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot unblock plot in %s status", p.Status))
	}

	previous := p.Status
	p.Status = PlotStatusAvailable
	p.touch()

	p.AddDomainEvent(NewPlotStatusChangedEvent(p, previous))

	return nil
}

// CanDelete returns true if the plot may be removed.
// Sold plots can never be deleted; their area must be reverted first.
func (p *Plot) CanDelete() bool {
	return p.Status != PlotStatusSold
}

// GetArea returns the plot area as Area value object
func (p *Plot) GetArea() valueobject.Area {
	return valueobject.MustNewArea(p.Area)
}

// IsSold returns true if the plot is sold
func (p *Plot) IsSold() bool {
	return p.Status == PlotStatusSold
}

func (p *Plot) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
