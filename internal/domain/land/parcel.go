package land

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LandParcel represents a registered land unit (RS number) subdivided into plots.
// It is the aggregate root for area accounting: every plot allocation, sale and
// cancellation flows through the parcel's area ledger.
//
// Invariant: TotalArea = SoldArea + AllocatedArea + RemainingArea, and
// RemainingArea is never negative.
type LandParcel struct {
	shared.BranchAggregateRoot
	ParcelNumber  string          `json:"parcel_number"` // RS number
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	TotalArea     decimal.Decimal `json:"total_area"`     // square feet
	SoldArea      decimal.Decimal `json:"sold_area"`      // area under completed sales
	AllocatedArea decimal.Decimal `json:"allocated_area"` // area carved into plots not yet sold
	RemainingArea decimal.Decimal `json:"remaining_area"` // total - sold - allocated
	Active        bool            `json:"active"`
	DeactivatedAt *time.Time      `json:"deactivated_at"`
	Remark        string          `json:"remark"`
}

// NewLandParcel creates a new land parcel with the full area remaining
func NewLandParcel(branchID uuid.UUID, parcelNumber, name, location string, totalArea valueobject.Area) (*LandParcel, error) {
	if parcelNumber == "" {
		return nil, shared.NewDomainError("INVALID_PARCEL_NUMBER", "Parcel number cannot be empty")
	}
	if len(parcelNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PARCEL_NUMBER", "Parcel number cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Parcel name cannot be empty")
	}
	if !totalArea.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AREA", "Total area must be positive")
	}

	p := &LandParcel{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		ParcelNumber:        parcelNumber,
		Name:                name,
		Location:            location,
		TotalArea:           totalArea.Decimal(),
		SoldArea:            decimal.Zero,
		AllocatedArea:       decimal.Zero,
		RemainingArea:       totalArea.Decimal(),
		Active:              true,
	}

	p.AddDomainEvent(NewParcelCreatedEvent(p))

	return p, nil
}

// Allocate moves area from remaining to allocated (a plot is carved out)
func (p *LandParcel) Allocate(area valueobject.Area) error {
	if !p.Active {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate area on a deactivated parcel")
	}
	if !area.IsPositive() {
		return shared.NewDomainError("INVALID_AREA", "Allocation area must be positive")
	}
	if area.Decimal().GreaterThan(p.RemainingArea) {
		return shared.NewDomainError("INSUFFICIENT_AREA",
			fmt.Sprintf("Allocation of %s exceeds remaining area %s", area.Decimal(), p.RemainingArea))
	}

	p.AllocatedArea = p.AllocatedArea.Add(area.Decimal())
	p.RemainingArea = p.RemainingArea.Sub(area.Decimal())
	p.touch()

	p.AddDomainEvent(NewParcelAreaChangedEvent(p, "ALLOCATE", area.Decimal()))

	return p.checkConservation()
}

// Sell moves area from allocated to sold (a plot is sold).
// The net remaining area is unchanged.
func (p *LandParcel) Sell(area valueobject.Area) error {
	if !area.IsPositive() {
		return shared.NewDomainError("INVALID_AREA", "Sale area must be positive")
	}
	if area.Decimal().GreaterThan(p.AllocatedArea) {
		return shared.NewDomainError("INSUFFICIENT_AREA",
			fmt.Sprintf("Sale of %s exceeds allocated area %s", area.Decimal(), p.AllocatedArea))
	}

	p.AllocatedArea = p.AllocatedArea.Sub(area.Decimal())
	p.SoldArea = p.SoldArea.Add(area.Decimal())
	p.touch()

	p.AddDomainEvent(NewParcelAreaChangedEvent(p, "SELL", area.Decimal()))

	return p.checkConservation()
}

// Release reverses an allocation (a plot is deleted or resized while unsold)
func (p *LandParcel) Release(area valueobject.Area) error {
	if !area.IsPositive() {
		return shared.NewDomainError("INVALID_AREA", "Release area must be positive")
	}
	if area.Decimal().GreaterThan(p.AllocatedArea) {
		return shared.NewDomainError("INSUFFICIENT_AREA",
			fmt.Sprintf("Release of %s exceeds allocated area %s", area.Decimal(), p.AllocatedArea))
	}

	p.AllocatedArea = p.AllocatedArea.Sub(area.Decimal())
	p.RemainingArea = p.RemainingArea.Add(area.Decimal())
	p.touch()

	p.AddDomainEvent(NewParcelAreaChangedEvent(p, "RELEASE", area.Decimal()))

	return p.checkConservation()
}

// RevertSale moves area from sold back to allocated (a sale is cancelled)
func (p *LandParcel) RevertSale(area valueobject.Area) error {
	if !area.IsPositive() {
		return shared.NewDomainError("INVALID_AREA", "Revert area must be positive")
	}
	if area.Decimal().GreaterThan(p.SoldArea) {
		return shared.NewDomainError("INSUFFICIENT_AREA",
			fmt.Sprintf("Revert of %s exceeds sold area %s", area.Decimal(), p.SoldArea))
	}

	p.SoldArea = p.SoldArea.Sub(area.Decimal())
	p.AllocatedArea = p.AllocatedArea.Add(area.Decimal())
	p.touch()

	p.AddDomainEvent(NewParcelAreaChangedEvent(p, "REVERT_SALE", area.Decimal()))

	return p.checkConservation()
}

// Deactivate soft-deactivates the parcel. Parcels are never deleted.
// A parcel with allocated or sold area cannot be deactivated.
func (p *LandParcel) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("INVALID_STATE", "Parcel is already deactivated")
	}
	if p.AllocatedArea.GreaterThan(decimal.Zero) || p.SoldArea.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate a parcel with allocated or sold area")
	}

	now := time.Now()
	p.Active = false
	p.DeactivatedAt = &now
	p.touch()

	p.AddDomainEvent(NewParcelDeactivatedEvent(p))

	return nil
}

// UpdateDetails updates the descriptive fields of the parcel
func (p *LandParcel) UpdateDetails(name, location, remark string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Parcel name cannot be empty")
	}

	p.Name = name
	p.Location = location
	p.Remark = remark
	p.touch()

	return nil
}

// Helper methods

// GetTotalArea returns total area as Area value object
func (p *LandParcel) GetTotalArea() valueobject.Area {
	return valueobject.MustNewArea(p.TotalArea)
}

// GetRemainingArea returns remaining area as Area value object
func (p *LandParcel) GetRemainingArea() valueobject.Area {
	return valueobject.MustNewArea(p.RemainingArea)
}

// CanAllocate returns true if the remaining area covers the requested area
func (p *LandParcel) CanAllocate(area valueobject.Area) bool {
	return p.Active && p.RemainingArea.GreaterThanOrEqual(area.Decimal())
}

// IsFullySold returns true if the whole parcel has been sold
func (p *LandParcel) IsFullySold() bool {
	return p.SoldArea.Equal(p.TotalArea)
}

func (p *LandParcel) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// checkConservation verifies the area conservation invariant after a mutation.
// A failure here means a successful write would corrupt the ledger, so it is
// surfaced as INVARIANT_VIOLATION rather than silently corrected.
func (p *LandParcel) checkConservation() error {
	sum := p.SoldArea.Add(p.AllocatedArea).Add(p.RemainingArea)
	if !sum.Equal(p.TotalArea) || p.RemainingArea.IsNegative() {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			fmt.Sprintf("Parcel %s area ledger out of balance: total=%s sold=%s allocated=%s remaining=%s",
				p.ParcelNumber, p.TotalArea, p.SoldArea, p.AllocatedArea, p.RemainingArea))
	}
	return nil
}
