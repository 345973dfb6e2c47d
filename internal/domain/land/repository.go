package land

import (
	"context"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ParcelFilter defines filtering options for parcel queries
type ParcelFilter struct {
	shared.Filter
	Active        *bool // Filter by active flag
	HasRemaining  *bool // Filter parcels with remaining area
	LocationMatch string
}

// LandParcelRepository defines the interface for land parcel persistence
type LandParcelRepository interface {
	// FindByID finds a parcel by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LandParcel, error)

	// FindByIDForBranch finds a parcel by ID for a specific branch
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*LandParcel, error)

	// FindByParcelNumber finds by RS number for a branch
	FindByParcelNumber(ctx context.Context, branchID uuid.UUID, parcelNumber string) (*LandParcel, error)

	// FindAllForBranch finds all parcels for a branch with filtering
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter ParcelFilter) ([]LandParcel, error)

	// Save creates or updates a parcel
	Save(ctx context.Context, parcel *LandParcel) error

	// SaveWithLock saves with optimistic locking (version check).
	// Concurrent area mutations against the same parcel must be serialized
	// through this method so two plots cannot both pass the remaining-area
	// check on stale reads.
	SaveWithLock(ctx context.Context, parcel *LandParcel) error

	// CountForBranch counts parcels for a branch
	CountForBranch(ctx context.Context, branchID uuid.UUID, filter ParcelFilter) (int64, error)
}

// PlotFilter defines filtering options for plot queries
type PlotFilter struct {
	shared.Filter
	ParcelID *uuid.UUID
	Status   *PlotStatus
	ClientID *uuid.UUID
}

// PlotRepository defines the interface for plot persistence
type PlotRepository interface {
	// FindByID finds a plot by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Plot, error)

	// FindByIDForBranch finds a plot by ID for a specific branch
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Plot, error)

	// FindByPlotNumber finds a plot by number within a parcel
	FindByPlotNumber(ctx context.Context, branchID, parcelID uuid.UUID, plotNumber string) (*Plot, error)

	// FindAllForBranch finds all plots for a branch with filtering
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter PlotFilter) ([]Plot, error)

	// FindByParcel finds all plots under a parcel
	FindByParcel(ctx context.Context, branchID, parcelID uuid.UUID) ([]Plot, error)

	// Save creates or updates a plot
	Save(ctx context.Context, plot *Plot) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, plot *Plot) error

	// Delete removes a plot. Implementations must refuse Sold plots.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForBranch counts plots for a branch
	CountForBranch(ctx context.Context, branchID uuid.UUID, filter PlotFilter) (int64, error)

	// CountByStatus counts plots by status for a branch
	CountByStatus(ctx context.Context, branchID uuid.UUID, status PlotStatus) (int64, error)
}
