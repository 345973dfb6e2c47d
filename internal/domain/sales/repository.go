package sales

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleFilter captures the query options for listing sales
type SaleFilter struct {
	shared.Filter
	Status   *SaleStatus
	ClientID *uuid.UUID
	PlotID   *uuid.UUID
	ParcelID *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

// SaleRepository defines the persistence interface for the sale aggregate.
// Implementations load and save the sale together with its stages and
// installment lines.
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Sale, error)
	FindBySaleNumber(ctx context.Context, branchID uuid.UUID, saleNumber string) (*Sale, error)
	FindByPlot(ctx context.Context, branchID, plotID uuid.UUID) ([]*Sale, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter SaleFilter) ([]*Sale, error)
	// FindWithDueInstallments returns active sales that have at least one
	// unpaid installment line due on or before the given date.
	FindWithDueInstallments(ctx context.Context, branchID uuid.UUID, dueBefore time.Time) ([]*Sale, error)
	Save(ctx context.Context, sale *Sale) error
	// SaveWithLock persists the sale guarded by its version and fails with
	// CONCURRENCY_CONFLICT when another writer got there first.
	SaveWithLock(ctx context.Context, sale *Sale) error
	CountForBranch(ctx context.Context, branchID uuid.UUID, filter SaleFilter) (int64, error)
}
