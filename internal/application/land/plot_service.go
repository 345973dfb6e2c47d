package land

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/land"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PlotService handles plot lifecycle operations. Every mutation that moves
// area also touches the owning parcel, so those run inside one transaction.
type PlotService struct {
	plotRepo       land.PlotRepository
	parcelRepo     land.LandParcelRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
}

// NewPlotService creates a new PlotService
func NewPlotService(
	plotRepo land.PlotRepository,
	parcelRepo land.LandParcelRepository,
	txManager shared.TransactionManager,
) *PlotService {
	return &PlotService{
		plotRepo:   plotRepo,
		parcelRepo: parcelRepo,
		txManager:  txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PlotService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create carves a plot out of a parcel, allocating its area on the parcel
// ledger in the same transaction.
func (s *PlotService) Create(ctx context.Context, branchID uuid.UUID, req CreatePlotRequest) (*PlotResponse, error) {
	area, err := valueobject.NewArea(req.Area)
	if err != nil {
		return nil, err
	}

	var plot *land.Plot
	var parcel *land.LandParcel
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		parcel, err = s.parcelRepo.FindByIDForBranch(txCtx, branchID, req.ParcelID)
		if err != nil {
			return err
		}

		existing, err := s.plotRepo.FindByPlotNumber(txCtx, branchID, req.ParcelID, req.PlotNumber)
		if err == nil && existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Plot %s already exists in this parcel", req.PlotNumber))
		}

		plot, err = land.NewPlot(branchID, req.ParcelID, req.PlotNumber, area)
		if err != nil {
			return err
		}
		plot.Facing = req.Facing
		plot.Remark = req.Remark

		if err := parcel.Allocate(area); err != nil {
			return err
		}

		if err := s.parcelRepo.SaveWithLock(txCtx, parcel); err != nil {
			return fmt.Errorf("failed to save parcel: %w", err)
		}
		if err := s.plotRepo.Save(txCtx, plot); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, plot, parcel)

	response := ToPlotResponse(plot)
	return &response, nil
}

// Reserve holds an available plot
func (s *PlotService) Reserve(ctx context.Context, branchID, plotID uuid.UUID) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByIDForBranch(ctx, branchID, plotID)
	if err != nil {
		return nil, err
	}

	if err := plot.Reserve(); err != nil {
		return nil, err
	}

	if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
		return nil, fmt.Errorf("failed to save plot: %w", err)
	}

	s.publishDomainEvents(ctx, plot, nil)

	response := ToPlotResponse(plot)
	return &response, nil
}

// Block withholds a plot from sale
func (s *PlotService) Block(ctx context.Context, branchID, plotID uuid.UUID, reason string) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByIDForBranch(ctx, branchID, plotID)
	if err != nil {
		return nil, err
	}

	if err := plot.Block(reason); err != nil {
		return nil, err
	}

	if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
		return nil, fmt.Errorf("failed to save plot: %w", err)
	}

	s.publishDomainEvents(ctx, plot, nil)

	response := ToPlotResponse(plot)
	return &response, nil
}

// Unblock returns a blocked plot to the market
func (s *PlotService) Unblock(ctx context.Context, branchID, plotID uuid.UUID) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByIDForBranch(ctx, branchID, plotID)
	if err != nil {
		return nil, err
	}

	if err := plot.Unblock(); err != nil {
		return nil, err
	}

	if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
		return nil, fmt.Errorf("failed to save plot: %w", err)
	}

	s.publishDomainEvents(ctx, plot, nil)

	response := ToPlotResponse(plot)
	return &response, nil
}

// Delete removes an unsold plot and releases its allocated area back to the
// parcel in the same transaction.
func (s *PlotService) Delete(ctx context.Context, branchID, plotID uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		plot, err := s.plotRepo.FindByIDForBranch(txCtx, branchID, plotID)
		if err != nil {
			return err
		}
		if !plot.CanDelete() {
			return shared.NewDomainError("INVALID_STATE", "Sold plots cannot be deleted")
		}

		parcel, err := s.parcelRepo.FindByIDForBranch(txCtx, branchID, plot.ParcelID)
		if err != nil {
			return err
		}
		if err := parcel.Release(plot.GetArea()); err != nil {
			return err
		}

		if err := s.parcelRepo.SaveWithLock(txCtx, parcel); err != nil {
			return fmt.Errorf("failed to save parcel: %w", err)
		}
		if err := s.plotRepo.Delete(txCtx, plot.ID); err != nil {
			return fmt.Errorf("failed to delete plot: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a plot by ID
func (s *PlotService) GetByID(ctx context.Context, branchID, plotID uuid.UUID) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByIDForBranch(ctx, branchID, plotID)
	if err != nil {
		return nil, err
	}
	response := ToPlotResponse(plot)
	return &response, nil
}

// List retrieves plots with filtering and pagination
func (s *PlotService) List(ctx context.Context, branchID uuid.UUID, filter PlotListFilter) ([]PlotResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	domainFilter := land.PlotFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
	}
	if filter.ParcelID != "" {
		parcelID, err := uuid.Parse(filter.ParcelID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid parcel ID")
		}
		domainFilter.ParcelID = &parcelID
	}
	if filter.Status != "" {
		status := land.PlotStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown plot status %q", filter.Status))
		}
		domainFilter.Status = &status
	}

	plots, err := s.plotRepo.FindAllForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.plotRepo.CountForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PlotResponse, len(plots))
	for i := range plots {
		responses[i] = ToPlotResponse(&plots[i])
	}
	return responses, total, nil
}

func (s *PlotService) publishDomainEvents(ctx context.Context, plot *land.Plot, parcel *land.LandParcel) {
	if s.eventPublisher == nil {
		return
	}
	if plot != nil {
		if events := plot.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			plot.ClearDomainEvents()
		}
	}
	if parcel != nil {
		if events := parcel.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			parcel.ClearDomainEvents()
		}
	}
}
