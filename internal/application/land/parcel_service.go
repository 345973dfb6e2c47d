package land

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/land"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ParcelService handles land parcel registration and the area ledger queries
type ParcelService struct {
	parcelRepo     land.LandParcelRepository
	plotRepo       land.PlotRepository
	eventPublisher shared.EventPublisher
}

// NewParcelService creates a new ParcelService
func NewParcelService(parcelRepo land.LandParcelRepository, plotRepo land.PlotRepository) *ParcelService {
	return &ParcelService{
		parcelRepo: parcelRepo,
		plotRepo:   plotRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ParcelService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new land parcel
func (s *ParcelService) Create(ctx context.Context, branchID uuid.UUID, req CreateParcelRequest) (*ParcelResponse, error) {
	existing, err := s.parcelRepo.FindByParcelNumber(ctx, branchID, req.ParcelNumber)
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Parcel %s already exists", req.ParcelNumber))
	}

	totalArea, err := valueobject.NewArea(req.TotalArea)
	if err != nil {
		return nil, err
	}

	parcel, err := land.NewLandParcel(branchID, req.ParcelNumber, req.Name, req.Location, totalArea)
	if err != nil {
		return nil, err
	}

	if err := s.parcelRepo.Save(ctx, parcel); err != nil {
		return nil, fmt.Errorf("failed to save parcel: %w", err)
	}

	s.publishDomainEvents(ctx, parcel)

	response := ToParcelResponse(parcel)
	return &response, nil
}

// GetByID retrieves a parcel by ID
func (s *ParcelService) GetByID(ctx context.Context, branchID, parcelID uuid.UUID) (*ParcelResponse, error) {
	parcel, err := s.parcelRepo.FindByIDForBranch(ctx, branchID, parcelID)
	if err != nil {
		return nil, err
	}
	response := ToParcelResponse(parcel)
	return &response, nil
}

// List retrieves parcels with filtering and pagination
func (s *ParcelService) List(ctx context.Context, branchID uuid.UUID, filter ParcelListFilter) ([]ParcelResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	domainFilter := land.ParcelFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		Active: filter.Active,
	}

	parcels, err := s.parcelRepo.FindAllForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.parcelRepo.CountForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ParcelResponse, len(parcels))
	for i := range parcels {
		responses[i] = ToParcelResponse(&parcels[i])
	}
	return responses, total, nil
}

// Update changes the descriptive details of a parcel
func (s *ParcelService) Update(ctx context.Context, branchID, parcelID uuid.UUID, req UpdateParcelRequest) (*ParcelResponse, error) {
	parcel, err := s.parcelRepo.FindByIDForBranch(ctx, branchID, parcelID)
	if err != nil {
		return nil, err
	}

	if err := parcel.UpdateDetails(req.Name, req.Location, ""); err != nil {
		return nil, err
	}

	if err := s.parcelRepo.SaveWithLock(ctx, parcel); err != nil {
		return nil, fmt.Errorf("failed to save parcel: %w", err)
	}

	response := ToParcelResponse(parcel)
	return &response, nil
}

// Deactivate retires a parcel that has no outstanding allocations
func (s *ParcelService) Deactivate(ctx context.Context, branchID, parcelID uuid.UUID) error {
	parcel, err := s.parcelRepo.FindByIDForBranch(ctx, branchID, parcelID)
	if err != nil {
		return err
	}

	if err := parcel.Deactivate(); err != nil {
		return err
	}

	if err := s.parcelRepo.SaveWithLock(ctx, parcel); err != nil {
		return fmt.Errorf("failed to save parcel: %w", err)
	}

	s.publishDomainEvents(ctx, parcel)

	return nil
}

func (s *ParcelService) publishDomainEvents(ctx context.Context, parcel *land.LandParcel) {
	if s.eventPublisher == nil {
		return
	}
	events := parcel.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	parcel.ClearDomainEvents()
}
