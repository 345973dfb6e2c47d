package persistence

import (
	"context"
	"errors"

	"github.com/estate/backend/internal/domain/land"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormParcelRepository implements LandParcelRepository using GORM
type GormParcelRepository struct {
	db *gorm.DB
}

// NewGormParcelRepository creates a new GormParcelRepository
func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

func (r *GormParcelRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a parcel by its ID
func (r *GormParcelRepository) FindByID(ctx context.Context, id uuid.UUID) (*land.LandParcel, error) {
	var model models.LandParcelModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBranch finds a parcel by ID within a branch
func (r *GormParcelRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*land.LandParcel, error) {
	var model models.LandParcelModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND id = ?", branchID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByParcelNumber finds a parcel by its RS number within a branch
func (r *GormParcelRepository) FindByParcelNumber(ctx context.Context, branchID uuid.UUID, parcelNumber string) (*land.LandParcel, error) {
	var model models.LandParcelModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND parcel_number = ?", branchID, parcelNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForBranch finds all parcels for a branch matching the filter
func (r *GormParcelRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter land.ParcelFilter) ([]land.LandParcel, error) {
	var parcelModels []models.LandParcelModel
	query := r.applyFilter(r.conn(ctx).Model(&models.LandParcelModel{}).Where("branch_id = ?", branchID), filter)

	if err := query.Find(&parcelModels).Error; err != nil {
		return nil, err
	}

	parcels := make([]land.LandParcel, len(parcelModels))
	for i := range parcelModels {
		parcels[i] = *parcelModels[i].ToDomain()
	}
	return parcels, nil
}

// Save creates or updates a parcel
func (r *GormParcelRepository) Save(ctx context.Context, parcel *land.LandParcel) error {
	model := models.LandParcelModelFromDomain(parcel)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	parcel.MarkStored(parcel.Version)
	return nil
}

// SaveWithLock saves a parcel guarded by the version it was read at.
// Concurrent area mutations fail here instead of corrupting the area
// ledger.
func (r *GormParcelRepository) SaveWithLock(ctx context.Context, parcel *land.LandParcel) error {
	model := models.LandParcelModelFromDomain(parcel)
	return lockedSave(r.conn(ctx), &models.LandParcelModel{}, parcel, model)
}

// CountForBranch counts parcels for a branch matching the filter
func (r *GormParcelRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter land.ParcelFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.LandParcelModel{}).Where("branch_id = ?", branchID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormParcelRepository) applyFilter(query *gorm.DB, filter land.ParcelFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order("parcel_number ASC")
}

func (r *GormParcelRepository) applyFilterWithoutPagination(query *gorm.DB, filter land.ParcelFilter) *gorm.DB {
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.HasRemaining != nil && *filter.HasRemaining {
		query = query.Where("remaining_area > 0")
	}
	if filter.LocationMatch != "" {
		query = query.Where("location ILIKE ?", "%"+filter.LocationMatch+"%")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("parcel_number ILIKE ? OR name ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}
	return query
}
