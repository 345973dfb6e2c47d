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

// GormPlotRepository implements PlotRepository using GORM
type GormPlotRepository struct {
	db *gorm.DB
}

// NewGormPlotRepository creates a new GormPlotRepository
func NewGormPlotRepository(db *gorm.DB) *GormPlotRepository {
	return &GormPlotRepository{db: db}
}

func (r *GormPlotRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a plot by its ID
func (r *GormPlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*land.Plot, error) {
	var model models.PlotModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBranch finds a plot by ID within a branch
func (r *GormPlotRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*land.Plot, error) {
	var model models.PlotModel
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

// FindByPlotNumber finds a plot by number within a parcel
func (r *GormPlotRepository) FindByPlotNumber(ctx context.Context, branchID, parcelID uuid.UUID, plotNumber string) (*land.Plot, error) {
	var model models.PlotModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND parcel_id = ? AND plot_number = ?", branchID, parcelID, plotNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForBranch finds all plots for a branch matching the filter
func (r *GormPlotRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter land.PlotFilter) ([]land.Plot, error) {
	var plotModels []models.PlotModel
	query := r.applyFilter(r.conn(ctx).Model(&models.PlotModel{}).Where("branch_id = ?", branchID), filter)

	if err := query.Find(&plotModels).Error; err != nil {
		return nil, err
	}

	plots := make([]land.Plot, len(plotModels))
	for i := range plotModels {
		plots[i] = *plotModels[i].ToDomain()
	}
	return plots, nil
}

// FindByParcel finds all plots under a parcel
func (r *GormPlotRepository) FindByParcel(ctx context.Context, branchID, parcelID uuid.UUID) ([]land.Plot, error) {
	var plotModels []models.PlotModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND parcel_id = ?", branchID, parcelID).
		Order("plot_number ASC").
		Find(&plotModels).Error; err != nil {
		return nil, err
	}

	plots := make([]land.Plot, len(plotModels))
	for i := range plotModels {
		plots[i] = *plotModels[i].ToDomain()
	}
	return plots, nil
}

// Save creates or updates a plot
func (r *GormPlotRepository) Save(ctx context.Context, plot *land.Plot) error {
	model := models.PlotModelFromDomain(plot)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	plot.MarkStored(plot.Version)
	return nil
}

// SaveWithLock saves a plot guarded by the version it was read at
func (r *GormPlotRepository) SaveWithLock(ctx context.Context, plot *land.Plot) error {
	model := models.PlotModelFromDomain(plot)
	return lockedSave(r.conn(ctx), &models.PlotModel{}, plot, model)
}

// Delete removes a plot. Sold plots are refused.
func (r *GormPlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).
		Where("id = ? AND status <> ?", id, string(land.PlotStatusSold)).
		Delete(&models.PlotModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForBranch counts plots for a branch matching the filter
func (r *GormPlotRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter land.PlotFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.PlotModel{}).Where("branch_id = ?", branchID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts plots in one status for a branch
func (r *GormPlotRepository) CountByStatus(ctx context.Context, branchID uuid.UUID, status land.PlotStatus) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.PlotModel{}).
		Where("branch_id = ? AND status = ?", branchID, string(status)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPlotRepository) applyFilter(query *gorm.DB, filter land.PlotFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order("plot_number ASC")
}

func (r *GormPlotRepository) applyFilterWithoutPagination(query *gorm.DB, filter land.PlotFilter) *gorm.DB {
	if filter.ParcelID != nil {
		query = query.Where("parcel_id = ?", *filter.ParcelID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Search != "" {
		query = query.Where("plot_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}
