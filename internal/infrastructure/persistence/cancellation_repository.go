package persistence

import (
	"context"
	"errors"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCancellationRepository implements CancellationRepository using GORM
type GormCancellationRepository struct {
	db *gorm.DB
}

// NewGormCancellationRepository creates a new GormCancellationRepository
func NewGormCancellationRepository(db *gorm.DB) *GormCancellationRepository {
	return &GormCancellationRepository{db: db}
}

func (r *GormCancellationRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a cancellation by its ID
func (r *GormCancellationRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Cancellation, error) {
	var model models.CancellationModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBranch finds a cancellation by ID within a branch
func (r *GormCancellationRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Cancellation, error) {
	var model models.CancellationModel
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

// FindBySale finds the cancellation opened for a sale. The unique index on
// (branch, sale) backs the one-cancellation-per-sale rule.
func (r *GormCancellationRepository) FindBySale(ctx context.Context, branchID, saleID uuid.UUID) (*finance.Cancellation, error) {
	var model models.CancellationModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND sale_id = ?", branchID, saleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForBranch finds cancellations for a branch, optionally by status
func (r *GormCancellationRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, status *finance.CancellationStatus, filter shared.Filter) ([]*finance.Cancellation, error) {
	var cancellationModels []models.CancellationModel
	query := r.conn(ctx).Model(&models.CancellationModel{}).Where("branch_id = ?", branchID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sale_number ILIKE ? OR client_name ILIKE ?", pattern, pattern)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Order("requested_at DESC").Find(&cancellationModels).Error; err != nil {
		return nil, err
	}
	cancellations := make([]*finance.Cancellation, len(cancellationModels))
	for i := range cancellationModels {
		cancellations[i] = cancellationModels[i].ToDomain()
	}
	return cancellations, nil
}

// Save creates or updates a cancellation
func (r *GormCancellationRepository) Save(ctx context.Context, cancellation *finance.Cancellation) error {
	model := models.CancellationModelFromDomain(cancellation)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	cancellation.MarkStored(cancellation.Version)
	return nil
}

// SaveWithLock saves a cancellation guarded by the version it was read at
func (r *GormCancellationRepository) SaveWithLock(ctx context.Context, cancellation *finance.Cancellation) error {
	model := models.CancellationModelFromDomain(cancellation)
	return lockedSave(r.conn(ctx), &models.CancellationModel{}, cancellation, model)
}
