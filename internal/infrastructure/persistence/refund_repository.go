package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRefundRepository implements RefundRepository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

func (r *GormRefundRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *GormRefundRepository) toDomain(ctx context.Context, model *models.RefundModel) (*finance.Refund, error) {
	history, err := loadApprovalHistory(r.conn(ctx), model.ID, models.ApprovalDocRefund)
	if err != nil {
		return nil, err
	}
	model.History = history
	return model.ToDomain(), nil
}

// FindByID finds a refund by its ID
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Refund, error) {
	var model models.RefundModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindByIDForBranch finds a refund by ID within a branch
func (r *GormRefundRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Refund, error) {
	var model models.RefundModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND id = ?", branchID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindByCancellation finds all refund payouts under a settlement in
// schedule order
func (r *GormRefundRepository) FindByCancellation(ctx context.Context, branchID, cancellationID uuid.UUID) ([]*finance.Refund, error) {
	var refundModels []models.RefundModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND cancellation_id = ?", branchID, cancellationID).
		Order("sequence ASC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	refunds := make([]*finance.Refund, len(refundModels))
	for i := range refundModels {
		refunds[i] = refundModels[i].ToDomain()
	}
	return refunds, nil
}

// FindDueUnpaid returns approved, unpaid refunds due on or before the given date
func (r *GormRefundRepository) FindDueUnpaid(ctx context.Context, branchID uuid.UUID, dueBefore time.Time) ([]*finance.Refund, error) {
	var refundModels []models.RefundModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND status = ? AND paid = false AND due_date <= ?",
			branchID, string(finance.ApprovalStatusApproved), dueBefore).
		Order("due_date ASC, sequence ASC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	refunds := make([]*finance.Refund, len(refundModels))
	for i := range refundModels {
		refunds[i] = refundModels[i].ToDomain()
	}
	return refunds, nil
}

// Save creates or updates a refund together with its approval trail
func (r *GormRefundRepository) Save(ctx context.Context, refund *finance.Refund) error {
	model := models.RefundModelFromDomain(refund)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := saveApprovalHistory(tx, model.History); err != nil {
			return err
		}
		refund.MarkStored(refund.Version)
		return nil
	})
}

// SaveWithLock saves a refund guarded by the version it was read at
func (r *GormRefundRepository) SaveWithLock(ctx context.Context, refund *finance.Refund) error {
	model := models.RefundModelFromDomain(refund)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockedSave(tx, &models.RefundModel{}, refund, model); err != nil {
			return err
		}
		return saveApprovalHistory(tx, model.History)
	})
}
