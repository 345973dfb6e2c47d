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

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *GormReceiptRepository) toDomain(ctx context.Context, model *models.ReceiptModel) (*finance.Receipt, error) {
	history, err := loadApprovalHistory(r.conn(ctx), model.ID, models.ApprovalDocReceipt)
	if err != nil {
		return nil, err
	}
	model.History = history
	return model.ToDomain(), nil
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receipt, error) {
	var model models.ReceiptModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindByIDForBranch finds a receipt by ID within a branch
func (r *GormReceiptRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Receipt, error) {
	var model models.ReceiptModel
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

// FindByReceiptNumber finds a receipt by document number within a branch
func (r *GormReceiptRepository) FindByReceiptNumber(ctx context.Context, branchID uuid.UUID, receiptNumber string) (*finance.Receipt, error) {
	var model models.ReceiptModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND receipt_number = ?", branchID, receiptNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindBySale finds all receipts recorded against a sale
func (r *GormReceiptRepository) FindBySale(ctx context.Context, branchID, saleID uuid.UUID) ([]*finance.Receipt, error) {
	var receiptModels []models.ReceiptModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND sale_id = ?", branchID, saleID).
		Order("receipt_date ASC, receipt_number ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	receipts := make([]*finance.Receipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// FindAllForBranch finds all receipts for a branch matching the filter.
// The approval trail is not loaded for list views.
func (r *GormReceiptRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ReceiptFilter) ([]*finance.Receipt, error) {
	var receiptModels []models.ReceiptModel
	query := r.applyFilter(r.conn(ctx).Model(&models.ReceiptModel{}).Where("branch_id = ?", branchID), filter)

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	receipts := make([]*finance.Receipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// Save creates or updates a receipt together with its approval trail
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *finance.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := saveApprovalHistory(tx, model.History); err != nil {
			return err
		}
		receipt.MarkStored(receipt.Version)
		return nil
	})
}

// SaveWithLock saves a receipt guarded by the version it was read at
func (r *GormReceiptRepository) SaveWithLock(ctx context.Context, receipt *finance.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockedSave(tx, &models.ReceiptModel{}, receipt, model); err != nil {
			return err
		}
		return saveApprovalHistory(tx, model.History)
	})
}

// CountForBranch counts receipts for a branch matching the filter
func (r *GormReceiptRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ReceiptFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.ReceiptModel{}).Where("branch_id = ?", branchID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter finance.ReceiptFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.
		Order(SortClause(filter.OrderBy, filter.OrderDir, ReceiptSortFields, "receipt_date")).
		Order("receipt_number DESC")
}

func (r *GormReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.ReceiptFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.SaleID != nil {
		query = query.Where("sale_id = ?", *filter.SaleID)
	}
	if filter.FromDate != nil {
		query = query.Where("receipt_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("receipt_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR received_from ILIKE ?", pattern, pattern)
	}
	return query
}
