package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/estate/backend/internal/domain/sales"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM. Sales load and
// save together with their stage plan and installment schedule.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *GormSaleRepository) withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") })
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.withChildren(r.conn(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBranch finds a sale by ID within a branch
func (r *GormSaleRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.withChildren(r.conn(ctx)).
		Where("branch_id = ? AND id = ?", branchID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleNumber finds a sale by its document number within a branch
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, branchID uuid.UUID, saleNumber string) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.withChildren(r.conn(ctx)).
		Where("branch_id = ? AND sale_number = ?", branchID, saleNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlot finds all sales recorded against a plot
func (r *GormSaleRepository) FindByPlot(ctx context.Context, branchID, plotID uuid.UUID) ([]*sales.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.withChildren(r.conn(ctx)).
		Where("branch_id = ? AND plot_id = ?", branchID, plotID).
		Order("sale_date DESC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindAllForBranch finds all sales for a branch matching the filter
func (r *GormSaleRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter sales.SaleFilter) ([]*sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(r.withChildren(r.conn(ctx)).Model(&models.SaleModel{}).Where("branch_id = ?", branchID), filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindWithDueInstallments returns active sales that have at least one unpaid
// installment line due on or before the given date.
func (r *GormSaleRepository) FindWithDueInstallments(ctx context.Context, branchID uuid.UUID, dueBefore time.Time) ([]*sales.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.withChildren(r.conn(ctx)).
		Where("branch_id = ? AND status = ?", branchID, string(sales.SaleStatusActive)).
		Where("id IN (?)", r.conn(ctx).Model(&models.SaleInstallmentModel{}).
			Select("sale_id").
			Where("due_date <= ? AND status NOT IN ?", dueBefore, []string{
				string(sales.InstallmentStatusPaid),
			})).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// ActiveBranchIDs lists every branch with at least one active sale
func (r *GormSaleRepository) ActiveBranchIDs(ctx context.Context) ([]uuid.UUID, error) {
	var branchIDs []uuid.UUID
	if err := r.conn(ctx).Model(&models.SaleModel{}).
		Distinct("branch_id").
		Where("status = ?", string(sales.SaleStatusActive)).
		Pluck("branch_id", &branchIDs).Error; err != nil {
		return nil, err
	}
	return branchIDs, nil
}

// Save creates or updates a sale together with its stages and installments
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Stages", "Installments").Save(model).Error; err != nil {
			return err
		}
		if err := r.saveChildren(tx, model); err != nil {
			return err
		}
		sale.MarkStored(sale.Version)
		return nil
	})
}

// SaveWithLock persists the sale guarded by the version it was read at.
// The children are rewritten only after the version check on the parent
// row succeeds.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockedSave(tx, &models.SaleModel{}, sale, model, "Stages", "Installments"); err != nil {
			return err
		}
		return r.saveChildren(tx, model)
	})
}

// saveChildren reconciles the stage and installment rows with the aggregate:
// rows dropped from the aggregate are deleted, the rest upserted.
func (r *GormSaleRepository) saveChildren(tx *gorm.DB, model *models.SaleModel) error {
	stageIDs := make([]uuid.UUID, len(model.Stages))
	for i := range model.Stages {
		model.Stages[i].SaleID = model.ID
		stageIDs[i] = model.Stages[i].ID
	}
	if err := deleteOrphans(tx, &models.SaleStageModel{}, model.ID, stageIDs); err != nil {
		return err
	}
	for i := range model.Stages {
		if err := tx.Save(&model.Stages[i]).Error; err != nil {
			return err
		}
	}

	lineIDs := make([]uuid.UUID, len(model.Installments))
	for i := range model.Installments {
		model.Installments[i].SaleID = model.ID
		lineIDs[i] = model.Installments[i].ID
	}
	if err := deleteOrphans(tx, &models.SaleInstallmentModel{}, model.ID, lineIDs); err != nil {
		return err
	}
	for i := range model.Installments {
		if err := tx.Save(&model.Installments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteOrphans(tx *gorm.DB, table interface{}, saleID uuid.UUID, keep []uuid.UUID) error {
	if len(keep) == 0 {
		return tx.Where("sale_id = ?", saleID).Delete(table).Error
	}
	return tx.Where("sale_id = ? AND id NOT IN ?", saleID, keep).Delete(table).Error
}

// CountForBranch counts sales for a branch matching the filter
func (r *GormSaleRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter sales.SaleFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.SaleModel{}).Where("branch_id = ?", branchID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter sales.SaleFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.
		Order(SortClause(filter.OrderBy, filter.OrderDir, SaleSortFields, "sale_date")).
		Order("sale_number DESC")
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter sales.SaleFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.PlotID != nil {
		query = query.Where("plot_id = ?", *filter.PlotID)
	}
	if filter.ParcelID != nil {
		query = query.Where("parcel_id = ?", *filter.ParcelID)
	}
	if filter.FromDate != nil {
		query = query.Where("sale_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("sale_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sale_number ILIKE ? OR client_name ILIKE ? OR client_phone ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

func toDomainSales(saleModels []models.SaleModel) []*sales.Sale {
	result := make([]*sales.Sale, len(saleModels))
	for i := range saleModels {
		result[i] = saleModels[i].ToDomain()
	}
	return result
}
