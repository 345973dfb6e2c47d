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

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *GormExpenseRepository) toDomain(ctx context.Context, model *models.ExpenseModel) (*finance.Expense, error) {
	history, err := loadApprovalHistory(r.conn(ctx), model.ID, models.ApprovalDocExpense)
	if err != nil {
		return nil, err
	}
	model.History = history
	return model.ToDomain(), nil
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindByIDForBranch finds an expense by ID within a branch
func (r *GormExpenseRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
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

// FindAllForBranch finds all expenses for a branch matching the filter
func (r *GormExpenseRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ExpenseFilter) ([]*finance.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.applyFilter(r.conn(ctx).Model(&models.ExpenseModel{}).Where("branch_id = ?", branchID), filter)

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]*finance.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToDomain()
	}
	return expenses, nil
}

// Save creates or updates an expense together with its approval trail
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := saveApprovalHistory(tx, model.History); err != nil {
			return err
		}
		expense.MarkStored(expense.Version)
		return nil
	})
}

// SaveWithLock saves an expense guarded by the version it was read at
func (r *GormExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockedSave(tx, &models.ExpenseModel{}, expense, model); err != nil {
			return err
		}
		return saveApprovalHistory(tx, model.History)
	})
}

// CountForBranch counts expenses for a branch matching the filter
func (r *GormExpenseRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ExpenseFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.ExpenseModel{}).Where("branch_id = ?", branchID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.
		Order(SortClause(filter.OrderBy, filter.OrderDir, ExpenseSortFields, "incurred_at")).
		Order("expense_number DESC")
}

func (r *GormExpenseRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("incurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("incurred_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("expense_number ILIKE ? OR category ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}
	return query
}
