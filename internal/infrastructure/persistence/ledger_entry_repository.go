package persistence

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements ledger.EntryRepository using GORM.
// The backing table is append-only.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

func (r *GormLedgerEntryRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Append validates balance and writes the entries in one batch
func (r *GormLedgerEntryRepository) Append(ctx context.Context, entries []ledger.Entry) error {
	if err := ledger.ValidateBalanced(entries); err != nil {
		return err
	}
	entryModels := make([]models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		entryModels[i] = models.LedgerEntryModelFromDomain(e)
	}
	return r.conn(ctx).Create(&entryModels).Error
}

// FindByReference finds all entries posted under one source document
func (r *GormLedgerEntryRepository) FindByReference(ctx context.Context, branchID, referenceID uuid.UUID) ([]ledger.Entry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.conn(ctx).
		Where("branch_id = ? AND reference_id = ?", branchID, referenceID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindAllForBranch finds entries for a branch matching the filter
func (r *GormLedgerEntryRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.applyFilter(r.conn(ctx).Model(&models.LedgerEntryModel{}).Where("branch_id = ?", branchID), filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// AccountBalances aggregates debits and credits per account over a range
func (r *GormLedgerEntryRepository) AccountBalances(ctx context.Context, branchID uuid.UUID, from, to time.Time) ([]ledger.AccountBalance, error) {
	type row struct {
		AccountName string
		AccountType string
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}
	var rows []row
	if err := r.conn(ctx).Model(&models.LedgerEntryModel{}).
		Select("account_name, account_type, COALESCE(SUM(debit),0) AS total_debit, COALESCE(SUM(credit),0) AS total_credit").
		Where("branch_id = ? AND transaction_date >= ? AND transaction_date <= ?", branchID, from, to).
		Group("account_name, account_type").
		Order("account_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	balances := make([]ledger.AccountBalance, 0, len(rows))
	for _, rw := range rows {
		balances = append(balances, ledger.AccountBalance{
			AccountName: rw.AccountName,
			AccountType: ledger.AccountType(rw.AccountType),
			TotalDebit:  rw.TotalDebit,
			TotalCredit: rw.TotalCredit,
			Balance:     rw.TotalDebit.Sub(rw.TotalCredit),
		})
	}
	return balances, nil
}

// CountForBranch counts entries for a branch matching the filter
func (r *GormLedgerEntryRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter ledger.EntryFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.LedgerEntryModel{}).Where("branch_id = ?", branchID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter ledger.EntryFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.
		Order(SortClause(filter.OrderBy, filter.OrderDir, LedgerEntrySortFields, "transaction_date")).
		Order("created_at DESC")
}

func (r *GormLedgerEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.EntryFilter) *gorm.DB {
	if filter.AccountName != nil {
		query = query.Where("account_name = ?", *filter.AccountName)
	}
	if filter.AccountType != nil {
		query = query.Where("account_type = ?", string(*filter.AccountType))
	}
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", string(*filter.TransactionType))
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("reference_number ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

func toDomainEntries(entryModels []models.LedgerEntryModel) []ledger.Entry {
	entries := make([]ledger.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries
}
