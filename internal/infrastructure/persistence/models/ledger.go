package models

import (
	"time"

	"github.com/estate/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for double-entry ledger lines.
// The table is append-only; rows are never updated or deleted.
type LedgerEntryModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionDate time.Time       `gorm:"not null;index"`
	AccountName     string          `gorm:"type:varchar(100);not null;index"`
	AccountType     string          `gorm:"type:varchar(20);not null"`
	Debit           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TransactionType string          `gorm:"type:varchar(30);not null;index"`
	ReferenceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferenceNumber string          `gorm:"type:varchar(50);not null"`
	Description     string          `gorm:"type:varchar(500)"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain Entry
func (m *LedgerEntryModel) ToDomain() ledger.Entry {
	return ledger.Entry{
		ID:              m.ID,
		BranchID:        m.BranchID,
		TransactionDate: m.TransactionDate,
		AccountName:     m.AccountName,
		AccountType:     ledger.AccountType(m.AccountType),
		Debit:           m.Debit,
		Credit:          m.Credit,
		TransactionType: ledger.TransactionType(m.TransactionType),
		ReferenceID:     m.ReferenceID,
		ReferenceNumber: m.ReferenceNumber,
		Description:     m.Description,
		CreatedAt:       m.CreatedAt,
	}
}

// LedgerEntryModelFromDomain converts a domain Entry to a persistence model
func LedgerEntryModelFromDomain(e ledger.Entry) LedgerEntryModel {
	return LedgerEntryModel{
		ID:              e.ID,
		BranchID:        e.BranchID,
		TransactionDate: e.TransactionDate,
		AccountName:     e.AccountName,
		AccountType:     string(e.AccountType),
		Debit:           e.Debit,
		Credit:          e.Credit,
		TransactionType: string(e.TransactionType),
		ReferenceID:     e.ReferenceID,
		ReferenceNumber: e.ReferenceNumber,
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
	}
}

// DocumentCounterModel backs the per-branch monthly document numbering.
// One row per (branch, doc type, period); LastValue advances atomically.
type DocumentCounterModel struct {
	BranchID  uuid.UUID `gorm:"type:uuid;primary_key"`
	DocType   string    `gorm:"type:varchar(10);primary_key"`
	Period    string    `gorm:"type:varchar(7);primary_key"` // YYYY-MM
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentCounterModel) TableName() string {
	return "document_counters"
}
