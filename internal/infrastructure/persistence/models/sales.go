package models

import (
	"time"

	"github.com/estate/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for sale agreements
type SaleModel struct {
	BranchAggregateModel
	SaleNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_branch_number,priority:2"`
	PlotID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	ParcelID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	ClientID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	ClientName   string                 `gorm:"type:varchar(200);not null"`
	ClientPhone  string                 `gorm:"type:varchar(30)"`
	TotalPrice   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PaidAmount   decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	DueAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status       string                 `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	SaleDate     time.Time              `gorm:"not null;index"`
	Stages       []SaleStageModel       `gorm:"foreignKey:SaleID;references:ID"`
	Installments []SaleInstallmentModel `gorm:"foreignKey:SaleID;references:ID"`
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
	Remark       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleStageModel is the persistence model for the stage plan of a sale
type SaleStageModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(30);not null"`
	Sequence       int             `gorm:"not null"`
	PlannedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedDate   *time.Time
	CompletedDate  *time.Time
	Status         string `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (SaleStageModel) TableName() string {
	return "sale_stages"
}

// SaleInstallmentModel is the persistence model for installment schedule lines
type SaleInstallmentModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence   int             `gorm:"not null"`
	DueDate    time.Time       `gorm:"not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status     string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (SaleInstallmentModel) TableName() string {
	return "sale_installments"
}

// ToDomain converts the persistence model to a domain Sale aggregate
func (m *SaleModel) ToDomain() *sales.Sale {
	sale := &sales.Sale{
		SaleNumber:   m.SaleNumber,
		PlotID:       m.PlotID,
		ParcelID:     m.ParcelID,
		ClientID:     m.ClientID,
		ClientName:   m.ClientName,
		ClientPhone:  m.ClientPhone,
		TotalPrice:   m.TotalPrice,
		PaidAmount:   m.PaidAmount,
		DueAmount:    m.DueAmount,
		Status:       sales.SaleStatus(m.Status),
		SaleDate:     m.SaleDate,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		Remark:       m.Remark,
		Stages:       make([]sales.Stage, len(m.Stages)),
		Installments: make([]sales.InstallmentLine, len(m.Installments)),
	}
	m.PopulateBranchAggregateRoot(&sale.BranchAggregateRoot)
	for i, s := range m.Stages {
		sale.Stages[i] = sales.Stage{
			ID:             s.ID,
			SaleID:         s.SaleID,
			Name:           sales.StageName(s.Name),
			Sequence:       s.Sequence,
			PlannedAmount:  s.PlannedAmount,
			ReceivedAmount: s.ReceivedAmount,
			DueAmount:      s.DueAmount,
			ExpectedDate:   s.ExpectedDate,
			CompletedDate:  s.CompletedDate,
			Status:         sales.StageStatus(s.Status),
		}
	}
	for i, l := range m.Installments {
		sale.Installments[i] = sales.InstallmentLine{
			ID:         l.ID,
			SaleID:     l.SaleID,
			Sequence:   l.Sequence,
			DueDate:    l.DueDate,
			Amount:     l.Amount,
			PaidAmount: l.PaidAmount,
			Status:     sales.InstallmentStatus(l.Status),
			PaidAt:     l.PaidAt,
		}
	}
	return sale
}

// SaleModelFromDomain converts a domain Sale aggregate to a persistence model
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{
		SaleNumber:   s.SaleNumber,
		PlotID:       s.PlotID,
		ParcelID:     s.ParcelID,
		ClientID:     s.ClientID,
		ClientName:   s.ClientName,
		ClientPhone:  s.ClientPhone,
		TotalPrice:   s.TotalPrice,
		PaidAmount:   s.PaidAmount,
		DueAmount:    s.DueAmount,
		Status:       string(s.Status),
		SaleDate:     s.SaleDate,
		CompletedAt:  s.CompletedAt,
		CancelledAt:  s.CancelledAt,
		CancelReason: s.CancelReason,
		Remark:       s.Remark,
		Stages:       make([]SaleStageModel, len(s.Stages)),
		Installments: make([]SaleInstallmentModel, len(s.Installments)),
	}
	m.FromDomainBranchAggregateRoot(s.BranchAggregateRoot)
	for i, st := range s.Stages {
		m.Stages[i] = SaleStageModel{
			ID:             st.ID,
			SaleID:         s.ID,
			Name:           string(st.Name),
			Sequence:       st.Sequence,
			PlannedAmount:  st.PlannedAmount,
			ReceivedAmount: st.ReceivedAmount,
			DueAmount:      st.DueAmount,
			ExpectedDate:   st.ExpectedDate,
			CompletedDate:  st.CompletedDate,
			Status:         string(st.Status),
		}
	}
	for i, l := range s.Installments {
		m.Installments[i] = SaleInstallmentModel{
			ID:         l.ID,
			SaleID:     s.ID,
			Sequence:   l.Sequence,
			DueDate:    l.DueDate,
			Amount:     l.Amount,
			PaidAmount: l.PaidAmount,
			Status:     string(l.Status),
			PaidAt:     l.PaidAt,
		}
	}
	return m
}
