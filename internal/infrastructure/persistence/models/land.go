package models

import (
	"time"

	"github.com/estate/backend/internal/domain/land"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LandParcelModel is the persistence model for land parcels
type LandParcelModel struct {
	BranchAggregateModel
	ParcelNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_parcel_branch_number,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Location      string          `gorm:"type:varchar(500)"`
	TotalArea     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SoldArea      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AllocatedArea decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingArea decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active        bool            `gorm:"not null;default:true;index"`
	DeactivatedAt *time.Time
	Remark        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LandParcelModel) TableName() string {
	return "land_parcels"
}

// ToDomain converts the persistence model to a domain LandParcel
func (m *LandParcelModel) ToDomain() *land.LandParcel {
	parcel := &land.LandParcel{
		ParcelNumber:  m.ParcelNumber,
		Name:          m.Name,
		Location:      m.Location,
		TotalArea:     m.TotalArea,
		SoldArea:      m.SoldArea,
		AllocatedArea: m.AllocatedArea,
		RemainingArea: m.RemainingArea,
		Active:        m.Active,
		DeactivatedAt: m.DeactivatedAt,
		Remark:        m.Remark,
	}
	m.PopulateBranchAggregateRoot(&parcel.BranchAggregateRoot)
	return parcel
}

// LandParcelModelFromDomain converts a domain LandParcel to a persistence model
func LandParcelModelFromDomain(p *land.LandParcel) *LandParcelModel {
	m := &LandParcelModel{
		ParcelNumber:  p.ParcelNumber,
		Name:          p.Name,
		Location:      p.Location,
		TotalArea:     p.TotalArea,
		SoldArea:      p.SoldArea,
		AllocatedArea: p.AllocatedArea,
		RemainingArea: p.RemainingArea,
		Active:        p.Active,
		DeactivatedAt: p.DeactivatedAt,
		Remark:        p.Remark,
	}
	m.FromDomainBranchAggregateRoot(p.BranchAggregateRoot)
	return m
}

// PlotModel is the persistence model for plots
type PlotModel struct {
	BranchAggregateModel
	ParcelID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_plot_parcel_number,priority:1"`
	PlotNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_plot_parcel_number,priority:2"`
	Area            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	ClientID        *uuid.UUID      `gorm:"type:uuid;index"`
	SaleDate        *time.Time
	ReservationDate *time.Time
	Facing          string `gorm:"type:varchar(50)"`
	Remark          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PlotModel) TableName() string {
	return "plots"
}

// ToDomain converts the persistence model to a domain Plot
func (m *PlotModel) ToDomain() *land.Plot {
	plot := &land.Plot{
		ParcelID:        m.ParcelID,
		PlotNumber:      m.PlotNumber,
		Area:            m.Area,
		Status:          land.PlotStatus(m.Status),
		ClientID:        m.ClientID,
		SaleDate:        m.SaleDate,
		ReservationDate: m.ReservationDate,
		Facing:          m.Facing,
		Remark:          m.Remark,
	}
	m.PopulateBranchAggregateRoot(&plot.BranchAggregateRoot)
	return plot
}

// PlotModelFromDomain converts a domain Plot to a persistence model
func PlotModelFromDomain(p *land.Plot) *PlotModel {
	m := &PlotModel{
		ParcelID:        p.ParcelID,
		PlotNumber:      p.PlotNumber,
		Area:            p.Area,
		Status:          string(p.Status),
		ClientID:        p.ClientID,
		SaleDate:        p.SaleDate,
		ReservationDate: p.ReservationDate,
		Facing:          p.Facing,
		Remark:          p.Remark,
	}
	m.FromDomainBranchAggregateRoot(p.BranchAggregateRoot)
	return m
}
