package land

import (
	"time"

	"github.com/estate/backend/internal/domain/land"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateParcelRequest represents a request to register a land parcel
type CreateParcelRequest struct {
	ParcelNumber string          `json:"parcel_number" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Location     string          `json:"location"`
	TotalArea    decimal.Decimal `json:"total_area" binding:"required"`
}

// UpdateParcelRequest represents a request to update parcel details
type UpdateParcelRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

// ParcelResponse represents a land parcel in API responses
type ParcelResponse struct {
	ID            uuid.UUID       `json:"id"`
	ParcelNumber  string          `json:"parcel_number"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	TotalArea     decimal.Decimal `json:"total_area"`
	SoldArea      decimal.Decimal `json:"sold_area"`
	AllocatedArea decimal.Decimal `json:"allocated_area"`
	RemainingArea decimal.Decimal `json:"remaining_area"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToParcelResponse converts a domain parcel to a response DTO
func ToParcelResponse(p *land.LandParcel) ParcelResponse {
	return ParcelResponse{
		ID:            p.ID,
		ParcelNumber:  p.ParcelNumber,
		Name:          p.Name,
		Location:      p.Location,
		TotalArea:     p.TotalArea,
		SoldArea:      p.SoldArea,
		AllocatedArea: p.AllocatedArea,
		RemainingArea: p.RemainingArea,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ParcelListFilter represents filter options for parcel lists
type ParcelListFilter struct {
	Active   *bool  `form:"active"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreatePlotRequest represents a request to carve a plot out of a parcel
type CreatePlotRequest struct {
	ParcelID   uuid.UUID       `json:"parcel_id" binding:"required"`
	PlotNumber string          `json:"plot_number" binding:"required"`
	Area       decimal.Decimal `json:"area" binding:"required"`
	Facing     string          `json:"facing"`
	Remark     string          `json:"remark"`
}

// BlockPlotRequest represents a request to block a plot
type BlockPlotRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PlotResponse represents a plot in API responses
type PlotResponse struct {
	ID              uuid.UUID       `json:"id"`
	ParcelID        uuid.UUID       `json:"parcel_id"`
	PlotNumber      string          `json:"plot_number"`
	Area            decimal.Decimal `json:"area"`
	Facing          string          `json:"facing"`
	Status          string          `json:"status"`
	ClientID        *uuid.UUID      `json:"client_id,omitempty"`
	ReservationDate *time.Time      `json:"reservation_date,omitempty"`
	SaleDate        *time.Time      `json:"sale_date,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToPlotResponse converts a domain plot to a response DTO
func ToPlotResponse(p *land.Plot) PlotResponse {
	return PlotResponse{
		ID:              p.ID,
		ParcelID:        p.ParcelID,
		PlotNumber:      p.PlotNumber,
		Area:            p.Area,
		Facing:          p.Facing,
		Status:          string(p.Status),
		ClientID:        p.ClientID,
		ReservationDate: p.ReservationDate,
		SaleDate:        p.SaleDate,
		Remark:          p.Remark,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// PlotListFilter represents filter options for plot lists
type PlotListFilter struct {
	ParcelID string `form:"parcel_id"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
