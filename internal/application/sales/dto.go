package sales

import (
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StagePlanRequest describes one stage when creating a sale
type StagePlanRequest struct {
	Name          string          `json:"name" binding:"required"`
	PlannedAmount decimal.Decimal `json:"planned_amount" binding:"required"`
	ExpectedDate  *time.Time      `json:"expected_date"`
}

// InstallmentPlanRequest describes the installment schedule when creating a sale
type InstallmentPlanRequest struct {
	Count     int       `json:"count" binding:"required"`
	Frequency string    `json:"frequency" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
}

// CreateSaleRequest represents a request to record a plot sale
type CreateSaleRequest struct {
	PlotID          uuid.UUID               `json:"plot_id" binding:"required"`
	ClientID        uuid.UUID               `json:"client_id" binding:"required"`
	ClientName      string                  `json:"client_name" binding:"required"`
	ClientPhone     string                  `json:"client_phone"`
	TotalPrice      decimal.Decimal         `json:"total_price" binding:"required"`
	SaleDate        time.Time               `json:"sale_date" binding:"required"`
	Stages          []StagePlanRequest      `json:"stages" binding:"required"`
	InstallmentPlan *InstallmentPlanRequest `json:"installment_plan"`
}

// StageResponse represents one payment stage in API responses
type StageResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Sequence       int             `json:"sequence"`
	PlannedAmount  decimal.Decimal `json:"planned_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	DueAmount      decimal.Decimal `json:"due_amount"`
	ExpectedDate   *time.Time      `json:"expected_date,omitempty"`
	CompletedDate  *time.Time      `json:"completed_date,omitempty"`
	Status         string          `json:"status"`
}

// InstallmentResponse represents one installment line in API responses
type InstallmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Sequence   int             `json:"sequence"`
	DueDate    time.Time       `json:"due_date"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID           uuid.UUID             `json:"id"`
	SaleNumber   string                `json:"sale_number"`
	PlotID       uuid.UUID             `json:"plot_id"`
	ParcelID     uuid.UUID             `json:"parcel_id"`
	ClientID     uuid.UUID             `json:"client_id"`
	ClientName   string                `json:"client_name"`
	ClientPhone  string                `json:"client_phone"`
	TotalPrice   decimal.Decimal       `json:"total_price"`
	PaidAmount   decimal.Decimal       `json:"paid_amount"`
	DueAmount    decimal.Decimal       `json:"due_amount"`
	Status       string                `json:"status"`
	SaleDate     time.Time             `json:"sale_date"`
	Stages       []StageResponse       `json:"stages"`
	Installments []InstallmentResponse `json:"installments"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
	CancelledAt  *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(s *sales.Sale) SaleResponse {
	stages := make([]StageResponse, len(s.Stages))
	for i, st := range s.Stages {
		stages[i] = StageResponse{
			ID:             st.ID,
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
	installments := make([]InstallmentResponse, len(s.Installments))
	for i, line := range s.Installments {
		installments[i] = InstallmentResponse{
			ID:         line.ID,
			Sequence:   line.Sequence,
			DueDate:    line.DueDate,
			Amount:     line.Amount,
			PaidAmount: line.PaidAmount,
			Status:     string(line.Status),
			PaidAt:     line.PaidAt,
		}
	}
	return SaleResponse{
		ID:           s.ID,
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
		Stages:       stages,
		Installments: installments,
		CompletedAt:  s.CompletedAt,
		CancelledAt:  s.CancelledAt,
		CancelReason: s.CancelReason,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SaleListFilter represents filter options for sale lists
type SaleListFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id"`
	PlotID   string `form:"plot_id"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateReceiptRequest represents a request to draft a receipt voucher
type CreateReceiptRequest struct {
	SaleID           uuid.UUID       `json:"sale_id" binding:"required"`
	StageName        string          `json:"stage_name" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod    string          `json:"payment_method" binding:"required"`
	PaymentReference string          `json:"payment_reference"`
	ReceivedFrom     string          `json:"received_from"`
	ReceiptDate      time.Time       `json:"receipt_date" binding:"required"`
}

// UpdateReceiptRequest represents edits to a draft or rejected receipt
type UpdateReceiptRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod    string          `json:"payment_method" binding:"required"`
	PaymentReference string          `json:"payment_reference"`
	Remark           string          `json:"remark"`
}

// ApprovalActionRequest represents an approve or reject call
type ApprovalActionRequest struct {
	Remarks string `json:"remarks"`
}

// ReceiptResponse represents a receipt voucher in API responses
type ReceiptResponse struct {
	ID               uuid.UUID       `json:"id"`
	ReceiptNumber    string          `json:"receipt_number"`
	SaleID           uuid.UUID       `json:"sale_id"`
	SaleNumber       string          `json:"sale_number"`
	StageName        string          `json:"stage_name"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	ReceivedFrom     string          `json:"received_from,omitempty"`
	ReceiptDate      time.Time       `json:"receipt_date"`
	Status           string          `json:"status"`
	PostedToLedger   bool            `json:"posted_to_ledger"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToReceiptResponse converts a domain receipt to a response DTO
func ToReceiptResponse(r *finance.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:               r.ID,
		ReceiptNumber:    r.ReceiptNumber,
		SaleID:           r.SaleID,
		SaleNumber:       r.SaleNumber,
		StageName:        r.StageName,
		Amount:           r.Amount,
		PaymentMethod:    string(r.PaymentMethod),
		PaymentReference: r.PaymentReference,
		ReceivedFrom:     r.ReceivedFrom,
		ReceiptDate:      r.ReceiptDate,
		Status:           string(r.Status),
		PostedToLedger:   r.PostedToLedger,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ReceiptListFilter represents filter options for receipt lists
type ReceiptListFilter struct {
	Status   string `form:"status"`
	SaleID   string `form:"sale_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
