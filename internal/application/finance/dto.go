package finance

import (
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents a request to draft an expense
type CreateExpenseRequest struct {
	Category      string          `json:"category" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	IncurredAt    time.Time       `json:"incurred_at" binding:"required"`
}

// UpdateExpenseRequest represents edits to a draft or rejected expense
type UpdateExpenseRequest struct {
	Category      string          `json:"category" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	IncurredAt    time.Time       `json:"incurred_at" binding:"required"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID             uuid.UUID       `json:"id"`
	ExpenseNumber  string          `json:"expense_number"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	IncurredAt     time.Time       `json:"incurred_at"`
	Status         string          `json:"status"`
	PostedToLedger bool            `json:"posted_to_ledger"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToExpenseResponse converts an Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID,
		ExpenseNumber:  e.ExpenseNumber,
		Category:       e.Category,
		Amount:         e.Amount,
		Description:    e.Description,
		PaymentMethod:  string(e.PaymentMethod),
		IncurredAt:     e.IncurredAt,
		Status:         string(e.Status),
		PostedToLedger: e.PostedToLedger,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		Version:        e.Version,
	}
}

// ExpenseListFilter captures query parameters for listing expenses
type ExpenseListFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// OpenCancellationRequest represents a request to open a settlement for a sale
type OpenCancellationRequest struct {
	SaleID              uuid.UUID       `json:"sale_id" binding:"required"`
	Reason              string          `json:"reason" binding:"required"`
	OfficeChargePercent decimal.Decimal `json:"office_charge_percent"`
	OtherDeductions     decimal.Decimal `json:"other_deductions"`
}

// DecideCancellationRequest represents an approve or reject decision
type DecideCancellationRequest struct {
	Remarks string `json:"remarks"`
}

// RefundScheduleRequest represents a request to split the refundable amount
type RefundScheduleRequest struct {
	Count     int       `json:"count" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
}

// MarkRefundPaidRequest represents the payout of one refund line
type MarkRefundPaidRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required"`
	PaymentReference string `json:"payment_reference"`
}

// CancellationResponse represents a settlement in API responses
type CancellationResponse struct {
	ID                  uuid.UUID       `json:"id"`
	SaleID              uuid.UUID       `json:"sale_id"`
	SaleNumber          string          `json:"sale_number"`
	PlotID              uuid.UUID       `json:"plot_id"`
	ClientID            uuid.UUID       `json:"client_id"`
	ClientName          string          `json:"client_name"`
	Reason              string          `json:"reason"`
	TotalPaid           decimal.Decimal `json:"total_paid"`
	OfficeChargePercent decimal.Decimal `json:"office_charge_percent"`
	OfficeChargeAmount  decimal.Decimal `json:"office_charge_amount"`
	OtherDeductions     decimal.Decimal `json:"other_deductions"`
	RefundableAmount    decimal.Decimal `json:"refundable_amount"`
	RefundedAmount      decimal.Decimal `json:"refunded_amount"`
	RemainingRefund     decimal.Decimal `json:"remaining_refund"`
	ScheduleTotal       decimal.Decimal `json:"schedule_total"`
	ScheduleDiscrepancy decimal.Decimal `json:"schedule_discrepancy"`
	ScheduleGenerated   bool            `json:"schedule_generated"`
	Status              string          `json:"status"`
	RequestedAt         time.Time       `json:"requested_at"`
	DecidedBy           *uuid.UUID      `json:"decided_by,omitempty"`
	DecidedAt           *time.Time      `json:"decided_at,omitempty"`
	DecisionRemarks     string          `json:"decision_remarks,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// ToCancellationResponse converts a Cancellation to CancellationResponse
func ToCancellationResponse(c *finance.Cancellation) CancellationResponse {
	return CancellationResponse{
		ID:                  c.ID,
		SaleID:              c.SaleID,
		SaleNumber:          c.SaleNumber,
		PlotID:              c.PlotID,
		ClientID:            c.ClientID,
		ClientName:          c.ClientName,
		Reason:              c.Reason,
		TotalPaid:           c.TotalPaid,
		OfficeChargePercent: c.OfficeChargePercent,
		OfficeChargeAmount:  c.OfficeChargeAmount,
		OtherDeductions:     c.OtherDeductions,
		RefundableAmount:    c.RefundableAmount,
		RefundedAmount:      c.RefundedAmount,
		RemainingRefund:     c.RemainingRefund,
		ScheduleTotal:       c.ScheduleTotal,
		ScheduleDiscrepancy: c.ScheduleDiscrepancy(),
		ScheduleGenerated:   c.ScheduleGenerated,
		Status:              string(c.Status),
		RequestedAt:         c.RequestedAt,
		DecidedBy:           c.DecidedBy,
		DecidedAt:           c.DecidedAt,
		DecisionRemarks:     c.DecisionRemarks,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Version:             c.Version,
	}
}

// CancellationListFilter captures query parameters for listing settlements
type CancellationListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// RefundResponse represents a refund payout in API responses
type RefundResponse struct {
	ID               uuid.UUID       `json:"id"`
	RefundNumber     string          `json:"refund_number"`
	CancellationID   uuid.UUID       `json:"cancellation_id"`
	SaleNumber       string          `json:"sale_number"`
	ClientName       string          `json:"client_name"`
	Sequence         int             `json:"sequence"`
	DueDate          time.Time       `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	Paid             bool            `json:"paid"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Status           string          `json:"status"`
	PostedToLedger   bool            `json:"posted_to_ledger"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToRefundResponse converts a Refund to RefundResponse
func ToRefundResponse(r *finance.Refund) RefundResponse {
	return RefundResponse{
		ID:               r.ID,
		RefundNumber:     r.RefundNumber,
		CancellationID:   r.CancellationID,
		SaleNumber:       r.SaleNumber,
		ClientName:       r.ClientName,
		Sequence:         r.Sequence,
		DueDate:          r.DueDate,
		Amount:           r.Amount,
		Paid:             r.Paid,
		PaidAt:           r.PaidAt,
		PaymentMethod:    string(r.PaymentMethod),
		PaymentReference: r.PaymentReference,
		Status:           string(r.Status),
		PostedToLedger:   r.PostedToLedger,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}
}

// ApprovalActionRequest represents an approve or reject call on a document
type ApprovalActionRequest struct {
	Remarks string `json:"remarks"`
}
