package models

import (
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document type discriminators for approval history rows
const (
	ApprovalDocReceipt = "RECEIPT"
	ApprovalDocExpense = "EXPENSE"
	ApprovalDocRefund  = "REFUND"
)

// ApprovalRecordModel is one row of the approval trail. Receipts, expenses
// and refunds share the table, discriminated by document type.
type ApprovalRecordModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	DocumentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_doc"`
	DocumentType string    `gorm:"type:varchar(20);not null;index:idx_approval_doc"`
	ActorID      uuid.UUID `gorm:"type:uuid;not null"`
	Role         string    `gorm:"type:varchar(30);not null"`
	Level        int       `gorm:"not null"`
	Action       string    `gorm:"type:varchar(20);not null"`
	Timestamp    time.Time `gorm:"not null"`
	Remarks      string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ApprovalRecordModel) TableName() string {
	return "approval_records"
}

func approvalRecordsFromDomain(documentID uuid.UUID, documentType string, history []finance.ApprovalRecord) []ApprovalRecordModel {
	records := make([]ApprovalRecordModel, len(history))
	for i, h := range history {
		records[i] = ApprovalRecordModel{
			ID:           h.ID,
			DocumentID:   documentID,
			DocumentType: documentType,
			ActorID:      h.ActorID,
			Role:         string(h.Role),
			Level:        h.Level,
			Action:       string(h.Action),
			Timestamp:    h.Timestamp,
			Remarks:      h.Remarks,
		}
	}
	return records
}

func approvalRecordsToDomain(records []ApprovalRecordModel) []finance.ApprovalRecord {
	history := make([]finance.ApprovalRecord, len(records))
	for i, r := range records {
		history[i] = finance.ApprovalRecord{
			ID:        r.ID,
			ActorID:   r.ActorID,
			Role:      finance.ApproverRole(r.Role),
			Level:     r.Level,
			Action:    finance.ApprovalAction(r.Action),
			Timestamp: r.Timestamp,
			Remarks:   r.Remarks,
		}
	}
	return history
}

// ReceiptModel is the persistence model for receipt vouchers
type ReceiptModel struct {
	BranchAggregateModel
	ReceiptNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_receipt_branch_number,priority:2"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleNumber       string          `gorm:"type:varchar(50);not null"`
	StageName        string          `gorm:"type:varchar(30);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod    string          `gorm:"type:varchar(30);not null"`
	PaymentReference string          `gorm:"type:varchar(100)"`
	ReceivedFrom     string          `gorm:"type:varchar(200)"`
	ReceiptDate      time.Time       `gorm:"not null;index"`
	Remark           string          `gorm:"type:text"`
	Status           string          `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PostedToLedger   bool            `gorm:"not null;default:false"`
	PostedAt         *time.Time
	History          []ApprovalRecordModel `gorm:"-"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt
func (m *ReceiptModel) ToDomain() *finance.Receipt {
	receipt := &finance.Receipt{
		ReceiptNumber:    m.ReceiptNumber,
		SaleID:           m.SaleID,
		SaleNumber:       m.SaleNumber,
		StageName:        m.StageName,
		Amount:           m.Amount,
		PaymentMethod:    finance.PaymentMethod(m.PaymentMethod),
		PaymentReference: m.PaymentReference,
		ReceivedFrom:     m.ReceivedFrom,
		ReceiptDate:      m.ReceiptDate,
		Remark:           m.Remark,
		Approval: finance.Approval{
			Status:         finance.ApprovalStatus(m.Status),
			PostedToLedger: m.PostedToLedger,
			PostedAt:       m.PostedAt,
			History:        approvalRecordsToDomain(m.History),
		},
	}
	m.PopulateBranchAggregateRoot(&receipt.BranchAggregateRoot)
	return receipt
}

// ReceiptModelFromDomain converts a domain Receipt to a persistence model
func ReceiptModelFromDomain(r *finance.Receipt) *ReceiptModel {
	m := &ReceiptModel{
		ReceiptNumber:    r.ReceiptNumber,
		SaleID:           r.SaleID,
		SaleNumber:       r.SaleNumber,
		StageName:        r.StageName,
		Amount:           r.Amount,
		PaymentMethod:    string(r.PaymentMethod),
		PaymentReference: r.PaymentReference,
		ReceivedFrom:     r.ReceivedFrom,
		ReceiptDate:      r.ReceiptDate,
		Remark:           r.Remark,
		Status:           string(r.Approval.Status),
		PostedToLedger:   r.Approval.PostedToLedger,
		PostedAt:         r.Approval.PostedAt,
	}
	m.FromDomainBranchAggregateRoot(r.BranchAggregateRoot)
	m.History = approvalRecordsFromDomain(m.ID, ApprovalDocReceipt, r.Approval.History)
	return m
}

// ExpenseModel is the persistence model for expense records
type ExpenseModel struct {
	BranchAggregateModel
	ExpenseNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_expense_branch_number,priority:2"`
	Category       string          `gorm:"type:varchar(100);not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description    string          `gorm:"type:text"`
	PaymentMethod  string          `gorm:"type:varchar(30);not null"`
	IncurredAt     time.Time       `gorm:"not null;index"`
	Status         string          `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PostedToLedger bool            `gorm:"not null;default:false"`
	PostedAt       *time.Time
	History        []ApprovalRecordModel `gorm:"-"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	expense := &finance.Expense{
		ExpenseNumber: m.ExpenseNumber,
		Category:      m.Category,
		Amount:        m.Amount,
		Description:   m.Description,
		PaymentMethod: finance.PaymentMethod(m.PaymentMethod),
		IncurredAt:    m.IncurredAt,
		Approval: finance.Approval{
			Status:         finance.ApprovalStatus(m.Status),
			PostedToLedger: m.PostedToLedger,
			PostedAt:       m.PostedAt,
			History:        approvalRecordsToDomain(m.History),
		},
	}
	m.PopulateBranchAggregateRoot(&expense.BranchAggregateRoot)
	return expense
}

// ExpenseModelFromDomain converts a domain Expense to a persistence model
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		ExpenseNumber:  e.ExpenseNumber,
		Category:       e.Category,
		Amount:         e.Amount,
		Description:    e.Description,
		PaymentMethod:  string(e.PaymentMethod),
		IncurredAt:     e.IncurredAt,
		Status:         string(e.Approval.Status),
		PostedToLedger: e.Approval.PostedToLedger,
		PostedAt:       e.Approval.PostedAt,
	}
	m.FromDomainBranchAggregateRoot(e.BranchAggregateRoot)
	m.History = approvalRecordsFromDomain(m.ID, ApprovalDocExpense, e.Approval.History)
	return m
}

// CancellationModel is the persistence model for cancellation settlements
type CancellationModel struct {
	BranchAggregateModel
	SaleID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cancellation_branch_sale,priority:2"`
	SaleNumber          string          `gorm:"type:varchar(50);not null"`
	PlotID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientName          string          `gorm:"type:varchar(200);not null"`
	Reason              string          `gorm:"type:varchar(500);not null"`
	TotalPaid           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OfficeChargePercent decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	OfficeChargeAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OtherDeductions     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RefundableAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundedAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingRefund     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ScheduleTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ScheduleGenerated   bool            `gorm:"not null;default:false"`
	Status              string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RequestedAt         time.Time       `gorm:"not null"`
	DecidedBy           *uuid.UUID      `gorm:"type:uuid"`
	DecidedAt           *time.Time
	DecisionRemarks     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CancellationModel) TableName() string {
	return "cancellations"
}

// ToDomain converts the persistence model to a domain Cancellation
func (m *CancellationModel) ToDomain() *finance.Cancellation {
	cancellation := &finance.Cancellation{
		SaleID:              m.SaleID,
		SaleNumber:          m.SaleNumber,
		PlotID:              m.PlotID,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		Reason:              m.Reason,
		TotalPaid:           m.TotalPaid,
		OfficeChargePercent: m.OfficeChargePercent,
		OfficeChargeAmount:  m.OfficeChargeAmount,
		OtherDeductions:     m.OtherDeductions,
		RefundableAmount:    m.RefundableAmount,
		RefundedAmount:      m.RefundedAmount,
		RemainingRefund:     m.RemainingRefund,
		ScheduleTotal:       m.ScheduleTotal,
		ScheduleGenerated:   m.ScheduleGenerated,
		Status:              finance.CancellationStatus(m.Status),
		RequestedAt:         m.RequestedAt,
		DecidedBy:           m.DecidedBy,
		DecidedAt:           m.DecidedAt,
		DecisionRemarks:     m.DecisionRemarks,
	}
	m.PopulateBranchAggregateRoot(&cancellation.BranchAggregateRoot)
	return cancellation
}

// CancellationModelFromDomain converts a domain Cancellation to a persistence model
func CancellationModelFromDomain(c *finance.Cancellation) *CancellationModel {
	m := &CancellationModel{
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
		ScheduleGenerated:   c.ScheduleGenerated,
		Status:              string(c.Status),
		RequestedAt:         c.RequestedAt,
		DecidedBy:           c.DecidedBy,
		DecidedAt:           c.DecidedAt,
		DecisionRemarks:     c.DecisionRemarks,
	}
	m.FromDomainBranchAggregateRoot(c.BranchAggregateRoot)
	return m
}

// RefundModel is the persistence model for refund payouts
type RefundModel struct {
	BranchAggregateModel
	RefundNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_refund_branch_number,priority:2"`
	CancellationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleNumber       string          `gorm:"type:varchar(50);not null"`
	ClientName       string          `gorm:"type:varchar(200);not null"`
	Sequence         int             `gorm:"not null"`
	DueDate          time.Time       `gorm:"not null;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Paid             bool            `gorm:"not null;default:false;index"`
	PaidAt           *time.Time
	PaymentMethod    string `gorm:"type:varchar(30)"`
	PaymentReference string `gorm:"type:varchar(100)"`
	Status           string `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PostedToLedger   bool   `gorm:"not null;default:false"`
	PostedAt         *time.Time
	History          []ApprovalRecordModel `gorm:"-"`
}

// TableName returns the table name for GORM
func (RefundModel) TableName() string {
	return "refunds"
}

// ToDomain converts the persistence model to a domain Refund
func (m *RefundModel) ToDomain() *finance.Refund {
	refund := &finance.Refund{
		RefundNumber:     m.RefundNumber,
		CancellationID:   m.CancellationID,
		SaleNumber:       m.SaleNumber,
		ClientName:       m.ClientName,
		Sequence:         m.Sequence,
		DueDate:          m.DueDate,
		Amount:           m.Amount,
		Paid:             m.Paid,
		PaidAt:           m.PaidAt,
		PaymentMethod:    finance.PaymentMethod(m.PaymentMethod),
		PaymentReference: m.PaymentReference,
		Approval: finance.Approval{
			Status:         finance.ApprovalStatus(m.Status),
			PostedToLedger: m.PostedToLedger,
			PostedAt:       m.PostedAt,
			History:        approvalRecordsToDomain(m.History),
		},
	}
	m.PopulateBranchAggregateRoot(&refund.BranchAggregateRoot)
	return refund
}

// RefundModelFromDomain converts a domain Refund to a persistence model
func RefundModelFromDomain(r *finance.Refund) *RefundModel {
	m := &RefundModel{
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
		Status:           string(r.Approval.Status),
		PostedToLedger:   r.Approval.PostedToLedger,
		PostedAt:         r.Approval.PostedAt,
	}
	m.FromDomainBranchAggregateRoot(r.BranchAggregateRoot)
	m.History = approvalRecordsFromDomain(m.ID, ApprovalDocRefund, r.Approval.History)
	return m
}
