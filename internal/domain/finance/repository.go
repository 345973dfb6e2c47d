package finance

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceiptFilter captures the query options for listing receipts
type ReceiptFilter struct {
	shared.Filter
	Status   *ApprovalStatus
	SaleID   *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

// ReceiptRepository defines the persistence interface for receipt vouchers
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Receipt, error)
	FindByReceiptNumber(ctx context.Context, branchID uuid.UUID, receiptNumber string) (*Receipt, error)
	FindBySale(ctx context.Context, branchID, saleID uuid.UUID) ([]*Receipt, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter ReceiptFilter) ([]*Receipt, error)
	Save(ctx context.Context, receipt *Receipt) error
	SaveWithLock(ctx context.Context, receipt *Receipt) error
	CountForBranch(ctx context.Context, branchID uuid.UUID, filter ReceiptFilter) (int64, error)
}

// ExpenseFilter captures the query options for listing expenses
type ExpenseFilter struct {
	shared.Filter
	Status   *ApprovalStatus
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// ExpenseRepository defines the persistence interface for expense records
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Expense, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter ExpenseFilter) ([]*Expense, error)
	Save(ctx context.Context, expense *Expense) error
	SaveWithLock(ctx context.Context, expense *Expense) error
	CountForBranch(ctx context.Context, branchID uuid.UUID, filter ExpenseFilter) (int64, error)
}

// CancellationRepository defines the persistence interface for settlements.
// FindBySale backs the one-cancellation-per-sale rule.
type CancellationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cancellation, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Cancellation, error)
	FindBySale(ctx context.Context, branchID, saleID uuid.UUID) (*Cancellation, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, status *CancellationStatus, filter shared.Filter) ([]*Cancellation, error)
	Save(ctx context.Context, cancellation *Cancellation) error
	SaveWithLock(ctx context.Context, cancellation *Cancellation) error
}

// RefundRepository defines the persistence interface for refund payouts
type RefundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Refund, error)
	FindByCancellation(ctx context.Context, branchID, cancellationID uuid.UUID) ([]*Refund, error)
	// FindDueUnpaid returns approved, unpaid refunds due on or before the given date.
	FindDueUnpaid(ctx context.Context, branchID uuid.UUID, dueBefore time.Time) ([]*Refund, error)
	Save(ctx context.Context, refund *Refund) error
	SaveWithLock(ctx context.Context, refund *Refund) error
}
