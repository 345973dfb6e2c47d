package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/application/notification"
	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/sales"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceiptService handles receipt vouchers through their approval chain.
// A receipt is drafted against a sale stage, submitted, approved at two
// levels, and only on final approval does the payment hit the sale and
// the ledger.
type ReceiptService struct {
	receiptRepo    finance.ReceiptRepository
	saleRepo       sales.SaleRepository
	entryRepo      ledger.EntryRepository
	numberGen      shared.DocumentNumberGenerator
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	notifier       *notification.Dispatcher
	clock          func() time.Time
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo finance.ReceiptRepository,
	saleRepo sales.SaleRepository,
	entryRepo ledger.EntryRepository,
	numberGen shared.DocumentNumberGenerator,
	txManager shared.TransactionManager,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		saleRepo:    saleRepo,
		entryRepo:   entryRepo,
		numberGen:   numberGen,
		txManager:   txManager,
		clock:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier sets the SMS dispatcher used after final approval
func (s *ReceiptService) SetNotifier(notifier *notification.Dispatcher) {
	s.notifier = notifier
}

// SetClock overrides the time source, used by tests
func (s *ReceiptService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Create drafts a receipt voucher against a sale stage. The sale is only
// read here; its balances move when the receipt clears final approval.
func (s *ReceiptService) Create(ctx context.Context, branchID uuid.UUID, req CreateReceiptRequest) (*ReceiptResponse, error) {
	sale, err := s.saleRepo.FindByIDForBranch(ctx, branchID, req.SaleID)
	if err != nil {
		return nil, err
	}
	if !sale.Status.CanReceivePayment() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot draft a receipt against a %s sale", sale.Status))
	}

	stageName := sales.StageName(req.StageName)
	if !stageName.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown stage name %q", req.StageName))
	}
	stage := sale.FindStage(stageName)
	if stage == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Sale has no %s stage", stageName))
	}

	amount := valueobject.NewMoneyBDT(req.Amount)
	if amount.Amount().GreaterThan(stage.DueAmount) {
		return nil, shared.NewDomainError("AMOUNT_EXCEEDS_DUE",
			fmt.Sprintf("Receipt amount %s exceeds stage due %s", req.Amount.StringFixed(2), stage.DueAmount.StringFixed(2)))
	}

	receiptNumber, err := s.numberGen.Next(ctx, branchID, shared.DocTypeReceipt, req.ReceiptDate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt number: %w", err)
	}

	receipt, err := finance.NewReceipt(branchID, receiptNumber, sale.ID, sale.SaleNumber,
		string(stageName), amount, finance.PaymentMethod(req.PaymentMethod),
		req.PaymentReference, req.ReceivedFrom, req.ReceiptDate)
	if err != nil {
		return nil, err
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.publishDomainEvents(ctx, receipt)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Submit moves a draft or rejected receipt into the approval chain
func (s *ReceiptService) Submit(ctx context.Context, branchID, receiptID, actorID uuid.UUID, role finance.ApproverRole) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForBranch(ctx, branchID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Submit(actorID, role, s.clock()); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.publishDomainEvents(ctx, receipt)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Approve advances the receipt one approval level. When the second level
// clears, the payment is applied to the sale stage, the receipt is posted
// to the ledger, and the client is notified, all but the SMS atomically.
func (s *ReceiptService) Approve(ctx context.Context, branchID, receiptID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*ReceiptResponse, error) {
	now := s.clock()

	var receipt *finance.Receipt
	var sale *sales.Sale
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.FindByIDForBranch(txCtx, branchID, receiptID)
		if err != nil {
			return err
		}
		if err := receipt.Approve(actorID, role, remarks, now); err != nil {
			return err
		}

		if receipt.IsApproved() {
			sale, err = s.saleRepo.FindByIDForBranch(txCtx, branchID, receipt.SaleID)
			if err != nil {
				return err
			}
			if err := sale.ApplyPayment(sales.StageName(receipt.StageName), receipt.GetAmountMoney(), now); err != nil {
				return err
			}
			if err := receipt.MarkPosted(now); err != nil {
				return err
			}
			if err := s.saleRepo.SaveWithLock(txCtx, sale); err != nil {
				return fmt.Errorf("failed to save sale: %w", err)
			}

			entries := ledger.ReceiptPosting(branchID, receipt.ID, receipt.ReceiptNumber,
				receipt.Amount, string(receipt.PaymentMethod), receipt.ReceiptDate)
			if err := s.entryRepo.Append(txCtx, entries); err != nil {
				return fmt.Errorf("failed to post receipt to ledger: %w", err)
			}
		}

		if err := s.receiptRepo.SaveWithLock(txCtx, receipt); err != nil {
			return fmt.Errorf("failed to save receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, receipt)
	if sale != nil {
		s.publishSaleEvents(ctx, sale)
		if s.notifier != nil {
			s.notifier.PaymentReceived(ctx, sale.ClientPhone, sale.ClientName, receipt.Amount, receipt.ReceiptNumber)
		}
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Reject sends a pending receipt back to its author with remarks
func (s *ReceiptService) Reject(ctx context.Context, branchID, receiptID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForBranch(ctx, branchID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Reject(actorID, role, remarks, s.clock()); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.publishDomainEvents(ctx, receipt)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Update edits a draft or rejected receipt before resubmission
func (s *ReceiptService) Update(ctx context.Context, branchID, receiptID uuid.UUID, req UpdateReceiptRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForBranch(ctx, branchID, receiptID)
	if err != nil {
		return nil, err
	}
	amount := valueobject.NewMoneyBDT(req.Amount)
	if err := receipt.UpdateDetails(amount, finance.PaymentMethod(req.PaymentMethod), req.PaymentReference, req.Remark); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves a receipt voucher
func (s *ReceiptService) GetByID(ctx context.Context, branchID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForBranch(ctx, branchID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *ReceiptService) List(ctx context.Context, branchID uuid.UUID, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	domainFilter := finance.ReceiptFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}
	if filter.Status != "" {
		status := finance.ApprovalStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown approval status %q", filter.Status))
		}
		domainFilter.Status = &status
	}
	if filter.SaleID != "" {
		saleID, err := uuid.Parse(filter.SaleID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid sale ID")
		}
		domainFilter.SaleID = &saleID
	}

	receipts, err := s.receiptRepo.FindAllForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.CountForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToReceiptResponse(receipts[i])
	}
	return responses, total, nil
}

func (s *ReceiptService) publishDomainEvents(ctx context.Context, receipt *finance.Receipt) {
	if s.eventPublisher == nil || receipt == nil {
		return
	}
	events := receipt.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	receipt.ClearDomainEvents()
}

func (s *ReceiptService) publishSaleEvents(ctx context.Context, sale *sales.Sale) {
	if s.eventPublisher == nil || sale == nil {
		return
	}
	events := sale.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	sale.ClearDomainEvents()
}
