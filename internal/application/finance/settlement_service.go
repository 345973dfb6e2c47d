package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/application/notification"
	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/land"
	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/sales"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SettlementService handles sale cancellations and their refund payouts.
// Opening a settlement cancels the sale and frees the plot; rejecting the
// settlement puts both back. Refunds flow out as scheduled payouts, each
// through the approval chain and into the ledger.
type SettlementService struct {
	cancellationRepo finance.CancellationRepository
	refundRepo       finance.RefundRepository
	saleRepo         sales.SaleRepository
	plotRepo         land.PlotRepository
	parcelRepo       land.LandParcelRepository
	entryRepo        ledger.EntryRepository
	numberGen        shared.DocumentNumberGenerator
	txManager        shared.TransactionManager
	eventPublisher   shared.EventPublisher
	notifier         *notification.Dispatcher
	clock            func() time.Time
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	cancellationRepo finance.CancellationRepository,
	refundRepo finance.RefundRepository,
	saleRepo sales.SaleRepository,
	plotRepo land.PlotRepository,
	parcelRepo land.LandParcelRepository,
	entryRepo ledger.EntryRepository,
	numberGen shared.DocumentNumberGenerator,
	txManager shared.TransactionManager,
) *SettlementService {
	return &SettlementService{
		cancellationRepo: cancellationRepo,
		refundRepo:       refundRepo,
		saleRepo:         saleRepo,
		plotRepo:         plotRepo,
		parcelRepo:       parcelRepo,
		entryRepo:        entryRepo,
		numberGen:        numberGen,
		txManager:        txManager,
		clock:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier sets the SMS dispatcher used after refund payouts
func (s *SettlementService) SetNotifier(notifier *notification.Dispatcher) {
	s.notifier = notifier
}

// SetClock overrides the time source, used by tests
func (s *SettlementService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Open cancels a sale and opens its settlement. The cancellation snapshots
// the amount paid so far, the sale moves to cancelled, and the plot returns
// to available with its area back on the parcel, all in one transaction.
// A sale can only be cancelled once.
func (s *SettlementService) Open(ctx context.Context, branchID uuid.UUID, req OpenCancellationRequest) (*CancellationResponse, error) {
	now := s.clock()

	var cancellation *finance.Cancellation
	var sale *sales.Sale
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.cancellationRepo.FindBySale(txCtx, branchID, req.SaleID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("CONFLICT",
				fmt.Sprintf("Sale %s already has a cancellation", existing.SaleNumber))
		}

		sale, err = s.saleRepo.FindByIDForBranch(txCtx, branchID, req.SaleID)
		if err != nil {
			return err
		}

		cancellation, err = finance.NewCancellation(branchID, sale.ID, sale.SaleNumber,
			sale.PlotID, sale.ClientID, sale.ClientName, req.Reason,
			valueobject.NewMoneyBDT(sale.PaidAmount), req.OfficeChargePercent,
			valueobject.NewMoneyBDT(req.OtherDeductions), now)
		if err != nil {
			return err
		}

		if err := sale.Cancel(req.Reason, now); err != nil {
			return err
		}

		plot, err := s.plotRepo.FindByIDForBranch(txCtx, branchID, sale.PlotID)
		if err != nil {
			return err
		}
		parcel, err := s.parcelRepo.FindByIDForBranch(txCtx, branchID, plot.ParcelID)
		if err != nil {
			return err
		}
		if err := plot.RevertToAvailable(); err != nil {
			return err
		}
		if err := parcel.RevertSale(plot.GetArea()); err != nil {
			return err
		}

		if err := s.saleRepo.SaveWithLock(txCtx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if err := s.plotRepo.SaveWithLock(txCtx, plot); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		if err := s.parcelRepo.SaveWithLock(txCtx, parcel); err != nil {
			return fmt.Errorf("failed to save parcel: %w", err)
		}
		if err := s.cancellationRepo.Save(txCtx, cancellation); err != nil {
			return fmt.Errorf("failed to save cancellation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancellation, sale)

	response := ToCancellationResponse(cancellation)
	return &response, nil
}

// Approve confirms a pending settlement
func (s *SettlementService) Approve(ctx context.Context, branchID, cancellationID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*CancellationResponse, error) {
	cancellation, err := s.cancellationRepo.FindByIDForBranch(ctx, branchID, cancellationID)
	if err != nil {
		return nil, err
	}
	if err := cancellation.Approve(actorID, role, remarks, s.clock()); err != nil {
		return nil, err
	}
	if err := s.cancellationRepo.SaveWithLock(ctx, cancellation); err != nil {
		return nil, fmt.Errorf("failed to save cancellation: %w", err)
	}

	s.publishEvents(ctx, cancellation, nil)

	response := ToCancellationResponse(cancellation)
	return &response, nil
}

// Reject declines a pending settlement and reinstates the sale. The plot is
// marked sold again and its area moves back on the parcel, atomically.
func (s *SettlementService) Reject(ctx context.Context, branchID, cancellationID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*CancellationResponse, error) {
	now := s.clock()

	var cancellation *finance.Cancellation
	var sale *sales.Sale
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		cancellation, err = s.cancellationRepo.FindByIDForBranch(txCtx, branchID, cancellationID)
		if err != nil {
			return err
		}
		if err := cancellation.Reject(actorID, role, remarks, now); err != nil {
			return err
		}

		sale, err = s.saleRepo.FindByIDForBranch(txCtx, branchID, cancellation.SaleID)
		if err != nil {
			return err
		}
		if err := sale.Reinstate(); err != nil {
			return err
		}

		plot, err := s.plotRepo.FindByIDForBranch(txCtx, branchID, sale.PlotID)
		if err != nil {
			return err
		}
		parcel, err := s.parcelRepo.FindByIDForBranch(txCtx, branchID, plot.ParcelID)
		if err != nil {
			return err
		}
		if err := plot.MarkSold(sale.ClientID, sale.SaleDate); err != nil {
			return err
		}
		if err := parcel.Sell(plot.GetArea()); err != nil {
			return err
		}

		if err := s.saleRepo.SaveWithLock(txCtx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if err := s.plotRepo.SaveWithLock(txCtx, plot); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		if err := s.parcelRepo.SaveWithLock(txCtx, parcel); err != nil {
			return fmt.Errorf("failed to save parcel: %w", err)
		}
		if err := s.cancellationRepo.SaveWithLock(txCtx, cancellation); err != nil {
			return fmt.Errorf("failed to save cancellation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancellation, sale)

	response := ToCancellationResponse(cancellation)
	return &response, nil
}

// GenerateRefundSchedule splits the refundable amount into numbered refund
// payouts one month apart. Each line becomes a draft refund document.
func (s *SettlementService) GenerateRefundSchedule(ctx context.Context, branchID, cancellationID uuid.UUID, req RefundScheduleRequest) ([]RefundResponse, error) {
	var refunds []*finance.Refund
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		cancellation, err := s.cancellationRepo.FindByIDForBranch(txCtx, branchID, cancellationID)
		if err != nil {
			return err
		}

		lines, err := cancellation.GenerateRefundSchedule(req.Count, req.StartDate)
		if err != nil {
			return err
		}

		refunds = make([]*finance.Refund, 0, len(lines))
		for _, line := range lines {
			refundNumber, err := s.numberGen.Next(txCtx, branchID, shared.DocTypeRefund, line.DueDate)
			if err != nil {
				return fmt.Errorf("failed to generate refund number: %w", err)
			}
			refund, err := finance.NewRefund(branchID, refundNumber, cancellation.ID,
				cancellation.SaleNumber, cancellation.ClientName, line)
			if err != nil {
				return err
			}
			if err := s.refundRepo.Save(txCtx, refund); err != nil {
				return fmt.Errorf("failed to save refund: %w", err)
			}
			refunds = append(refunds, refund)
		}

		if err := s.cancellationRepo.SaveWithLock(txCtx, cancellation); err != nil {
			return fmt.Errorf("failed to save cancellation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]RefundResponse, len(refunds))
	for i := range refunds {
		responses[i] = ToRefundResponse(refunds[i])
	}
	return responses, nil
}

// SubmitRefund moves a draft refund payout into the approval chain
func (s *SettlementService) SubmitRefund(ctx context.Context, branchID, refundID, actorID uuid.UUID, role finance.ApproverRole) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByIDForBranch(ctx, branchID, refundID)
	if err != nil {
		return nil, err
	}
	if err := refund.Submit(actorID, role, s.clock()); err != nil {
		return nil, err
	}
	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to save refund: %w", err)
	}
	response := ToRefundResponse(refund)
	return &response, nil
}

// ApproveRefund advances a refund payout one approval level
func (s *SettlementService) ApproveRefund(ctx context.Context, branchID, refundID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByIDForBranch(ctx, branchID, refundID)
	if err != nil {
		return nil, err
	}
	if err := refund.Approve(actorID, role, remarks, s.clock()); err != nil {
		return nil, err
	}
	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to save refund: %w", err)
	}
	response := ToRefundResponse(refund)
	return &response, nil
}

// RejectRefund declines a refund payout at its current level
func (s *SettlementService) RejectRefund(ctx context.Context, branchID, refundID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByIDForBranch(ctx, branchID, refundID)
	if err != nil {
		return nil, err
	}
	if err := refund.Reject(actorID, role, remarks, s.clock()); err != nil {
		return nil, err
	}
	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to save refund: %w", err)
	}
	response := ToRefundResponse(refund)
	return &response, nil
}

// MarkRefundPaid records one refund payout. The payout must have cleared
// approval; the cancellation totals and the ledger move in the same
// transaction, and the client is notified after commit.
func (s *SettlementService) MarkRefundPaid(ctx context.Context, branchID, refundID uuid.UUID, req MarkRefundPaidRequest) (*RefundResponse, error) {
	now := s.clock()

	var refund *finance.Refund
	var cancellation *finance.Cancellation
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		refund, err = s.refundRepo.FindByIDForBranch(txCtx, branchID, refundID)
		if err != nil {
			return err
		}
		cancellation, err = s.cancellationRepo.FindByIDForBranch(txCtx, branchID, refund.CancellationID)
		if err != nil {
			return err
		}

		if err := refund.MarkPaid(finance.PaymentMethod(req.PaymentMethod), req.PaymentReference, now); err != nil {
			return err
		}
		if err := cancellation.RecordRefundPaid(refund.GetAmountMoney(), now); err != nil {
			return err
		}
		if err := refund.MarkPosted(now); err != nil {
			return err
		}

		entries := ledger.RefundPosting(branchID, refund.ID, refund.RefundNumber,
			refund.Amount, string(refund.PaymentMethod), now)
		if err := s.entryRepo.Append(txCtx, entries); err != nil {
			return fmt.Errorf("failed to post refund to ledger: %w", err)
		}

		if err := s.refundRepo.SaveWithLock(txCtx, refund); err != nil {
			return fmt.Errorf("failed to save refund: %w", err)
		}
		if err := s.cancellationRepo.SaveWithLock(txCtx, cancellation); err != nil {
			return fmt.Errorf("failed to save cancellation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancellation, nil)
	if s.notifier != nil {
		if sale, err := s.saleRepo.FindByIDForBranch(ctx, branchID, cancellation.SaleID); err == nil {
			s.notifier.RefundPaid(ctx, sale.ClientPhone, cancellation.ClientName, refund.Amount, refund.RefundNumber)
		}
	}

	response := ToRefundResponse(refund)
	return &response, nil
}

// GetByID retrieves a settlement
func (s *SettlementService) GetByID(ctx context.Context, branchID, cancellationID uuid.UUID) (*CancellationResponse, error) {
	cancellation, err := s.cancellationRepo.FindByIDForBranch(ctx, branchID, cancellationID)
	if err != nil {
		return nil, err
	}
	response := ToCancellationResponse(cancellation)
	return &response, nil
}

// GetBySale retrieves the settlement opened for a sale, if any
func (s *SettlementService) GetBySale(ctx context.Context, branchID, saleID uuid.UUID) (*CancellationResponse, error) {
	cancellation, err := s.cancellationRepo.FindBySale(ctx, branchID, saleID)
	if err != nil {
		return nil, err
	}
	response := ToCancellationResponse(cancellation)
	return &response, nil
}

// List retrieves settlements with filtering and pagination
func (s *SettlementService) List(ctx context.Context, branchID uuid.UUID, filter CancellationListFilter) ([]CancellationResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	var status *finance.CancellationStatus
	if filter.Status != "" {
		parsed := finance.CancellationStatus(filter.Status)
		if !parsed.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown cancellation status %q", filter.Status))
		}
		status = &parsed
	}

	cancellations, err := s.cancellationRepo.FindAllForBranch(ctx, branchID, status, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]CancellationResponse, len(cancellations))
	for i := range cancellations {
		responses[i] = ToCancellationResponse(cancellations[i])
	}
	return responses, nil
}

// ListRefunds retrieves the refund payouts of a settlement in sequence order
func (s *SettlementService) ListRefunds(ctx context.Context, branchID, cancellationID uuid.UUID) ([]RefundResponse, error) {
	refunds, err := s.refundRepo.FindByCancellation(ctx, branchID, cancellationID)
	if err != nil {
		return nil, err
	}
	responses := make([]RefundResponse, len(refunds))
	for i := range refunds {
		responses[i] = ToRefundResponse(refunds[i])
	}
	return responses, nil
}

func (s *SettlementService) publishEvents(ctx context.Context, cancellation *finance.Cancellation, sale *sales.Sale) {
	if s.eventPublisher == nil {
		return
	}
	if cancellation != nil {
		if events := cancellation.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			cancellation.ClearDomainEvents()
		}
	}
	if sale != nil {
		if events := sale.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			sale.ClearDomainEvents()
		}
	}
}

func isNotFound(err error) bool {
	de, ok := err.(*shared.DomainError)
	return ok && de.Code == "NOT_FOUND"
}
