package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/application/notification"
	"github.com/estate/backend/internal/domain/land"
	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/sales"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleService handles recording and querying plot sales. Creating a sale
// moves plot and parcel state, builds the stage plan and installment
// schedule, and posts the sale to the ledger in one transaction.
type SaleService struct {
	saleRepo       sales.SaleRepository
	plotRepo       land.PlotRepository
	parcelRepo     land.LandParcelRepository
	entryRepo      ledger.EntryRepository
	numberGen      shared.DocumentNumberGenerator
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	notifier       *notification.Dispatcher
	clock          func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	plotRepo land.PlotRepository,
	parcelRepo land.LandParcelRepository,
	entryRepo ledger.EntryRepository,
	numberGen shared.DocumentNumberGenerator,
	txManager shared.TransactionManager,
) *SaleService {
	return &SaleService{
		saleRepo:   saleRepo,
		plotRepo:   plotRepo,
		parcelRepo: parcelRepo,
		entryRepo:  entryRepo,
		numberGen:  numberGen,
		txManager:  txManager,
		clock:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier sets the dispatcher for client SMS reminders
func (s *SaleService) SetNotifier(notifier *notification.Dispatcher) {
	s.notifier = notifier
}

// SetClock overrides the time source, used by tests
func (s *SaleService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Create records a plot sale. The plot is marked sold, its area moves from
// allocated to sold on the parcel ledger, the stage plan and installment
// schedule are built, and the sale is posted to the ledger, atomically.
func (s *SaleService) Create(ctx context.Context, branchID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	totalPrice := valueobject.NewMoneyBDT(req.TotalPrice)

	plan := make([]sales.StagePlan, 0, len(req.Stages))
	for _, sp := range req.Stages {
		name := sales.StageName(sp.Name)
		if !name.IsValid() {
			return nil, shared.NewDomainError("INVALID_STAGE_PLAN", fmt.Sprintf("Unknown stage name %q", sp.Name))
		}
		plan = append(plan, sales.StagePlan{
			Name:          name,
			PlannedAmount: valueobject.NewMoneyBDT(sp.PlannedAmount),
			ExpectedDate:  sp.ExpectedDate,
		})
	}

	var sale *sales.Sale
	var plot *land.Plot
	var parcel *land.LandParcel
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		plot, err = s.plotRepo.FindByIDForBranch(txCtx, branchID, req.PlotID)
		if err != nil {
			return err
		}
		parcel, err = s.parcelRepo.FindByIDForBranch(txCtx, branchID, plot.ParcelID)
		if err != nil {
			return err
		}

		saleNumber, err := s.numberGen.Next(txCtx, branchID, shared.DocTypeSale, req.SaleDate)
		if err != nil {
			return fmt.Errorf("failed to generate sale number: %w", err)
		}

		sale, err = sales.NewSale(branchID, saleNumber, plot.ID, parcel.ID, req.ClientID,
			req.ClientName, req.ClientPhone, totalPrice, req.SaleDate, plan)
		if err != nil {
			return err
		}

		if req.InstallmentPlan != nil {
			frequency := sales.InstallmentFrequency(req.InstallmentPlan.Frequency)
			if err := sale.GenerateInstallmentSchedule(req.InstallmentPlan.Count, frequency, req.InstallmentPlan.StartDate); err != nil {
				return err
			}
		}

		if err := plot.MarkSold(req.ClientID, req.SaleDate); err != nil {
			return err
		}
		if err := parcel.Sell(plot.GetArea()); err != nil {
			return err
		}

		if err := s.parcelRepo.SaveWithLock(txCtx, parcel); err != nil {
			return fmt.Errorf("failed to save parcel: %w", err)
		}
		if err := s.plotRepo.SaveWithLock(txCtx, plot); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		if err := s.saleRepo.Save(txCtx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}

		entries := ledger.SalePosting(branchID, sale.ID, sale.SaleNumber, sale.TotalPrice, sale.SaleDate)
		if err := s.entryRepo.Append(txCtx, entries); err != nil {
			return fmt.Errorf("failed to post sale to ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, sale)
	s.publishPlotEvents(ctx, plot, parcel)

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale with its stages and installments
func (s *SaleService) GetByID(ctx context.Context, branchID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForBranch(ctx, branchID, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetBySaleNumber retrieves a sale by its document number
func (s *SaleService) GetBySaleNumber(ctx context.Context, branchID uuid.UUID, saleNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindBySaleNumber(ctx, branchID, saleNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, branchID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	domainFilter := sales.SaleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
	}
	if filter.Status != "" {
		status := sales.SaleStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown sale status %q", filter.Status))
		}
		domainFilter.Status = &status
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid client ID")
		}
		domainFilter.ClientID = &clientID
	}
	if filter.PlotID != "" {
		plotID, err := uuid.Parse(filter.PlotID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid plot ID")
		}
		domainFilter.PlotID = &plotID
	}

	saleList, err := s.saleRepo.FindAllForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.CountForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(saleList))
	for i := range saleList {
		responses[i] = ToSaleResponse(saleList[i])
	}
	return responses, total, nil
}

// Hold suspends an active sale
func (s *SaleService) Hold(ctx context.Context, branchID, saleID uuid.UUID, reason string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForBranch(ctx, branchID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.Hold(reason); err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// Resume returns a held sale to active
func (s *SaleService) Resume(ctx context.Context, branchID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForBranch(ctx, branchID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.Resume(); err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// RegenerateSchedule rebuilds the installment schedule of a sale that has
// not received any installment payment yet
func (s *SaleService) RegenerateSchedule(ctx context.Context, branchID, saleID uuid.UUID, req InstallmentPlanRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForBranch(ctx, branchID, saleID)
	if err != nil {
		return nil, err
	}

	frequency := sales.InstallmentFrequency(req.Frequency)
	if err := sale.GenerateInstallmentSchedule(req.Count, frequency, req.StartDate); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.publishDomainEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// RefreshDueStatuses re-derives installment and stage statuses for every
// active sale with lines due on or before now. Called by the periodic sweep.
// Returns the number of sales whose statuses changed.
func (s *SaleService) RefreshDueStatuses(ctx context.Context, branchID uuid.UUID) (int, error) {
	now := s.clock()
	dueSales, err := s.saleRepo.FindWithDueInstallments(ctx, branchID, now)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, sale := range dueSales {
		if sale.RefreshInstallmentStatuses(now) == 0 {
			continue
		}
		sale.Recalculate(now)
		if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
			if shared.IsRetryable(err) {
				continue // next sweep picks it up
			}
			return updated, fmt.Errorf("failed to save sale %s: %w", sale.SaleNumber, err)
		}
		updated++

		if s.notifier != nil {
			if line := sale.NextDueInstallment(); line != nil && line.DueDate.Before(now) {
				s.notifier.InstallmentDue(ctx, sale.ClientPhone, sale.ClientName, line.Outstanding(), sale.SaleNumber, line.DueDate)
			}
		}
	}
	return updated, nil
}

func (s *SaleService) publishDomainEvents(ctx context.Context, sale *sales.Sale) {
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

func (s *SaleService) publishPlotEvents(ctx context.Context, plot *land.Plot, parcel *land.LandParcel) {
	if s.eventPublisher == nil {
		return
	}
	if plot != nil {
		if events := plot.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			plot.ClearDomainEvents()
		}
	}
	if parcel != nil {
		if events := parcel.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			parcel.ClearDomainEvents()
		}
	}
}
