package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ExpenseService handles expense records through their approval chain.
// Like receipts, an expense only hits the ledger once both approval
// levels clear.
type ExpenseService struct {
	expenseRepo    finance.ExpenseRepository
	entryRepo      ledger.EntryRepository
	numberGen      shared.DocumentNumberGenerator
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	clock          func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	entryRepo ledger.EntryRepository,
	numberGen shared.DocumentNumberGenerator,
	txManager shared.TransactionManager,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		entryRepo:   entryRepo,
		numberGen:   numberGen,
		txManager:   txManager,
		clock:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source, used by tests
func (s *ExpenseService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Create drafts an expense record
func (s *ExpenseService) Create(ctx context.Context, branchID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expenseNumber, err := s.numberGen.Next(ctx, branchID, shared.DocTypeExpense, req.IncurredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate expense number: %w", err)
	}

	expense, err := finance.NewExpense(branchID, expenseNumber, req.Category,
		valueobject.NewMoneyBDT(req.Amount), req.Description,
		finance.PaymentMethod(req.PaymentMethod), req.IncurredAt)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Update edits a draft or rejected expense before resubmission
func (s *ExpenseService) Update(ctx context.Context, branchID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForBranch(ctx, branchID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := expense.UpdateDetails(req.Category, valueobject.NewMoneyBDT(req.Amount),
		req.Description, finance.PaymentMethod(req.PaymentMethod), req.IncurredAt); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// Submit moves a draft or rejected expense into the approval chain
func (s *ExpenseService) Submit(ctx context.Context, branchID, expenseID, actorID uuid.UUID, role finance.ApproverRole) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForBranch(ctx, branchID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := expense.Submit(actorID, role, s.clock()); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// Approve advances the expense one approval level. On final approval the
// expense is posted to the ledger in the same transaction.
func (s *ExpenseService) Approve(ctx context.Context, branchID, expenseID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*ExpenseResponse, error) {
	now := s.clock()

	var expense *finance.Expense
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		expense, err = s.expenseRepo.FindByIDForBranch(txCtx, branchID, expenseID)
		if err != nil {
			return err
		}
		if err := expense.Approve(actorID, role, remarks, now); err != nil {
			return err
		}

		if expense.IsApproved() {
			if err := expense.MarkPosted(now); err != nil {
				return err
			}
			entries := ledger.ExpensePosting(branchID, expense.ID, expense.ExpenseNumber,
				expense.Category, expense.Amount, string(expense.PaymentMethod), expense.IncurredAt)
			if err := s.entryRepo.Append(txCtx, entries); err != nil {
				return fmt.Errorf("failed to post expense to ledger: %w", err)
			}
		}

		if err := s.expenseRepo.SaveWithLock(txCtx, expense); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Reject sends a pending expense back to its author with remarks
func (s *ExpenseService) Reject(ctx context.Context, branchID, expenseID, actorID uuid.UUID, role finance.ApproverRole, remarks string) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForBranch(ctx, branchID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := expense.Reject(actorID, role, remarks, s.clock()); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense record
func (s *ExpenseService) GetByID(ctx context.Context, branchID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForBranch(ctx, branchID, expenseID)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, branchID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	domainFilter := finance.ExpenseFilter{
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
	if filter.Category != "" {
		domainFilter.Category = &filter.Category
	}

	expenses, err := s.expenseRepo.FindAllForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.CountForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(expenses[i])
	}
	return responses, total, nil
}

func (s *ExpenseService) publishDomainEvents(ctx context.Context, expense *finance.Expense) {
	if s.eventPublisher == nil || expense == nil {
		return
	}
	events := expense.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	expense.ClearDomainEvents()
}
