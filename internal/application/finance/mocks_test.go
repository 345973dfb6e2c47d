package finance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/land"
	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/sales"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCancellationRepository is a mock implementation of CancellationRepository
type MockCancellationRepository struct {
	mock.Mock
}

func (m *MockCancellationRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Cancellation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Cancellation), args.Error(1)
}

func (m *MockCancellationRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Cancellation, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Cancellation), args.Error(1)
}

func (m *MockCancellationRepository) FindBySale(ctx context.Context, branchID, saleID uuid.UUID) (*finance.Cancellation, error) {
	args := m.Called(ctx, branchID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Cancellation), args.Error(1)
}

func (m *MockCancellationRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, status *finance.CancellationStatus, filter shared.Filter) ([]*finance.Cancellation, error) {
	args := m.Called(ctx, branchID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Cancellation), args.Error(1)
}

func (m *MockCancellationRepository) Save(ctx context.Context, cancellation *finance.Cancellation) error {
	args := m.Called(ctx, cancellation)
	return args.Error(0)
}

func (m *MockCancellationRepository) SaveWithLock(ctx context.Context, cancellation *finance.Cancellation) error {
	args := m.Called(ctx, cancellation)
	return args.Error(0)
}

// MockRefundRepository is a mock implementation of RefundRepository
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Refund), args.Error(1)
}

func (m *MockRefundRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Refund, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Refund), args.Error(1)
}

func (m *MockRefundRepository) FindByCancellation(ctx context.Context, branchID, cancellationID uuid.UUID) ([]*finance.Refund, error) {
	args := m.Called(ctx, branchID, cancellationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Refund), args.Error(1)
}

func (m *MockRefundRepository) FindDueUnpaid(ctx context.Context, branchID uuid.UUID, dueBefore time.Time) ([]*finance.Refund, error) {
	args := m.Called(ctx, branchID, dueBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Refund), args.Error(1)
}

func (m *MockRefundRepository) Save(ctx context.Context, refund *finance.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}

func (m *MockRefundRepository) SaveWithLock(ctx context.Context, refund *finance.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ExpenseFilter) ([]*finance.Expense, error) {
	args := m.Called(ctx, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySaleNumber(ctx context.Context, branchID uuid.UUID, saleNumber string) (*sales.Sale, error) {
	args := m.Called(ctx, branchID, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByPlot(ctx context.Context, branchID, plotID uuid.UUID) ([]*sales.Sale, error) {
	args := m.Called(ctx, branchID, plotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter sales.SaleFilter) ([]*sales.Sale, error) {
	args := m.Called(ctx, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindWithDueInstallments(ctx context.Context, branchID uuid.UUID, dueBefore time.Time) ([]*sales.Sale, error) {
	args := m.Called(ctx, branchID, dueBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter sales.SaleFilter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlotRepository is a mock implementation of land.PlotRepository
type MockPlotRepository struct {
	mock.Mock
}

func (m *MockPlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*land.Plot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*land.Plot), args.Error(1)
}

func (m *MockPlotRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*land.Plot, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*land.Plot), args.Error(1)
}

func (m *MockPlotRepository) FindByPlotNumber(ctx context.Context, branchID, parcelID uuid.UUID, plotNumber string) (*land.Plot, error) {
	args := m.Called(ctx, branchID, parcelID, plotNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*land.Plot), args.Error(1)
}

func (m *MockPlotRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter land.PlotFilter) ([]land.Plot, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]land.Plot), args.Error(1)
}

func (m *MockPlotRepository) FindByParcel(ctx context.Context, branchID, parcelID uuid.UUID) ([]land.Plot, error) {
	args := m.Called(ctx, branchID, parcelID)
	return args.Get(0).([]land.Plot), args.Error(1)
}

func (m *MockPlotRepository) Save(ctx context.Context, plot *land.Plot) error {
	args := m.Called(ctx, plot)
	return args.Error(0)
}

func (m *MockPlotRepository) SaveWithLock(ctx context.Context, plot *land.Plot) error {
	args := m.Called(ctx, plot)
	return args.Error(0)
}

func (m *MockPlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlotRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter land.PlotFilter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlotRepository) CountByStatus(ctx context.Context, branchID uuid.UUID, status land.PlotStatus) (int64, error) {
	args := m.Called(ctx, branchID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockParcelRepository is a mock implementation of land.LandParcelRepository
type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) FindByID(ctx context.Context, id uuid.UUID) (*land.LandParcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*land.LandParcel), args.Error(1)
}

func (m *MockParcelRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*land.LandParcel, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*land.LandParcel), args.Error(1)
}

func (m *MockParcelRepository) FindByParcelNumber(ctx context.Context, branchID uuid.UUID, parcelNumber string) (*land.LandParcel, error) {
	args := m.Called(ctx, branchID, parcelNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*land.LandParcel), args.Error(1)
}

func (m *MockParcelRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter land.ParcelFilter) ([]land.LandParcel, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]land.LandParcel), args.Error(1)
}

func (m *MockParcelRepository) Save(ctx context.Context, parcel *land.LandParcel) error {
	args := m.Called(ctx, parcel)
	return args.Error(0)
}

func (m *MockParcelRepository) SaveWithLock(ctx context.Context, parcel *land.LandParcel) error {
	args := m.Called(ctx, parcel)
	return args.Error(0)
}

func (m *MockParcelRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter land.ParcelFilter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEntryRepository is a mock implementation of ledger.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Append(ctx context.Context, entries []ledger.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByReference(ctx context.Context, branchID, referenceID uuid.UUID) ([]ledger.Entry, error) {
	args := m.Called(ctx, branchID, referenceID)
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) AccountBalances(ctx context.Context, branchID uuid.UUID, from, to time.Time) ([]ledger.AccountBalance, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).([]ledger.AccountBalance), args.Error(1)
}

func (m *MockEntryRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter ledger.EntryFilter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Test Stubs
// =============================================================================

// stubTxManager runs the unit of work inline without a real transaction
type stubTxManager struct{}

func (stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// stubNumberGenerator hands out sequential document numbers per type
type stubNumberGenerator struct {
	mu   sync.Mutex
	next map[string]int
}

func newStubNumberGenerator() *stubNumberGenerator {
	return &stubNumberGenerator{next: make(map[string]int)}
}

func (g *stubNumberGenerator) Next(ctx context.Context, branchID uuid.UUID, docType string, at time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[docType]++
	return fmt.Sprintf("%s-%s-%05d", docType, at.Format("2006-01"), g.next[docType]), nil
}

var _ shared.TransactionManager = stubTxManager{}
var _ shared.DocumentNumberGenerator = (*stubNumberGenerator)(nil)
