package sales

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

// MockSaleRepository is a mock implementation of SaleRepository
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

// MockPlotRepository is a mock implementation of PlotRepository
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

// MockParcelRepository is a mock implementation of LandParcelRepository
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

// MockReceiptRepository is a mock implementation of finance.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*finance.Receipt, error) {
	args := m.Called(ctx, branchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByReceiptNumber(ctx context.Context, branchID uuid.UUID, receiptNumber string) (*finance.Receipt, error) {
	args := m.Called(ctx, branchID, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindBySale(ctx context.Context, branchID, saleID uuid.UUID) ([]*finance.Receipt, error) {
	args := m.Called(ctx, branchID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ReceiptFilter) ([]*finance.Receipt, error) {
	args := m.Called(ctx, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *finance.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) SaveWithLock(ctx context.Context, receipt *finance.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) CountForBranch(ctx context.Context, branchID uuid.UUID, filter finance.ReceiptFilter) (int64, error) {
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
