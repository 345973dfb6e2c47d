package land

import (
	"context"

	"github.com/estate/backend/internal/domain/land"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

// =============================================================================
// Stubs
// =============================================================================

// stubTxManager runs the unit of work inline without a real transaction.
type stubTxManager struct{}

func (stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ land.LandParcelRepository = (*MockParcelRepository)(nil)
	_ land.PlotRepository       = (*MockPlotRepository)(nil)
)
