package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	mu      sync.Mutex
	calls   map[uuid.UUID]int
	failFor map[uuid.UUID]int
	updated int
}

func newFakeSweeper() *fakeSweeper {
	return &fakeSweeper{
		calls:   make(map[uuid.UUID]int),
		failFor: make(map[uuid.UUID]int),
	}
}

func (f *fakeSweeper) RefreshDueStatuses(ctx context.Context, branchID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[branchID]++
	if f.failFor[branchID] > 0 {
		f.failFor[branchID]--
		return 0, errors.New("sweep failed")
	}
	return f.updated, nil
}

func (f *fakeSweeper) callCount(branchID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[branchID]
}

type fakeBranchSource struct {
	branches []uuid.UUID
	err      error
}

func (f *fakeBranchSource) ActiveBranchIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.branches, f.err
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:       true,
		SweepInterval: time.Hour,
		JobTimeout:    time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}
}

func TestInstallmentSweeper_SweepOnce(t *testing.T) {
	t.Run("sweeps every active branch", func(t *testing.T) {
		branchA := uuid.New()
		branchB := uuid.New()
		sweeper := newFakeSweeper()
		sweeper.updated = 3
		source := &fakeBranchSource{branches: []uuid.UUID{branchA, branchB}}

		s := NewInstallmentSweeper(testConfig(), sweeper, source, zap.NewNop())
		s.SweepOnce(context.Background())

		assert.Equal(t, 1, sweeper.callCount(branchA))
		assert.Equal(t, 1, sweeper.callCount(branchB))
	})

	t.Run("retries a failing branch", func(t *testing.T) {
		branchID := uuid.New()
		sweeper := newFakeSweeper()
		sweeper.failFor[branchID] = 1
		source := &fakeBranchSource{branches: []uuid.UUID{branchID}}

		s := NewInstallmentSweeper(testConfig(), sweeper, source, zap.NewNop())
		s.SweepOnce(context.Background())

		assert.Equal(t, 2, sweeper.callCount(branchID))
	})

	t.Run("gives up after exhausting retries and continues with the next branch", func(t *testing.T) {
		failing := uuid.New()
		healthy := uuid.New()
		sweeper := newFakeSweeper()
		sweeper.failFor[failing] = 10
		source := &fakeBranchSource{branches: []uuid.UUID{failing, healthy}}

		s := NewInstallmentSweeper(testConfig(), sweeper, source, zap.NewNop())
		s.SweepOnce(context.Background())

		assert.Equal(t, 3, sweeper.callCount(failing))
		assert.Equal(t, 1, sweeper.callCount(healthy))
	})

	t.Run("skips the sweep when branch listing fails", func(t *testing.T) {
		sweeper := newFakeSweeper()
		source := &fakeBranchSource{err: errors.New("database unavailable")}

		s := NewInstallmentSweeper(testConfig(), sweeper, source, zap.NewNop())
		s.SweepOnce(context.Background())

		assert.Empty(t, sweeper.calls)
	})
}

func TestInstallmentSweeper_StartStop(t *testing.T) {
	t.Run("ticker drives periodic sweeps", func(t *testing.T) {
		branchID := uuid.New()
		sweeper := newFakeSweeper()
		source := &fakeBranchSource{branches: []uuid.UUID{branchID}}

		cfg := testConfig()
		cfg.SweepInterval = 10 * time.Millisecond

		s := NewInstallmentSweeper(cfg, sweeper, source, zap.NewNop())
		require.NoError(t, s.Start(context.Background()))

		assert.Eventually(t, func() bool {
			return sweeper.callCount(branchID) >= 2
		}, time.Second, 5*time.Millisecond)

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(stopCtx))
	})

	t.Run("start is idempotent", func(t *testing.T) {
		s := NewInstallmentSweeper(testConfig(), newFakeSweeper(), &fakeBranchSource{}, zap.NewNop())
		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(stopCtx))
	})

	t.Run("stop without start is a no-op", func(t *testing.T) {
		s := NewInstallmentSweeper(testConfig(), newFakeSweeper(), &fakeBranchSource{}, zap.NewNop())
		require.NoError(t, s.Stop(context.Background()))
	})
}
