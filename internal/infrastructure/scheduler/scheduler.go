package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DueSweeper re-derives installment due statuses for one branch and
// returns the number of sales that changed
type DueSweeper interface {
	RefreshDueStatuses(ctx context.Context, branchID uuid.UUID) (int, error)
}

// BranchSource lists the branches with sales worth sweeping
type BranchSource interface {
	ActiveBranchIDs(ctx context.Context) ([]uuid.UUID, error)
}

// InstallmentSweeper periodically walks every branch and re-flags
// installments that have fallen due since the last sweep
type InstallmentSweeper struct {
	config   config.SchedulerConfig
	sweeper  DueSweeper
	branches BranchSource
	logger   *zap.Logger
	clock    func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewInstallmentSweeper creates a new installment sweeper
func NewInstallmentSweeper(
	cfg config.SchedulerConfig,
	sweeper DueSweeper,
	branches BranchSource,
	logger *zap.Logger,
) *InstallmentSweeper {
	return &InstallmentSweeper{
		config:   cfg,
		sweeper:  sweeper,
		branches: branches,
		logger:   logger,
		clock:    time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (s *InstallmentSweeper) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Start starts the periodic sweep loop
func (s *InstallmentSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Installment sweeper started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the sweep loop
func (s *InstallmentSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Installment sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Installment sweeper stop timed out")
		return ctx.Err()
	}
}

// runLoop sweeps on every tick until the context is cancelled
func (s *InstallmentSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep across all branches. Exposed so a manual
// refresh endpoint or a test can trigger it outside the ticker.
func (s *InstallmentSweeper) SweepOnce(ctx context.Context) {
	started := s.clock()

	branchIDs, err := s.branches.ActiveBranchIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list branches for due sweep", zap.Error(err))
		return
	}

	total := 0
	for _, branchID := range branchIDs {
		updated, err := s.sweepBranch(ctx, branchID)
		if err != nil {
			s.logger.Error("Due sweep failed for branch",
				zap.String("branch_id", branchID.String()),
				zap.Error(err),
			)
			continue
		}
		total += updated
	}

	s.logger.Info("Due sweep completed",
		zap.Int("branches", len(branchIDs)),
		zap.Int("sales_updated", total),
		zap.Duration("elapsed", s.clock().Sub(started)),
	)
}

// sweepBranch refreshes one branch, retrying transient failures
func (s *InstallmentSweeper) sweepBranch(ctx context.Context, branchID uuid.UUID) (int, error) {
	var lastErr error
	for attempt := 0; attempt <= s.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
		}

		sweepCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		updated, err := s.sweeper.RefreshDueStatuses(sweepCtx, branchID)
		cancel()
		if err == nil {
			return updated, nil
		}
		lastErr = err

		s.logger.Warn("Due sweep attempt failed",
			zap.String("branch_id", branchID.String()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return 0, lastErr
}
