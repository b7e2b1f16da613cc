package scheduler

import (
	"context"
	"fmt"
	"sync"

	appfinance "github.com/fintrack/backend/internal/application/finance"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReconcilePass is the scheduled unit of work: one full sweep over the
// due obligations.
type ReconcilePass interface {
	RunAll(ctx context.Context) appfinance.PassResult
}

// ReconcileScheduler runs the reconciliation sweep on a cron schedule.
// Overlap protection lives in the reconciler's in-flight flags, not
// here, so a slow sweep simply absorbs the next tick.
type ReconcileScheduler struct {
	config     config.SchedulerConfig
	reconciler ReconcilePass
	logger     *zap.Logger
	cron       *cron.Cron

	mu        sync.Mutex
	isRunning bool
}

// NewReconcileScheduler creates a new ReconcileScheduler
func NewReconcileScheduler(cfg config.SchedulerConfig, reconciler ReconcilePass, logger *zap.Logger) *ReconcileScheduler {
	return &ReconcileScheduler{
		config:     cfg,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Start registers the cron entry and begins ticking. A disabled
// scheduler starts as a no-op so callers need not special-case it.
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("Reconcile scheduler disabled")
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.config.CronSchedule, func() {
		s.tick(ctx)
	}); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.CronSchedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Reconcile scheduler started",
		zap.String("schedule", s.config.CronSchedule),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	if s.config.RunOnStart {
		go s.tick(ctx)
	}
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info("Reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReconcileScheduler) tick(ctx context.Context) {
	result := s.reconciler.RunAll(ctx)
	if result.Processed > 0 || result.Failed > 0 {
		s.logger.Info("Scheduled reconcile sweep finished",
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed),
		)
	}
}
