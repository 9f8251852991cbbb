// Package refill implements the pool top-up surfaces: a cron-driven refiller
// for the long-running service and a one-shot refiller for seeding.
package refill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// CronRefiller tops up the training pool on a cron schedule. Runs are skipped
// while the pool holds at least minPool items, so the generator is only paid
// for when content is actually running low.
type CronRefiller struct {
	pipeline  *core.PipelineService
	logger    *zap.Logger
	schedule  string
	batchSize int
	minPool   int
	timeout   time.Duration

	cron *cron.Cron
	mu   sync.Mutex // one refill run at a time
}

// NewCronRefiller creates a cron refiller.
func NewCronRefiller(
	pipeline *core.PipelineService,
	logger *zap.Logger,
	schedule string,
	batchSize int,
	minPool int,
	timeout time.Duration,
) *CronRefiller {
	return &CronRefiller{
		pipeline:  pipeline,
		logger:    logger,
		schedule:  schedule,
		batchSize: batchSize,
		minPool:   minPool,
		timeout:   timeout,
	}
}

// Start registers the schedule and starts the cron loop. An immediate first
// run seeds an empty pool before the first tick.
func (r *CronRefiller) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(r.schedule, r.runOnce); err != nil {
		return fmt.Errorf("invalid refill schedule %q: %w", r.schedule, err)
	}
	r.cron = c
	c.Start()
	r.logger.Info("Pool refiller started",
		zap.String("schedule", r.schedule),
		zap.Int("batch_size", r.batchSize),
		zap.Int("min_pool", r.minPool))

	go r.runOnce()
	return nil
}

// Stop stops the cron loop and waits for an in-flight run to finish.
func (r *CronRefiller) Stop() error {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	r.mu.Lock()
	r.mu.Unlock()
	return nil
}

func (r *CronRefiller) runOnce() {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	size, err := r.pipeline.PoolSize(ctx)
	if err != nil {
		r.logger.Error("Failed to read pool size", zap.Error(err))
		return
	}
	if size >= r.minPool {
		r.logger.Debug("Pool above floor, skipping refill",
			zap.Int("pool_size", size),
			zap.Int("min_pool", r.minPool))
		return
	}

	report, err := r.pipeline.Refill(ctx, r.batchSize)
	if err != nil {
		if errors.Is(err, core.ErrNoValidCandidates) {
			r.logger.Warn("Refill produced no valid candidates",
				zap.Int("invalid", len(report.Errors)))
			return
		}
		r.logger.Error("Refill run failed", zap.Error(err))
		return
	}

	r.logger.Info("Refill run finished",
		zap.Int("pool_size_before", size),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped))
}
