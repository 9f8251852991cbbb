package refill

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// OnceRefiller runs a single refill pass on Start. Used for seeding a fresh
// store from the command line.
type OnceRefiller struct {
	pipeline  *core.PipelineService
	logger    *zap.Logger
	batchSize int
	timeout   time.Duration
}

// NewOnceRefiller creates a one-shot refiller.
func NewOnceRefiller(pipeline *core.PipelineService, logger *zap.Logger, batchSize int, timeout time.Duration) *OnceRefiller {
	return &OnceRefiller{
		pipeline:  pipeline,
		logger:    logger,
		batchSize: batchSize,
		timeout:   timeout,
	}
}

// Start runs one refill pass and returns its error.
func (r *OnceRefiller) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	report, err := r.pipeline.Refill(ctx, r.batchSize)
	if err != nil {
		return err
	}
	r.logger.Info("Seed run finished",
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("invalid", len(report.Errors)))
	return nil
}

// Stop is a no-op; the run completed during Start.
func (r *OnceRefiller) Stop() error {
	return nil
}
