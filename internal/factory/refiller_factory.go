package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/adapters/refill"
	"github.com/phishdrill/phishdrill/internal/config"
	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/ports"
)

// RefillerFactory creates pool refillers based on configuration
type RefillerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRefillerFactory creates a new refiller factory
func NewRefillerFactory(cfg *config.Config, logger *zap.Logger) *RefillerFactory {
	return &RefillerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRefiller creates a pool refiller based on the configuration
func (f *RefillerFactory) CreateRefiller(pipeline *core.PipelineService) (ports.PoolRefiller, error) {
	refillConfig := f.cfg.GetRefill()

	timeout, err := f.cfg.GetDuration("generator.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid generator timeout: %w", err)
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	switch refillConfig.Mode {
	case "cron":
		return refill.NewCronRefiller(
			pipeline,
			f.logger,
			refillConfig.Schedule,
			refillConfig.BatchSize,
			refillConfig.MinPool,
			timeout,
		), nil
	case "once":
		return refill.NewOnceRefiller(pipeline, f.logger, refillConfig.BatchSize, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported refill mode: %s", refillConfig.Mode)
	}
}
