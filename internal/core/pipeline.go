// Package core holds the domain model, the ports to external collaborators
// and the content pipeline services of the phishing-awareness trainer.
package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// PipelineService runs the generation pipeline: generate candidates, validate
// and normalize them, drop duplicates, and persist the remainder in a single
// bulk write.
type PipelineService struct {
	generator CandidateGenerator
	fallback  CandidateGenerator
	validator *CandidateValidator
	gate      *DeduplicationGate
	repo      ContentRepository
	logger    *zap.Logger
}

// NewPipelineService creates a pipeline service. fallback may be nil; when
// set it is tried once after the primary generator fails.
func NewPipelineService(
	generator CandidateGenerator,
	fallback CandidateGenerator,
	validator *CandidateValidator,
	gate *DeduplicationGate,
	repo ContentRepository,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		generator: generator,
		fallback:  fallback,
		validator: validator,
		gate:      gate,
		repo:      repo,
		logger:    logger,
	}
}

// Refill generates count candidates and pushes them through the
// validate-deduplicate-persist pipeline. The bulk insert is all-or-nothing at
// the store boundary; a store-level uniqueness violation on an individual row
// is counted as skipped, never surfaced as a failure.
func (s *PipelineService) Refill(ctx context.Context, count int) (*PipelineReport, error) {
	if count < MinBatchSize || count > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d out of range [%d, %d]", count, MinBatchSize, MaxBatchSize)
	}

	report := &PipelineReport{Requested: count}

	batch, err := s.generate(ctx, count)
	if err != nil {
		return report, err
	}
	report.Generated = len(batch)

	survivors, failures, err := s.validator.ValidateBatch(batch)
	report.Errors = failures
	if err != nil {
		if errors.Is(err, ErrNoValidCandidates) {
			s.logger.Warn("Generated batch had no valid candidates",
				zap.Int("generated", len(batch)),
				zap.Int("failures", len(failures)))
		}
		return report, err
	}
	for _, f := range failures {
		s.logger.Debug("Dropped invalid candidate", zap.String("reason", f.Error()))
	}

	fresh, skipped, err := s.gate.Filter(ctx, survivors)
	report.Skipped = skipped
	if err != nil {
		return report, err
	}
	if len(fresh) == 0 {
		// Every survivor was already persisted. Not an error.
		s.logger.Info("Entire batch already persisted",
			zap.Int("skipped", skipped))
		return report, nil
	}

	ids, err := s.repo.BulkInsert(ctx, fresh)
	if err != nil {
		return report, &StorageError{Op: "bulk insert", Err: err}
	}
	report.Inserted = len(ids)
	// Rows the store itself refused on its uniqueness constraint count as
	// skipped: two concurrent batches can both pass the gate for the same
	// key, and the constraint is the authoritative guard.
	report.Skipped += len(fresh) - len(ids)

	s.logger.Info("Pipeline run complete",
		zap.Int("requested", report.Requested),
		zap.Int("generated", report.Generated),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("invalid", len(report.Errors)))
	return report, nil
}

// generate calls the primary generator and falls back once on failure.
func (s *PipelineService) generate(ctx context.Context, count int) ([]CandidateItem, error) {
	batch, err := s.generator.Generate(ctx, count)
	if err == nil {
		return batch, nil
	}

	var genErr *GenerationError
	if s.fallback == nil || !errors.As(err, &genErr) {
		return nil, err
	}

	s.logger.Warn("Primary generator failed, using fallback", zap.Error(err))
	batch, ferr := s.fallback.Generate(ctx, count)
	if ferr != nil {
		return nil, fmt.Errorf("fallback generator after %v: %w", err, ferr)
	}
	return batch, nil
}

// PoolSize reports the total number of persisted training items.
func (s *PipelineService) PoolSize(ctx context.Context) (int, error) {
	counts, err := s.repo.CountsByDifficulty(ctx)
	if err != nil {
		return 0, &StorageError{Op: "counts by difficulty", Err: err}
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}
