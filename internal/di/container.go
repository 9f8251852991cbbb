package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/config"
	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/factory"
	"github.com/phishdrill/phishdrill/internal/heuristics"
	"github.com/phishdrill/phishdrill/internal/logging"
	"github.com/phishdrill/phishdrill/internal/ports"
	"github.com/phishdrill/phishdrill/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewRefillerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register heuristic analyzer
	if err := container.Provide(func() core.Analyzer {
		return heuristics.NewAnalyzer()
	}); err != nil {
		return nil, err
	}

	// Register content repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.ContentRepository, error) {
		return f.CreateRepository()
	}); err != nil {
		return nil, err
	}

	// Register external classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register core services
	if err := container.Provide(core.NewCandidateValidator); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewDeduplicationGate); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewBadgeEngine); err != nil {
		return nil, err
	}
	if err := container.Provide(func(analyzer core.Analyzer) *core.SelectionPolicy {
		return core.NewSelectionPolicy(analyzer, nil)
	}); err != nil {
		return nil, err
	}

	// Register the default badge table
	if err := container.Provide(func() []core.Badge {
		return core.DefaultBadgeTable()
	}); err != nil {
		return nil, err
	}

	// Register pipeline service with primary and fallback generators
	if err := container.Provide(func(
		f *factory.GeneratorFactory,
		validator *core.CandidateValidator,
		gate *core.DeduplicationGate,
		repo core.ContentRepository,
		logger *zap.Logger,
	) (*core.PipelineService, error) {
		generator, err := f.CreateGenerator()
		if err != nil {
			return nil, err
		}
		fallback := f.CreateFallbackGenerator()
		return core.NewPipelineService(generator, fallback, validator, gate, repo, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register pool refiller
	if err := container.Provide(func(f *factory.RefillerFactory, pipeline *core.PipelineService) (ports.PoolRefiller, error) {
		return f.CreateRefiller(pipeline)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
