package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/adapters/generator/bedrock"
	"github.com/phishdrill/phishdrill/internal/adapters/generator/gemini"
	"github.com/phishdrill/phishdrill/internal/adapters/generator/openai"
	"github.com/phishdrill/phishdrill/internal/adapters/generator/static"
	"github.com/phishdrill/phishdrill/internal/config"
	"github.com/phishdrill/phishdrill/internal/core"
)

// GeneratorFactory creates candidate generators
type GeneratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates the configured candidate generator
func (f *GeneratorFactory) CreateGenerator() (core.CandidateGenerator, error) {
	generatorConfig := f.cfg.GetGenerator()

	switch generatorConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger)
		return factory.CreateGenerator()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger)
		return factory.CreateGenerator()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger)
		return factory.CreateGenerator()
	case "static":
		return static.NewGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", generatorConfig.Provider)
	}
}

// CreateFallbackGenerator creates the built-in fallback generator. The static
// corpus keeps the pool serviceable when the configured provider is down.
func (f *GeneratorFactory) CreateFallbackGenerator() core.CandidateGenerator {
	if f.cfg.GetGenerator().Provider == "static" {
		return nil
	}
	return static.NewGenerator()
}
