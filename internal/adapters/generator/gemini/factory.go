package gemini

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/config"
	"github.com/phishdrill/phishdrill/internal/core"
)

// Factory creates Gemini candidate generators
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Gemini factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a new Gemini candidate generator
func (f *Factory) CreateGenerator() (core.CandidateGenerator, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return NewGenerator(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
	)
}
