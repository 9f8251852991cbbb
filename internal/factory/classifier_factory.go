package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/adapters/classifier"
	"github.com/phishdrill/phishdrill/internal/config"
	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/utils"
)

// ClassifierFactory creates external classifiers
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates the configured classifier. The no-op classifier is
// the default so the rest of the system never branches on "is a classifier
// configured".
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	classifierConfig := f.cfg.GetClassifier()

	switch classifierConfig.Provider {
	case "noop", "":
		return classifier.NewNoop(), nil
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		if openaiCfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key is required for the openai classifier")
		}
		return classifier.NewOpenAIClassifier(
			openaiCfg.APIKey,
			classifierConfig.ModelName,
			openaiCfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierConfig.Provider)
	}
}
