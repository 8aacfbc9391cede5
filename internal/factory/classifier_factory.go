package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/adapters/bedrock"
	"github.com/AntonCapusta25/email-validator/internal/adapters/gemini"
	"github.com/AntonCapusta25/email-validator/internal/adapters/openai"
	"github.com/AntonCapusta25/email-validator/internal/config"
	"github.com/AntonCapusta25/email-validator/internal/core"
)

// ClassifierFactory creates LLM address classifiers
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates an address classifier based on the configuration.
// It returns nil when the classifier is disabled; heuristic scoring runs
// either way.
func (f *ClassifierFactory) CreateClassifier() (core.AddressClassifier, error) {
	classifierCfg := f.cfg.GetClassifier()
	if !classifierCfg.Enabled {
		return nil, nil
	}

	switch classifierCfg.Provider {
	case "bedrock":
		return f.createBedrockClassifier()
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		return gemini.NewClassifier(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			f.logger,
		)
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		return openai.NewClassifier(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}
}

func (f *ClassifierFactory) createBedrockClassifier() (core.AddressClassifier, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return bedrock.NewClassifier(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		f.logger,
	), nil
}
