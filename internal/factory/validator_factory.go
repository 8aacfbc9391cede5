package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/config"
	"github.com/AntonCapusta25/email-validator/internal/core"
	"github.com/AntonCapusta25/email-validator/internal/mailparse"
)

// ValidatorFactory creates validators based on configuration
type ValidatorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewValidatorFactory creates a new validator factory
func NewValidatorFactory(cfg *config.Config, logger *zap.Logger) *ValidatorFactory {
	return &ValidatorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateValidator creates a validator based on validation.mode. Advanced
// mode parses through the mail parser and falls back to the simple rules
// when the parser rejects input it cannot classify; simple mode runs the
// regex rules only.
func (f *ValidatorFactory) CreateValidator() (*core.Validator, error) {
	mode := f.cfg.GetString("validation.mode")

	switch mode {
	case "advanced":
		return core.NewDelegateValidator(mailparse.NewParser(f.logger)), nil
	case "simple":
		return core.NewValidator(), nil
	default:
		return nil, fmt.Errorf("unsupported validation mode: %s", mode)
	}
}
