package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/config"
	"github.com/AntonCapusta25/email-validator/internal/core"
	"github.com/AntonCapusta25/email-validator/internal/factory"
	"github.com/AntonCapusta25/email-validator/internal/logging"
	"github.com/AntonCapusta25/email-validator/internal/ports"
	"github.com/AntonCapusta25/email-validator/internal/trust"
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
	if err := container.Provide(factory.NewValidatorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}

	// Register validator
	if err := container.Provide(func(f *factory.ValidatorFactory) (*core.Validator, error) {
		return f.CreateValidator()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register classifier (nil when disabled)
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.AddressClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register trusted domain checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *trust.Checker {
		trustedDomains := cfg.GetStringSlice("validation.trusted_domains")
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return trust.NewChecker(trustedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register validator service
	if err := container.Provide(func(
		validator *core.Validator,
		cache core.CacheRepository,
		classifier core.AddressClassifier,
		trusted *trust.Checker,
		logger *zap.Logger,
		cfg *config.Config,
		cacheFactory *factory.CacheFactory,
	) (*core.ValidatorService, error) {
		cacheTTL, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		return core.NewValidatorService(
			validator,
			cache,
			classifier,
			trusted,
			logger,
			cacheFactory.IsCacheEnabled(),
			cacheTTL,
			cfg.GetBool("validation.ai_scoring"),
		), nil
	}); err != nil {
		return nil, err
	}

	// Register server
	if err := container.Provide(func(f *factory.ServerFactory) (ports.Server, error) {
		return f.CreateServer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
