package di

import (
	"flag"
	"strings"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/config"
	"github.com/AntonCapusta25/email-validator/internal/core"
	"github.com/AntonCapusta25/email-validator/internal/factory"
	"github.com/AntonCapusta25/email-validator/internal/logging"
	"github.com/AntonCapusta25/email-validator/internal/trust"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	Email      string
	InputFile  string
	Column     string
	NoHeader   bool
	OutputFile string

	// Validation flags
	Mode           string
	BatchSize      int
	Score          bool
	TrustedDomains string

	// Logging flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Input flags
	flag.StringVar(&flags.Email, "email", "", "Single email address to validate")
	flag.StringVar(&flags.InputFile, "file", "", "CSV file of addresses to validate (use stdin if '-')")
	flag.StringVar(&flags.Column, "column", "email", "CSV column holding the address")
	flag.BoolVar(&flags.NoHeader, "no-header", false, "Treat the CSV as headerless, reading the first column")
	flag.StringVar(&flags.OutputFile, "output", "", "Write results as CSV to this file (default stdout)")

	// Validation flags
	flag.StringVar(&flags.Mode, "mode", "advanced", "Validation mode (advanced, simple)")
	flag.IntVar(&flags.BatchSize, "batch-size", 0, "Requested batch size (minimum 30 applies)")
	flag.BoolVar(&flags.Score, "score", true, "Score addresses for generated-address patterns")
	flag.StringVar(&flags.TrustedDomains, "trusted", "", "Comma-separated list of trusted domains exempt from scoring")

	// Logging flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register validator factory
	if err := container.Provide(factory.NewValidatorFactory); err != nil {
		return nil, err
	}

	// Register validator
	if err := container.Provide(func(f *factory.ValidatorFactory) (*core.Validator, error) {
		return f.CreateValidator()
	}); err != nil {
		return nil, err
	}

	// Register trusted domain checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *trust.Checker {
		return trust.NewChecker(cfg.GetStringSlice("validation.trusted_domains"), logger)
	}); err != nil {
		return nil, err
	}

	// Register validator service with no cache and no classifier
	if err := container.Provide(func(
		validator *core.Validator,
		trusted *trust.Checker,
		logger *zap.Logger,
		cfg *config.Config,
	) *core.ValidatorService {
		return core.NewValidatorService(
			validator,
			nil,
			nil,
			trusted,
			logger,
			false,
			time.Duration(0),
			cfg.GetBool("validation.ai_scoring"),
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("validation.mode", flags.Mode)
	v.Set("validation.ai_scoring", flags.Score)
	v.Set("validation.batch_size", flags.BatchSize)

	if flags.TrustedDomains != "" {
		v.Set("validation.trusted_domains", strings.Split(flags.TrustedDomains, ","))
	}

	return config.NewFromViper(v)
}
