package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/adapters/httpapi"
	"github.com/AntonCapusta25/email-validator/internal/adapters/smtpfilter"
	"github.com/AntonCapusta25/email-validator/internal/config"
	"github.com/AntonCapusta25/email-validator/internal/core"
	"github.com/AntonCapusta25/email-validator/internal/ports"
)

// ServerFactory creates serving surfaces based on configuration
type ServerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.ValidatorService
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger, service *core.ValidatorService) *ServerFactory {
	return &ServerFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateServer creates a server based on server.type
func (f *ServerFactory) CreateServer() (ports.Server, error) {
	serverType := f.cfg.GetString("server.type")

	switch serverType {
	case "http":
		return f.createHTTPServer()
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		return smtpfilter.NewFilter(
			f.service,
			f.logger,
			smtpCfg.ListenAddress,
			smtpCfg.Domain,
			smtpCfg.RelayAddress,
			smtpCfg.RelayPort,
			smtpCfg.RelayEnabled,
			smtpCfg.BlockInvalid,
			smtpCfg.ValidHeader,
			smtpCfg.ScoreHeader,
		), nil
	default:
		return nil, fmt.Errorf("unsupported server type: %s", serverType)
	}
}

func (f *ServerFactory) createHTTPServer() (ports.Server, error) {
	httpCfg := f.cfg.GetHTTP()

	readTimeout, err := time.ParseDuration(httpCfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP read timeout: %w", err)
	}
	writeTimeout, err := time.ParseDuration(httpCfg.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP write timeout: %w", err)
	}

	return httpapi.NewServer(
		f.service,
		f.logger,
		httpCfg.ListenAddress,
		httpCfg.CORSOrigins,
		httpCfg.CORSMethods,
		httpCfg.CORSHeaders,
		readTimeout,
		writeTimeout,
	), nil
}
