package trust

import (
	"strings"

	"go.uber.org/zap"
)

// Checker answers whether an address belongs to a trusted domain.
// Trusted domains skip AI-suspicion scoring entirely: addresses on a
// customer's own domain are human by definition.
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trusted-domain checker.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make([]string, len(domains))
	for i, domain := range domains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted-domain checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the address's domain is in the trusted list.
func (c *Checker) IsTrusted(address string) bool {
	if len(c.domains) == 0 {
		return false
	}

	parts := strings.Split(address, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])

	for _, trusted := range c.domains {
		if trusted == domain {
			if c.logger != nil {
				c.logger.Debug("Domain is trusted",
					zap.String("domain", domain),
					zap.String("email", address))
			}
			return true
		}
	}

	return false
}
