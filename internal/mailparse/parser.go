// Package mailparse is the advanced syntax delegate: a stricter,
// internationalization-aware address parser built on the net/mail grammar
// plus IDNA conversion for the domain. It performs no deliverability
// checks of any kind; DNS and SMTP are out of bounds by design.
package mailparse

import (
	"net/mail"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/net/idna"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

const (
	maxLocalLen  = 64
	maxDomainLen = 253
)

// Parser implements core.ParseDelegate.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a new delegate parser.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse validates and normalizes a single bare address. Rejections are
// returned as *core.InvalidAddressError so the caller can tell "not an
// address" apart from unexpected failures.
func (p *Parser) Parse(address string) (*core.ParsedAddress, error) {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return nil, &core.InvalidAddressError{Reason: "Invalid email format"}
	}
	// A display name or any decoration means the input was not a bare
	// address.
	if addr.Name != "" || addr.Address != address {
		return nil, &core.InvalidAddressError{Reason: "Invalid email format"}
	}

	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 || at == len(addr.Address)-1 {
		return nil, &core.InvalidAddressError{Reason: "Invalid email format"}
	}
	local, domain := addr.Address[:at], addr.Address[at+1:]

	if len(local) > maxLocalLen || len(domain) > maxDomainLen {
		return nil, &core.InvalidAddressError{Reason: "Email too long"}
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return nil, &core.InvalidAddressError{Reason: "Invalid local part format"}
	}
	// Bare hostnames (no dot) are accepted by the RFC grammar but are
	// not routable addresses.
	if !strings.Contains(domain, ".") {
		return nil, &core.InvalidAddressError{Reason: "Invalid email format"}
	}

	lowerDomain := strings.ToLower(domain)
	asciiDomain, err := idna.Lookup.ToASCII(lowerDomain)
	if err != nil {
		return nil, &core.InvalidAddressError{Reason: "Invalid email format"}
	}

	requiresUTF8 := !isASCII(local)
	asciiLocal := local
	asciiEmail := local + "@" + asciiDomain
	if requiresUTF8 {
		// Non-ASCII local parts have no ASCII downgrade.
		asciiLocal = ""
		asciiEmail = ""
	}

	if p.logger != nil {
		p.logger.Debug("Parsed address",
			zap.String("local", local),
			zap.String("domain", lowerDomain),
			zap.Bool("smtputf8", requiresUTF8))
	}

	return &core.ParsedAddress{
		Normalized:   local + "@" + lowerDomain,
		Local:        local,
		Domain:       lowerDomain,
		ASCIIEmail:   asciiEmail,
		ASCIILocal:   asciiLocal,
		ASCIIDomain:  asciiDomain,
		RequiresUTF8: requiresUTF8,
	}, nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
