package core

import (
	"strings"
)

// Validation failure reasons. These strings are part of the API payload
// and are matched by clients; do not reword them.
const (
	reasonEmpty     = "Email cannot be empty"
	reasonFormat    = "Invalid email format"
	reasonTooLong   = "Email too long"
	reasonLocalPart = "Invalid local part format"
)

// Limits from RFC 5321 as applied by the rule-based path.
const (
	maxLocalLen  = 64
	maxDomainLen = 253
)

// ParsedAddress is the delegate parser's view of a syntactically valid
// address. The ASCII forms cover internationalized domains.
type ParsedAddress struct {
	Normalized   string
	Local        string
	Domain       string
	ASCIIEmail   string
	ASCIILocal   string
	ASCIIDomain  string
	RequiresUTF8 bool
}

// InvalidAddressError is the typed rejection a ParseDelegate returns for
// an address that is simply not valid. Any other error from the delegate
// is treated as unexpected and demotes validation to the rule-based path.
type InvalidAddressError struct {
	Reason string
}

func (e *InvalidAddressError) Error() string { return e.Reason }

// ParseDelegate is the external syntax-parsing capability. Implementations
// must never perform deliverability (DNS/SMTP) work.
type ParseDelegate interface {
	Parse(address string) (*ParsedAddress, error)
}

// parseOutcome is the tri-state result of the delegate attempt. The
// validator branches on it explicitly instead of threading errors through.
type parseOutcome int

const (
	parseValid parseOutcome = iota
	parseInvalid
	parseUnavailable
)

// Validator decides structural validity of a single address.
//
// With a delegate configured it tries the delegate first and falls back to
// the rule-based checks when the delegate is unavailable or fails in an
// unexpected way. The fallback order is fixed: advanced then simple, never
// the reverse, and no delegate failure propagates to the caller.
type Validator struct {
	delegate ParseDelegate
}

// NewValidator returns a rule-based validator. Records it produces carry
// MethodRegex.
func NewValidator() *Validator {
	return &Validator{}
}

// NewDelegateValidator returns a validator that prefers the given parse
// delegate. A nil delegate is treated as unavailable, not as an error.
func NewDelegateValidator(delegate ParseDelegate) *Validator {
	return &Validator{delegate: delegate}
}

// Validate checks a single address and returns its record. It never
// returns an error: every failure mode is an is_valid=false record.
func (v *Validator) Validate(address string) ValidationRecord {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return ValidationRecord{Email: address, IsValid: false, Error: reasonEmpty}
	}

	if v.delegate == nil {
		return v.validateRules(trimmed, MethodRegex)
	}

	rec, outcome := v.tryDelegate(trimmed)
	if outcome == parseUnavailable {
		return v.validateRules(trimmed, MethodSimpleFallback)
	}
	return rec
}

// tryDelegate runs the delegate and classifies the result. A typed
// InvalidAddressError is a definitive rejection; anything else unexpected
// demotes to the fallback path.
func (v *Validator) tryDelegate(trimmed string) (ValidationRecord, parseOutcome) {
	parsed, err := func() (p *ParsedAddress, err error) {
		defer func() {
			if recover() != nil {
				p, err = nil, errDelegatePanic
			}
		}()
		return v.delegate.Parse(trimmed)
	}()

	if err == nil && parsed != nil {
		return ValidationRecord{
			Email:        trimmed,
			IsValid:      true,
			Normalized:   parsed.Normalized,
			LocalPart:    parsed.Local,
			Domain:       strings.ToLower(parsed.Domain),
			Method:       MethodLibrary,
			ASCIIEmail:   parsed.ASCIIEmail,
			ASCIILocal:   parsed.ASCIILocal,
			ASCIIDomain:  parsed.ASCIIDomain,
			RequiresUTF8: parsed.RequiresUTF8,
		}, parseValid
	}

	if inv, ok := err.(*InvalidAddressError); ok {
		return ValidationRecord{
			Email:   trimmed,
			IsValid: false,
			Method:  MethodLibrary,
			Error:   inv.Reason,
		}, parseInvalid
	}

	return ValidationRecord{}, parseUnavailable
}

var errDelegatePanic = &delegatePanicError{}

type delegatePanicError struct{}

func (*delegatePanicError) Error() string { return "delegate parser panicked" }

// validateRules applies the layered rule set, short-circuiting on the
// first failure.
func (v *Validator) validateRules(trimmed string, method Method) ValidationRecord {
	if !emailFormatRe.MatchString(trimmed) {
		return ValidationRecord{Email: trimmed, IsValid: false, Method: method, Error: reasonFormat}
	}

	at := strings.Index(trimmed, "@")
	local, domain := trimmed[:at], trimmed[at+1:]

	if len(local) > maxLocalLen || len(domain) > maxDomainLen {
		return ValidationRecord{Email: trimmed, IsValid: false, Method: method, Error: reasonTooLong}
	}

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return ValidationRecord{Email: trimmed, IsValid: false, Method: method, Error: reasonLocalPart}
	}

	return ValidationRecord{
		Email:      trimmed,
		IsValid:    true,
		Normalized: strings.ToLower(trimmed),
		LocalPart:  local,
		Domain:     strings.ToLower(domain),
		Method:     method,
	}
}
