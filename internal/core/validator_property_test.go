package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Properties of the deterministic validation and scoring paths.

func TestProperty_ValidationDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	v := NewValidator()

	localGen := gen.RegexMatch(`[a-z][a-z0-9]{0,9}`)
	domainGen := gen.RegexMatch(`[a-z]{1,10}`)

	// Surrounding whitespace never changes the verdict.
	properties.Property("whitespace_is_invisible", prop.ForAll(
		func(local, domain string) bool {
			addr := local + "@" + domain + ".com"
			plain := v.Validate(addr)
			padded := v.Validate("  " + addr + "\t")
			return reflect.DeepEqual(plain, padded)
		},
		localGen,
		domainGen,
	))

	// Re-validating a normalized address reproduces it.
	properties.Property("normalization_is_idempotent", prop.ForAll(
		func(local, domain string) bool {
			addr := local + "@" + domain + ".com"
			first := v.Validate(addr)
			if !first.IsValid {
				return true
			}
			second := v.Validate(first.Normalized)
			return second.IsValid &&
				second.Normalized == first.Normalized &&
				second.Domain == first.Domain
		},
		localGen,
		domainGen,
	))

	// The normalized form is always lowercase for the rule-based path.
	properties.Property("normalized_is_lowercase", prop.ForAll(
		func(local, domain string) bool {
			addr := strings.ToUpper(local) + "@" + domain + ".com"
			rec := v.Validate(addr)
			if !rec.IsValid {
				return true
			}
			return rec.Normalized == strings.ToLower(rec.Normalized)
		},
		localGen,
		domainGen,
	))

	properties.TestingRun(t)
}

func TestProperty_ScoringDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	addrGen := gen.RegexMatch(`[a-z]{1,8}[0-9]{0,3}@[a-z]{1,8}\.(com|org|net)`)

	// Scoring is a pure function: the same address always produces the
	// same assessment.
	properties.Property("same_address_same_assessment", prop.ForAll(
		func(addr string) bool {
			return reflect.DeepEqual(ScoreAddress(addr), ScoreAddress(addr))
		},
		addrGen,
	))

	// The score is always the sum of a subset of family weights, and the
	// likelihood label follows the thresholds.
	properties.Property("likelihood_follows_thresholds", prop.ForAll(
		func(addr string) bool {
			a := ScoreAddress(addr)
			switch {
			case a.SuspicionScore >= thresholdHigh:
				return a.Likelihood == LikelihoodHigh && a.AIGenerated
			case a.SuspicionScore >= thresholdMedium:
				return a.Likelihood == LikelihoodMedium && a.AIGenerated
			case a.SuspicionScore >= thresholdLow:
				return a.Likelihood == LikelihoodLow && !a.AIGenerated
			default:
				return a.Likelihood == LikelihoodUnlikely && !a.AIGenerated
			}
		},
		addrGen,
	))

	properties.TestingRun(t)
}
