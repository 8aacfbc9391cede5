package core

import (
	"regexp"
)

// Pattern tables for the heuristic scorer and the batch analyzer.
// Compiled once at process start and never mutated afterwards, so they are
// safe for unsynchronized concurrent reads.

// emailFormatRe is the structural gate for rule-based validation: local
// characters, a single @, domain labels and a two-or-more letter TLD.
var emailFormatRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// sequentialUserRe matches generic usernames with a numeric suffix
// (user1, test42, ...), the strongest single-address signal.
var sequentialUserRe = regexp.MustCompile(`^(user|person|email|test|sample|example|demo|contact)\d+$`)

// templatedAddressRes match whole addresses that follow common generator
// templates. Evaluated in order; the first hit wins for the family.
var templatedAddressRes = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z]+\d{1,3}@[a-z]+\.com$`),
	regexp.MustCompile(`^[a-z]+\.[a-z]+\d+@[a-z]+\.com$`),
	regexp.MustCompile(`^[a-z]{4,8}\d{2,4}@[a-z]{5,10}\.com$`),
}

// aiCommonNames are stereotypical first.last pairs that generated data
// reaches for over and over.
var aiCommonNames = map[string]struct{}{
	"john.doe":       {},
	"jane.doe":       {},
	"john.smith":     {},
	"jane.smith":     {},
	"bob.johnson":    {},
	"alice.williams": {},
	"david.brown":    {},
	"sarah.jones":    {},
	"michael.davis":  {},
	"emily.wilson":   {},
	"james.taylor":   {},
	"mary.anderson":  {},
}

// suspiciousDomainRes match placeholder and generic business-word domains.
// Evaluated in order; the first hit wins for the family.
var suspiciousDomainRes = []*regexp.Regexp{
	regexp.MustCompile(`^(example|test|sample|demo|placeholder)\.`),
	regexp.MustCompile(`^[a-z]+(company|business|corp|inc)\.`),
	regexp.MustCompile(`^(email|mail|contact|info)\.`),
}

// knownFakeDomains is an exact-match blacklist of documentation and
// placeholder domains.
var knownFakeDomains = map[string]struct{}{
	"example.com":     {},
	"example.org":     {},
	"example.net":     {},
	"test.com":        {},
	"testing.com":     {},
	"sample.com":      {},
	"demo.com":        {},
	"placeholder.com": {},
	"fake.com":        {},
	"dummy.com":       {},
}

// overlyPerfectRe matches addresses of the tidy word.word@word.com shape
// that real mailboxes only occasionally have.
var overlyPerfectRe = regexp.MustCompile(`^[a-z]+\.[a-z]+@[a-z]+\.com$`)

// batchSequentialRe is the cross-batch variant of the sequential-username
// check, deliberately narrower than sequentialUserRe.
var batchSequentialRe = regexp.MustCompile(`^(user|person|test|email)\d+$`)

// Scoring weights per pattern family.
const (
	pointsSequentialUser   = 30
	pointsTemplated        = 20
	pointsAICommonName     = 15
	pointsSuspiciousDomain = 25
	pointsKnownFakeDomain  = 40
	pointsOverlyPerfect    = 10
)

// Likelihood thresholds. Scores of 10-19 map to "low" but still report
// ai_generated=false; that boundary is product behavior, not an accident.
const (
	thresholdHigh   = 40
	thresholdMedium = 20
	thresholdLow    = 10
)
