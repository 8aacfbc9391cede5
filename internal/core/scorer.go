package core

import (
	"fmt"
	"strings"
)

// ScoreAddress computes the synthetic-address suspicion assessment for a
// single address. It is a pure function of the lowercased address string:
// no I/O, no batch context, deterministic output.
//
// All six pattern families are evaluated and their points summed; within
// a family the first matching rule fires. detected_patterns preserves
// family evaluation order.
func ScoreAddress(address string) *AIAssessment {
	addr := strings.ToLower(strings.TrimSpace(address))

	local, domain := addr, ""
	if at := strings.Index(addr, "@"); at >= 0 {
		local, domain = addr[:at], addr[at+1:]
	}

	score := 0
	patterns := []string{}

	if sequentialUserRe.MatchString(local) {
		score += pointsSequentialUser
		patterns = append(patterns, fmt.Sprintf("Sequential username pattern: %s", sequentialUserRe.String()))
	}

	for _, re := range templatedAddressRes {
		if re.MatchString(addr) {
			score += pointsTemplated
			patterns = append(patterns, fmt.Sprintf("Templated address pattern: %s", re.String()))
			break
		}
	}

	if _, ok := aiCommonNames[local]; ok {
		score += pointsAICommonName
		patterns = append(patterns, fmt.Sprintf("AI-common name: %s", local))
	}

	for _, re := range suspiciousDomainRes {
		if re.MatchString(domain) {
			score += pointsSuspiciousDomain
			patterns = append(patterns, fmt.Sprintf("Suspicious domain pattern: %s", re.String()))
			break
		}
	}

	if _, ok := knownFakeDomains[domain]; ok {
		score += pointsKnownFakeDomain
		patterns = append(patterns, fmt.Sprintf("Known fake domain: %s", domain))
	}

	if overlyPerfectRe.MatchString(addr) {
		score += pointsOverlyPerfect
		patterns = append(patterns, fmt.Sprintf("Overly perfect pattern: %s", overlyPerfectRe.String()))
	}

	return &AIAssessment{
		AIGenerated:      score >= thresholdMedium,
		Likelihood:       likelihoodFor(score),
		SuspicionScore:   score,
		DetectedPatterns: patterns,
	}
}

// likelihoodFor maps a score to its label. Scores in [10,20) are "low"
// yet ai_generated stays false; the flag flips at the medium threshold.
func likelihoodFor(score int) Likelihood {
	switch {
	case score >= thresholdHigh:
		return LikelihoodHigh
	case score >= thresholdMedium:
		return LikelihoodMedium
	case score >= thresholdLow:
		return LikelihoodLow
	default:
		return LikelihoodUnlikely
	}
}
