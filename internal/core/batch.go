package core

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MinAnalysisSize is the floor below which batch analysis is skipped:
// cross-address statistics are meaningless for a handful of records.
const MinAnalysisSize = 5

// Batch analysis weights and trigger ratios.
const (
	pointsDomainConcentration = 20
	pointsSequentialRatio     = 25
	pointsNearDuplicates      = 15

	domainConcentrationRatio = 0.5
	sequentialRatio          = 0.3
	nearDuplicateRatio       = 0.2
	nearDuplicateSimilarity  = 0.7

	batchDetectionThreshold = 25
)

// AnalyzeBatch computes cross-address pattern statistics over a batch.
// Fewer than MinAnalysisSize addresses yields an empty, not-detected
// analysis.
//
// The near-duplicate check compares every unordered pair of local parts
// and is O(n^2) in batch size. That is fine for the tens of addresses a
// chunk holds; callers feeding thousands of addresses should bound the
// batch first.
func AnalyzeBatch(addresses []string) BatchAnalysis {
	analysis := BatchAnalysis{Patterns: []string{}}
	total := len(addresses)
	if total < MinAnalysisSize {
		return analysis
	}

	locals := make([]string, 0, total)
	domainCounts := make(map[string]int, total)
	for _, addr := range addresses {
		lower := strings.ToLower(strings.TrimSpace(addr))
		local, domain := lower, ""
		if at := strings.Index(lower, "@"); at >= 0 {
			local, domain = lower[:at], lower[at+1:]
		}
		locals = append(locals, local)
		if domain != "" {
			domainCounts[domain]++
		}
	}

	// Domain concentration: one domain carrying more than half the batch.
	topDomain, topCount := "", 0
	for domain, count := range domainCounts {
		if count > topCount {
			topDomain, topCount = domain, count
		}
	}
	if float64(topCount) > float64(total)*domainConcentrationRatio {
		analysis.Score += pointsDomainConcentration
		analysis.Patterns = append(analysis.Patterns,
			fmt.Sprintf("High domain concentration: %d/%d addresses use %s", topCount, total, topDomain))
	}

	// Sequential usernames: generic name plus counter across the batch.
	sequential := 0
	for _, local := range locals {
		if batchSequentialRe.MatchString(local) {
			sequential++
		}
	}
	if float64(sequential) > float64(total)*sequentialRatio {
		analysis.Score += pointsSequentialRatio
		analysis.Patterns = append(analysis.Patterns,
			fmt.Sprintf("Sequential usernames: %d/%d addresses follow a name+number pattern", sequential, total))
	}

	// Near-duplicate local parts: pairwise similarity over the threshold.
	similarPairs := 0
	for i := 0; i < len(locals); i++ {
		for j := i + 1; j < len(locals); j++ {
			if localSimilarity(locals[i], locals[j]) > nearDuplicateSimilarity {
				similarPairs++
			}
		}
	}
	if float64(similarPairs) > float64(total)*nearDuplicateRatio {
		analysis.Score += pointsNearDuplicates
		analysis.Patterns = append(analysis.Patterns,
			fmt.Sprintf("Near-duplicate local parts: %d similar pairs", similarPairs))
	}

	analysis.Detected = analysis.Score >= batchDetectionThreshold
	return analysis
}

// localSimilarity is a normalized edit-distance similarity in [0,1].
func localSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
