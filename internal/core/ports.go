package core

import (
	"context"
)

// CacheRepository caches validation verdicts keyed by normalized address.
type CacheRepository interface {
	// Get retrieves a cached entry for an address.
	Get(ctx context.Context, address string) (*CacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, address string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}

// ClassifierVerdict is an LLM's opinion on whether an address looks
// synthetically generated.
type ClassifierVerdict struct {
	Generated   bool
	Confidence  float64
	Explanation string
	Model       string
}

// AddressClassifier asks an external model for a second opinion on an
// address. It supplements the heuristic scorer and is never consulted on
// the deterministic validation path.
type AddressClassifier interface {
	ClassifyAddress(ctx context.Context, address string) (*ClassifierVerdict, error)
}
