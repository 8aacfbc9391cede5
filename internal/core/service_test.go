package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/trust"
)

type fakeCache struct {
	entries map[string]*CacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, address string) (*CacheEntry, error) {
	entry, ok := c.entries[address]
	if !ok {
		return nil, errors.New("not found")
	}
	return entry, nil
}

func (c *fakeCache) Set(_ context.Context, entry *CacheEntry) error {
	c.sets++
	c.entries[entry.Address] = entry
	return nil
}

func (c *fakeCache) Delete(_ context.Context, address string) error {
	delete(c.entries, address)
	return nil
}

func (c *fakeCache) Cleanup(_ context.Context) error { return nil }

type fakeClassifier struct {
	verdict *ClassifierVerdict
	err     error
	calls   []string
}

func (f *fakeClassifier) ClassifyAddress(_ context.Context, address string) (*ClassifierVerdict, error) {
	f.calls = append(f.calls, address)
	return f.verdict, f.err
}

func newTestService(cache CacheRepository, classifier AddressClassifier, trusted *trust.Checker, scoring bool) *ValidatorService {
	return NewValidatorService(
		NewValidator(),
		cache,
		classifier,
		trusted,
		zap.NewNop(),
		cache != nil,
		time.Hour,
		scoring,
	)
}

func TestValidateOneScoresValidAddresses(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	rec := svc.ValidateOne(context.Background(), "user1@testcorp.com")
	if !rec.IsValid {
		t.Fatalf("unexpected rejection: %q", rec.Error)
	}
	if rec.AI == nil {
		t.Fatal("AI assessment missing on a valid record")
	}
	if rec.AI.SuspicionScore < 40 || rec.AI.Likelihood != LikelihoodHigh {
		t.Errorf("assessment = %+v, want high", rec.AI)
	}
}

func TestValidateOneSkipsScoringWhenDisabled(t *testing.T) {
	svc := newTestService(nil, nil, nil, false)

	rec := svc.ValidateOne(context.Background(), "user1@testcorp.com")
	if rec.AI != nil {
		t.Errorf("AI = %+v with scoring disabled, want nil", rec.AI)
	}
}

func TestValidateOneInvalidGetsNoAssessment(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	rec := svc.ValidateOne(context.Background(), "not-an-address")
	if rec.IsValid {
		t.Fatal("expected rejection")
	}
	if rec.AI != nil {
		t.Errorf("AI = %+v on an invalid record, want nil", rec.AI)
	}
}

func TestValidateOneTrustedDomain(t *testing.T) {
	trusted := trust.NewChecker([]string{"corp.internal.com"}, zap.NewNop())
	svc := newTestService(nil, nil, trusted, true)

	rec := svc.ValidateOne(context.Background(), "user1@corp.internal.com")
	if !rec.IsValid {
		t.Fatalf("unexpected rejection: %q", rec.Error)
	}
	if rec.AI == nil {
		t.Fatal("trusted records still carry an assessment")
	}
	if rec.AI.SuspicionScore != 0 || rec.AI.Likelihood != LikelihoodUnlikely || rec.AI.AIGenerated {
		t.Errorf("trusted assessment = %+v, want empty unlikely", rec.AI)
	}
	if len(rec.AI.DetectedPatterns) != 0 {
		t.Errorf("DetectedPatterns = %v for a trusted domain, want none", rec.AI.DetectedPatterns)
	}
}

func TestValidateOneCacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache, nil, nil, true)

	first := svc.ValidateOne(context.Background(), "  alice@example.com ")
	if cache.sets != 1 {
		t.Fatalf("cache.sets = %d after first call, want 1", cache.sets)
	}
	if _, ok := cache.entries["alice@example.com"]; !ok {
		t.Fatalf("cache keyed by %v, want trimmed raw address", keysOf(cache.entries))
	}

	second := svc.ValidateOne(context.Background(), "  alice@example.com ")
	if cache.sets != 1 {
		t.Errorf("cache.sets = %d after hit, want still 1", cache.sets)
	}
	if second.Normalized != first.Normalized || second.IsValid != first.IsValid {
		t.Errorf("cache hit returned a different record: %+v vs %+v", second, first)
	}
}

func keysOf(m map[string]*CacheEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestClassifierConsultedOnMediumOnly(t *testing.T) {
	classifier := &fakeClassifier{verdict: &ClassifierVerdict{
		Generated:  true,
		Confidence: 0.85,
		Model:      "test-model",
	}}
	svc := newTestService(nil, classifier, nil, true)

	// Medium likelihood: classifier consulted, opinion attached.
	rec := svc.ValidateOne(context.Background(), "info1@gmail.com")
	if rec.AI == nil || rec.AI.Likelihood != LikelihoodMedium {
		t.Fatalf("fixture drifted: %+v", rec.AI)
	}
	if len(classifier.calls) != 1 {
		t.Fatalf("classifier calls = %v, want exactly one", classifier.calls)
	}
	want := "likely generated (test-model, confidence 0.85)"
	if rec.AI.ModelOpinion != want {
		t.Errorf("ModelOpinion = %q, want %q", rec.AI.ModelOpinion, want)
	}
	if rec.AI.SuspicionScore != 20 {
		t.Errorf("classifier altered the heuristic score: %d", rec.AI.SuspicionScore)
	}

	// High likelihood: heuristics are confident, no consultation.
	rec = svc.ValidateOne(context.Background(), "user1@testcorp.com")
	if rec.AI == nil || rec.AI.Likelihood != LikelihoodHigh {
		t.Fatalf("fixture drifted: %+v", rec.AI)
	}
	if len(classifier.calls) != 1 {
		t.Errorf("classifier consulted on a high-likelihood address: %v", classifier.calls)
	}
	if rec.AI.ModelOpinion != "" {
		t.Errorf("ModelOpinion = %q on a high-likelihood record, want empty", rec.AI.ModelOpinion)
	}
}

func TestClassifierErrorIsSwallowed(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model offline")}
	svc := newTestService(nil, classifier, nil, true)

	rec := svc.ValidateOne(context.Background(), "info1@gmail.com")
	if rec.AI == nil || rec.AI.Likelihood != LikelihoodMedium {
		t.Fatalf("fixture drifted: %+v", rec.AI)
	}
	if rec.AI.ModelOpinion != "" {
		t.Errorf("ModelOpinion = %q after classifier failure, want empty", rec.AI.ModelOpinion)
	}
}

func TestValidateBatchEmpty(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	result := svc.ValidateBatch(context.Background(), []string{"", "   ", "\t"}, 0)
	if len(result.Records) != 0 {
		t.Errorf("Records = %v, want none", result.Records)
	}
	if result.Summary.Total != 0 || result.Summary.BatchSizeUsed != "N/A" {
		t.Errorf("Summary = %+v, want zero totals and N/A batch size", result.Summary)
	}
}

func TestValidateBatchSmallSkipsChunking(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	raws := []string{"a@example.com", "b@example.com", "broken"}
	result := svc.ValidateBatch(context.Background(), raws, 10)
	if result.Summary.Chunked {
		t.Error("Chunked = true for a batch under the floor")
	}
	if result.Summary.BatchSizeUsed != "N/A" {
		t.Errorf("BatchSizeUsed = %q, want N/A", result.Summary.BatchSizeUsed)
	}
	if result.Summary.Valid != 2 || result.Summary.Invalid != 1 {
		t.Errorf("Summary = %+v, want 2 valid / 1 invalid", result.Summary)
	}
	if result.Summary.SuccessRate != 66.67 {
		t.Errorf("SuccessRate = %v, want 66.67", result.Summary.SuccessRate)
	}
}

func TestValidateBatchChunkingFloor(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	raws := make([]string, 65)
	for i := range raws {
		raws[i] = fmt.Sprintf("person%d@example.com", i)
	}

	// A requested size below the floor is raised to it.
	result := svc.ValidateBatch(context.Background(), raws, 10)
	if !result.Summary.Chunked {
		t.Error("Chunked = false for 65 addresses")
	}
	if result.Summary.BatchSizeUsed != "30" {
		t.Errorf("BatchSizeUsed = %q, want 30", result.Summary.BatchSizeUsed)
	}
	if len(result.Records) != 65 {
		t.Errorf("Records = %d, want 65", len(result.Records))
	}

	// A requested size above the floor is honored.
	result = svc.ValidateBatch(context.Background(), raws, 50)
	if result.Summary.BatchSizeUsed != "50" {
		t.Errorf("BatchSizeUsed = %q, want 50", result.Summary.BatchSizeUsed)
	}
}

func TestValidateBatchPreservesOrder(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	raws := make([]string, 40)
	for i := range raws {
		raws[i] = fmt.Sprintf("member%02d@example.com", i)
	}
	result := svc.ValidateBatch(context.Background(), raws, 0)
	for i, rec := range result.Records {
		if rec.Email != raws[i] {
			t.Fatalf("Records[%d] = %q, want %q", i, rec.Email, raws[i])
		}
	}
}

func TestValidateBatchAnalysis(t *testing.T) {
	svc := newTestService(nil, nil, nil, true)

	raws := []string{
		"user1@megacorp.com",
		"user2@megacorp.com",
		"user3@megacorp.com",
		"user4@megacorp.com",
		"someone.else@megacorp.com",
	}
	result := svc.ValidateBatch(context.Background(), raws, 0)
	if result.Analysis == nil {
		t.Fatal("Analysis missing with scoring enabled")
	}
	if !result.Analysis.Detected {
		t.Errorf("Analysis = %+v, want detected", result.Analysis)
	}
}

func TestValidateBatchAnalysisOffWhenScoringDisabled(t *testing.T) {
	svc := newTestService(nil, nil, nil, false)

	raws := []string{"user1@x.com", "user2@x.com", "user3@x.com", "user4@x.com", "user5@x.com"}
	result := svc.ValidateBatch(context.Background(), raws, 0)
	if result.Analysis != nil {
		t.Errorf("Analysis = %+v with scoring disabled, want nil", result.Analysis)
	}
	if result.Summary.AIDetectionRate != 0 {
		t.Errorf("AIDetectionRate = %v with scoring disabled, want 0", result.Summary.AIDetectionRate)
	}
}

func TestChunkAddresses(t *testing.T) {
	addresses := make([]string, 65)
	for i := range addresses {
		addresses[i] = fmt.Sprintf("a%d@example.com", i)
	}

	chunks := chunkAddresses(addresses, 30)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if len(chunks[0]) != 30 || len(chunks[1]) != 30 || len(chunks[2]) != 5 {
		t.Errorf("chunk sizes = %d/%d/%d, want 30/30/5", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	flattened := make([]string, 0, len(addresses))
	for _, chunk := range chunks {
		flattened = append(flattened, chunk...)
	}
	if strings.Join(flattened, ",") != strings.Join(addresses, ",") {
		t.Error("chunking reordered the batch")
	}
}
