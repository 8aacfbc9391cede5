package core

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/trust"
)

// MinBatchSize is the smallest chunk size the orchestrator will use.
// Caller-supplied sizes below it are silently raised, and inputs smaller
// than it skip chunking altogether. This mirrors the documented batch
// contract; it is not a tunable.
const MinBatchSize = 30

// ValidatorService is the core service for address validation and
// synthetic-address detection.
type ValidatorService struct {
	validator      *Validator
	cache          CacheRepository
	classifier     AddressClassifier
	trusted        *trust.Checker
	logger         *zap.Logger
	cacheEnabled   bool
	cacheTTL       time.Duration
	scoringEnabled bool
}

// NewValidatorService creates a new validator service. classifier may be
// nil when no LLM second opinion is configured.
func NewValidatorService(
	validator *Validator,
	cache CacheRepository,
	classifier AddressClassifier,
	trusted *trust.Checker,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	scoringEnabled bool,
) *ValidatorService {
	return &ValidatorService{
		validator:      validator,
		cache:          cache,
		classifier:     classifier,
		trusted:        trusted,
		logger:         logger,
		cacheEnabled:   cacheEnabled,
		cacheTTL:       cacheTTL,
		scoringEnabled: scoringEnabled,
	}
}

// ValidateOne validates a single raw address. It never returns an error:
// malformed input produces an is_valid=false record.
func (s *ValidatorService) ValidateOne(ctx context.Context, raw string) ValidationRecord {
	key := strings.TrimSpace(raw)

	if s.cacheEnabled && key != "" {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit", zap.String("address", key))
			return entry.Record
		}
	}

	record := s.validator.Validate(raw)

	if record.IsValid && s.scoringEnabled {
		if s.trusted != nil && s.trusted.IsTrusted(record.Normalized) {
			record.AI = &AIAssessment{
				Likelihood:       LikelihoodUnlikely,
				DetectedPatterns: []string{},
			}
		} else {
			record.AI = ScoreAddress(record.Normalized)
			s.consultClassifier(ctx, &record)
		}
	}

	if s.cacheEnabled && key != "" {
		now := time.Now()
		entry := &CacheEntry{
			Address:   key,
			Record:    record,
			LastSeen:  now,
			ExpiresAt: now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return record
}

// consultClassifier asks the LLM for a second opinion on borderline
// addresses. The heuristic score and likelihood are never altered; the
// verdict rides along as model_opinion. Classifier failures are logged
// and swallowed.
func (s *ValidatorService) consultClassifier(ctx context.Context, record *ValidationRecord) {
	if s.classifier == nil || record.AI == nil || record.AI.Likelihood != LikelihoodMedium {
		return
	}

	verdict, err := s.classifier.ClassifyAddress(ctx, record.Normalized)
	if err != nil {
		s.logger.Debug("Classifier unavailable, keeping heuristic result",
			zap.String("address", record.Normalized),
			zap.Error(err))
		return
	}

	opinion := "human-chosen"
	if verdict.Generated {
		opinion = "likely generated"
	}
	record.AI.ModelOpinion = fmt.Sprintf("%s (%s, confidence %.2f)", opinion, verdict.Model, verdict.Confidence)
}

// ScoreAI computes the suspicion assessment for one address without
// validating it.
func (s *ValidatorService) ScoreAI(address string) *AIAssessment {
	return ScoreAddress(address)
}

// ValidateBatch validates a list of raw addresses in bounded chunks and
// aggregates a summary plus, for large enough batches, a cross-address
// analysis.
//
// The effective chunk size is max(batchSize, MinBatchSize). Inputs with
// fewer than MinBatchSize cleaned addresses are validated directly;
// behaviorally that is a single chunk, and the summary reports
// batch_size_used as "N/A".
func (s *ValidatorService) ValidateBatch(ctx context.Context, raws []string, batchSize int) BatchResult {
	cleaned := cleanAddresses(raws)

	if len(cleaned) == 0 {
		return BatchResult{
			Records: []ValidationRecord{},
			Summary: BatchSummary{BatchSizeUsed: "N/A"},
		}
	}

	effective := batchSize
	if effective < MinBatchSize {
		effective = MinBatchSize
	}
	chunked := len(cleaned) >= MinBatchSize

	records := make([]ValidationRecord, 0, len(cleaned))
	if chunked {
		for _, chunk := range chunkAddresses(cleaned, effective) {
			for _, addr := range chunk {
				records = append(records, s.ValidateOne(ctx, addr))
			}
		}
	} else {
		for _, addr := range cleaned {
			records = append(records, s.ValidateOne(ctx, addr))
		}
	}

	result := BatchResult{
		Records: records,
		Summary: s.summarize(records, chunked, effective),
	}

	if s.scoringEnabled {
		analysis := AnalyzeBatch(cleaned)
		result.Analysis = &analysis
	}

	return result
}

// summarize aggregates counts and rates over the computed records.
func (s *ValidatorService) summarize(records []ValidationRecord, chunked bool, effective int) BatchSummary {
	summary := BatchSummary{
		Total:         len(records),
		Chunked:       chunked,
		BatchSizeUsed: "N/A",
	}
	if chunked {
		summary.BatchSizeUsed = strconv.Itoa(effective)
	}

	for _, rec := range records {
		if rec.IsValid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		if rec.AI != nil && rec.AI.AIGenerated {
			summary.AIDetected++
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = round2(float64(summary.Valid) / float64(summary.Total) * 100)
		if s.scoringEnabled {
			summary.AIDetectionRate = round2(float64(summary.AIDetected) / float64(summary.Total) * 100)
		}
	}

	return summary
}

// cleanAddresses drops empty entries and trims the rest, preserving order.
func cleanAddresses(raws []string) []string {
	cleaned := make([]string, 0, len(raws))
	for _, raw := range raws {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// chunkAddresses splits addresses into contiguous chunks of size n; the
// last chunk may be shorter. Order is preserved.
func chunkAddresses(addresses []string, n int) [][]string {
	chunks := make([][]string, 0, (len(addresses)+n-1)/n)
	for start := 0; start < len(addresses); start += n {
		end := start + n
		if end > len(addresses) {
			end = len(addresses)
		}
		chunks = append(chunks, addresses[start:end])
	}
	return chunks
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
