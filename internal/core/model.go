package core

import (
	"time"
)

// Method identifies which validation path produced a record.
type Method string

const (
	// MethodRegex is the plain rule-based validation path.
	MethodRegex Method = "regex"
	// MethodLibrary is the delegate parser path.
	MethodLibrary Method = "library"
	// MethodSimpleFallback is rule-based validation reached after the
	// delegate was unavailable or failed unexpectedly.
	MethodSimpleFallback Method = "simple_fallback"
)

// Likelihood buckets a suspicion score into a human-readable label.
type Likelihood string

const (
	LikelihoodUnlikely Likelihood = "unlikely"
	LikelihoodLow      Likelihood = "low"
	LikelihoodMedium   Likelihood = "medium"
	LikelihoodHigh     Likelihood = "high"
)

// AIAssessment is the per-address synthetic-address suspicion verdict.
// It is derived purely from the address string, with no batch context.
type AIAssessment struct {
	AIGenerated      bool       `json:"ai_generated"`
	Likelihood       Likelihood `json:"ai_likelihood"`
	SuspicionScore   int        `json:"suspicion_score"`
	DetectedPatterns []string   `json:"detected_patterns"`
	// ModelOpinion carries an optional LLM second opinion. It never
	// alters the heuristic score or likelihood.
	ModelOpinion string `json:"model_opinion,omitempty"`
}

// ValidationRecord is the result of validating a single address.
//
// IsValid=true implies Normalized, LocalPart and Domain are set;
// IsValid=false implies Error is set and those three are empty.
type ValidationRecord struct {
	Email      string `json:"email"`
	IsValid    bool   `json:"is_valid"`
	Normalized string `json:"normalized,omitempty"`
	LocalPart  string `json:"local_part,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Method     Method `json:"method,omitempty"`
	Error      string `json:"error,omitempty"`

	// ASCII forms and the UTF-8 flag are only populated by the delegate
	// parser path.
	ASCIIEmail   string `json:"ascii_email,omitempty"`
	ASCIILocal   string `json:"ascii_local,omitempty"`
	ASCIIDomain  string `json:"ascii_domain,omitempty"`
	RequiresUTF8 bool   `json:"smtputf8,omitempty"`

	AI *AIAssessment `json:"ai_assessment,omitempty"`
}

// BatchAnalysis is the cross-address pattern verdict for a batch.
// It is only meaningful for batches of at least MinAnalysisSize addresses.
type BatchAnalysis struct {
	Detected bool     `json:"batch_ai_detected"`
	Patterns []string `json:"batch_patterns"`
	Score    int      `json:"batch_score"`
}

// BatchSummary aggregates counts over a batch validation run.
type BatchSummary struct {
	Total           int     `json:"total"`
	Valid           int     `json:"valid"`
	Invalid         int     `json:"invalid"`
	AIDetected      int     `json:"ai_detected"`
	SuccessRate     float64 `json:"success_rate"`
	AIDetectionRate float64 `json:"ai_detection_rate"`
	Chunked         bool    `json:"processed_in_batches"`
	// BatchSizeUsed is the effective chunk size, or "N/A" when the
	// small-input path skipped chunking.
	BatchSizeUsed string `json:"batch_size_used"`
}

// BatchResult is the full payload of a batch validation run.
type BatchResult struct {
	Records  []ValidationRecord `json:"results"`
	Summary  BatchSummary       `json:"summary"`
	Analysis *BatchAnalysis     `json:"batch_analysis,omitempty"`
}

// CacheEntry is a cached validation verdict for a single address.
type CacheEntry struct {
	Address   string
	Record    ValidationRecord
	LastSeen  time.Time
	ExpiresAt time.Time
}
