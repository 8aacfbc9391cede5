// Package bulk reads address lists from CSV and runs them through the
// batch validation pipeline.
package bulk

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

// Options controls how the input CSV is read and validated.
type Options struct {
	// Column is the header name of the address column. Ignored when
	// NoHeader is set.
	Column string
	// NoHeader treats the file as headerless and reads the first column.
	NoHeader bool
	// BatchSize is the requested batch size; the service floor applies.
	BatchSize int
}

// Processor validates CSV address lists through a validator service.
type Processor struct {
	service *core.ValidatorService
	logger  *zap.Logger
}

// NewProcessor creates a new bulk processor.
func NewProcessor(service *core.ValidatorService, logger *zap.Logger) *Processor {
	return &Processor{
		service: service,
		logger:  logger,
	}
}

// Process reads addresses from r and validates them as one batch.
func (p *Processor) Process(ctx context.Context, r io.Reader, opts Options) (*core.BatchResult, error) {
	addresses, err := p.readAddresses(r, opts)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Read addresses from CSV", zap.Int("count", len(addresses)))

	result := p.service.ValidateBatch(ctx, addresses, opts.BatchSize)
	return &result, nil
}

// readAddresses extracts the address column from the CSV input. Blank
// cells are skipped; fully blank files yield an empty list.
func (p *Processor) readAddresses(r io.Reader, opts Options) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	column := 0
	if !opts.NoHeader {
		header, err := reader.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV header: %w", err)
		}

		column = -1
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), opts.Column) {
				column = i
				break
			}
		}
		if column < 0 {
			return nil, fmt.Errorf("column %q not found in CSV header", opts.Column)
		}
	}

	var addresses []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if column >= len(row) {
			continue
		}
		if value := strings.TrimSpace(row[column]); value != "" {
			addresses = append(addresses, value)
		}
	}

	return addresses, nil
}

// WriteResults writes the per-address records as CSV.
func (p *Processor) WriteResults(w io.Writer, result *core.BatchResult) error {
	writer := csv.NewWriter(w)

	header := []string{"email", "is_valid", "normalized", "local_part", "domain", "ai_score", "ai_likelihood", "error"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range result.Records {
		aiScore := ""
		aiLikelihood := ""
		if record.AI != nil {
			aiScore = strconv.Itoa(record.AI.SuspicionScore)
			aiLikelihood = string(record.AI.Likelihood)
		}

		row := []string{
			record.Email,
			strconv.FormatBool(record.IsValid),
			record.Normalized,
			record.LocalPart,
			record.Domain,
			aiScore,
			aiLikelihood,
			record.Error,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
