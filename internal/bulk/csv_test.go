package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

func newTestProcessor() *Processor {
	service := core.NewValidatorService(
		core.NewValidator(),
		nil,
		nil,
		nil,
		zap.NewNop(),
		false,
		0,
		true,
	)
	return NewProcessor(service, zap.NewNop())
}

func TestProcessWithHeader(t *testing.T) {
	input := strings.Join([]string{
		"name,email,notes",
		"Alice,alice@example.com,first",
		"Bob,bob@example.org,",
		"Blank,,skipped",
		"Broken,not-an-address,",
	}, "\n")

	p := newTestProcessor()
	result, err := p.Process(context.Background(), strings.NewReader(input), Options{Column: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Total != 3 {
		t.Fatalf("Total = %d, want 3 (blank cell skipped)", result.Summary.Total)
	}
	if result.Summary.Valid != 2 || result.Summary.Invalid != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestProcessHeaderColumnIsCaseInsensitive(t *testing.T) {
	input := "Email\nalice@example.com\n"

	p := newTestProcessor()
	result, err := p.Process(context.Background(), strings.NewReader(input), Options{Column: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Total != 1 || result.Summary.Valid != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestProcessMissingColumn(t *testing.T) {
	input := "name,address\nAlice,alice@example.com\n"

	p := newTestProcessor()
	_, err := p.Process(context.Background(), strings.NewReader(input), Options{Column: "email"})
	if err == nil {
		t.Fatal("expected an error for a missing column")
	}
	if !strings.Contains(err.Error(), `column "email" not found`) {
		t.Errorf("error = %v", err)
	}
}

func TestProcessHeaderless(t *testing.T) {
	input := "alice@example.com\nbob@example.org,ignored extra field\n"

	p := newTestProcessor()
	result, err := p.Process(context.Background(), strings.NewReader(input), Options{NoHeader: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Total != 2 || result.Summary.Valid != 2 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestProcessEmptyFile(t *testing.T) {
	p := newTestProcessor()
	result, err := p.Process(context.Background(), strings.NewReader(""), Options{Column: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Total != 0 || result.Summary.BatchSizeUsed != "N/A" {
		t.Errorf("summary = %+v, want empty with N/A batch size", result.Summary)
	}
}

func TestWriteResults(t *testing.T) {
	p := newTestProcessor()
	result, err := p.Process(context.Background(),
		strings.NewReader("email\nuser1@testcorp.com\nbroken\n"),
		Options{Column: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := p.WriteResults(&buf, result); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2 records", len(rows))
	}
	if rows[0][0] != "email" || rows[0][5] != "ai_score" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "true" || rows[1][5] == "" {
		t.Errorf("valid row = %v, want is_valid true with a score", rows[1])
	}
	if rows[2][1] != "false" || rows[2][7] != "Invalid email format" {
		t.Errorf("invalid row = %v", rows[2])
	}
}
