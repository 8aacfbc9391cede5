package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/bulk"
	"github.com/AntonCapusta25/email-validator/internal/core"
	"github.com/AntonCapusta25/email-validator/internal/di"
)

func main() {
	flags := di.ParseFlags()

	if flags.Email == "" && flags.InputFile == "" {
		fmt.Fprintln(os.Stderr, "either -email or -file is required")
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, logger *zap.Logger, service *core.ValidatorService) error {
	defer logger.Sync()

	ctx := context.Background()

	if flags.Email != "" {
		// A comma-separated list is validated as a batch so the
		// cross-address analysis runs too.
		if strings.Contains(flags.Email, ",") {
			return runInline(ctx, flags.Email, flags.BatchSize, service)
		}
		record := service.ValidateOne(ctx, flags.Email)
		printRecord(record)
		if !record.IsValid {
			os.Exit(1)
		}
		return nil
	}

	return runBulk(ctx, flags, logger, service)
}

func runInline(ctx context.Context, list string, batchSize int, service *core.ValidatorService) error {
	var addrs []string
	for _, addr := range strings.Split(list, ",") {
		addrs = append(addrs, strings.TrimSpace(addr))
	}

	result := service.ValidateBatch(ctx, addrs, batchSize)
	for i, record := range result.Records {
		if i > 0 {
			fmt.Println()
		}
		printRecord(record)
	}

	printSummary(os.Stdout, &result)
	return nil
}

func runBulk(ctx context.Context, flags *di.CLIFlags, logger *zap.Logger, service *core.ValidatorService) error {
	var input io.Reader
	if flags.InputFile == "-" {
		input = os.Stdin
	} else {
		f, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		input = f
	}

	processor := bulk.NewProcessor(service, logger)
	result, err := processor.Process(ctx, input, bulk.Options{
		Column:    flags.Column,
		NoHeader:  flags.NoHeader,
		BatchSize: flags.BatchSize,
	})
	if err != nil {
		return err
	}

	output := os.Stdout
	summaryOut := os.Stdout
	if flags.OutputFile != "" {
		f, err := os.Create(flags.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		// Results go to stdout, keep the summary out of the CSV stream
		summaryOut = os.Stderr
	}

	if err := processor.WriteResults(output, result); err != nil {
		return err
	}

	printSummary(summaryOut, result)
	return nil
}

func printRecord(record core.ValidationRecord) {
	fmt.Printf("Email:      %s\n", record.Email)
	fmt.Printf("Valid:      %t\n", record.IsValid)
	if record.IsValid {
		fmt.Printf("Normalized: %s\n", record.Normalized)
		fmt.Printf("Local:      %s\n", record.LocalPart)
		fmt.Printf("Domain:     %s\n", record.Domain)
		fmt.Printf("Method:     %s\n", record.Method)
	} else {
		fmt.Printf("Error:      %s\n", record.Error)
	}

	if record.AI != nil {
		fmt.Printf("AI score:   %d (%s)\n", record.AI.SuspicionScore, record.AI.Likelihood)
		for _, pattern := range record.AI.DetectedPatterns {
			fmt.Printf("  - %s\n", pattern)
		}
		if record.AI.ModelOpinion != "" {
			fmt.Printf("Model says: %s\n", record.AI.ModelOpinion)
		}
	}
}

func printSummary(w io.Writer, result *core.BatchResult) {
	summary := result.Summary
	fmt.Fprintf(w, "\nTotal:        %d\n", summary.Total)
	fmt.Fprintf(w, "Valid:        %d\n", summary.Valid)
	fmt.Fprintf(w, "Invalid:      %d\n", summary.Invalid)
	fmt.Fprintf(w, "Success rate: %.2f%%\n", summary.SuccessRate)
	fmt.Fprintf(w, "AI detected:  %d (%.2f%%)\n", summary.AIDetected, summary.AIDetectionRate)
	fmt.Fprintf(w, "Batch size:   %s\n", summary.BatchSizeUsed)

	if result.Analysis != nil && result.Analysis.Detected {
		fmt.Fprintf(w, "Batch-level patterns (score %d):\n", result.Analysis.Score)
		for _, pattern := range result.Analysis.Patterns {
			fmt.Fprintf(w, "  - %s\n", pattern)
		}
	}
}
