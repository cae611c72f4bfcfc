// Package batch runs one extraction cycle per source record in a corpus
// directory. Records are independent: each is processed and persisted on
// its own, and a failure on one never blocks the rest.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caselens/caselens/internal/session"
)

// Runner processes a directory of .txt source records into one JSON
// result file per record, named by the source file's base name.
type Runner struct {
	Session *session.Session
	Logger  *slog.Logger
}

// NewRunner creates a batch runner around an extraction session.
func NewRunner(s *session.Session, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Session: s, Logger: logger}
}

// Summary counts the outcomes of one batch run.
type Summary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// resultFile is the persisted shape of one successful extraction.
type resultFile struct {
	URL       string          `json:"url"`
	Extracted json.RawMessage `json:"extracted"`
}

// Run processes every .txt record in inputDir, writing results to
// outputDir. Per-record failures are logged with their source identity
// and processing continues; Run only returns an error when the corpus
// itself is unusable or the context is cancelled.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt records found in %s", inputDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := &Summary{}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Processed++
		if err := r.processOne(ctx, inputDir, outputDir, name); err != nil {
			var skip *skipError
			if errors.As(err, &skip) {
				summary.Skipped++
				r.Logger.Warn("skipping record", "file", name, "reason", skip.reason)
				continue
			}
			summary.Failed++
			r.Logger.Error("record failed", "file", name, "error", err)
			continue
		}
		summary.Succeeded++
	}

	r.Logger.Info("batch run complete",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	return summary, nil
}

func (r *Runner) processOne(ctx context.Context, inputDir, outputDir, name string) error {
	f, err := os.Open(filepath.Join(inputDir, name))
	if err != nil {
		return fmt.Errorf("failed to open record: %w", err)
	}
	record, err := ParseRecord(f)
	f.Close()
	if err != nil {
		return err
	}

	if record.Empty() {
		return &skipError{reason: "record has empty URL or body"}
	}

	result, err := r.Session.Extract(ctx, record.Body)
	if err != nil {
		return err
	}

	value, err := json.Marshal(result.Value)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	out, err := json.MarshalIndent(resultFile{
		URL:       record.URL,
		Extracted: value,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	outPath := filepath.Join(outputDir, base+".json")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	r.Logger.Info("record processed", "file", name, "output", outPath)
	return nil
}

// skipError marks a record that was intentionally not processed.
type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return e.reason
}
