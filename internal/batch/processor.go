// Package batch translates every matching file in a directory, persists the
// structured results, and archives or deletes the sources afterwards.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CZCNNBB/AI-based-translation-program/internal/reader"
	"github.com/CZCNNBB/AI-based-translation-program/internal/translation"
)

// Translator is the single-text entry point the processor drives per file.
type Translator interface {
	Translate(ctx context.Context, req translation.Request) (*translation.Result, error)
}

// Options controls one batch run.
type Options struct {
	InputDir    string
	OutputDir   string
	ArchiveDir  string
	FilePattern string
	DeleteAfter bool
	TargetLang  string
	Domain      string
	Glossary    map[string]string
	Summary     *bool
}

// FileResult records the outcome for one input file.
type FileResult struct {
	ResultID    string              `json:"result_id"`
	InputFile   string              `json:"input_file"`
	OutputFile  string              `json:"output_file,omitempty"`
	Status      string              `json:"status"`
	Error       string              `json:"error,omitempty"`
	Translation *translation.Result `json:"translation,omitempty"`
	Deleted     bool                `json:"deleted"`
	Archived    bool                `json:"archived"`
	ArchivePath string              `json:"archive_path,omitempty"`
}

// RunSummary aggregates a whole batch run.
type RunSummary struct {
	RunID        string       `json:"run_id"`
	TotalFiles   int          `json:"total_files"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	Results      []FileResult `json:"results"`
	Message      string       `json:"message"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Processor walks an input directory and feeds each file through the engine.
type Processor struct {
	engine Translator
	logger zerolog.Logger
}

func NewProcessor(engine Translator, logger zerolog.Logger) *Processor {
	return &Processor{engine: engine, logger: logger}
}

// Run executes one batch run. Per-file failures are recorded and do not stop
// the run; only a missing input directory or caller cancellation aborts it.
func (p *Processor) Run(ctx context.Context, opts Options) (*RunSummary, error) {
	info, err := os.Stat(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", opts.InputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", opts.InputDir)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if !opts.DeleteAfter {
		if err := os.MkdirAll(opts.ArchiveDir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	files, err := filepath.Glob(filepath.Join(opts.InputDir, opts.FilePattern))
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", opts.FilePattern, err)
	}
	sort.Strings(files)

	summary := &RunSummary{
		RunID:   uuid.NewString(),
		Results: make([]FileResult, 0, len(files)),
	}
	if len(files) == 0 {
		summary.Message = fmt.Sprintf("no files matching %q in %s", opts.FilePattern, opts.InputDir)
		p.logger.Warn().Str("input_dir", opts.InputDir).Str("pattern", opts.FilePattern).Msg("batch run matched no files")
		return summary, nil
	}

	summary.TotalFiles = len(files)
	p.logger.Info().
		Str("run_id", summary.RunID).
		Int("files", len(files)).
		Str("input_dir", opts.InputDir).
		Str("output_dir", opts.OutputDir).
		Bool("delete_after", opts.DeleteAfter).
		Msg("batch run started")

	for idx, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		p.logger.Info().Int("file", idx+1).Int("total", len(files)).Str("path", file).Msg("processing file")
		result := p.processFile(ctx, file, opts)
		switch result.Status {
		case StatusSuccess:
			summary.SuccessCount++
		case StatusFailed:
			summary.FailedCount++
		}
		summary.Results = append(summary.Results, result)
	}

	summary.Message = fmt.Sprintf("batch run complete: %d succeeded, %d failed", summary.SuccessCount, summary.FailedCount)
	p.logger.Info().
		Str("run_id", summary.RunID).
		Int("succeeded", summary.SuccessCount).
		Int("failed", summary.FailedCount).
		Msg("batch run finished")
	return summary, nil
}

func (p *Processor) processFile(ctx context.Context, path string, opts Options) FileResult {
	result := FileResult{
		ResultID:  uuid.NewString(),
		InputFile: path,
	}

	text, err := p.readInput(path)
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("read input file failed")
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if strings.TrimSpace(text) == "" {
		p.logger.Warn().Str("path", path).Msg("file is empty, skipping")
		result.Status = StatusSkipped
		result.Error = "file is empty"
		return result
	}

	translated, err := p.engine.Translate(ctx, translation.Request{
		Text:       text,
		TargetLang: opts.TargetLang,
		Domain:     opts.Domain,
		Glossary:   opts.Glossary,
		Summary:    opts.Summary,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("file translation failed")
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	outputFile, err := p.writeResult(path, opts.OutputDir, translated)
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("write translation result failed")
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	result.OutputFile = outputFile
	result.Status = StatusSuccess
	result.Translation = translated

	if opts.DeleteAfter {
		if err := os.Remove(path); err != nil {
			p.logger.Error().Err(err).Str("path", path).Msg("delete source file failed")
			result.Error = fmt.Sprintf("delete source: %v", err)
		} else {
			result.Deleted = true
		}
		return result
	}

	archivePath := filepath.Join(opts.ArchiveDir, filepath.Base(path))
	if err := os.Rename(path, archivePath); err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("archive source file failed")
		result.Error = fmt.Sprintf("archive source: %v", err)
		return result
	}
	result.Archived = true
	result.ArchivePath = archivePath
	return result
}

// readInput loads a source file, passing HTML documents through readability
// extraction first.
func (p *Processor) readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return reader.ExtractText(data, filepath.Base(path))
	default:
		return string(data), nil
	}
}

func (p *Processor) writeResult(inputPath, outputDir string, result *translation.Result) (string, error) {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	outputFile := filepath.Join(outputDir, stem+"_translated.json")

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal translation result: %w", err)
	}
	if err := os.WriteFile(outputFile, payload, 0o644); err != nil {
		return "", fmt.Errorf("write translation result: %w", err)
	}
	return outputFile, nil
}
