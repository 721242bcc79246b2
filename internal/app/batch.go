package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CZCNNBB/AI-based-translation-program/internal/batch"
	"github.com/CZCNNBB/AI-based-translation-program/internal/cli"
	"github.com/CZCNNBB/AI-based-translation-program/internal/config"
	"github.com/CZCNNBB/AI-based-translation-program/internal/translation"
)

func runBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "", "JSON batch run config file")
	inputDir := fs.String("input", "", "Input directory (default from config)")
	outputDir := fs.String("output", "", "Output directory (default from config)")
	archiveDir := fs.String("archive", "", "Archive directory (default from config)")
	pattern := fs.String("pattern", "", "Input file glob pattern (default from config)")
	deleteAfter := fs.Bool("delete", false, "Delete input files after translation instead of archiving")
	lang := fs.String("lang", "", "Target language (default from config)")
	domain := fs.String("domain", "", "Domain hint for the translation prompt")
	glossary := fs.String("glossary", "", "Inline glossary: k=v pairs or a JSON object")

	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code >= 0 {
		return code
	}

	opts := batchDefaults(cfg)
	if *configPath != "" {
		runCfg, err := batch.LoadRunConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid batch config: %v\n", err)
			return 2
		}
		opts = runCfg.Apply(opts)
	}
	if *inputDir != "" {
		opts.InputDir = *inputDir
	}
	if *outputDir != "" {
		opts.OutputDir = *outputDir
	}
	if *archiveDir != "" {
		opts.ArchiveDir = *archiveDir
	}
	if *pattern != "" {
		opts.FilePattern = *pattern
	}
	if *deleteAfter {
		opts.DeleteAfter = true
	}
	if *lang != "" {
		opts.TargetLang = *lang
	}
	if *domain != "" {
		opts.Domain = *domain
	}
	if *glossary != "" {
		opts.Glossary = translation.ParseGlossary(*glossary)
	}

	engine, _ := buildEngine(cfg, logger)
	processor := batch.NewProcessor(engine, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := processor.Run(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Msg("batch run failed")
		fmt.Fprintf(os.Stderr, "Batch run failed: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode run summary: %v\n", err)
		return 1
	}
	fmt.Println(string(out))

	if summary.FailedCount > 0 {
		return 1
	}
	return 0
}

func batchDefaults(cfg *config.Config) batch.Options {
	return batch.Options{
		InputDir:    cfg.BatchInputDir,
		OutputDir:   cfg.BatchOutputDir,
		ArchiveDir:  cfg.BatchArchiveDir,
		FilePattern: cfg.BatchFilePattern,
		DeleteAfter: cfg.BatchDeleteAfter,
		TargetLang:  cfg.DefaultTargetLang,
	}
}
