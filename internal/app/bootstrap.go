package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/CZCNNBB/AI-based-translation-program/internal/cli"
	"github.com/CZCNNBB/AI-based-translation-program/internal/config"
	"github.com/CZCNNBB/AI-based-translation-program/internal/langdetect"
	"github.com/CZCNNBB/AI-based-translation-program/internal/logging"
	"github.com/CZCNNBB/AI-based-translation-program/internal/ollama"
	"github.com/CZCNNBB/AI-based-translation-program/internal/translation"
)

// parseFlags finishes a FlagSet parse and maps help/parse errors onto exit
// codes. A negative code means parsing succeeded.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	return -1
}

// loadRuntime loads env + config and builds the logger shared by every
// command.
func loadRuntime(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, int) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, zerolog.Logger{}, 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return nil, zerolog.Logger{}, 1
	}

	return cfg, logger, -1
}

// buildEngine wires the Ollama client, the detector, and the translation
// engine from loaded config.
func buildEngine(cfg *config.Config, logger zerolog.Logger) (*translation.Engine, *ollama.Client) {
	client := ollama.NewClient(ollama.Options{
		BaseURL:     cfg.OllamaBaseURL,
		Model:       cfg.OllamaModel,
		Timeout:     cfg.RequestTimeout,
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}, logger)

	detector := langdetect.New(client, langdetect.Options{
		CacheEnabled:    cfg.DetectCacheEnabled,
		OfflineFallback: cfg.DetectOfflineFallback,
	}, logger)

	engine := translation.NewEngine(client, detector, translation.Settings{
		DefaultTargetLang:     cfg.DefaultTargetLang,
		ChunkingEnabled:       cfg.ChunkingEnabled,
		MaxChunkSize:          cfg.MaxChunkSize,
		ChunkOverlap:          cfg.ChunkOverlap,
		SummaryEnabled:        cfg.SummaryEnabled,
		SummaryMaxLength:      cfg.SummaryMaxLength,
		SummaryPromptTemplate: cfg.SummaryPromptTemplate,
	}, logger)

	return engine, client
}
