package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	OllamaBaseURL  string        `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaModel    string        `envconfig:"OLLAMA_MODEL" default:"llama3"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	MaxRetries     int           `envconfig:"MAX_RETRIES" default:"3"`
	BackoffBase    float64       `envconfig:"BACKOFF_BASE" default:"2"`

	Temperature float64 `envconfig:"TEMPERATURE" default:"0.3"`
	TopP        float64 `envconfig:"TOP_P" default:"0.9"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"2000"`

	DefaultTargetLang string `envconfig:"DEFAULT_TARGET_LANG" default:"中文"`

	ChunkingEnabled bool `envconfig:"CHUNK_TRANSLATION" default:"true"`
	MaxChunkSize    int  `envconfig:"MAX_CHUNK_SIZE" default:"2000"`
	ChunkOverlap    int  `envconfig:"CHUNK_OVERLAP" default:"100"`

	DetectCacheEnabled    bool `envconfig:"DETECT_CACHE" default:"true"`
	DetectOfflineFallback bool `envconfig:"DETECT_OFFLINE_FALLBACK" default:"false"`

	SummaryEnabled        bool   `envconfig:"SUMMARY_ENABLED" default:"true"`
	SummaryMaxLength      int    `envconfig:"SUMMARY_MAX_LENGTH" default:"100"`
	SummaryPromptTemplate string `envconfig:"SUMMARY_PROMPT_TEMPLATE" default:""`

	BatchInputDir    string `envconfig:"BATCH_INPUT_DIR" default:"./input"`
	BatchOutputDir   string `envconfig:"BATCH_OUTPUT_DIR" default:"./completed"`
	BatchArchiveDir  string `envconfig:"BATCH_ARCHIVE_DIR" default:"./archive"`
	BatchFilePattern string `envconfig:"BATCH_FILE_PATTERN" default:"*.txt"`
	BatchDeleteAfter bool   `envconfig:"BATCH_DELETE_AFTER" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OllamaBaseURL) == "" {
		return fmt.Errorf("OLLAMA_BASE_URL is required")
	}
	if strings.TrimSpace(c.OllamaModel) == "" {
		return fmt.Errorf("OLLAMA_MODEL is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be >= 0")
	}
	if c.BackoffBase < 1 {
		return fmt.Errorf("BACKOFF_BASE must be >= 1")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TEMPERATURE must be between 0 and 2")
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("TOP_P must be in (0, 1]")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("MAX_TOKENS must be >= 1")
	}
	if strings.TrimSpace(c.DefaultTargetLang) == "" {
		return fmt.Errorf("DEFAULT_TARGET_LANG is required")
	}
	if c.MaxChunkSize < 1 {
		return fmt.Errorf("MAX_CHUNK_SIZE must be >= 1")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must be >= 0")
	}
	if c.ChunkOverlap >= c.MaxChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than MAX_CHUNK_SIZE (%d)", c.ChunkOverlap, c.MaxChunkSize)
	}
	if c.SummaryMaxLength < 1 {
		return fmt.Errorf("SUMMARY_MAX_LENGTH must be >= 1")
	}
	if strings.TrimSpace(c.BatchFilePattern) == "" {
		return fmt.Errorf("BATCH_FILE_PATTERN is required")
	}
	return nil
}
