// Package translation implements the translation engine: language detection,
// chunked translation through a generation endpoint, and result assembly.
package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CZCNNBB/AI-based-translation-program/internal/langdetect"
	"github.com/CZCNNBB/AI-based-translation-program/internal/language"
)

// SummarySampleSize bounds the leading sample of the original text used for
// the standalone summary call after chunked translation.
const SummarySampleSize = 1000

// Generator is one request/response round trip against the generation
// endpoint.
type Generator interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Detector classifies source text and owns the detection cache.
type Detector interface {
	Detect(ctx context.Context, text string) string
	ClearCache() int
	CacheStats() langdetect.Stats
}

// Settings are the process-wide defaults. They are resolved against
// request-level overrides once at the start of Translate, never read ad hoc
// mid-pipeline.
type Settings struct {
	DefaultTargetLang     string
	ChunkingEnabled       bool
	MaxChunkSize          int
	ChunkOverlap          int
	SummaryEnabled        bool
	SummaryMaxLength      int
	SummaryPromptTemplate string
}

// Engine composes detection, segmentation, prompting, generation, parsing,
// and merging into the translate operation.
type Engine struct {
	gen      Generator
	detector Detector
	settings Settings
	logger   zerolog.Logger
}

func NewEngine(gen Generator, detector Detector, settings Settings, logger zerolog.Logger) *Engine {
	return &Engine{
		gen:      gen,
		detector: detector,
		settings: settings,
		logger:   logger,
	}
}

// Translate runs the full pipeline for one request. Detection failure
// degrades to the unknown label; a failed chunk translation fails the whole
// request, since a partially translated document is incoherent and the
// caller has no way to tell which span failed.
func (e *Engine) Translate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		e.logger.Debug().Msg("empty text, skipping translation")
		return &Result{DetectedLanguage: language.LabelUnknown}, nil
	}

	targetLang := language.NormalizeTarget(req.TargetLang)
	if targetLang == "" {
		targetLang = e.settings.DefaultTargetLang
	}
	wantSummary := e.settings.SummaryEnabled
	if req.Summary != nil {
		wantSummary = *req.Summary
	}

	textRunes := len([]rune(req.Text))
	e.logger.Info().
		Int("text_chars", textRunes).
		Str("target_lang", targetLang).
		Str("domain", req.Domain).
		Int("glossary_terms", len(req.Glossary)).
		Bool("summary", wantSummary).
		Msg("translation started")

	sourceLang := e.detector.Detect(ctx, req.Text)

	var chunks []Chunk
	if e.settings.ChunkingEnabled {
		chunks = Split(req.Text, e.settings.MaxChunkSize, e.settings.ChunkOverlap)
	} else {
		chunks = []Chunk{{Text: req.Text, Start: 0, End: textRunes, Index: 0}}
	}
	e.logger.Info().Int("chunks", len(chunks)).Str("source_lang", sourceLang).Msg("text segmented")

	opts := PromptOptions{
		SourceLang:       sourceLang,
		TargetLang:       targetLang,
		Domain:           req.Domain,
		Glossary:         req.Glossary,
		SummaryMaxLength: e.settings.SummaryMaxLength,
	}

	if len(chunks) == 1 {
		opts.Summary = wantSummary
		translated, summary, err := e.translateChunk(ctx, chunks[0], 1, opts)
		if err != nil {
			return nil, err
		}
		return &Result{
			DetectedLanguage: sourceLang,
			TranslatedText:   translated,
			Summary:          e.capSummary(summary),
		}, nil
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, _, err := e.translateChunk(ctx, chunk, len(chunks), opts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, translated)
	}

	merged := MergeChunks(parts, e.settings.ChunkOverlap)
	e.logger.Info().Int("merged_chars", len([]rune(merged))).Msg("chunk translations merged")

	summary := ""
	if wantSummary {
		summary = e.generateSummary(ctx, req.Text, targetLang)
	}

	return &Result{
		DetectedLanguage: sourceLang,
		TranslatedText:   merged,
		Summary:          summary,
	}, nil
}

// ClearCache clears the language-detection cache.
func (e *Engine) ClearCache() int {
	return e.detector.ClearCache()
}

// CacheStats reports the language-detection cache state.
func (e *Engine) CacheStats() langdetect.Stats {
	return e.detector.CacheStats()
}

func (e *Engine) translateChunk(ctx context.Context, chunk Chunk, total int, opts PromptOptions) (string, string, error) {
	e.logger.Info().
		Int("chunk", chunk.Index+1).
		Int("total", total).
		Int("chunk_chars", len([]rune(chunk.Text))).
		Msg("translating chunk")

	systemPrompt, userPrompt := BuildTranslationPrompts(chunk.Text, opts)
	raw, err := e.gen.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", "", fmt.Errorf("translate chunk %d/%d: %w", chunk.Index+1, total, err)
	}

	translated, summary := ParseResponse(raw, opts.Summary)
	return translated, summary, nil
}

// generateSummary issues one extra generation call over a bounded leading
// sample of the original text. A failed summary degrades to empty instead of
// failing an otherwise complete translation.
func (e *Engine) generateSummary(ctx context.Context, text, targetLang string) string {
	sample := text
	if runes := []rune(sample); len(runes) > SummarySampleSize {
		sample = string(runes[:SummarySampleSize])
	}

	systemPrompt, userPrompt := buildSummaryPrompts(sample, targetLang, e.settings.SummaryMaxLength, e.settings.SummaryPromptTemplate)
	raw, err := e.gen.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		e.logger.Warn().Err(err).Msg("summary generation failed")
		return ""
	}
	return e.capSummary(strings.TrimSpace(raw))
}

func (e *Engine) capSummary(summary string) string {
	runes := []rune(summary)
	if len(runes) <= e.settings.SummaryMaxLength {
		return summary
	}
	return string(runes[:e.settings.SummaryMaxLength]) + "..."
}
