// Package langdetect classifies text into one of the supported language
// labels by asking the generation endpoint, memoized by content hash.
package langdetect

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CZCNNBB/AI-based-translation-program/internal/language"
)

// SampleSize bounds the text sent to the endpoint for classification. The
// cache key still covers the full text.
const SampleSize = 500

// Generator is the single generation-endpoint call the detector needs.
type Generator interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Options toggles caching and the offline fallback classifier.
type Options struct {
	CacheEnabled    bool
	OfflineFallback bool
}

// Detector detects the source language of arbitrary text.
type Detector struct {
	gen    Generator
	opts   Options
	cache  *cache
	logger zerolog.Logger
}

func New(gen Generator, opts Options, logger zerolog.Logger) *Detector {
	return &Detector{
		gen:    gen,
		opts:   opts,
		cache:  newCache(),
		logger: logger,
	}
}

// Detect returns the canonical language label for text. Failures degrade to
// language.LabelUnknown and are never cached, so a transient endpoint error
// cannot poison future lookups of the same text.
func (d *Detector) Detect(ctx context.Context, text string) string {
	key := Key(text)

	if d.opts.CacheEnabled {
		if label, ok := d.cache.get(key); ok {
			d.logger.Debug().Str("key", key).Str("label", label).Msg("language detection cache hit")
			return label
		}
	}

	label, err := d.detectWithLLM(ctx, text)
	if err != nil {
		d.logger.Warn().Err(err).Msg("language detection failed")
		if d.opts.OfflineFallback {
			if offline := detectOffline(text); offline != "" {
				d.logger.Info().Str("label", offline).Msg("offline language detection fallback used")
				return offline
			}
		}
		return language.LabelUnknown
	}

	if d.opts.CacheEnabled {
		d.cache.put(key, label)
		d.logger.Debug().Str("key", key).Str("label", label).Msg("language detection result cached")
	}
	return label
}

// ClearCache removes every cached entry and returns how many were removed.
func (d *Detector) ClearCache() int {
	return d.cache.clear()
}

// CacheStats reports the current cache state.
func (d *Detector) CacheStats() Stats {
	return d.cache.stats(d.opts.CacheEnabled)
}

func (d *Detector) detectWithLLM(ctx context.Context, text string) (string, error) {
	sample := text
	if runes := []rune(sample); len(runes) > SampleSize {
		sample = string(runes[:SampleSize])
	}

	reply, err := d.gen.Chat(ctx, detectionSystemPrompt(), detectionUserPrompt(sample))
	if err != nil {
		return "", fmt.Errorf("language detection call: %w", err)
	}

	label := normalizeReply(reply)
	if label == "" {
		label = language.LabelOther
	}
	d.logger.Info().Str("label", label).Msg("language detected")
	return label, nil
}

func detectionSystemPrompt() string {
	var b strings.Builder
	b.WriteString("你是一个语言识别专家，擅长识别各种语言的文本。\n\n")
	b.WriteString("任务：识别文本的语言，并只输出语言名称（使用中文标注）。\n\n")
	b.WriteString("支持的语言：\n")
	for _, label := range language.Labels() {
		fmt.Fprintf(&b, "- %s/%s → %s\n", language.EnglishName(label), label, label)
	}
	b.WriteString("\n注意：\n")
	b.WriteString("1. 只输出语言名称，不要输出任何其他内容\n")
	b.WriteString("2. 使用中文标注\n")
	fmt.Fprintf(&b, "3. 如果无法确定语言，输出\"%s\"\n", language.LabelOther)
	return b.String()
}

func detectionUserPrompt(sample string) string {
	return fmt.Sprintf("请识别以下文本的语言：\n\n【待识别文本】\n%s\n\n只输出语言名称（中文标注）。", sample)
}

// normalizeReply strips the decoration models tend to add around the label
// and maps known aliases onto the canonical set.
func normalizeReply(reply string) string {
	cleaned := strings.TrimSpace(reply)
	for _, junk := range []string{"【", "】", "：", ":", "。", "\""} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}
	cleaned = strings.ReplaceAll(cleaned, "语言", "")
	cleaned = strings.TrimPrefix(cleaned, "是")
	cleaned = strings.TrimSpace(cleaned)

	if label := language.Canonical(cleaned); label != "" {
		return label
	}
	// Keep an unrecognized but non-empty reply as-is, matching the lenient
	// normalization of the detection contract.
	return cleaned
}
