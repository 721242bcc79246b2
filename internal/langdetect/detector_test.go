package langdetect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/CZCNNBB/AI-based-translation-program/internal/language"
)

type stubGenerator struct {
	calls   int
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Chat(_ context.Context, _ string, userPrompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, userPrompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestDetect_CachesByContentHash(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "英语"}
	detector := New(gen, Options{CacheEnabled: true}, zerolog.Nop())

	if got := detector.Detect(context.Background(), "Hello, world!"); got != "英语" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := detector.Detect(context.Background(), "Hello, world!"); got != "英语" {
		t.Fatalf("unexpected label on cache hit: %q", got)
	}
	if gen.calls != 1 {
		t.Fatalf("second detection must hit the cache: got %d calls want 1", gen.calls)
	}

	stats := detector.CacheStats()
	if !stats.Enabled || stats.Size != 1 || len(stats.Keys) != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Keys[0] != Key("Hello, world!") {
		t.Fatalf("cache key is not the content digest")
	}
}

func TestDetect_CacheDisabledCallsEveryTime(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "英语"}
	detector := New(gen, Options{CacheEnabled: false}, zerolog.Nop())

	detector.Detect(context.Background(), "Hello")
	detector.Detect(context.Background(), "Hello")
	if gen.calls != 2 {
		t.Fatalf("unexpected call count: got %d want 2", gen.calls)
	}
	if stats := detector.CacheStats(); stats.Size != 0 {
		t.Fatalf("nothing must be cached when disabled: %+v", stats)
	}
}

func TestDetect_NormalizesDecoratedReplies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		reply string
		want  string
	}{
		{"【英语】", "英语"},
		{"是日语。", "日语"},
		{"语言：法语", "法语"},
		{"English", "英语"},
		{"  中文  ", "中文"},
		{"", language.LabelOther},
	}

	for _, tc := range cases {
		gen := &stubGenerator{reply: tc.reply}
		detector := New(gen, Options{}, zerolog.Nop())
		if got := detector.Detect(context.Background(), "some text"); got != tc.want {
			t.Fatalf("reply %q: got %q want %q", tc.reply, got, tc.want)
		}
	}
}

func TestDetect_KeepsUnrecognizedReplies(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "斯瓦希里语"}
	detector := New(gen, Options{}, zerolog.Nop())
	if got := detector.Detect(context.Background(), "some text"); got != "斯瓦希里语" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestDetect_FailureIsUnknownAndNeverCached(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("endpoint down")}
	detector := New(gen, Options{CacheEnabled: true}, zerolog.Nop())

	if got := detector.Detect(context.Background(), "Hello"); got != language.LabelUnknown {
		t.Fatalf("unexpected label: %q", got)
	}
	if stats := detector.CacheStats(); stats.Size != 0 {
		t.Fatalf("failures must not be cached: %+v", stats)
	}

	// The endpoint recovered; the stale failure must not mask it.
	gen.err = nil
	gen.reply = "英语"
	if got := detector.Detect(context.Background(), "Hello"); got != "英语" {
		t.Fatalf("unexpected label after recovery: %q", got)
	}
}

func TestDetect_OfflineFallback(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("endpoint down")}
	detector := New(gen, Options{OfflineFallback: true}, zerolog.Nop())

	text := "The quick brown fox jumps over the lazy dog. This paragraph is unmistakably written in the English language, with enough words for a confident classification."
	if got := detector.Detect(context.Background(), text); got != "英语" {
		t.Fatalf("unexpected fallback label: %q", got)
	}
}

func TestDetect_OfflineFallbackDeclinesTinyInput(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("endpoint down")}
	detector := New(gen, Options{OfflineFallback: true}, zerolog.Nop())

	if got := detector.Detect(context.Background(), "12345"); got != language.LabelUnknown {
		t.Fatalf("unexpected label for numeric input: %q", got)
	}
}

func TestDetect_SamplesLongTexts(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "英语"}
	detector := New(gen, Options{}, zerolog.Nop())

	long := strings.Repeat("word ", 400)
	detector.Detect(context.Background(), long)

	prompt := gen.prompts[0]
	if strings.Contains(prompt, long) {
		t.Fatal("detection prompt must carry a bounded sample, not the full text")
	}
	if !strings.Contains(prompt, string([]rune(long)[:SampleSize])) {
		t.Fatalf("detection prompt missing the leading sample")
	}
}

func TestClearCache(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "英语"}
	detector := New(gen, Options{CacheEnabled: true}, zerolog.Nop())

	detector.Detect(context.Background(), "one")
	detector.Detect(context.Background(), "two")

	if cleared := detector.ClearCache(); cleared != 2 {
		t.Fatalf("unexpected cleared count: got %d want 2", cleared)
	}
	if stats := detector.CacheStats(); stats.Size != 0 || len(stats.Keys) != 0 {
		t.Fatalf("cache not empty after clear: %+v", stats)
	}
}
