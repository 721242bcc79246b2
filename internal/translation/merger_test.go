package translation

import (
	"strings"
	"testing"
)

func TestMergeChunks_Empty(t *testing.T) {
	t.Parallel()

	if got := MergeChunks(nil, 100); got != "" {
		t.Fatalf("expected empty merge, got %q", got)
	}
}

func TestMergeChunks_SingleChunkVerbatim(t *testing.T) {
	t.Parallel()

	if got := MergeChunks([]string{"你好，世界"}, 100); got != "你好，世界" {
		t.Fatalf("unexpected merge: %q", got)
	}
}

func TestMergeChunks_RemovesExactOverlapRepeat(t *testing.T) {
	t.Parallel()

	got := MergeChunks([]string{"Hello world. The cat", "The cat sat down."}, 7)
	if got != "Hello world. The cat sat down." {
		t.Fatalf("unexpected merge: %q", got)
	}
}

func TestMergeChunks_RemovesRepeatedSentenceWithWhitespaceDrift(t *testing.T) {
	t.Parallel()

	// The repeated sentence does not align rune-for-rune because of the
	// trailing newline, but it is still the translated overlap.
	got := MergeChunks([]string{"It rained.\n", "It rained. Then sun came out."}, 12)
	if got != "It rained.\n Then sun came out." {
		t.Fatalf("unexpected merge: %q", got)
	}
}

func TestMergeChunks_DropsWhollyRepeatedChunk(t *testing.T) {
	t.Parallel()

	if got := MergeChunks([]string{"abcdef", "cdef"}, 10); got != "abcdef" {
		t.Fatalf("unexpected merge: %q", got)
	}
}

func TestMergeChunks_NoMatchConcatenatesVerbatim(t *testing.T) {
	t.Parallel()

	got := MergeChunks([]string{"it rained all day", "nothing here repeats the previous chunk"}, 10)
	want := "it rained all day nothing here repeats the previous chunk"
	if got != want {
		t.Fatalf("content was dropped from an unmatched chunk:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeChunks_ShortChunksConcatenatedVerbatim(t *testing.T) {
	t.Parallel()

	if got := MergeChunks([]string{"first", "ab"}, 4); got != "first ab" {
		t.Fatalf("unexpected merge: %q", got)
	}
}

func TestMergeChunks_NoSeparatorAfterExistingBoundary(t *testing.T) {
	t.Parallel()

	if got := MergeChunks([]string{"line one\n", "line two"}, 4); got != "line one\nline two" {
		t.Fatalf("unexpected merge: %q", got)
	}
}

func TestMergeChunks_ManyChunks(t *testing.T) {
	t.Parallel()

	chunks := []string{strings.Repeat("X", 10), strings.Repeat("X", 10), strings.Repeat("X", 10)}
	got := MergeChunks(chunks, 4)
	if got != strings.Repeat("X", 22) {
		t.Fatalf("unexpected merged length: got %d want 22", len([]rune(got)))
	}
}
