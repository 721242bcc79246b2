package translation

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Cut-point search windows, measured backward from the tentative chunk end.
const (
	sentenceSearchWindow   = 200
	whitespaceSearchWindow = 100
)

var sentenceEndMarkers = map[rune]struct{}{
	'。': {}, '！': {}, '？': {}, '.': {}, '!': {}, '?': {}, '\n': {},
}

var whitespaceMarkers = map[rune]struct{}{
	' ': {}, '\t': {}, '\n': {},
}

// Chunk is a contiguous window of the source text. Offsets are rune
// positions; End of chunk n overlaps Start of chunk n+1 by the configured
// overlap width, except for the final chunk.
type Chunk struct {
	Text  string
	Start int
	End   int
	Index int
}

// Split carves text into overlapping, sentence-boundary-aligned chunks of at
// most maxChunkSize runes. Texts that fit return a single chunk; empty text
// returns no chunks.
func Split(text string, maxChunkSize, overlap int) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= maxChunkSize {
		return []Chunk{{Text: text, Start: 0, End: n, Index: 0}}
	}

	var chunks []Chunk
	start := 0
	for start < n {
		end := start + maxChunkSize
		if end >= n {
			end = n
		} else {
			end = findCutPoint(runes, start, end)
		}

		chunks = append(chunks, Chunk{
			Text:  string(runes[start:end]),
			Start: start,
			End:   end,
			Index: len(chunks),
		})

		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			// Keep forward progress when boundary search pulled the end
			// close to the previous start.
			next = start + 1
		}
		start = next
	}
	return chunks
}

// findCutPoint searches backward from end for the nearest sentence-end
// marker, then the nearest whitespace marker, then falls back to a hard cut
// snapped onto a grapheme-cluster boundary.
func findCutPoint(runes []rune, start, end int) int {
	low := end - sentenceSearchWindow
	if low < start {
		low = start
	}
	for i := end - 1; i >= low; i-- {
		if _, ok := sentenceEndMarkers[runes[i]]; ok {
			return i + 1
		}
	}

	low = end - whitespaceSearchWindow
	if low < start {
		low = start
	}
	for i := end - 1; i >= low; i-- {
		if _, ok := whitespaceMarkers[runes[i]]; ok {
			return i + 1
		}
	}

	return snapToGraphemeBoundary(runes, start, end)
}

// snapToGraphemeBoundary moves a hard cut backward so it never lands inside
// a multi-rune grapheme cluster.
func snapToGraphemeBoundary(runes []rune, start, end int) int {
	limit := end - start
	rest := string(runes[start:])
	state := -1
	boundary := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		clusterRunes := utf8.RuneCountInString(cluster)
		if boundary+clusterRunes > limit {
			break
		}
		boundary += clusterRunes
		if boundary == limit {
			break
		}
	}
	if boundary <= 0 {
		return end
	}
	return start + boundary
}
