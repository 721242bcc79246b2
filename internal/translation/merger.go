package translation

import (
	"strings"
	"unicode"
)

// minOverlapMatch is the shortest suffix/prefix agreement accepted as a real
// duplicate. Anything shorter is treated as coincidence.
const minOverlapMatch = 4

// MergeChunks stitches per-chunk translations back into one text. For every
// chunk after the first, the translated counterpart of the source-side
// overlap is located by comparing the merged tail against the chunk's leading
// runes; only a credible match is removed. When no match is found the chunk
// is concatenated verbatim behind a single separator, so an unaligned
// translation duplicates a little text instead of losing any.
func MergeChunks(translated []string, overlap int) string {
	if len(translated) == 0 {
		return ""
	}

	merged := []rune(translated[0])
	for _, chunk := range translated[1:] {
		runes := []rune(chunk)
		if len(runes) == 0 {
			continue
		}

		cut := overlapCut(merged, runes, overlap)
		if cut <= 0 {
			if len(merged) > 0 && !unicode.IsSpace(merged[len(merged)-1]) && !unicode.IsSpace(runes[0]) {
				merged = append(merged, ' ')
			}
			merged = append(merged, runes...)
			continue
		}
		merged = append(merged, runes[cut:]...)
	}
	return string(merged)
}

// overlapCut returns how many leading runes of cur repeat the tail of prev,
// or 0 when no credible duplicate exists. It prefers the longest exact
// suffix/prefix agreement within the overlap window, then falls back to the
// first sentence unit of cur, which may match prev's tail with whitespace
// drift.
func overlapCut(prev, cur []rune, overlap int) int {
	window := overlap
	if window > len(prev) {
		window = len(prev)
	}
	if window > len(cur) {
		window = len(cur)
	}
	for k := window; k >= minOverlapMatch; k-- {
		if string(prev[len(prev)-k:]) == string(cur[:k]) {
			return k
		}
	}

	limit := overlap
	if limit > len(cur) {
		limit = len(cur)
	}
	end := -1
	for i := 0; i < limit; i++ {
		if _, ok := sentenceEndMarkers[cur[i]]; ok {
			end = i + 1
			break
		}
	}
	if end < minOverlapMatch {
		return 0
	}
	lead := strings.TrimSpace(string(cur[:end]))
	if lead != "" && strings.HasSuffix(strings.TrimRight(string(prev), " \t\n"), lead) {
		return end
	}
	return 0
}
