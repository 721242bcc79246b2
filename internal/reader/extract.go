// Package reader extracts translatable plain text from HTML documents so
// batch runs can accept web page exports alongside plain-text files.
package reader

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
)

// ExtractText pulls the readable article text out of an HTML document.
// name is used only for diagnostics.
func ExtractText(html []byte, name string) (string, error) {
	base := &url.URL{Scheme: "file", Path: "/" + strings.TrimPrefix(name, "/")}

	article, err := readability.FromReader(bytes.NewReader(html), base)
	if err != nil {
		return "", fmt.Errorf("readability parse %s: %w", name, err)
	}

	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return "", fmt.Errorf("render readability text for %s: %w", name, err)
	}

	text := CleanText(rendered.String())
	if text == "" {
		text = CleanText(article.Excerpt())
	}
	if text == "" {
		return "", fmt.Errorf("no readable content in %s", name)
	}
	return text, nil
}

// CleanText normalizes line endings and collapses extra in-line whitespace.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}
