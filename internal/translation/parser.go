package translation

import "strings"

// legacySeparators are accepted when the model ignored the delimiter format
// but was asked for a summary.
var legacySeparators = []string{"\n摘要：", "\n摘要:", "\n摘要", "\nSummary:", "\nSummary", "---"}

// ParseResponse extracts the translated text and optional summary from the
// model's raw reply. Delimiter absence is a first-class case: the whole
// reply becomes the translation and the summary stays empty.
func ParseResponse(raw string, summaryRequested bool) (string, string) {
	response := unescape(raw)

	if _, after, found := strings.Cut(response, translationMarker); found {
		if transPart, summaryPart, hasSummary := strings.Cut(after, summaryMarker); hasSummary {
			translated := strings.TrimSpace(transPart)
			summary := strings.TrimSpace(summaryPart)
			// Models answer "无" for the summary section when there is
			// nothing to summarize.
			if !summaryRequested && summary == "无" {
				summary = ""
			}
			return translated, summary
		}
		return strings.TrimSpace(after), ""
	}

	if !summaryRequested {
		return strings.TrimSpace(response), ""
	}

	for _, sep := range legacySeparators {
		if before, after, found := strings.Cut(response, sep); found {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}

	// Last resort: treat the final line as the summary when the reply has
	// more than one line.
	lines := strings.Split(strings.TrimSpace(response), "\n")
	if len(lines) > 1 {
		translated := strings.TrimSpace(strings.Join(lines[:len(lines)-1], "\n"))
		return translated, strings.TrimSpace(lines[len(lines)-1])
	}

	return strings.TrimSpace(response), ""
}

// unescape converts literal escape sequences models sometimes emit into the
// characters they stand for.
func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t", `\"`, `"`).Replace(s)
}
