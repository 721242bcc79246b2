package translation

// Request describes one translation request. Zero-value optional fields fall
// back to the process-wide defaults resolved once at the start of Translate.
type Request struct {
	Text       string
	TargetLang string
	Domain     string
	Glossary   map[string]string
	// Summary is tri-state: nil defers to the configured default.
	Summary *bool
}

// Result is the structured outcome of one translation. DetectedLanguage is
// always populated, on both success and failure paths.
type Result struct {
	DetectedLanguage string `json:"detected_language"`
	TranslatedText   string `json:"translated_text"`
	Summary          string `json:"summary"`
}
