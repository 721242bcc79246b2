package translation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseGlossary parses an inline glossary string. Both a JSON object and the
// compact "term=translation,term=translation" form are accepted.
func ParseGlossary(raw string) map[string]string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var parsed map[string]string
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}

	glossary := make(map[string]string)
	for _, item := range strings.Split(trimmed, ",") {
		item = strings.TrimSpace(item)
		key, value, found := strings.Cut(item, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" {
			glossary[key] = value
		}
	}
	if len(glossary) == 0 {
		return nil
	}
	return glossary
}

// LoadGlossaryFile reads a YAML term→translation map from disk.
func LoadGlossaryFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary file: %w", err)
	}
	var glossary map[string]string
	if err := yaml.Unmarshal(data, &glossary); err != nil {
		return nil, fmt.Errorf("parse glossary file %s: %w", path, err)
	}
	return glossary, nil
}
