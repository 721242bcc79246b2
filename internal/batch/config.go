package batch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed run_config.schema.json
var runConfigSchemaJSON string

// RunConfig is a declarative batch run description loaded from a JSON file.
// Unset fields fall back to the process-wide batch defaults.
type RunConfig struct {
	InputDir    string            `json:"input_dir,omitempty"`
	OutputDir   string            `json:"output_dir,omitempty"`
	ArchiveDir  string            `json:"archive_dir,omitempty"`
	FilePattern string            `json:"file_pattern,omitempty"`
	TargetLang  string            `json:"target_lang,omitempty"`
	Domain      string            `json:"domain,omitempty"`
	Glossary    map[string]string `json:"glossary,omitempty"`
	Summary     *bool             `json:"summary,omitempty"`
	DeleteAfter *bool             `json:"delete_after,omitempty"`
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// LoadRunConfig reads and validates a batch run configuration file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch config: %w", err)
	}
	cfg, err := ValidateRunConfig(data)
	if err != nil {
		return nil, fmt.Errorf("batch config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidateRunConfig validates a raw batch config document against the
// embedded schema and decodes it.
func ValidateRunConfig(payload json.RawMessage) (*RunConfig, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode config JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize config JSON: %w", err)
	}
	var cfg RunConfig
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Apply overlays the config's set fields on top of base options.
func (c *RunConfig) Apply(base Options) Options {
	if c == nil {
		return base
	}
	if strings.TrimSpace(c.InputDir) != "" {
		base.InputDir = c.InputDir
	}
	if strings.TrimSpace(c.OutputDir) != "" {
		base.OutputDir = c.OutputDir
	}
	if strings.TrimSpace(c.ArchiveDir) != "" {
		base.ArchiveDir = c.ArchiveDir
	}
	if strings.TrimSpace(c.FilePattern) != "" {
		base.FilePattern = c.FilePattern
	}
	if strings.TrimSpace(c.TargetLang) != "" {
		base.TargetLang = c.TargetLang
	}
	if strings.TrimSpace(c.Domain) != "" {
		base.Domain = c.Domain
	}
	if len(c.Glossary) > 0 {
		base.Glossary = c.Glossary
	}
	if c.Summary != nil {
		base.Summary = c.Summary
	}
	if c.DeleteAfter != nil {
		base.DeleteAfter = *c.DeleteAfter
	}
	return base
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("run_config.schema.json", strings.NewReader(runConfigSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("run_config.schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if schemaErr != nil {
		return nil, schemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("config is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config contains trailing content")
	}
	return value, nil
}
