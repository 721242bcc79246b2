package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRunConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")
	content := `{
  "input_dir": "/data/in",
  "output_dir": "/data/out",
  "file_pattern": "*.md",
  "target_lang": "日语",
  "glossary": {"AI": "人工知能"},
  "summary": true,
  "delete_after": true
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InputDir != "/data/in" || cfg.FilePattern != "*.md" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Summary == nil || !*cfg.Summary {
		t.Fatalf("summary flag not decoded: %+v", cfg)
	}
	if cfg.Glossary["AI"] != "人工知能" {
		t.Fatalf("glossary not decoded: %+v", cfg)
	}
}

func TestValidateRunConfig_RejectsWrongTypes(t *testing.T) {
	t.Parallel()

	_, err := ValidateRunConfig([]byte(`{"input_dir": 42}`))
	if err == nil {
		t.Fatal("expected a schema validation error")
	}
	if !strings.Contains(err.Error(), "schema validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRunConfig_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRunConfig([]byte(`{"inputdir": "/x"}`)); err == nil {
		t.Fatal("expected unknown fields to be rejected")
	}
}

func TestValidateRunConfig_RejectsTrailingContent(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRunConfig([]byte(`{} {}`)); err == nil {
		t.Fatal("expected trailing content to be rejected")
	}
}

func TestRunConfig_ApplyOverlaysSetFields(t *testing.T) {
	t.Parallel()

	deleteAfter := true
	cfg := &RunConfig{
		InputDir:    "/override/in",
		TargetLang:  "日语",
		DeleteAfter: &deleteAfter,
	}

	base := Options{
		InputDir:    "/default/in",
		OutputDir:   "/default/out",
		ArchiveDir:  "/default/archive",
		FilePattern: "*.txt",
		TargetLang:  "中文",
	}
	got := cfg.Apply(base)

	if got.InputDir != "/override/in" {
		t.Fatalf("input dir not overridden: %+v", got)
	}
	if got.OutputDir != "/default/out" || got.FilePattern != "*.txt" {
		t.Fatalf("unset fields must keep defaults: %+v", got)
	}
	if got.TargetLang != "日语" || !got.DeleteAfter {
		t.Fatalf("overrides not applied: %+v", got)
	}
}

func TestRunConfig_NilApplyKeepsBase(t *testing.T) {
	t.Parallel()

	var cfg *RunConfig
	base := Options{InputDir: "/in"}
	if got := cfg.Apply(base); got.InputDir != "/in" {
		t.Fatalf("nil config must keep base options: %+v", got)
	}
}
