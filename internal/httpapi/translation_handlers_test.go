package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/CZCNNBB/AI-based-translation-program/internal/batch"
	"github.com/CZCNNBB/AI-based-translation-program/internal/langdetect"
	"github.com/CZCNNBB/AI-based-translation-program/internal/translation"
)

type stubEngine struct {
	requests []translation.Request
	result   *translation.Result
	err      error
	cleared  int
}

func (s *stubEngine) Translate(_ context.Context, req translation.Request) (*translation.Result, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubEngine) ClearCache() int {
	s.cleared++
	return 5
}

func (s *stubEngine) CacheStats() langdetect.Stats {
	return langdetect.Stats{Enabled: true, Size: 2, Keys: []string{"k1", "k2"}}
}

type stubRunner struct {
	opts    []batch.Options
	summary *batch.RunSummary
	err     error
}

func (s *stubRunner) Run(_ context.Context, opts batch.Options) (*batch.RunSummary, error) {
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(context.Context) error { return s.err }

func newTestServer(engine Engine, runner BatchRunner, pinger Pinger) *Server {
	return NewServer(engine, runner, pinger, zerolog.Nop(), Options{
		Model: "test-model",
		BatchDefaults: batch.Options{
			InputDir:    "/default/in",
			OutputDir:   "/default/out",
			ArchiveDir:  "/default/archive",
			FilePattern: "*.txt",
			TargetLang:  "中文",
		},
	})
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.buildEcho().ServeHTTP(rec, req)

	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, envelope
}

func TestHandleTranslateText(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{result: &translation.Result{
		DetectedLanguage: "英语",
		TranslatedText:   "你好，世界",
		Summary:          "摘要",
	}}
	srv := newTestServer(engine, &stubRunner{}, &stubPinger{})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/text",
		`{"text": "Hello, world!", "target_lang": "zh", "glossary": "world=世界", "summary": true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}
	if envelope["status"] != "success" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
	data := envelope["data"].(map[string]any)
	if data["detected_language"] != "英语" || data["translated_text"] != "你好，世界" || data["summary"] != "摘要" {
		t.Fatalf("unexpected payload: %v", data)
	}

	if len(engine.requests) != 1 {
		t.Fatalf("unexpected engine call count: %d", len(engine.requests))
	}
	req := engine.requests[0]
	if req.TargetLang != "zh" || req.Glossary["world"] != "世界" {
		t.Fatalf("request not forwarded: %+v", req)
	}
	if req.Summary == nil || !*req.Summary {
		t.Fatalf("summary flag not forwarded: %+v", req)
	}
}

func TestHandleTranslateText_MissingTextFailsValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubEngine{}, &stubRunner{}, &stubPinger{})
	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/text", `{"text": "   "}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if envelope["status"] != "fail" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
}

func TestHandleTranslateText_EngineFailureKeepsResultShape(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{err: errors.New("generation endpoint down")}
	srv := newTestServer(engine, &stubRunner{}, &stubPinger{})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/text", `{"text": "Hello"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if envelope["status"] != "error" {
		t.Fatalf("unexpected envelope status: %v", envelope)
	}
	data := envelope["data"].(map[string]any)
	if data["detected_language"] != "未知" {
		t.Fatalf("error payload missing unknown language sentinel: %v", data)
	}
	if data["translated_text"] != "" || data["summary"] != "" {
		t.Fatalf("error payload must keep empty translation fields: %v", data)
	}
	if !strings.Contains(data["error"].(string), "generation endpoint down") {
		t.Fatalf("error payload missing cause: %v", data)
	}
}

func TestHandleTranslateBatch_MergesDefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{summary: &batch.RunSummary{RunID: "run-1", TotalFiles: 2, SuccessCount: 2}}
	srv := newTestServer(&stubEngine{}, runner, &stubPinger{})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/batch",
		`{"output_dir": "/override/out", "target_lang": "日语", "delete_after": true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}
	if envelope["status"] != "success" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}

	if len(runner.opts) != 1 {
		t.Fatalf("unexpected runner call count: %d", len(runner.opts))
	}
	opts := runner.opts[0]
	if opts.InputDir != "/default/in" {
		t.Fatalf("default input dir not applied: %+v", opts)
	}
	if opts.OutputDir != "/override/out" || opts.TargetLang != "日语" || !opts.DeleteAfter {
		t.Fatalf("overrides not applied: %+v", opts)
	}

	data := envelope["data"].(map[string]any)
	if data["run_id"] != "run-1" {
		t.Fatalf("run summary not returned: %v", data)
	}
}

func TestHandleTranslateBatch_RunFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("input directory missing")}
	srv := newTestServer(&stubEngine{}, runner, &stubPinger{})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/batch", `{}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if envelope["status"] != "error" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
}

func TestHandleCacheEndpoints(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{}
	srv := newTestServer(engine, &stubRunner{}, &stubPinger{})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/cache/clear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	data := envelope["data"].(map[string]any)
	if data["cleared_entries"].(float64) != 5 {
		t.Fatalf("unexpected clear payload: %v", data)
	}
	if engine.cleared != 1 {
		t.Fatalf("clear not delegated to the engine")
	}

	rec, envelope = doJSON(t, srv, http.MethodGet, "/api/v1/translation/cache/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	data = envelope["data"].(map[string]any)
	if data["cache_size"].(float64) != 2 {
		t.Fatalf("unexpected stats payload: %v", data)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubEngine{}, &stubRunner{}, &stubPinger{})
	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	data := envelope["data"].(map[string]any)
	if data["service"] != "translator" || data["model"] != "test-model" || data["endpoint"] != "up" {
		t.Fatalf("unexpected health payload: %v", data)
	}

	down := newTestServer(&stubEngine{}, &stubRunner{}, &stubPinger{err: errors.New("refused")})
	_, envelope = doJSON(t, down, http.MethodGet, "/api/v1/health", "")
	data = envelope["data"].(map[string]any)
	if data["endpoint"] != "down" {
		t.Fatalf("unexpected health payload with endpoint down: %v", data)
	}
}

func TestHandleTranslateBatch_ConfigFileOverlay(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "run.json")
	content := `{"input_dir": "/config/in", "file_pattern": "*.md", "target_lang": "法语"}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write batch config: %v", err)
	}

	runner := &stubRunner{summary: &batch.RunSummary{RunID: "run-2"}}
	srv := newTestServer(&stubEngine{}, runner, &stubPinger{})

	body := `{"batch_config": ` + strconv.Quote(configPath) + `, "target_lang": "日语"}`
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/translation/batch", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}

	opts := runner.opts[0]
	if opts.InputDir != "/config/in" || opts.FilePattern != "*.md" {
		t.Fatalf("config file values not applied: %+v", opts)
	}
	// The request's own fields win over the config file.
	if opts.TargetLang != "日语" {
		t.Fatalf("request override lost to the config file: %+v", opts)
	}
	if opts.OutputDir != "/default/out" {
		t.Fatalf("untouched defaults must survive: %+v", opts)
	}
}

func TestHandleTranslateBatch_BadConfigFileFailsValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubEngine{}, &stubRunner{}, &stubPinger{})
	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/translation/batch",
		`{"batch_config": "/does/not/exist.json"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if envelope["status"] != "fail" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
}
