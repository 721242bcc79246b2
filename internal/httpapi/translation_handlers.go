package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/CZCNNBB/AI-based-translation-program/internal/batch"
	"github.com/CZCNNBB/AI-based-translation-program/internal/language"
	"github.com/CZCNNBB/AI-based-translation-program/internal/translation"
)

// maxTextBytes bounds request payloads before they reach the engine.
const maxTextBytes = 2 << 20

type translateTextRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	Domain     string `json:"domain"`
	Glossary   string `json:"glossary"`
	Summary    *bool  `json:"summary"`
}

// translateTextResponse is the single response shape for the text endpoint.
// Failures reuse it with empty translation fields and a populated error.
type translateTextResponse struct {
	DetectedLanguage string `json:"detected_language"`
	TranslatedText   string `json:"translated_text"`
	Summary          string `json:"summary"`
	Error            string `json:"error,omitempty"`
}

type translateBatchRequest struct {
	// BatchConfig is an optional path to a JSON run-config file; its values
	// sit between the server defaults and the request's own fields.
	BatchConfig string `json:"batch_config"`
	InputDir    string `json:"input_dir"`
	OutputDir   string `json:"output_dir"`
	ArchiveDir  string `json:"archive_dir"`
	FilePattern string `json:"file_pattern"`
	DeleteAfter *bool  `json:"delete_after"`
	TargetLang  string `json:"target_lang"`
	Domain      string `json:"domain"`
	Glossary    string `json:"glossary"`
	Summary     *bool  `json:"summary"`
}

func (s *Server) handleTranslateText(c echo.Context) error {
	var req translateTextRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return failValidation(c, map[string]string{"text": "is required"})
	}
	if len(req.Text) > maxTextBytes {
		return failValidation(c, map[string]string{"text": "exceeds the maximum payload size"})
	}

	result, err := s.engine.Translate(c.Request().Context(), translation.Request{
		Text:       req.Text,
		TargetLang: req.TargetLang,
		Domain:     req.Domain,
		Glossary:   translation.ParseGlossary(req.Glossary),
		Summary:    req.Summary,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("translation request failed")
		return internalError(c, "Translation failed", translateTextResponse{
			DetectedLanguage: language.LabelUnknown,
			Error:            err.Error(),
		})
	}

	return success(c, translateTextResponse{
		DetectedLanguage: result.DetectedLanguage,
		TranslatedText:   result.TranslatedText,
		Summary:          result.Summary,
	})
}

func (s *Server) handleTranslateBatch(c echo.Context) error {
	if s.runner == nil {
		return fail(c, http.StatusServiceUnavailable, "Batch translation is not configured", nil)
	}

	var req translateBatchRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}

	opts := s.opts.BatchDefaults
	if path := strings.TrimSpace(req.BatchConfig); path != "" {
		runCfg, err := batch.LoadRunConfig(path)
		if err != nil {
			return failValidation(c, map[string]string{"batch_config": err.Error()})
		}
		opts = runCfg.Apply(opts)
	}
	if strings.TrimSpace(req.InputDir) != "" {
		opts.InputDir = req.InputDir
	}
	if strings.TrimSpace(req.OutputDir) != "" {
		opts.OutputDir = req.OutputDir
	}
	if strings.TrimSpace(req.ArchiveDir) != "" {
		opts.ArchiveDir = req.ArchiveDir
	}
	if strings.TrimSpace(req.FilePattern) != "" {
		opts.FilePattern = req.FilePattern
	}
	if req.DeleteAfter != nil {
		opts.DeleteAfter = *req.DeleteAfter
	}
	if strings.TrimSpace(req.TargetLang) != "" {
		opts.TargetLang = req.TargetLang
	}
	if strings.TrimSpace(req.Domain) != "" {
		opts.Domain = req.Domain
	}
	if strings.TrimSpace(req.Glossary) != "" {
		opts.Glossary = translation.ParseGlossary(req.Glossary)
	}
	if req.Summary != nil {
		opts.Summary = req.Summary
	}

	if strings.TrimSpace(opts.InputDir) == "" {
		return failValidation(c, map[string]string{"input_dir": "is required"})
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return failValidation(c, map[string]string{"output_dir": "is required"})
	}

	summary, err := s.runner.Run(c.Request().Context(), opts)
	if err != nil {
		s.logger.Error().Err(err).Str("input_dir", opts.InputDir).Msg("batch run failed")
		return internalError(c, "Batch translation failed", map[string]string{"error": err.Error()})
	}
	return success(c, summary)
}

func (s *Server) handleCacheClear(c echo.Context) error {
	cleared := s.engine.ClearCache()
	s.logger.Info().Int("cleared", cleared).Msg("detection cache cleared")
	return success(c, map[string]any{"cleared_entries": cleared})
}

func (s *Server) handleCacheStats(c echo.Context) error {
	return success(c, s.engine.CacheStats())
}

var _ BatchRunner = (*batch.Processor)(nil)
