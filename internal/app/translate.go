package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CZCNNBB/AI-based-translation-program/internal/cli"
	"github.com/CZCNNBB/AI-based-translation-program/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	text := fs.String("text", "", "Text to translate")
	file := fs.String("file", "", "Read the text to translate from this file")
	lang := fs.String("lang", "", "Target language (default from config)")
	domain := fs.String("domain", "", "Domain hint for the translation prompt")
	glossary := fs.String("glossary", "", "Inline glossary: k=v pairs or a JSON object")
	glossaryFile := fs.String("glossary-file", "", "YAML glossary file")
	withSummary := fs.Bool("summary", false, "Force summary generation on")
	noSummary := fs.Bool("no-summary", false, "Force summary generation off")

	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	if *text == "" && *file == "" {
		fmt.Fprintln(os.Stderr, "one of --text or --file is required")
		return 2
	}
	if *text != "" && *file != "" {
		fmt.Fprintln(os.Stderr, "--text and --file are mutually exclusive")
		return 2
	}
	if *withSummary && *noSummary {
		fmt.Fprintln(os.Stderr, "--summary and --no-summary are mutually exclusive")
		return 2
	}

	input := *text
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read input file: %v\n", err)
			return 1
		}
		input = string(data)
	}

	terms := translation.ParseGlossary(*glossary)
	if *glossaryFile != "" {
		fileTerms, err := translation.LoadGlossaryFile(*glossaryFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load glossary file: %v\n", err)
			return 1
		}
		if terms == nil {
			terms = fileTerms
		} else {
			// Inline terms win over file terms on conflict.
			for k, v := range fileTerms {
				if _, ok := terms[k]; !ok {
					terms[k] = v
				}
			}
		}
	}

	var summary *bool
	if *withSummary {
		summary = boolPtr(true)
	}
	if *noSummary {
		summary = boolPtr(false)
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code >= 0 {
		return code
	}

	engine, _ := buildEngine(cfg, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := engine.Translate(ctx, translation.Request{
		Text:       input,
		TargetLang: *lang,
		Domain:     *domain,
		Glossary:   terms,
		Summary:    summary,
	})
	if err != nil {
		logger.Error().Err(err).Msg("translation failed")
		fmt.Fprintf(os.Stderr, "Translation failed: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func boolPtr(v bool) *bool { return &v }
