package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/CZCNNBB/AI-based-translation-program/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Probe timeout")

	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code >= 0 {
		return code
	}

	_, client := buildEngine(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.Error().Err(err).Str("endpoint", cfg.OllamaBaseURL).Msg("endpoint probe failed")
		fmt.Fprintf(os.Stderr, "Endpoint unreachable: %v\n", err)
		return 1
	}

	fmt.Printf("endpoint %s reachable, model %s\n", cfg.OllamaBaseURL, client.Model())
	return 0
}
