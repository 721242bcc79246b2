package app

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/CZCNNBB/AI-based-translation-program/internal/cli"
)

func runCache(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: translator cache <clear|stats> [flags]")
		return 2
	}

	sub := args[0]
	fs := flag.NewFlagSet("cache "+sub, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if code := parseFlags(fs, args[1:]); code >= 0 {
		return code
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code >= 0 {
		return code
	}

	engine, _ := buildEngine(cfg, logger)

	switch sub {
	case "clear":
		cleared := engine.ClearCache()
		fmt.Printf("cleared %d cache entries\n", cleared)
		return 0
	case "stats":
		out, err := json.MarshalIndent(engine.CacheStats(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode cache stats: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown cache subcommand: %s\n", sub)
		return 2
	}
}
