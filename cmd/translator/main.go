package main

import (
	"os"

	"github.com/CZCNNBB/AI-based-translation-program/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
