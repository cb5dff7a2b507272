package main

import (
	"log"
	"log/slog"
	"os"

	"opencode-diag/internal/bootstrap"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := bootstrap.New()
	if err := app.Run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}
