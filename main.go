package main

import (
	"embed"
	"log"
	"log/slog"
	"os"

	"opencode-diag/internal/bootstrap"
)

//go:embed frontend/index.html frontend/wailsjs
var appAssets embed.FS

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := bootstrap.NewWithAssets(appAssets)
	if err := app.Run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}
