package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/mtldev514/retro-portfolio/internal/staticsite"
)

type Config struct {
	Port      string `env:"ENGINE_PORT" env-default:"8000"`
	EngineDir string `env:"ENGINE_DIR" env-default:"."`
	// ContentDir holds the owner's config/, data/ and lang/ directories.
	ContentDir string `env:"CONTENT_DIR" env-default:"."`
}

func main() {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	dataFlag := flag.String("data", "", "path to the content directory (overrides CONTENT_DIR)")
	portFlag := flag.String("port", "", "port to listen on (overrides ENGINE_PORT)")
	flag.Parse()
	if *dataFlag != "" {
		cfg.ContentDir = *dataFlag
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/*", staticsite.New(cfg.EngineDir, cfg.ContentDir))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Portfolio engine running",
			"url", fmt.Sprintf("http://localhost:%s", cfg.Port),
			"engine", cfg.EngineDir,
			"content", cfg.ContentDir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Stopping engine")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
