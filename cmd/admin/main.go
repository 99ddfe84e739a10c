package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/mtldev514/retro-portfolio/internal/api"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/ghsync"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/repo/jsonfile"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/sitemark"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/siteconfig"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/translations"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/uploader"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/uploader/cloudinary"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/uploader/ghrelease"
)

type Config struct {
	Host       string `env:"ADMIN_HOST" env-default:"0.0.0.0"`
	Port       string `env:"ADMIN_PORT" env-default:"5001"`
	ContentDir string `env:"CONTENT_DIR" env-default:"."`
	SiteDir    string `env:"SITE_DIR" env-default:"."`
	TempDir    string `env:"UPLOAD_TEMP_DIR" env-default:"temp_uploads"`

	Cloudinary CloudinaryConfig
	GitHub     GitHubConfig
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

type GitHubConfig struct {
	Token    string `env:"GITHUB_TOKEN"`
	Username string `env:"GITHUB_USERNAME" env-default:"mtldev514"`
	// MediaRepo holds the release the large media assets hang off.
	MediaRepo string `env:"GITHUB_MEDIA_REPO"`
	// ReleaseCategories route to the release store instead of the CDN.
	ReleaseCategories []string `env:"RELEASE_CATEGORIES" env-default:"music"`
}

func main() {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	svc, store, site, err := buildService(cfg)
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	langStore, err := translations.New(filepath.Join(cfg.ContentDir, "lang"))
	if err != nil {
		slog.Error("Failed to open translations", "error", err)
		os.Exit(1)
	}

	handler := buildHandler(cfg, svc, store, site, langStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Mount("/api", handler.Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Admin API running", "addr", httpServer.Addr, "content", cfg.ContentDir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down admin API")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}

// buildService assembles the media service from the content directory's
// configuration and the environment's upload credentials.
func buildService(cfg Config) (portfolio.Service, portfolio.Repository, *siteconfig.Site, error) {
	files := siteconfig.DefaultDataFiles(cfg.ContentDir)
	site, err := siteconfig.Load(cfg.ContentDir)
	if err == nil {
		files = site.DataFiles(cfg.ContentDir)
	} else {
		slog.Warn("No site configuration, using default categories", "error", err)
		site = nil
	}

	store, err := jsonfile.New(jsonfile.Config{Files: files})
	if err != nil {
		return nil, nil, nil, err
	}

	cdn, err := cloudinary.New(cloudinary.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cloudinary: %w", err)
	}

	var release portfolio.Uploader
	if cfg.GitHub.Token != "" && cfg.GitHub.MediaRepo != "" {
		release, err = ghrelease.New(ghrelease.Config{
			Token: cfg.GitHub.Token,
			Owner: cfg.GitHub.Username,
			Repo:  cfg.GitHub.MediaRepo,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("github releases: %w", err)
		}
	}

	router, err := uploader.NewRouter(uploader.Config{
		CDN:               cdn,
		Release:           release,
		ReleaseCategories: cfg.GitHub.ReleaseCategories,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	svc, err := portfolio.New(
		portfolio.WithRepository(store),
		portfolio.WithUploader(router),
		portfolio.WithSiteMarker(sitemark.New(cfg.SiteDir)),
		portfolio.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, store, site, nil
}

func buildHandler(cfg Config, svc portfolio.Service, store portfolio.Repository, site *siteconfig.Site, langStore *translations.Store) *api.Handler {
	opts := []api.Option{api.WithTranslations(langStore)}
	if site != nil {
		opts = append(opts, api.WithSiteConfig(site))
	}

	if syncer, err := ghsync.New(ghsync.Config{
		Username: cfg.GitHub.Username,
		Token:    cfg.GitHub.Token,
		Store:    store,
	}); err == nil {
		opts = append(opts, api.WithSyncer(syncer))
	} else {
		slog.Warn("GitHub sync disabled", "error", err)
	}

	return api.NewHandler(svc, cfg.TempDir, opts...)
}
