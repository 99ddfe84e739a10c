// Command manager adds one media item from the terminal: upload the file,
// append the entry, touch the site timestamp. The scriptable counterpart of
// the admin UI's upload form.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/repo/jsonfile"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/sitemark"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/siteconfig"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/uploader"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/uploader/cloudinary"
)

type Config struct {
	ContentDir string `env:"CONTENT_DIR" env-default:"."`
	SiteDir    string `env:"SITE_DIR" env-default:"."`

	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

func main() {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	file := flag.String("file", "", "path to the image/media file")
	title := flag.String("title", "", "title of the work")
	category := flag.String("cat", "", "category")
	medium := flag.String("medium", "", "medium (optional, e.g. 'Oil', 'Clay')")
	description := flag.String("description", "", "description (optional)")
	created := flag.String("created", "", "creation date YYYY-MM-DD (optional)")
	flag.Parse()

	if *file == "" || *title == "" || *category == "" {
		fmt.Fprintln(os.Stderr, "Usage: manager --file path/to/art.jpg --title 'My Title' --cat painting [--medium 'Oil']")
		os.Exit(2)
	}

	svc, err := buildService(cfg)
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	fmt.Printf("--- Adding new item: %s ---\n", *title)
	entry, err := svc.AddItem(context.Background(), portfolio.AddItemRequest{
		FilePath:    *file,
		FileName:    *file,
		Title:       *title,
		Category:    *category,
		Medium:      *medium,
		Description: *description,
		Created:     *created,
	})
	if err != nil {
		slog.Error("Add failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Success! URL: %s\nEntry id: %s\n", entry.URL, entry.ID)
}

func buildService(cfg Config) (portfolio.Service, error) {
	files := siteconfig.DefaultDataFiles(cfg.ContentDir)
	if site, err := siteconfig.Load(cfg.ContentDir); err == nil {
		files = site.DataFiles(cfg.ContentDir)
	}

	store, err := jsonfile.New(jsonfile.Config{Files: files})
	if err != nil {
		return nil, err
	}

	cdn, err := cloudinary.New(cloudinary.Config{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	router, err := uploader.NewRouter(uploader.Config{CDN: cdn})
	if err != nil {
		return nil, err
	}

	return portfolio.New(
		portfolio.WithRepository(store),
		portfolio.WithUploader(router),
		portfolio.WithSiteMarker(sitemark.New(cfg.SiteDir)),
		portfolio.WithLogger(slog.Default()),
	)
}
