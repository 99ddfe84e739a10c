// Package siteconfig loads and validates the content directory's
// configuration files (config/app.json, config/languages.json,
// config/categories.json) and exposes the category registry the media store
// is built from.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Site is the parsed configuration of one content directory.
type Site struct {
	App        map[string]any   `json:"app"`
	Languages  LanguagesConfig  `json:"languages"`
	Categories CategoriesConfig `json:"categories"`
}

// LanguagesConfig mirrors config/languages.json.
type LanguagesConfig struct {
	DefaultLanguage    string     `json:"defaultLanguage"`
	SupportedLanguages []Language `json:"supportedLanguages"`
}

// Language is one supported language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// CategoriesConfig mirrors config/categories.json.
type CategoriesConfig struct {
	Categories []Category `json:"categories"`
}

// Category is one media category definition.
type Category struct {
	ID       string          `json:"id"`
	Name     json.RawMessage `json:"name,omitempty"`
	Icon     string          `json:"icon,omitempty"`
	DataFile string          `json:"dataFile"`
	Fields   *CategoryFields `json:"fields,omitempty"`
}

// CategoryFields describes the admin form fields beyond title.
type CategoryFields struct {
	Optional []CategoryField `json:"optional,omitempty"`
}

// CategoryField is one optional form field.
type CategoryField struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Label json.RawMessage `json:"label,omitempty"`
}

// Load reads the three configuration files under contentDir/config.
func Load(contentDir string) (*Site, error) {
	site := &Site{}
	configDir := filepath.Join(contentDir, "config")

	if err := readJSON(filepath.Join(configDir, "app.json"), &site.App); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(configDir, "languages.json"), &site.Languages); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(configDir, "categories.json"), &site.Categories); err != nil {
		return nil, err
	}
	return site, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// DataFiles returns the category registry: category id mapped to its JSON
// array file, resolved against contentDir.
func (s *Site) DataFiles(contentDir string) map[string]string {
	files := make(map[string]string, len(s.Categories.Categories))
	for _, cat := range s.Categories.Categories {
		if cat.ID == "" || cat.DataFile == "" {
			continue
		}
		files[cat.ID] = filepath.Join(contentDir, filepath.FromSlash(cat.DataFile))
	}
	return files
}

// DefaultDataFiles is the registry used when no categories.json exists yet:
// the site's historical seven categories under data/.
func DefaultDataFiles(contentDir string) map[string]string {
	categories := []string{"painting", "drawing", "photography", "sculpting", "projects", "music", "video"}
	files := make(map[string]string, len(categories))
	for _, cat := range categories {
		files[cat] = filepath.Join(contentDir, "data", cat+".json")
	}
	return files
}

// APIBaseURL returns api.baseUrl from app.json, or the local default.
func (s *Site) APIBaseURL() string {
	if api, ok := s.App["api"].(map[string]any); ok {
		if base, ok := api["baseUrl"].(string); ok && base != "" {
			return base
		}
	}
	return "http://127.0.0.1:5001"
}
