package siteconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// Report collects validation findings. Errors make the configuration
// unusable; warnings are survivable defaults.
type Report struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r *Report) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the loaded configuration's structure and, when contentDir
// is non-empty, that every referenced data and translation file exists.
func (s *Site) Validate(contentDir string) *Report {
	report := &Report{}
	s.validateApp(report)
	s.validateLanguages(report)
	s.validateCategories(report)
	if contentDir != "" {
		s.checkFileReferences(contentDir, report)
	}
	return report
}

func (s *Site) validateApp(report *Report) {
	for _, section := range []string{"app", "api", "paths"} {
		if _, ok := s.App[section]; !ok {
			report.errorf("app.json: missing required section '%s'", section)
		}
	}

	if api, ok := s.App["api"].(map[string]any); ok {
		port, present := api["port"]
		switch {
		case !present:
			report.errorf("app.json: missing 'api.port'")
		default:
			// JSON numbers decode as float64; anything fractional or
			// non-numeric is not a port.
			f, isNumber := port.(float64)
			if !isNumber || f != float64(int(f)) {
				report.errorf("app.json: 'api.port' must be an integer")
			}
		}
		if _, ok := api["host"]; !ok {
			report.warnf("app.json: missing 'api.host', will default to '127.0.0.1'")
		}
		if _, ok := api["baseUrl"]; !ok {
			report.warnf("app.json: missing 'api.baseUrl'")
		}
	}

	if paths, ok := s.App["paths"].(map[string]any); ok {
		for _, key := range []string{"dataDir", "langDir"} {
			if _, ok := paths[key]; !ok {
				report.warnf("app.json: missing 'paths.%s'", key)
			}
		}
	}
}

func (s *Site) validateLanguages(report *Report) {
	if s.Languages.DefaultLanguage == "" {
		report.errorf("languages.json: missing 'defaultLanguage'")
	}
	if len(s.Languages.SupportedLanguages) == 0 {
		report.errorf("languages.json: missing 'supportedLanguages'")
		return
	}

	codes := make(map[string]bool)
	for i, lang := range s.Languages.SupportedLanguages {
		if lang.Code == "" {
			report.errorf("languages.json: language at index %d missing 'code'", i)
		}
		if lang.Name == "" {
			report.errorf("languages.json: language at index %d missing 'name'", i)
		}
		if lang.Flag == "" {
			report.errorf("languages.json: language at index %d missing 'flag'", i)
		}
		if lang.Code != "" {
			if codes[lang.Code] {
				report.errorf("languages.json: duplicate language code: '%s'", lang.Code)
			}
			codes[lang.Code] = true
		}
	}

	if s.Languages.DefaultLanguage != "" && !codes[s.Languages.DefaultLanguage] {
		report.errorf("languages.json: default language '%s' not in supported languages", s.Languages.DefaultLanguage)
	}
}

func (s *Site) validateCategories(report *Report) {
	if len(s.Categories.Categories) == 0 {
		report.errorf("categories.json: missing 'categories'")
		return
	}

	ids := make(map[string]bool)
	for i, cat := range s.Categories.Categories {
		if cat.ID == "" {
			report.errorf("categories.json: category at index %d missing 'id'", i)
		}
		if len(cat.Name) == 0 {
			report.errorf("categories.json: category at index %d missing 'name'", i)
		}
		if cat.Icon == "" {
			report.errorf("categories.json: category at index %d missing 'icon'", i)
		}
		if cat.DataFile == "" {
			report.errorf("categories.json: category at index %d missing 'dataFile'", i)
		}
		if cat.ID != "" {
			if ids[cat.ID] {
				report.errorf("categories.json: duplicate category id: '%s'", cat.ID)
			}
			ids[cat.ID] = true
		}

		if cat.Fields == nil {
			continue
		}
		for j, field := range cat.Fields.Optional {
			if field.Name == "" {
				report.errorf("categories.json: category '%s': field at index %d missing 'name'", cat.ID, j)
			}
			if field.Type == "" {
				report.errorf("categories.json: category '%s': field at index %d missing 'type'", cat.ID, j)
			} else if field.Type != "text" && field.Type != "textarea" {
				report.warnf("categories.json: category '%s': unknown field type '%s'", cat.ID, field.Type)
			}
			if len(field.Label) == 0 {
				report.errorf("categories.json: category '%s': field at index %d missing 'label'", cat.ID, j)
			}
		}
	}
}

func (s *Site) checkFileReferences(contentDir string, report *Report) {
	for _, cat := range s.Categories.Categories {
		if cat.DataFile == "" {
			continue
		}
		path := filepath.Join(contentDir, filepath.FromSlash(cat.DataFile))
		if _, err := os.Stat(path); err != nil {
			report.warnf("data file not found: %s", cat.DataFile)
		}
	}
	for _, lang := range s.Languages.SupportedLanguages {
		if lang.Code == "" {
			continue
		}
		path := filepath.Join(contentDir, "lang", lang.Code+".json")
		if _, err := os.Stat(path); err != nil {
			report.warnf("translation file not found: lang/%s.json", lang.Code)
		}
	}
}
