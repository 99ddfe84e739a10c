// Package sitemark rewrites the "Last Updated" marker the retro site renders
// in its static HTML. It is a fire-and-forget side effect: the service logs
// failures and moves on.
package sitemark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// pattern matches the rendered marker, e.g. `Last Updated:</span> 10 Feb 2026`.
var pattern = regexp.MustCompile(`Last Updated:</span> \d{1,2} \w{3} \d{4}`)

// Marker touches the site-wide "Last Updated" date in a fixed set of HTML
// documents. It implements the portfolio.SiteMarker interface.
type Marker struct {
	dir   string
	files []string
	now   func() time.Time
}

// defaultFiles are the engine pages carrying the marker.
var defaultFiles = []string{
	"index.html",
	"gallery.html",
	"photography.html",
	"sculpting.html",
	"projects.html",
}

// New creates a marker over dir. When files is empty the engine's known
// pages are used.
func New(dir string, files ...string) *Marker {
	if len(files) == 0 {
		files = defaultFiles
	}
	return &Marker{dir: dir, files: files, now: time.Now}
}

// NewWithClock is New with a pinned time source for tests.
func NewWithClock(dir string, now func() time.Time, files ...string) *Marker {
	m := New(dir, files...)
	m.now = now
	return m
}

// Touch rewrites the marker in every page that exists. Pages without the
// marker are left alone; a missing page is not an error.
func (m *Marker) Touch(ctx context.Context) error {
	stamp := fmt.Sprintf("Last Updated:</span> %s", m.now().Format("02 Jan 2006"))
	for _, name := range m.files {
		path := filepath.Join(m.dir, name)
		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		updated := pattern.ReplaceAll(content, []byte(stamp))
		if err := os.WriteFile(path, updated, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
