package sitemark

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time {
	return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
}

func TestTouch(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites the marker", func(t *testing.T) {
		dir := t.TempDir()
		page := `<html><span>Last Updated:</span> 3 Jan 2020 rest of page</html>`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0644))

		m := NewWithClock(dir, fixedClock, "index.html")
		require.NoError(t, m.Touch(ctx))

		raw, err := os.ReadFile(filepath.Join(dir, "index.html"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Last Updated:</span> 10 Feb 2026")
		assert.NotContains(t, string(raw), "3 Jan 2020")
	})

	t.Run("missing page is not an error", func(t *testing.T) {
		m := NewWithClock(t.TempDir(), fixedClock)
		assert.NoError(t, m.Touch(ctx))
	})

	t.Run("page without the marker is left alone", func(t *testing.T) {
		dir := t.TempDir()
		page := `<html>no marker here</html>`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0644))

		m := NewWithClock(dir, fixedClock, "index.html")
		require.NoError(t, m.Touch(ctx))

		raw, err := os.ReadFile(filepath.Join(dir, "index.html"))
		require.NoError(t, err)
		assert.Equal(t, page, string(raw))
	})

	t.Run("covers the known engine pages by default", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"index.html", "projects.html"} {
			page := `<span>Last Updated:</span> 1 Jan 2020`
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(page), 0644))
		}

		m := NewWithClock(dir, fixedClock)
		require.NoError(t, m.Touch(ctx))

		for _, name := range []string{"index.html", "projects.html"} {
			raw, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.Contains(t, string(raw), "10 Feb 2026", name)
		}
	})
}
