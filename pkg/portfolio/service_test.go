package portfolio_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/repo/jsonfile"
)

// fakeUploader returns a canned URL and records what it was asked to upload.
type fakeUploader struct {
	url      string
	err      error
	requests []portfolio.UploadRequest
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string, req portfolio.UploadRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

// fakeMarker counts timestamp touches and can be told to fail.
type fakeMarker struct {
	touches int
	err     error
}

func (f *fakeMarker) Touch(ctx context.Context) error {
	f.touches++
	return f.err
}

type fixture struct {
	svc      portfolio.Service
	store    *jsonfile.Store
	uploader *fakeUploader
	marker   *fakeMarker
	dir      string
}

var testClock = func() time.Time {
	return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := jsonfile.New(jsonfile.Config{Files: map[string]string{
		"painting":    filepath.Join(dir, "data", "painting.json"),
		"photography": filepath.Join(dir, "data", "photography.json"),
		"projects":    filepath.Join(dir, "data", "projects.json"),
	}})
	require.NoError(t, err)

	uploader := &fakeUploader{url: "https://cdn.example/painting/sunset.jpg"}
	marker := &fakeMarker{}
	svc, err := portfolio.New(
		portfolio.WithRepository(store),
		portfolio.WithUploader(uploader),
		portfolio.WithSiteMarker(marker),
		portfolio.WithClock(testClock),
	)
	require.NoError(t, err)
	return &fixture{svc: svc, store: store, uploader: uploader, marker: marker, dir: dir}
}

func (f *fixture) seed(t *testing.T, category string, entries ...*portfolio.MediaEntry) {
	t.Helper()
	require.NoError(t, f.store.Save(context.Background(), category, entries))
}

func TestServiceCreation(t *testing.T) {
	t.Run("no repository should fail", func(t *testing.T) {
		_, err := portfolio.New()
		assert.Error(t, err)
	})

	t.Run("with repository should succeed", func(t *testing.T) {
		store, err := jsonfile.New(jsonfile.Config{Files: map[string]string{
			"painting": filepath.Join(t.TempDir(), "painting.json"),
		}})
		require.NoError(t, err)
		svc, err := portfolio.New(portfolio.WithRepository(store))
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads and appends", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/sunset.jpg",
			FileName: "sunset.jpg",
			Title:    "Sunset",
			Category: "painting",
			Medium:   "Oil",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(entry.ID, "painting_"), "id %q should carry the category prefix", entry.ID)
		assert.Equal(t, "https://cdn.example/painting/sunset.jpg", entry.URL)
		assert.Equal(t, "2026-02-10", entry.Date)
		assert.Equal(t, "2026-02-10", entry.Created)
		assert.Equal(t, "Sunset", entry.Title.English())
		assert.Equal(t, "Oil", entry.Medium.English())
		assert.Nil(t, entry.Genre)

		stored, err := f.store.Load(ctx, "painting")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, entry.ID, stored[0].ID)
		assert.Equal(t, 1, f.marker.touches)
	})

	t.Run("title is wrapped for every locale", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/x.jpg",
			Title:    "Sunset",
			Category: "painting",
		})
		require.NoError(t, err)
		for _, code := range portfolio.Locales {
			assert.Equal(t, "Sunset", entry.Title.Locales[code])
		}
	})

	t.Run("creates the category file lazily", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.dir, "data", "painting.json")
		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err))

		_, err = f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/x.jpg",
			Title:    "Sunset",
			Category: "painting",
		})
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("explicit created date is kept", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/x.jpg",
			Title:    "Old work",
			Category: "painting",
			Created:  "1999-07-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "1999-07-01", entry.Created)
		assert.Equal(t, "2026-02-10", entry.Date)
	})

	t.Run("missing title or category", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{FilePath: "/tmp/x.jpg", Category: "painting"})
		assert.ErrorIs(t, err, portfolio.ErrValidation)

		_, err = f.svc.AddItem(ctx, portfolio.AddItemRequest{FilePath: "/tmp/x.jpg", Title: "Sunset"})
		assert.ErrorIs(t, err, portfolio.ErrValidation)
		assert.Zero(t, f.marker.touches)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/x.jpg",
			Title:    "Sunset",
			Category: "pottery",
		})
		assert.ErrorIs(t, err, portfolio.ErrCategoryNotFound)
		assert.Empty(t, f.uploader.requests, "nothing should be uploaded for an unknown category")
	})

	t.Run("upload failure writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.uploader.err = fmt.Errorf("%w: cdn says no", portfolio.ErrUploadFailed)

		_, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/x.jpg",
			Title:    "Sunset",
			Category: "painting",
		})
		assert.ErrorIs(t, err, portfolio.ErrUploadFailed)

		_, statErr := os.Stat(filepath.Join(f.dir, "data", "painting.json"))
		assert.True(t, os.IsNotExist(statErr), "failed upload must not create the file")
		assert.Zero(t, f.marker.touches)
	})

	t.Run("rapid additions get distinct ids", func(t *testing.T) {
		f := newFixture(t)
		seen := make(map[string]bool)
		for i := 0; i < 5; i++ {
			entry, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
				FilePath: "/tmp/x.jpg",
				Title:    fmt.Sprintf("Work %d", i),
				Category: "painting",
			})
			require.NoError(t, err)
			assert.False(t, seen[entry.ID], "duplicate id %s", entry.ID)
			seen[entry.ID] = true
		}
	})

	t.Run("marker failure does not fail the add", func(t *testing.T) {
		f := newFixture(t)
		f.marker.err = fmt.Errorf("html files are elsewhere")
		_, err := f.svc.AddItem(ctx, portfolio.AddItemRequest{
			FilePath: "/tmp/x.jpg",
			Title:    "Sunset",
			Category: "painting",
		})
		assert.NoError(t, err)
	})
}

func TestAddItemFromURL(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the url verbatim without uploading", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.svc.AddItemFromURL(ctx, portfolio.AddItemFromURLRequest{
			URL:      "https://archive.org/track.mp3",
			Title:    "Demo Tape",
			Category: "photography",
			Genre:    "Ambient",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://archive.org/track.mp3", entry.URL)
		assert.Equal(t, "Ambient", entry.Genre.English())
		assert.Empty(t, f.uploader.requests)
		assert.Equal(t, 1, f.marker.touches)
	})

	t.Run("url is required", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AddItemFromURL(ctx, portfolio.AddItemFromURLRequest{
			Title:    "Demo",
			Category: "photography",
		})
		assert.ErrorIs(t, err, portfolio.ErrValidation)
	})
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent adds to one category all persist", func(t *testing.T) {
		f := newFixture(t)
		const n = 30
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := f.svc.AddItemFromURL(ctx, portfolio.AddItemFromURLRequest{
					URL:      fmt.Sprintf("https://cdn/%d.jpg", i),
					Title:    fmt.Sprintf("Work %d", i),
					Category: "painting",
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		stored, err := f.store.Load(ctx, "painting")
		require.NoError(t, err)
		assert.Len(t, stored, n, "a reported success must never be overwritten by a concurrent write")
	})

	t.Run("concurrent deletes each remove exactly one entry", func(t *testing.T) {
		f := newFixture(t)
		const n = 10
		entries := make([]*portfolio.MediaEntry, n)
		for i := range entries {
			entries[i] = &portfolio.MediaEntry{ID: fmt.Sprintf("painting_%d", i)}
		}
		f.seed(t, "painting", entries...)

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, f.svc.DeleteItem(ctx, "painting", fmt.Sprintf("painting_%d", i)))
			}(i)
		}
		wg.Wait()

		stored, err := f.store.Load(ctx, "painting")
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestBulkAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("failed element never aborts the batch", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.BulkAdd(ctx, []portfolio.AddItemRequest{
			{FilePath: "/tmp/a.jpg", Title: "A", Category: "painting"},
			{FilePath: "/tmp/b.jpg", Title: "B", Category: "pottery"},
			{FilePath: "/tmp/c.jpg", Title: "C", Category: "painting"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Items, 3)
		assert.NotNil(t, result.Items[0].Entry)
		assert.Empty(t, result.Items[0].Error)
		assert.Nil(t, result.Items[1].Entry)
		assert.Contains(t, result.Items[1].Error, "category not found")
		assert.NotNil(t, result.Items[2].Entry)

		stored, err := f.store.Load(ctx, "painting")
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})
}

func TestGetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("found by id", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting", &portfolio.MediaEntry{ID: "painting_1", Title: portfolio.Localize("Sunset")})

		entry, err := f.svc.GetItem(ctx, "painting", "painting_1")
		require.NoError(t, err)
		assert.Equal(t, "Sunset", entry.Title.English())
	})

	t.Run("projects fall back to title match", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "projects", &portfolio.MediaEntry{Title: &portfolio.Text{Plain: "retro-portfolio"}})

		entry, err := f.svc.GetItem(ctx, "projects", "retro-portfolio")
		require.NoError(t, err)
		assert.Equal(t, "retro-portfolio", entry.Title.English())
	})

	t.Run("title fallback is scoped to projects", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting", &portfolio.MediaEntry{ID: "painting_1", Title: &portfolio.Text{Plain: "Sunset"}})

		_, err := f.svc.GetItem(ctx, "painting", "Sunset")
		assert.ErrorIs(t, err, portfolio.ErrItemNotFound)
	})

	t.Run("category without file", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetItem(ctx, "painting", "painting_1")
		assert.ErrorIs(t, err, portfolio.ErrCategoryNotFound)
	})
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "painting", &portfolio.MediaEntry{ID: "painting_1"})

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Len(t, all["painting"], 1)
	assert.Empty(t, all["photography"], "absent file lists as empty, not error")
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the entry", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting",
			&portfolio.MediaEntry{ID: "painting_1"},
			&portfolio.MediaEntry{ID: "painting_2"},
		)

		require.NoError(t, f.svc.DeleteItem(ctx, "painting", "painting_1"))

		stored, err := f.store.Load(ctx, "painting")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "painting_2", stored[0].ID)
		assert.Equal(t, 1, f.marker.touches)
	})

	t.Run("not found leaves the file untouched", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting", &portfolio.MediaEntry{ID: "painting_1"})
		before, err := os.ReadFile(filepath.Join(f.dir, "data", "painting.json"))
		require.NoError(t, err)

		err = f.svc.DeleteItem(ctx, "painting", "painting_404")
		assert.ErrorIs(t, err, portfolio.ErrItemNotFound)

		after, readErr := os.ReadFile(filepath.Join(f.dir, "data", "painting.json"))
		require.NoError(t, readErr)
		assert.Equal(t, before, after)
		assert.Zero(t, f.marker.touches)
	})

	t.Run("absent category file", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.DeleteItem(ctx, "painting", "painting_1")
		assert.ErrorIs(t, err, portfolio.ErrCategoryNotFound)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("merges fields and keeps id and date", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting", &portfolio.MediaEntry{
			ID:    "painting_1",
			Title: portfolio.Localize("Sunset"),
			Date:  "2020-01-01",
		})

		err := f.svc.UpdateItem(ctx, portfolio.UpdateItemRequest{
			Category: "painting",
			ID:       "painting_1",
			Updates: map[string]json.RawMessage{
				"id":     json.RawMessage(`"painting_hacked"`),
				"date":   json.RawMessage(`"1999-01-01"`),
				"medium": json.RawMessage(`{"en":"Oil","fr":"Huile","mx":"Óleo","ht":"Lwil"}`),
			},
		})
		require.NoError(t, err)

		stored, err := f.store.Load(ctx, "painting")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "painting_1", stored[0].ID)
		assert.Equal(t, "2020-01-01", stored[0].Date)
		assert.Equal(t, "Oil", stored[0].Medium.English())
		assert.Equal(t, "Huile", stored[0].Medium.Locales["fr"])
	})

	t.Run("empty updates rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting", &portfolio.MediaEntry{ID: "painting_1"})
		err := f.svc.UpdateItem(ctx, portfolio.UpdateItemRequest{Category: "painting", ID: "painting_1"})
		assert.ErrorIs(t, err, portfolio.ErrValidation)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "painting", &portfolio.MediaEntry{ID: "painting_1"})
		err := f.svc.UpdateItem(ctx, portfolio.UpdateItemRequest{
			Category: "painting",
			ID:       "painting_404",
			Updates:  map[string]json.RawMessage{"url": json.RawMessage(`"x"`)},
		})
		assert.ErrorIs(t, err, portfolio.ErrItemNotFound)
	})
}
