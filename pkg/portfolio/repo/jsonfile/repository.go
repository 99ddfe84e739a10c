// Package jsonfile implements portfolio.Repository over flat JSON array
// files, one per category. It is the site's only database: small arrays,
// pretty-printed, hand-editable.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
)

// Store is a JSON-file implementation of the portfolio.Repository interface.
// Writers of the same category file are serialized in-process, and every save
// goes through a temp-file-then-rename so readers never observe a half-written
// file. Last writer still wins across files edited out-of-band; that is the
// intended conflict policy for a single-admin tool.
type Store struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	files map[string]string
}

// Config options for the JSON-file store
type Config struct {
	// Files maps category name to the category's JSON array file path.
	Files map[string]string
}

// New creates a new JSON-file store
func New(config Config) (*Store, error) {
	if len(config.Files) == 0 {
		return nil, errors.New("category file map is required")
	}
	files := make(map[string]string, len(config.Files))
	for category, path := range config.Files {
		if category == "" || path == "" {
			return nil, fmt.Errorf("invalid category mapping %q -> %q", category, path)
		}
		files[category] = path
	}
	return &Store{
		locks: make(map[string]*sync.Mutex),
		files: files,
	}, nil
}

// Categories lists the registered category names, sorted for stable output.
func (s *Store) Categories() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether the category is registered.
func (s *Store) Known(category string) bool {
	_, ok := s.files[category]
	return ok
}

// Exists reports whether the category is registered and its file is present.
func (s *Store) Exists(category string) bool {
	path, ok := s.files[category]
	if !ok {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// fileLock returns the per-file mutex for a category, creating it on demand.
func (s *Store) fileLock(category string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[category]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[category] = lock
	}
	return lock
}

// Load reads a category's entries. A missing file, an empty file or one that
// does not parse as a JSON array all mean "no data yet" and yield an empty
// slice. Read failures other than absence are storage errors.
func (s *Store) Load(ctx context.Context, category string) ([]*portfolio.MediaEntry, error) {
	path, ok := s.files[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", portfolio.ErrCategoryNotFound, category)
	}
	return readEntries(path)
}

func readEntries(path string) ([]*portfolio.MediaEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []*portfolio.MediaEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", portfolio.ErrStorage, path, err)
	}

	var entries []*portfolio.MediaEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []*portfolio.MediaEntry{}, nil
	}
	if entries == nil {
		entries = []*portfolio.MediaEntry{}
	}
	return entries, nil
}

// Save rewrites the category file with the full sequence. The file is created
// lazily on first save.
func (s *Store) Save(ctx context.Context, category string, entries []*portfolio.MediaEntry) error {
	path, ok := s.files[category]
	if !ok {
		return fmt.Errorf("%w: %s", portfolio.ErrCategoryNotFound, category)
	}

	lock := s.fileLock(category)
	lock.Lock()
	defer lock.Unlock()

	return writeEntries(category, path, entries)
}

// Update runs load, mutate and save as one step under the category's write
// lock. Mutating the entries outside this window and saving afterwards would
// reintroduce the lost-update race Save alone cannot prevent.
func (s *Store) Update(ctx context.Context, category string, mutate func([]*portfolio.MediaEntry) ([]*portfolio.MediaEntry, error)) error {
	path, ok := s.files[category]
	if !ok {
		return fmt.Errorf("%w: %s", portfolio.ErrCategoryNotFound, category)
	}

	lock := s.fileLock(category)
	lock.Lock()
	defer lock.Unlock()

	entries, err := readEntries(path)
	if err != nil {
		return err
	}
	updated, err := mutate(entries)
	if err != nil {
		return err
	}
	return writeEntries(category, path, updated)
}

func writeEntries(category, path string, entries []*portfolio.MediaEntry) error {
	data, err := marshalEntries(entries)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", portfolio.ErrStorage, category, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: writing %s: %v", portfolio.ErrStorage, path, err)
	}
	return nil
}

// Find locates one entry by the category's identity rule.
func (s *Store) Find(ctx context.Context, category, key string) (*portfolio.MediaEntry, error) {
	entries, err := s.Load(ctx, category)
	if err != nil {
		return nil, err
	}
	if _, entry := portfolio.FindEntry(entries, category, key); entry != nil {
		return entry, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", portfolio.ErrItemNotFound, category, key)
}

// FindPair locates two entries over one loaded sequence.
func (s *Store) FindPair(ctx context.Context, category, keyA, keyB string) (*portfolio.MediaEntry, *portfolio.MediaEntry, error) {
	entries, err := s.Load(ctx, category)
	if err != nil {
		return nil, nil, err
	}
	a, b := portfolio.FindEntryPair(entries, category, keyA, keyB)
	var entryA, entryB *portfolio.MediaEntry
	if a >= 0 {
		entryA = entries[a]
	}
	if b >= 0 {
		entryB = entries[b]
	}
	return entryA, entryB, nil
}

// marshalEntries renders the array the way the site files have always looked:
// 4-space indent, UTF-8 kept unescaped.
func marshalEntries(entries []*portfolio.MediaEntry) ([]byte, error) {
	if entries == nil {
		entries = []*portfolio.MediaEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// CreateTemp makes the file 0600; the data files are hand-edited too.
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
