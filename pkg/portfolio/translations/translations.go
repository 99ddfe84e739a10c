// Package translations manages the per-language key/value files under the
// content lang/ directory.
package translations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// referenceLang is the language every other file is measured against when
// reporting missing keys.
const referenceLang = "en"

// Store reads and edits the lang/*.json translation files.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a translations store over dir.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("lang directory is required")
	}
	return &Store{dir: dir}, nil
}

// ErrLanguageNotFound indicates the named language has no translation file.
var ErrLanguageNotFound = errors.New("language file not found")

// All returns every language's key/value map, keyed by language code.
func (s *Store) All() (map[string]map[string]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading lang dir: %w", err)
	}

	all := make(map[string]map[string]string)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".json")
		table, err := s.read(code)
		if err != nil {
			return nil, err
		}
		all[code] = table
	}
	return all, nil
}

// Update sets one key in one language file and writes it back.
func (s *Store) Update(lang, key, value string) error {
	if lang == "" || key == "" || value == "" {
		return errors.New("lang, key and value are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.read(lang)
	if err != nil {
		return err
	}
	table[key] = value
	return s.write(lang, table)
}

// Missing reports, per language, the keys present in the reference language
// file but absent from that language. Languages with full coverage are
// omitted.
func (s *Store) Missing() (map[string][]string, error) {
	reference, err := s.read(referenceLang)
	if err != nil {
		return nil, err
	}

	all, err := s.All()
	if err != nil {
		return nil, err
	}

	missing := make(map[string][]string)
	for code, table := range all {
		if code == referenceLang {
			continue
		}
		var absent []string
		for key := range reference {
			if _, ok := table[key]; !ok {
				absent = append(absent, key)
			}
		}
		if len(absent) > 0 {
			sort.Strings(absent)
			missing[code] = absent
		}
	}
	return missing, nil
}

func (s *Store) path(lang string) string {
	return filepath.Join(s.dir, lang+".json")
}

func (s *Store) read(lang string) (map[string]string, error) {
	data, err := os.ReadFile(s.path(lang))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotFound, lang)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path(lang), err)
	}
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path(lang), err)
	}
	return table, nil
}

// write persists a language table with the same formatting as the media
// files: 4-space indent, unescaped UTF-8, temp-then-rename.
func (s *Store) write(lang string, table map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(table); err != nil {
		return fmt.Errorf("encoding %s: %w", lang, err)
	}

	path := s.path(lang)
	tmp, err := os.CreateTemp(s.dir, lang+".json.tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// CreateTemp makes the file 0600; keep the language files world readable.
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
