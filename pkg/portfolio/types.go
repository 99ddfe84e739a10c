package portfolio

import (
	"encoding/json"
	"fmt"
)

// Text is a translatable field value. New entries store a locale map; legacy
// project entries (and GitHub-synced titles) store a bare string. A Text
// marshals back in whichever form it was stored.
type Text struct {
	Plain   string
	Locales map[string]string
}

// English returns the English form of the text, falling back to the bare
// string for legacy values.
func (t *Text) English() string {
	if t == nil {
		return ""
	}
	if t.Locales != nil {
		return t.Locales["en"]
	}
	return t.Plain
}

// Matches reports whether the text equals s. Only the legacy bare-string form
// can match; a locale map never equals a plain identifier.
func (t *Text) Matches(s string) bool {
	return t != nil && t.Locales == nil && t.Plain != "" && t.Plain == s
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.Locales != nil {
		return json.Marshal(t.Locales)
	}
	return json.Marshal(t.Plain)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Plain)
	}
	return json.Unmarshal(data, &t.Locales)
}

// MediaEntry is one element of a category's JSON array file.
//
// Extra carries any sibling fields this package does not model (older files
// accumulated ad-hoc keys); they survive load/save round-trips untouched.
type MediaEntry struct {
	ID              string                     `json:"id,omitempty"`
	Title           *Text                      `json:"title,omitempty"`
	Medium          *Text                      `json:"medium,omitempty"`
	Genre           *Text                      `json:"genre,omitempty"`
	Description     *Text                      `json:"description,omitempty"`
	URL             string                     `json:"url,omitempty"`
	Gallery         []string                   `json:"gallery,omitempty"`
	GalleryMetadata map[string]json.RawMessage `json:"galleryMetadata,omitempty"`
	Date            string                     `json:"date,omitempty"`
	Created         string                     `json:"created,omitempty"`
	Visibility      string                     `json:"visibility,omitempty"`
	Category        string                     `json:"category,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownEntryKeys are the JSON keys owned by the struct fields above.
var knownEntryKeys = map[string]bool{
	"id": true, "title": true, "medium": true, "genre": true,
	"description": true, "url": true, "gallery": true,
	"galleryMetadata": true, "date": true, "created": true,
	"visibility": true, "category": true,
}

func (e *MediaEntry) UnmarshalJSON(data []byte) error {
	type alias MediaEntry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownEntryKeys[k] {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	*e = MediaEntry(a)
	return nil
}

func (e MediaEntry) MarshalJSON() ([]byte, error) {
	type alias MediaEntry
	known, err := json.Marshal(alias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return known, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if _, owned := merged[k]; !owned {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Merge applies a partial update to the entry. The id and date fields are
// immutable after creation and are dropped from updates silently.
func (e *MediaEntry) Merge(updates map[string]json.RawMessage) error {
	if len(updates) == 0 {
		return nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &merged); err != nil {
		return err
	}
	for k, v := range updates {
		if k == "id" || k == "date" {
			continue
		}
		merged[k] = v
	}
	combined, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	var updated MediaEntry
	if err := updated.UnmarshalJSON(combined); err != nil {
		return fmt.Errorf("invalid update payload: %w", err)
	}
	*e = updated
	return nil
}

// BulkItemResult is the outcome of one element of a bulk add.
type BulkItemResult struct {
	Index int         `json:"index"`
	Entry *MediaEntry `json:"entry,omitempty"`
	Error string      `json:"error,omitempty"`
}

// BulkResult summarizes a bulk add. A failed element never aborts the batch.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// ExtractResult identifies the standalone entry created by ExtractFromPile.
type ExtractResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
