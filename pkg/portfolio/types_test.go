package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRoundTrip(t *testing.T) {
	t.Run("bare string stays a bare string", func(t *testing.T) {
		var text Text
		require.NoError(t, json.Unmarshal([]byte(`"retro-portfolio"`), &text))
		assert.Equal(t, "retro-portfolio", text.Plain)
		assert.Nil(t, text.Locales)

		out, err := json.Marshal(text)
		require.NoError(t, err)
		assert.Equal(t, `"retro-portfolio"`, string(out))
	})

	t.Run("locale map stays a locale map", func(t *testing.T) {
		in := `{"en":"Sunset","fr":"Coucher de soleil","mx":"Atardecer","ht":"Solèy kouche"}`
		var text Text
		require.NoError(t, json.Unmarshal([]byte(in), &text))
		assert.Equal(t, "Sunset", text.English())

		out, err := json.Marshal(text)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	})

	t.Run("english fallback", func(t *testing.T) {
		assert.Equal(t, "name", (&Text{Plain: "name"}).English())
		assert.Equal(t, "", (*Text)(nil).English())
	})

	t.Run("matches only the bare form", func(t *testing.T) {
		assert.True(t, (&Text{Plain: "repo"}).Matches("repo"))
		assert.False(t, (&Text{Plain: "repo"}).Matches("other"))
		assert.False(t, (&Text{Locales: map[string]string{"en": "repo"}}).Matches("repo"))
		assert.False(t, (&Text{}).Matches(""))
		assert.False(t, (*Text)(nil).Matches("repo"))
	})
}

func TestMediaEntryExtraFields(t *testing.T) {
	in := `{
        "id": "painting_1",
        "title": {"en": "Sunset", "fr": "Coucher", "mx": "Atardecer", "ht": "Soley"},
        "url": "https://cdn/a.jpg",
        "featured": true,
        "customOrder": 7
    }`

	var entry MediaEntry
	require.NoError(t, json.Unmarshal([]byte(in), &entry))
	assert.Equal(t, "painting_1", entry.ID)
	require.Contains(t, entry.Extra, "featured")
	require.Contains(t, entry.Extra, "customOrder")

	out, err := json.Marshal(&entry)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestMediaEntryMerge(t *testing.T) {
	t.Run("id and date are immutable", func(t *testing.T) {
		entry := &MediaEntry{ID: "painting_1", Date: "2020-01-01", URL: "https://cdn/a.jpg"}
		err := entry.Merge(map[string]json.RawMessage{
			"id":   json.RawMessage(`"painting_2"`),
			"date": json.RawMessage(`"2021-01-01"`),
			"url":  json.RawMessage(`"https://cdn/b.jpg"`),
		})
		require.NoError(t, err)
		assert.Equal(t, "painting_1", entry.ID)
		assert.Equal(t, "2020-01-01", entry.Date)
		assert.Equal(t, "https://cdn/b.jpg", entry.URL)
	})

	t.Run("unknown fields land in extra", func(t *testing.T) {
		entry := &MediaEntry{ID: "painting_1"}
		err := entry.Merge(map[string]json.RawMessage{
			"featured": json.RawMessage(`true`),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `true`, string(entry.Extra["featured"]))
	})

	t.Run("malformed payload", func(t *testing.T) {
		entry := &MediaEntry{ID: "painting_1"}
		err := entry.Merge(map[string]json.RawMessage{
			"gallery": json.RawMessage(`"not-an-array"`),
		})
		assert.Error(t, err)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		entry := &MediaEntry{ID: "painting_1"}
		require.NoError(t, entry.Merge(nil))
		assert.Equal(t, "painting_1", entry.ID)
	})
}

func TestLocalize(t *testing.T) {
	t.Run("wraps every locale", func(t *testing.T) {
		text := Localize("Sunset")
		require.NotNil(t, text.Locales)
		assert.Len(t, text.Locales, len(Locales))
		for _, code := range Locales {
			assert.Equal(t, "Sunset", text.Locales[code])
		}
	})

	t.Run("empty string still wraps", func(t *testing.T) {
		text := Localize("")
		require.NotNil(t, text)
		assert.Len(t, text.Locales, len(Locales))
	})

	t.Run("optional drops empty", func(t *testing.T) {
		assert.Nil(t, LocalizeOptional(""))
		assert.NotNil(t, LocalizeOptional("x"))
	})
}

func TestMatcherFor(t *testing.T) {
	byID := &MediaEntry{ID: "projects_1", Title: Localize("Modern")}
	byTitle := &MediaEntry{Title: &Text{Plain: "retro-portfolio"}}
	entries := []*MediaEntry{byID, byTitle}

	t.Run("projects match id then title", func(t *testing.T) {
		idx, found := FindEntry(entries, "projects", "projects_1")
		assert.Equal(t, 0, idx)
		assert.Same(t, byID, found)

		idx, found = FindEntry(entries, "projects", "retro-portfolio")
		assert.Equal(t, 1, idx)
		assert.Same(t, byTitle, found)
	})

	t.Run("other categories match id only", func(t *testing.T) {
		idx, _ := FindEntry(entries, "painting", "retro-portfolio")
		assert.Equal(t, -1, idx)
	})

	t.Run("locale-map title never matches", func(t *testing.T) {
		idx, _ := FindEntry(entries, "projects", "Modern")
		assert.Equal(t, -1, idx)
	})

	t.Run("empty id never matches empty key", func(t *testing.T) {
		idx, _ := FindEntry([]*MediaEntry{{}}, "painting", "")
		assert.Equal(t, -1, idx)
	})

	t.Run("pair over one sequence", func(t *testing.T) {
		a, b := FindEntryPair(entries, "projects", "projects_1", "retro-portfolio")
		assert.Equal(t, 0, a)
		assert.Equal(t, 1, b)
	})
}
