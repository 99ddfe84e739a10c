package portfolio

// Matcher decides whether an entry is the one a caller named. Identity rules
// differ per category, so lookups always go through MatcherFor rather than
// comparing ids inline.
type Matcher func(e *MediaEntry, key string) bool

// MatcherFor returns the identity rule for a category. Every category matches
// on exact id. The projects category additionally accepts a bare-string title
// match: GitHub-synced entries predate generated ids and are still addressed
// by repository name. That fallback is legacy behavior scoped to projects on
// purpose; do not extend it to other categories.
func MatcherFor(category string) Matcher {
	if category == "projects" {
		return func(e *MediaEntry, key string) bool {
			return (e.ID != "" && e.ID == key) || e.Title.Matches(key)
		}
	}
	return func(e *MediaEntry, key string) bool {
		return e.ID != "" && e.ID == key
	}
}

// FindEntry scans entries with the category's identity rule and returns the
// index and entry of the first match, or (-1, nil).
func FindEntry(entries []*MediaEntry, category, key string) (int, *MediaEntry) {
	match := MatcherFor(category)
	for i, e := range entries {
		if match(e, key) {
			return i, e
		}
	}
	return -1, nil
}

// FindEntryPair locates two entries over one loaded sequence, as the
// two-entry pile operations require.
func FindEntryPair(entries []*MediaEntry, category, keyA, keyB string) (int, int) {
	a, _ := FindEntry(entries, category, keyA)
	b, _ := FindEntry(entries, category, keyB)
	return a, b
}
