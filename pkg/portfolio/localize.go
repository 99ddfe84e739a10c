package portfolio

// Locales are the site's fixed locale codes. Every translatable field carries
// all of them; per-locale distinct text is a manual editing step afterwards.
var Locales = []string{"en", "fr", "mx", "ht"}

// Localize wraps a single source string into a locale map holding the same
// text under every locale. An empty string still wraps: the result is a map of
// empty strings, not an absent field.
func Localize(s string) *Text {
	m := make(map[string]string, len(Locales))
	for _, code := range Locales {
		m[code] = s
	}
	return &Text{Locales: m}
}

// LocalizeOptional wraps s, or returns nil when s is empty so the field stays
// absent in the stored JSON.
func LocalizeOptional(s string) *Text {
	if s == "" {
		return nil
	}
	return Localize(s)
}
