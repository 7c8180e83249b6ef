package state

import "strings"

// MemoryProfile is the durable per-customer record of explicitly stated
// music preferences. Profiles are created on first merge and only ever
// grow; the store replaces the whole value per customer (last write wins).
type MemoryProfile struct {
	CustomerID       string   `json:"customer_id"`
	MusicPreferences []string `json:"music_preferences"`
}

// Format renders the profile for prompt injection. Empty profiles render
// as an empty string.
func (p MemoryProfile) Format() string {
	if len(p.MusicPreferences) == 0 {
		return ""
	}
	return "Music Preferences: " + strings.Join(p.MusicPreferences, ", ")
}

// MergePreferences unions existing and extracted preference lists,
// preserving order of first appearance and dropping duplicates
// case-insensitively. Existing entries are never removed.
func MergePreferences(existing, extracted []string) []string {
	merged := make([]string, 0, len(existing)+len(extracted))
	seen := make(map[string]struct{}, len(existing)+len(extracted))
	for _, list := range [][]string{existing, extracted} {
		for _, pref := range list {
			pref = strings.TrimSpace(pref)
			if pref == "" {
				continue
			}
			key := strings.ToLower(pref)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, pref)
		}
	}
	return merged
}
