package state

import (
	"reflect"
	"testing"
)

func TestMergePreferencesKeepsExistingEntries(t *testing.T) {
	t.Parallel()

	got := MergePreferences([]string{"Rock", "Jazz"}, []string{"Latin"})
	want := []string{"Rock", "Jazz", "Latin"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergePreferences() = %#v, want %#v", got, want)
	}
}

func TestMergePreferencesDedupesCaseInsensitively(t *testing.T) {
	t.Parallel()

	got := MergePreferences([]string{"Rock"}, []string{"rock", "ROCK", "Jazz"})
	want := []string{"Rock", "Jazz"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergePreferences() = %#v, want %#v", got, want)
	}
}

func TestMergePreferencesDropsBlankEntries(t *testing.T) {
	t.Parallel()

	got := MergePreferences(nil, []string{"  ", "", "Blues"})
	want := []string{"Blues"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergePreferences() = %#v, want %#v", got, want)
	}
}

func TestMemoryProfileFormat(t *testing.T) {
	t.Parallel()

	empty := MemoryProfile{CustomerID: "1"}
	if got := empty.Format(); got != "" {
		t.Fatalf("Format() on empty profile = %q, want empty", got)
	}

	p := MemoryProfile{CustomerID: "1", MusicPreferences: []string{"Rock", "Jazz"}}
	want := "Music Preferences: Rock, Jazz"
	if got := p.Format(); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}
