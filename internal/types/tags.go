package types

import (
	"iter"
	"slices"
	"strings"
)

// Tags represents format-agnostic audio metadata.
//
// Tags provides a unified view of metadata across different tag formats.
// Format-specific keys are mapped to standard fields where possible; the
// raw key/value view keeps everything else reachable.
//
// For access to unmapped or custom tags, use the All() iterator or the
// Get() method to retrieve raw tag values by key.
type Tags struct {
	raw map[string][]string

	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Comment     string
	Copyright   string
	Publisher   string
	Lyrics      string
	Genres      []string
	Composers   []string
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
	Year        int
}

// All returns an iterator over all raw tags.
//
// The iterator yields key-value pairs where values are string slices,
// as tags can carry multiple values per key.
//
//	for key, values := range file.Tags.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// The returned iterator is read-only. Do not modify the yielded slices.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if t.raw == nil {
			return
		}
		for key, values := range t.raw {
			if !yield(key, values) {
				return
			}
		}
	}
}

// Get retrieves all values for a tag key.
//
// Lookup is case-insensitive, matching the lookup rules of the underlying
// tag formats; the stored key keeps its original case. Returns nil if the
// key doesn't exist.
func (t *Tags) Get(key string) []string {
	if t.raw == nil {
		return nil
	}
	if values, ok := t.raw[key]; ok {
		return slices.Clone(values)
	}
	for k, values := range t.raw {
		if strings.EqualFold(k, key) {
			return slices.Clone(values)
		}
	}
	return nil
}

// GetFirst retrieves the first value for a tag key.
//
// Returns the empty string if the key doesn't exist or has no values.
func (t *Tags) GetFirst(key string) string {
	values := t.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// SetRaw replaces the raw values stored under key.
//
// An existing key matching case-insensitively is replaced in place so its
// original spelling is preserved.
func (t *Tags) SetRaw(key string, values ...string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	for k := range t.raw {
		if strings.EqualFold(k, key) {
			t.raw[k] = slices.Clone(values)
			return
		}
	}
	t.raw[key] = slices.Clone(values)
}

// AddRaw appends values under key, creating the key if needed.
func (t *Tags) AddRaw(key string, values ...string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	for k := range t.raw {
		if strings.EqualFold(k, key) {
			t.raw[k] = append(t.raw[k], values...)
			return
		}
	}
	t.raw[key] = slices.Clone(values)
}

// DeleteRaw removes a key (case-insensitive) and its values.
func (t *Tags) DeleteRaw(key string) {
	for k := range t.raw {
		if strings.EqualFold(k, key) {
			delete(t.raw, k)
		}
	}
}
