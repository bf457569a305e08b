package search

import (
	"strconv"
	"strings"
)

// RawRecord is a provider payload as decoded JSON. It stays opaque outside
// the normalizer; extraction goes through the lookup helpers below so a
// missing or differently-typed field never panics.
type RawRecord map[string]any

// Lookup walks a dotted path ("dates.start.localDate") through nested maps
// and lists; a numeric segment indexes a list ("images.0.url"). Returns nil
// when any segment is missing or the shape does not match.
func (r RawRecord) Lookup(path string) any {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil
			}
			cur = v[idx]
		default:
			return nil
		}
	}
	return cur
}

// String returns the string at path, or "".
func (r RawRecord) String(path string) string {
	s, _ := r.Lookup(path).(string)
	return s
}

// Float returns the number at path, or (0, false). JSON numbers decode as
// float64; integers stored by adapters are handled too.
func (r RawRecord) Float(path string) (float64, bool) {
	switch v := r.Lookup(path).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the bool at path, or false.
func (r RawRecord) Bool(path string) bool {
	b, _ := r.Lookup(path).(bool)
	return b
}

// Slice returns the list at path, or nil.
func (r RawRecord) Slice(path string) []any {
	s, _ := r.Lookup(path).([]any)
	return s
}

// FirstString returns the first non-empty string among the given paths.
func (r RawRecord) FirstString(paths ...string) string {
	for _, p := range paths {
		if s := r.String(p); s != "" {
			return s
		}
	}
	return ""
}
