// Package filter post-processes the fully assembled candidate set: expiry
// first, then identity dedup. Both operate on the merged list, never
// per-page.
package filter

import (
	"log"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
)

// ExpiryGrace is how far in the past an event's best-known date may be
// before it is dropped.
const ExpiryGrace = 24 * time.Hour

// Apply runs expiry then dedup over the candidate list, preserving its
// priority order.
func Apply(events []search.NormalizedEvent, now time.Time) []search.NormalizedEvent {
	kept := Unexpired(events, now)
	deduped := Dedup(kept)
	if dropped := len(events) - len(deduped); dropped > 0 {
		log.Printf("[Filter] Dropped %d of %d candidates (%d expired, %d duplicates)", dropped, len(events), len(events)-len(kept), len(kept)-len(deduped))
	}
	return deduped
}

// Unexpired keeps events whose best-known date is within the grace window.
// Events with no date at all are retained: they cannot be proven expired.
func Unexpired(events []search.NormalizedEvent, now time.Time) []search.NormalizedEvent {
	cutoff := now.Add(-ExpiryGrace)
	out := make([]search.NormalizedEvent, 0, len(events))
	for _, e := range events {
		if date := e.BestKnownDate(); date != nil && date.Before(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Dedup drops every event whose (SourceProvider, SourceID) pair was already
// seen, keeping the first occurrence.
func Dedup(events []search.NormalizedEvent) []search.NormalizedEvent {
	type identity struct {
		provider string
		id       string
	}
	seen := make(map[identity]bool, len(events))
	out := make([]search.NormalizedEvent, 0, len(events))
	for _, e := range events {
		key := identity{provider: e.SourceProvider, id: e.SourceID}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
