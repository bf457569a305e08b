package search_test

import (
	"errors"
	"testing"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
)

func TestSearchRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     search.SearchRequest
		wantErr bool
	}{
		{"topic pair", search.SearchRequest{Industry: "technology", Topic: "ai", RequestedSize: 20}, false},
		{"keyword only", search.SearchRequest{Keyword: "ai summit", RequestedSize: 1}, false},
		{"topic only", search.SearchRequest{Topic: "ai", RequestedSize: 1000}, false},
		{"size zero", search.SearchRequest{Keyword: "ai", RequestedSize: 0}, true},
		{"size too large", search.SearchRequest{Keyword: "ai", RequestedSize: 1001}, true},
		{"negative page", search.SearchRequest{Keyword: "ai", RequestedSize: 10, Page: -1}, true},
		{"no query at all", search.SearchRequest{RequestedSize: 10}, true},
		{"blank keyword", search.SearchRequest{Keyword: "   ", RequestedSize: 10}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr {
				var vErr *search.ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestBestKnownDate(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	e := search.NormalizedEvent{StartDate: &start, Deadline: &deadline}
	if got := e.BestKnownDate(); got == nil || !got.Equal(start) {
		t.Errorf("start date must win over deadline, got %v", got)
	}

	e = search.NormalizedEvent{Deadline: &deadline}
	if got := e.BestKnownDate(); got == nil || !got.Equal(deadline) {
		t.Errorf("deadline is the fallback date, got %v", got)
	}

	e = search.NormalizedEvent{}
	if e.BestKnownDate() != nil {
		t.Error("dateless event must report nil")
	}
}

func TestRawRecordLookup(t *testing.T) {
	raw := search.RawRecord{
		"name": map[string]any{"text": "AI Summit"},
		"_embedded": map[string]any{
			"venues": []any{
				map[string]any{"name": "Moscone Center"},
			},
		},
		"is_free": true,
		"count":   float64(7),
	}

	if got := raw.String("name.text"); got != "AI Summit" {
		t.Errorf("nested map lookup failed: %q", got)
	}
	if got := raw.String("_embedded.venues.0.name"); got != "Moscone Center" {
		t.Errorf("list index lookup failed: %q", got)
	}
	if !raw.Bool("is_free") {
		t.Error("bool lookup failed")
	}
	if got, ok := raw.Float("count"); !ok || got != 7 {
		t.Errorf("float lookup failed: %v %v", got, ok)
	}
	if got := raw.String("missing.path"); got != "" {
		t.Errorf("missing path must yield empty string, got %q", got)
	}
}
