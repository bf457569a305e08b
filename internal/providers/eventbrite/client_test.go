package eventbrite_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amityadav/stagefinder/internal/batch"
	"github.com/amityadav/stagefinder/internal/providers/eventbrite"
	"github.com/amityadav/stagefinder/internal/search"
)

func newTestServer(t *testing.T, failID string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/events/search/"):
			if got := r.URL.Query().Get("page"); got != "1" {
				t.Errorf("page param = %s, want 1-based 1", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"events": []any{
					map[string]any{"id": "e1"},
					map[string]any{"id": "e2"},
					map[string]any{"id": "e3"},
				},
				"pagination": map[string]any{"object_count": 3, "page_count": 1},
			})
		case strings.HasPrefix(r.URL.Path, "/events/"):
			id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/events/"), "/")
			if id == failID {
				http.Error(w, `{"error":"NOT_FOUND"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id":   id,
				"name": map[string]any{"text": "Event " + id},
				"url":  "https://www.eventbrite.com/e/" + id,
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSearchResolvesIDsToDetails(t *testing.T) {
	srv := newTestServer(t, "")
	defer srv.Close()

	c := eventbrite.NewClient("test-token", time.Second, batch.NewFetcher(5, 0)).WithBaseURL(srv.URL)

	res := c.Search(context.Background(), search.SearchStrategy{Keyword: "ai"}, search.Location{}, 10, 0)

	if !res.Success {
		t.Fatalf("expected success, got err=%v", res.Err)
	}
	if len(res.RawEvents) != 3 {
		t.Fatalf("expected 3 detail records, got %d", len(res.RawEvents))
	}
	if got := res.RawEvents[0].String("name.text"); got != "Event e1" {
		t.Errorf("first record = %q, detail order must follow id order", got)
	}
	if res.TotalResults != 3 || res.TotalPages != 1 {
		t.Errorf("pagination = %d/%d", res.TotalResults, res.TotalPages)
	}
}

func TestSearchSurvivesDetailFailures(t *testing.T) {
	srv := newTestServer(t, "e2")
	defer srv.Close()

	c := eventbrite.NewClient("test-token", time.Second, batch.NewFetcher(5, 0)).WithBaseURL(srv.URL)

	res := c.Search(context.Background(), search.SearchStrategy{Keyword: "ai"}, search.Location{}, 10, 0)

	if !res.Success {
		t.Fatalf("a failed detail must not fail the batch, got err=%v", res.Err)
	}
	if len(res.RawEvents) != 2 {
		t.Errorf("expected 2 surviving records, got %d", len(res.RawEvents))
	}
	for _, r := range res.RawEvents {
		if r.String("id") == "e2" {
			t.Error("failed detail must be dropped, not fabricated")
		}
	}
}

func TestSearchUnconfigured(t *testing.T) {
	c := eventbrite.NewClient("", time.Second, nil)

	res := c.Search(context.Background(), search.SearchStrategy{Keyword: "ai"}, search.Location{}, 10, 0)

	if !res.Success || len(res.RawEvents) != 0 {
		t.Errorf("unconfigured provider must be an empty success, got %+v", res)
	}
}
