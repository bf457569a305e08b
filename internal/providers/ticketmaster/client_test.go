package ticketmaster_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amityadav/stagefinder/internal/providers/ticketmaster"
	"github.com/amityadav/stagefinder/internal/search"
)

func discoveryPayload(n int) map[string]any {
	events := make([]any, n)
	for i := range events {
		events[i] = map[string]any{"id": "tm-1", "name": "Tech Conf"}
	}
	return map[string]any{
		"_embedded": map[string]any{"events": events},
		"page":      map[string]any{"totalElements": 321, "totalPages": 17},
	}
}

func TestSearchDecodesDiscoveryResponse(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(discoveryPayload(2))
	}))
	defer srv.Close()

	c := ticketmaster.NewClient("test-key", time.Second).WithBaseURL(srv.URL)

	strategy := search.SearchStrategy{Keyword: "ai conference", ClassificationID: "KnvZfZ7vAAa"}
	loc := search.Location{City: "Berlin", CountryCode: "DE"}
	res := c.Search(context.Background(), strategy, loc, 20, 1)

	if !res.Success {
		t.Fatalf("expected success, got err=%v", res.Err)
	}
	if len(res.RawEvents) != 2 {
		t.Errorf("expected 2 events, got %d", len(res.RawEvents))
	}
	if res.TotalResults != 321 || res.TotalPages != 17 {
		t.Errorf("totals = %d/%d, want 321/17", res.TotalResults, res.TotalPages)
	}
	if res.CurrentPage != 1 || res.PageSize != 20 {
		t.Errorf("page echo = %d/%d", res.CurrentPage, res.PageSize)
	}

	if gotQuery["apikey"] != "test-key" || gotQuery["keyword"] != "ai conference" {
		t.Errorf("bad query params: %v", gotQuery)
	}
	if gotQuery["segmentId"] != "KnvZfZ7vAAa" {
		t.Errorf("classification id must map to segmentId, got %q", gotQuery["segmentId"])
	}
	if gotQuery["city"] != "Berlin" || gotQuery["countryCode"] != "DE" {
		t.Errorf("location params missing: %v", gotQuery)
	}
}

func TestSearchUnconfiguredSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unconfigured provider must not call the network")
	}))
	defer srv.Close()

	c := ticketmaster.NewClient("", time.Second).WithBaseURL(srv.URL)

	res := c.Search(context.Background(), search.SearchStrategy{Keyword: "ai"}, search.Location{}, 10, 0)

	if !res.Success {
		t.Error("unconfigured provider reports an empty success")
	}
	if len(res.RawEvents) != 0 {
		t.Errorf("expected no events, got %d", len(res.RawEvents))
	}
	if c.Configured() {
		t.Error("Configured() must be false without an api key")
	}
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"fault":"rate limit"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := ticketmaster.NewClient("test-key", time.Second).WithBaseURL(srv.URL)

	res := c.Search(context.Background(), search.SearchStrategy{Keyword: "ai"}, search.Location{}, 10, 0)

	if res.Success {
		t.Error("non-200 must be a failure")
	}
	if res.Err == nil {
		t.Error("failure must carry the error")
	}
}

func TestSearchClampsSizeToPageCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("size"); got != "200" {
			t.Errorf("size = %s, want clamped to 200", got)
		}
		json.NewEncoder(w).Encode(discoveryPayload(0))
	}))
	defer srv.Close()

	c := ticketmaster.NewClient("test-key", time.Second).WithBaseURL(srv.URL)
	c.Search(context.Background(), search.SearchStrategy{Keyword: "ai"}, search.Location{}, 500, 0)
}
