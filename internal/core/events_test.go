package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amityadav/stagefinder/internal/core"
	"github.com/amityadav/stagefinder/internal/normalize"
	"github.com/amityadav/stagefinder/internal/search"
	"github.com/amityadav/stagefinder/internal/strategy"
)

// fakeProvider is a registry entry with scripted responses.
type fakeProvider struct {
	name       string
	configured bool
	records    []search.RawRecord
	err        error
	calls      int
}

func (f *fakeProvider) Name() string             { return f.name }
func (f *fakeProvider) Configured() bool         { return f.configured }
func (f *fakeProvider) PageCap() int             { return 100 }
func (f *fakeProvider) SinglePageThreshold() int { return 100 }

func (f *fakeProvider) Search(ctx context.Context, st search.SearchStrategy, loc search.Location, size, page int) *search.ProviderSearchResult {
	f.calls++
	if f.err != nil {
		return &search.ProviderSearchResult{Success: false, Err: f.err}
	}
	return &search.ProviderSearchResult{
		Success:      true,
		RawEvents:    f.records,
		TotalResults: len(f.records),
		CurrentPage:  page,
		PageSize:     size,
	}
}

func records(provider string, n int) []search.RawRecord {
	out := make([]search.RawRecord, n)
	for i := range out {
		out[i] = search.RawRecord{
			"id":    fmt.Sprintf("%s-%d", provider, i),
			"title": fmt.Sprintf("Event %d from %s", i, provider),
			"url":   "https://example.com/" + provider,
		}
	}
	return out
}

func newCore(providers ...search.Provider) *core.EventCore {
	registry := search.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	generator := strategy.NewGenerator(nil, nil)
	controller := search.NewController(search.NewPaginator(0), search.FirstSuccess, 3, normalize.Event)
	return core.NewEventCore(registry, generator, controller, nil, nil)
}

func TestSearchRejectsInvalidRequestBeforeAnyCall(t *testing.T) {
	p := &fakeProvider{name: "tm", configured: true, records: records("tm", 5)}
	c := newCore(p)

	_, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai", RequestedSize: 0})

	var vErr *search.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if p.calls != 0 {
		t.Errorf("validation must reject before any provider call, got %d calls", p.calls)
	}
}

func TestSearchSkipsUnconfiguredProviders(t *testing.T) {
	off := &fakeProvider{name: "eventbrite", configured: false, records: records("eb", 5)}
	on := &fakeProvider{name: "ticketmaster", configured: true, records: records("tm", 3)}
	c := newCore(off, on)

	result, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai summit", RequestedSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if off.calls != 0 {
		t.Errorf("unconfigured provider must see zero calls, got %d", off.calls)
	}
	if len(result.Events) != 3 {
		t.Errorf("expected 3 events from the configured provider, got %d", len(result.Events))
	}
	if result.Source != "ticketmaster" {
		t.Errorf("Source = %q, want ticketmaster", result.Source)
	}
}

func TestSearchNeverExceedsRequestedSize(t *testing.T) {
	a := &fakeProvider{name: "a", configured: true, records: records("a", 8)}
	b := &fakeProvider{name: "b", configured: true, records: records("b", 8)}
	c := newCore(a, b)

	result, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai", RequestedSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Events) != 10 {
		t.Errorf("expected exactly 10 events, got %d", len(result.Events))
	}
	if result.EventsFetched != 16 {
		t.Errorf("EventsFetched must count the raw merge, got %d", result.EventsFetched)
	}
	if result.MaxRequested != 10 {
		t.Errorf("MaxRequested = %d", result.MaxRequested)
	}
}

func TestSearchDeduplicatesAcrossMerge(t *testing.T) {
	dupes := append(records("a", 5), records("a", 5)[0:2]...) // 2 repeats
	p := &fakeProvider{name: "a", configured: true, records: dupes}
	c := newCore(p)

	result, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai", RequestedSize: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Events) != 5 {
		t.Errorf("expected 5 unique events after dedup, got %d", len(result.Events))
	}
}

func TestSearchPartialProviderFailure(t *testing.T) {
	bad := &fakeProvider{name: "bad", configured: true, err: errors.New("upstream down")}
	good := &fakeProvider{name: "good", configured: true, records: records("good", 2)}
	c := newCore(bad, good)

	result, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai", RequestedSize: 10})
	if err != nil {
		t.Fatalf("one healthy provider must be enough: %v", err)
	}
	if len(result.Events) != 2 {
		t.Errorf("expected the healthy provider's events, got %d", len(result.Events))
	}
	if result.Source != "good" {
		t.Errorf("Source = %q", result.Source)
	}
}

func TestSearchAllProvidersFailed(t *testing.T) {
	bad := &fakeProvider{name: "bad", configured: true, err: errors.New("upstream down")}
	c := newCore(bad)

	_, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai", RequestedSize: 10})
	if err == nil {
		t.Fatal("expected an error when every provider fails")
	}
}

func TestSearchNoConfiguredProvidersIsEmptySuccess(t *testing.T) {
	off := &fakeProvider{name: "off", configured: false}
	c := newCore(off)

	result, err := c.Search(context.Background(), search.SearchRequest{Keyword: "ai", RequestedSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Events) != 0 {
		t.Errorf("expected empty result, got %d", len(result.Events))
	}
}

func TestParseTrackedTopics(t *testing.T) {
	got := core.ParseTrackedTopics(" technology:artificial intelligence, healthcare , :leadership,")

	want := []core.TrackedTopic{
		{Industry: "technology", Topic: "artificial intelligence"},
		{Topic: "healthcare"},
		{Topic: "leadership"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d topics, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topic %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
