// Package ticketmaster implements the event provider backed by the
// Ticketmaster Discovery API.
package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
)

const (
	defaultBaseURL = "https://app.ticketmaster.com/discovery/v2/events.json"

	// Discovery API caps one page at 200 records; the default page size
	// is 20, which is also where a single call stops being enough.
	pageCap             = 200
	singlePageThreshold = 20
)

// Client is a Ticketmaster Discovery API client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Ticketmaster client. An empty apiKey leaves the
// provider unconfigured: searches return empty successes with no network
// call.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint (tests).
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

func (c *Client) Name() string             { return "ticketmaster" }
func (c *Client) Configured() bool         { return c.apiKey != "" }
func (c *Client) PageCap() int             { return pageCap }
func (c *Client) SinglePageThreshold() int { return singlePageThreshold }

// Search runs one strategy against the Discovery API for one page.
func (c *Client) Search(ctx context.Context, strategy search.SearchStrategy, loc search.Location, size, page int) *search.ProviderSearchResult {
	if !c.Configured() {
		return &search.ProviderSearchResult{Success: true, RawEvents: []search.RawRecord{}, CurrentPage: page, PageSize: size}
	}
	if size > pageCap {
		size = pageCap
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("keyword", strategy.Keyword)
	params.Set("size", strconv.Itoa(size))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", "date,asc")
	if strategy.ClassificationID != "" {
		params.Set("segmentId", strategy.ClassificationID)
	} else if strategy.ClassificationName != "" {
		params.Set("classificationName", strategy.ClassificationName)
	}
	if loc.City != "" {
		params.Set("city", loc.City)
	}
	if loc.CountryCode != "" {
		params.Set("countryCode", loc.CountryCode)
	}

	log.Printf("[Ticketmaster] Searching %q (size=%d, page=%d)", strategy.Keyword, size, page)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return failure(page, size, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return failure(page, size, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return failure(page, size, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes)))
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return failure(page, size, fmt.Errorf("failed to decode response: %w", err))
	}

	root := search.RawRecord(payload)
	var events []search.RawRecord
	for _, item := range root.Slice("_embedded.events") {
		if m, ok := item.(map[string]any); ok {
			events = append(events, search.RawRecord(m))
		}
	}

	totalResults := intAt(root, "page.totalElements")
	totalPages := intAt(root, "page.totalPages")
	log.Printf("[Ticketmaster] Page %d: %d events (total %d)", page, len(events), totalResults)

	return &search.ProviderSearchResult{
		Success:      true,
		RawEvents:    events,
		TotalResults: totalResults,
		TotalPages:   totalPages,
		CurrentPage:  page,
		PageSize:     size,
	}
}

func failure(page, size int, err error) *search.ProviderSearchResult {
	log.Printf("[Ticketmaster] %v", err)
	return &search.ProviderSearchResult{Success: false, CurrentPage: page, PageSize: size, Err: err}
}

func intAt(r search.RawRecord, path string) int {
	f, _ := r.Float(path)
	return int(f)
}
