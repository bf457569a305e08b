// Package eventbrite implements the event provider backed by Eventbrite.
// Search yields identifiers only; full records come from a second detail
// call per id, issued in bounded concurrent windows.
package eventbrite

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

	"github.com/amityadav/stagefinder/internal/batch"
	"github.com/amityadav/stagefinder/internal/search"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.eventbriteapi.com/v3"

	pageCap             = 50
	singlePageThreshold = 20

	// Eventbrite allows ~1000 calls/hour; detail fetches are the hot
	// path, so keep them well under that.
	detailRatePerSec = 2
	detailBurst      = 5
)

// Client is an Eventbrite API client.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	fetcher *batch.Fetcher
	limiter *rate.Limiter
}

// NewClient creates a new Eventbrite client. fetcher controls the detail
// window; nil gets the default window of 5.
func NewClient(token string, timeout time.Duration, fetcher *batch.Fetcher) *Client {
	if fetcher == nil {
		fetcher = batch.NewFetcher(batch.DefaultWindow, time.Second)
	}
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(detailRatePerSec), detailBurst),
	}
}

// WithBaseURL overrides the API endpoint (tests).
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

func (c *Client) Name() string             { return "eventbrite" }
func (c *Client) Configured() bool         { return c.token != "" }
func (c *Client) PageCap() int             { return pageCap }
func (c *Client) SinglePageThreshold() int { return singlePageThreshold }

// Search enumerates matching event ids for one page, then resolves each id
// to its full record. Individual detail failures are logged and dropped;
// the batch still succeeds with whatever resolved.
func (c *Client) Search(ctx context.Context, strategy search.SearchStrategy, loc search.Location, size, page int) *search.ProviderSearchResult {
	if !c.Configured() {
		return &search.ProviderSearchResult{Success: true, RawEvents: []search.RawRecord{}, CurrentPage: page, PageSize: size}
	}
	if size > pageCap {
		size = pageCap
	}

	ids, totalResults, totalPages, err := c.searchIDs(ctx, strategy, loc, size, page)
	if err != nil {
		log.Printf("[Eventbrite] ID search failed: %v", err)
		return &search.ProviderSearchResult{Success: false, CurrentPage: page, PageSize: size, Err: err}
	}
	log.Printf("[Eventbrite] Page %d: %d ids (total %d)", page, len(ids), totalResults)

	records, failures := c.fetcher.Fetch(ctx, ids, c.fetchDetail)
	for _, f := range failures {
		log.Printf("[Eventbrite] Detail fetch for %s failed: %v", f.ID, f.Err)
	}

	return &search.ProviderSearchResult{
		Success:      true,
		RawEvents:    records,
		TotalResults: totalResults,
		TotalPages:   totalPages,
		CurrentPage:  page,
		PageSize:     size,
	}
}

// searchIDs calls the search endpoint, which returns ids plus pagination.
func (c *Client) searchIDs(ctx context.Context, strategy search.SearchStrategy, loc search.Location, size, page int) ([]string, int, int, error) {
	params := url.Values{}
	params.Set("q", strategy.Keyword)
	params.Set("page_size", strconv.Itoa(size))
	params.Set("page", strconv.Itoa(page+1)) // Eventbrite pages are 1-based
	if loc.City != "" {
		params.Set("location.address", loc.City)
	}

	payload, err := c.get(ctx, c.baseURL+"/events/search/?"+params.Encode())
	if err != nil {
		return nil, 0, 0, err
	}

	root := search.RawRecord(payload)
	var ids []string
	for _, item := range root.Slice("events") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := m["id"].(string); id != "" {
			ids = append(ids, id)
		}
	}

	total, _ := root.Float("pagination.object_count")
	pages, _ := root.Float("pagination.page_count")
	return ids, int(total), int(pages), nil
}

// fetchDetail resolves one event id to its full record.
func (c *Client) fetchDetail(ctx context.Context, id string) (search.RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := c.get(ctx, c.baseURL+"/events/"+id+"/?expand=venue,organizer")
	if err != nil {
		return nil, err
	}
	return search.RawRecord(payload), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload, nil
}
