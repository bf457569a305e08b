// Package serpevents implements the event provider backed by SerpApi's
// google_events engine.
package serpevents

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/amityadav/stagefinder/internal/search"
	g "github.com/serpapi/google-search-results-golang"
)

// google_events returns at most 10 results per request, addressed by a
// start offset.
const pageCap = 10

// Client is a wrapper around the SerpApi search service.
type Client struct {
	apiKey string
}

// NewClient creates a new SerpApi events client.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey}
}

func (c *Client) Name() string             { return "serpevents" }
func (c *Client) Configured() bool         { return c.apiKey != "" }
func (c *Client) PageCap() int             { return pageCap }
func (c *Client) SinglePageThreshold() int { return pageCap }

// Search performs a Google Events search via SerpApi for one page.
func (c *Client) Search(ctx context.Context, strategy search.SearchStrategy, loc search.Location, size, page int) *search.ProviderSearchResult {
	if !c.Configured() {
		return &search.ProviderSearchResult{Success: true, RawEvents: []search.RawRecord{}, CurrentPage: page, PageSize: size}
	}

	query := strategy.Keyword
	if len(strategy.EventTypes) > 0 && !strings.Contains(strings.ToLower(query), strategy.EventTypes[0]) {
		query = query + " " + strategy.EventTypes[0]
	}

	parameter := map[string]string{
		"engine": "google_events",
		"q":      query,
		"hl":     "en",
		"start":  strconv.Itoa(page * pageCap),
	}
	if loc.City != "" {
		parameter["location"] = loc.String()
	}
	if loc.CountryCode != "" {
		parameter["gl"] = strings.ToLower(loc.CountryCode)
	}

	log.Printf("[SerpEvents] Searching for: %q (page %d)", query, page)
	s := g.NewGoogleSearch(parameter, c.apiKey)
	results, err := s.GetJSON()
	if err != nil {
		log.Printf("[SerpEvents] Search failed: %v", err)
		return &search.ProviderSearchResult{Success: false, CurrentPage: page, PageSize: pageCap, Err: fmt.Errorf("serpapi search failed: %w", err)}
	}

	eventsResults, ok := results["events_results"].([]interface{})
	if !ok {
		// A query with no hits omits the node entirely; that's an empty
		// success, not a failure.
		log.Printf("[SerpEvents] No events_results found in response")
		return &search.ProviderSearchResult{Success: true, RawEvents: []search.RawRecord{}, CurrentPage: page, PageSize: pageCap}
	}

	var events []search.RawRecord
	for _, item := range eventsResults {
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if title, _ := res["title"].(string); title == "" {
			continue
		}
		events = append(events, search.RawRecord(res))
	}

	log.Printf("[SerpEvents] Found %d events", len(events))
	return &search.ProviderSearchResult{
		Success:      true,
		RawEvents:    events,
		TotalResults: page*pageCap + len(events),
		TotalPages:   page + 1,
		CurrentPage:  page,
		PageSize:     pageCap,
	}
}
