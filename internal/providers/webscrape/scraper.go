// Package webscrape turns static conference-listing pages into raw event
// records. Extraction here is deliberately shallow: it only produces
// RawRecord-shaped lists, all interpretation happens in the normalizer.
package webscrape

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/amityadav/stagefinder/internal/search"
)

const pageCap = 100

// Selectors tried in order to find event cards on a listing page.
var cardSelectors = []string{
	"article.event",
	".event-card",
	".event-item",
	"li.event",
	"article",
}

// Scraper fetches configured listing pages and extracts event cards.
type Scraper struct {
	sources []string
	client  *http.Client
}

// NewScraper creates a scraper over the given listing URLs. An empty
// source list leaves the provider unconfigured.
func NewScraper(sources []string, timeout time.Duration) *Scraper {
	return &Scraper{
		sources: sources,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Scraper) Name() string             { return "webscrape" }
func (s *Scraper) Configured() bool         { return len(s.sources) > 0 }
func (s *Scraper) PageCap() int             { return pageCap }
func (s *Scraper) SinglePageThreshold() int { return pageCap }

// Search scrapes every configured source and keeps cards matching the
// strategy keyword. Listing pages have no pagination: page > 0 is an empty
// success.
func (s *Scraper) Search(ctx context.Context, strategy search.SearchStrategy, loc search.Location, size, page int) *search.ProviderSearchResult {
	if !s.Configured() || page > 0 {
		return &search.ProviderSearchResult{Success: true, RawEvents: []search.RawRecord{}, CurrentPage: page, PageSize: size}
	}

	var records []search.RawRecord
	var lastErr error
	for _, source := range s.sources {
		cards, err := s.scrapeSource(ctx, source)
		if err != nil {
			log.Printf("[WebScrape] %s failed: %v", source, err)
			lastErr = err
			continue
		}
		records = append(records, cards...)
	}

	records = matchKeyword(records, strategy.Keyword)
	if len(records) > size {
		records = records[:size]
	}

	if len(records) == 0 && lastErr != nil {
		return &search.ProviderSearchResult{Success: false, CurrentPage: page, PageSize: size, Err: lastErr}
	}

	log.Printf("[WebScrape] %d matching events from %d sources", len(records), len(s.sources))
	return &search.ProviderSearchResult{
		Success:      true,
		RawEvents:    records,
		TotalResults: len(records),
		TotalPages:   1,
		CurrentPage:  page,
		PageSize:     size,
	}
}

func (s *Scraper) scrapeSource(ctx context.Context, source string) ([]search.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	return extractCards(doc, source), nil
}

// extractCards pulls event cards from the document using the first selector
// that matches anything.
func extractCards(doc *goquery.Document, source string) []search.RawRecord {
	var records []search.RawRecord
	for _, selector := range cardSelectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}

		selection.Each(func(i int, card *goquery.Selection) {
			title := cleanText(card.Find("h1, h2, h3, .title, .event-title").First().Text())
			if title == "" {
				return
			}

			href, _ := card.Find("a").First().Attr("href")
			record := search.RawRecord{
				"title":       title,
				"description": cleanText(card.Find("p, .description, .summary").First().Text()),
				"date":        cleanText(card.Find("time, .date, .event-date").First().Text()),
				"location":    cleanText(card.Find(".location, .venue, .place").First().Text()),
				"url":         absoluteURL(source, href),
			}
			if deadline := cleanText(card.Find(".cfp, .deadline, .cfp-deadline").First().Text()); deadline != "" {
				record["cfp_deadline"] = deadline
			}
			records = append(records, record)
		})
		break
	}
	return records
}

// matchKeyword keeps records whose title or description mentions any word
// of the strategy keyword.
func matchKeyword(records []search.RawRecord, keyword string) []search.RawRecord {
	words := strings.Fields(strings.ToLower(keyword))
	if len(words) == 0 {
		return records
	}
	var out []search.RawRecord
	for _, r := range records {
		blob := strings.ToLower(r.String("title") + " " + r.String("description"))
		for _, w := range words {
			if strings.Contains(blob, w) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func absoluteURL(base, href string) string {
	if href == "" {
		return base
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}
