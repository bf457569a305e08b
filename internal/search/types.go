package search

import (
	"fmt"
	"strings"
	"time"
)

// Limits for an incoming search request.
const (
	MinRequestedSize = 1
	MaxRequestedSize = 1000
)

// SearchRequest is the inbound payload for one aggregation call.
// Either Industry+Topic or a free-text Keyword must be present.
type SearchRequest struct {
	Industry      string `json:"industry,omitempty"`
	Topic         string `json:"topic,omitempty"`
	Keyword       string `json:"keyword,omitempty"`
	City          string `json:"city,omitempty"`
	CountryCode   string `json:"country_code"`
	RequestedSize int    `json:"requested_size"`
	Page          int    `json:"page"`
}

// ValidationError rejects a malformed request before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid search request: " + e.Reason
}

// Validate rejects out-of-range sizes and empty queries.
func (r *SearchRequest) Validate() error {
	if r.RequestedSize < MinRequestedSize || r.RequestedSize > MaxRequestedSize {
		return &ValidationError{Reason: fmt.Sprintf("requested_size must be in [%d,%d], got %d", MinRequestedSize, MaxRequestedSize, r.RequestedSize)}
	}
	if r.Page < 0 {
		return &ValidationError{Reason: fmt.Sprintf("page must be >= 0, got %d", r.Page)}
	}
	hasTopicPair := strings.TrimSpace(r.Industry) != "" || strings.TrimSpace(r.Topic) != ""
	hasKeyword := strings.TrimSpace(r.Keyword) != ""
	if !hasTopicPair && !hasKeyword {
		return &ValidationError{Reason: "either industry/topic or keyword is required"}
	}
	return nil
}

// Location narrows a search geographically.
type Location struct {
	City        string
	CountryCode string
}

func (l Location) String() string {
	switch {
	case l.City != "" && l.CountryCode != "":
		return l.City + ", " + l.CountryCode
	case l.City != "":
		return l.City
	default:
		return l.CountryCode
	}
}

// SearchStrategy is one candidate (keyword, classification) pair.
// Priority 1 is the highest.
type SearchStrategy struct {
	Keyword            string
	ClassificationName string
	ClassificationID   string
	EventTypes         []string
	Priority           int
}

// ProviderSearchResult is the outcome of one adapter call. It is never
// shared across calls.
type ProviderSearchResult struct {
	Success      bool
	RawEvents    []RawRecord
	TotalResults int
	TotalPages   int
	CurrentPage  int
	PageSize     int
	Err          error
}

// NormalizedEvent is the canonical event shape, independent of provider.
// Identity key is (SourceProvider, SourceID).
type NormalizedEvent struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Location       string     `json:"location,omitempty"`
	Venue          string     `json:"venue,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	Currency       string     `json:"currency,omitempty"`
	IsFree         bool       `json:"is_free"`
	IsVirtual      bool       `json:"is_virtual"`
	URL            string     `json:"url"`
	ImageURL       string     `json:"image_url,omitempty"`
	Organizer      string     `json:"organizer,omitempty"`
	Category       string     `json:"category,omitempty"`
	SourceProvider string     `json:"source_provider"`
	SourceID       string     `json:"source_id"`
	ScrapedAt      time.Time  `json:"scraped_at"`
}

// BestKnownDate is the date used for expiry: explicit start date first,
// then the submission deadline. Nil when the event carries no date at all.
func (e *NormalizedEvent) BestKnownDate() *time.Time {
	if e.StartDate != nil {
		return e.StartDate
	}
	return e.Deadline
}

// AggregatedResult is the final answer returned to the caller.
type AggregatedResult struct {
	Events        []NormalizedEvent `json:"events"`
	TotalResults  int               `json:"total_results"`
	TotalPages    int               `json:"total_pages"`
	CurrentPage   int               `json:"current_page"`
	PageSize      int               `json:"page_size"`
	RequestsMade  int               `json:"requests_made"`
	EventsFetched int               `json:"events_fetched"`
	MaxRequested  int               `json:"max_requested"`
	Query         string            `json:"query"`
	Location      string            `json:"location,omitempty"`
	Source        string            `json:"source"`
}
