// Package normalize maps arbitrary provider records into the canonical
// event shape. Every extractor is total: unparsable input degrades to a
// zero value, it never fails, and a record that defeats every heuristic
// still survives with only its explicit fields populated.
package normalize

import (
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
)

// Candidate paths per canonical field, covering the record shapes of all
// wired providers. First non-empty match wins.
var (
	titlePaths       = []string{"title", "name.text", "name"}
	descPaths        = []string{"description.text", "description", "info", "snippet", "pleaseNote"}
	startPaths       = []string{"dates.start.dateTime", "dates.start.localDate", "start.utc", "start.local", "date.start_date", "start_date", "date"}
	endPaths         = []string{"dates.end.dateTime", "dates.end.localDate", "end.utc", "end.local", "end_date"}
	deadlinePaths    = []string{"cfp_deadline", "deadline", "submission_deadline"}
	venuePaths       = []string{"_embedded.venues.0.name", "venue.name", "venue"}
	locationPaths    = []string{"location", "address"}
	urlPaths         = []string{"url", "link"}
	imagePaths       = []string{"images.0.url", "logo.url", "thumbnail", "image"}
	organizerPaths   = []string{"promoter.name", "organizer.name", "organizer", "_embedded.attractions.0.name"}
	categoryPaths    = []string{"classifications.0.segment.name", "category"}
	priceStringPaths = []string{"priceRange", "ticket_info.0.price", "price"}
	sourceIDPaths    = []string{"id", "event_id", "source_id"}
)

// Event normalizes one raw provider record. scrapedAt is stamped from the
// wall clock at call time.
func Event(raw search.RawRecord, sourceProvider string) search.NormalizedEvent {
	title := raw.FirstString(titlePaths...)
	description := raw.FirstString(descPaths...)
	eventURL := raw.FirstString(urlPaths...)

	price, currency := extractPrice(raw)
	blob := title + " " + description

	event := search.NormalizedEvent{
		Title:          title,
		Description:    description,
		StartDate:      firstDate(raw, startPaths),
		EndDate:        firstDate(raw, endPaths),
		Deadline:       firstDate(raw, deadlinePaths),
		Location:       extractLocation(raw),
		Venue:          raw.FirstString(venuePaths...),
		Price:          price,
		Currency:       currency,
		IsFree:         raw.Bool("is_free") || IsFree(blob, price),
		IsVirtual:      raw.Bool("online_event") || IsVirtual(blob),
		URL:            eventURL,
		ImageURL:       raw.FirstString(imagePaths...),
		Organizer:      extractOrganizer(raw, eventURL),
		Category:       extractCategory(raw, blob),
		SourceProvider: sourceProvider,
		SourceID:       extractSourceID(raw, eventURL),
		ScrapedAt:      time.Now().UTC(),
	}
	return event
}

// firstDate parses the first path producing a valid date.
func firstDate(raw search.RawRecord, paths []string) *time.Time {
	for _, p := range paths {
		if t := ParseDate(raw.String(p)); t != nil {
			return t
		}
	}
	return nil
}

func extractLocation(raw search.RawRecord) string {
	// Ticketmaster nests city/country under the venue.
	city := raw.String("_embedded.venues.0.city.name")
	country := raw.String("_embedded.venues.0.country.countryCode")
	if city != "" {
		if country != "" {
			return city + ", " + country
		}
		return city
	}

	for _, p := range locationPaths {
		switch v := raw.Lookup(p).(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			// Google events addresses arrive as a list of strings.
			var parts []string
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
	}
	return ""
}

func extractPrice(raw search.RawRecord) (*float64, string) {
	// Structured price ranges first.
	if min, ok := raw.Float("priceRanges.0.min"); ok {
		currency := raw.String("priceRanges.0.currency")
		return &min, currency
	}
	for _, p := range priceStringPaths {
		if s := raw.String(p); s != "" {
			if amount, currency := ParsePrice(s); amount != nil {
				return amount, currency
			}
		}
	}
	return nil, ""
}

// extractOrganizer prefers an explicit organizer field and falls back to a
// guess from the event URL's domain.
func extractOrganizer(raw search.RawRecord, eventURL string) string {
	if org := raw.FirstString(organizerPaths...); org != "" {
		return org
	}
	return OrganizerFromURL(eventURL)
}

// OrganizerFromURL derives an organizer guess from a URL's host, without
// the www prefix. Best effort; "" when the URL does not parse.
func OrganizerFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

func extractCategory(raw search.RawRecord, blob string) string {
	if cat := raw.FirstString(categoryPaths...); cat != "" {
		return strings.ToLower(cat)
	}
	return Category(blob)
}

// extractSourceID takes the provider's record id, falling back to the event
// URL so a record without an id still has a stable identity.
func extractSourceID(raw search.RawRecord, eventURL string) string {
	if id := raw.FirstString(sourceIDPaths...); id != "" {
		return id
	}
	return eventURL
}
