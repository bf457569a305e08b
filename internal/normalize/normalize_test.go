package normalize_test

import (
	"testing"
	"time"

	"github.com/amityadav/stagefinder/internal/normalize"
	"github.com/amityadav/stagefinder/internal/search"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string // "" means nil expected
	}{
		{"2026-09-15T10:00:00Z", "2026-09-15"},
		{"2026-09-15T10:00:00+02:00", "2026-09-15"},
		{"2026-09-15", "2026-09-15"},
		{"2026/09/15", "2026-09-15"},
		{"September 15, 2026", "2026-09-15"},
		{"Sep 15, 2026", "2026-09-15"},
		{"15 September 2026", "2026-09-15"},
		{"", ""},
		{"next Tuesday", ""},
		{"sometime in 2026", ""},
		{"15", ""},
	}

	for _, tc := range cases {
		got := normalize.ParseDate(tc.in)
		if tc.want == "" {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v, want nil (dates are never guessed)", tc.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseDate(%q) = nil, want %s", tc.in, tc.want)
			continue
		}
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in           string
		wantAmount   float64
		wantCurrency string
		wantNil      bool
	}{
		{"$25.00", 25, "USD", false},
		{"US$99", 99, "USD", false},
		{"€1,299.50", 1299.5, "EUR", false},
		{"£10", 10, "GBP", false},
		{"USD 45.50", 45.5, "USD", false},
		{"$25.00 - $100.00", 25, "USD", false},
		{"Free", 0, "", false},
		{"free admission for members", 0, "", false},
		{"", 0, "", true},
		{"contact us", 0, "", true},
	}

	for _, tc := range cases {
		amount, currency := normalize.ParsePrice(tc.in)
		if tc.wantNil {
			if amount != nil {
				t.Errorf("ParsePrice(%q) = %v, want nil", tc.in, *amount)
			}
			continue
		}
		if amount == nil {
			t.Errorf("ParsePrice(%q) = nil, want %v", tc.in, tc.wantAmount)
			continue
		}
		if *amount != tc.wantAmount || currency != tc.wantCurrency {
			t.Errorf("ParsePrice(%q) = (%v, %q), want (%v, %q)", tc.in, *amount, currency, tc.wantAmount, tc.wantCurrency)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if got := normalize.Category("KubeCon cloud native conference"); got != "technology" {
		t.Errorf("Category = %q, want technology", got)
	}
	if got := normalize.Category("annual gardening fair"); got != "" {
		t.Errorf("Category on unmatched text = %q, want empty", got)
	}

	types := normalize.EventTypes("AI summit and hands-on workshop")
	if len(types) != 2 || types[0] != "summit" || types[1] != "workshop" {
		t.Errorf("EventTypes = %v, want [summit workshop]", types)
	}

	if !normalize.IsVirtual("join the livestream from anywhere") {
		t.Error("expected virtual")
	}
	if normalize.IsVirtual("downtown convention center") {
		t.Error("expected in-person")
	}

	paid := 49.0
	zero := 0.0
	if normalize.IsFree("free admission", &paid) {
		t.Error("explicit price must win over the keyword table")
	}
	if !normalize.IsFree("tickets required", &zero) {
		t.Error("zero price means free")
	}
	if !normalize.IsFree("free entry all weekend", nil) {
		t.Error("keyword table should apply when no price is known")
	}
}

func TestEventFromTicketmasterShape(t *testing.T) {
	raw := search.RawRecord{
		"id":   "tm-123",
		"name": "DevOps World",
		"url":  "https://www.ticketmaster.com/devops-world",
		"dates": map[string]any{
			"start": map[string]any{"dateTime": "2026-10-02T09:00:00Z"},
		},
		"priceRanges": []any{
			map[string]any{"min": float64(199), "currency": "USD"},
		},
		"classifications": []any{
			map[string]any{"segment": map[string]any{"name": "Technology"}},
		},
		"_embedded": map[string]any{
			"venues": []any{
				map[string]any{
					"name":    "Javits Center",
					"city":    map[string]any{"name": "New York"},
					"country": map[string]any{"countryCode": "US"},
				},
			},
		},
	}

	e := normalize.Event(raw, "ticketmaster")

	if e.Title != "DevOps World" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.SourceProvider != "ticketmaster" || e.SourceID != "tm-123" {
		t.Errorf("identity = (%q, %q)", e.SourceProvider, e.SourceID)
	}
	if e.StartDate == nil || e.StartDate.Format("2006-01-02") != "2026-10-02" {
		t.Errorf("StartDate = %v", e.StartDate)
	}
	if e.Venue != "Javits Center" || e.Location != "New York, US" {
		t.Errorf("venue/location = %q / %q", e.Venue, e.Location)
	}
	if e.Price == nil || *e.Price != 199 || e.Currency != "USD" {
		t.Errorf("price = %v %q", e.Price, e.Currency)
	}
	if e.Category != "technology" {
		t.Errorf("Category = %q", e.Category)
	}
	if e.ScrapedAt.IsZero() {
		t.Error("ScrapedAt must be stamped")
	}
}

func TestEventFromEventbriteShape(t *testing.T) {
	raw := search.RawRecord{
		"id":           "eb-9",
		"name":         map[string]any{"text": "Marketing Summit"},
		"description":  map[string]any{"text": "Two days of talks"},
		"url":          "https://www.eventbrite.com/e/marketing-summit-9",
		"start":        map[string]any{"utc": "2026-11-05T08:00:00Z"},
		"is_free":      true,
		"online_event": true,
		"organizer":    map[string]any{"name": "Acme Events"},
	}

	e := normalize.Event(raw, "eventbrite")

	if e.Title != "Marketing Summit" || e.Description != "Two days of talks" {
		t.Errorf("title/description = %q / %q", e.Title, e.Description)
	}
	if !e.IsFree || !e.IsVirtual {
		t.Errorf("explicit provider flags must carry through: free=%v virtual=%v", e.IsFree, e.IsVirtual)
	}
	if e.Organizer != "Acme Events" {
		t.Errorf("Organizer = %q", e.Organizer)
	}
}

func TestEventDegradesGracefully(t *testing.T) {
	raw := search.RawRecord{
		"title": "Mystery Meetup",
		"date":  "when we feel like it",
		"price": "call for pricing",
		"url":   "https://www.example.org/mystery",
	}

	e := normalize.Event(raw, "webscrape")

	if e.Title != "Mystery Meetup" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.StartDate != nil {
		t.Errorf("unparsable date must stay nil, got %v", e.StartDate)
	}
	if e.Price != nil {
		t.Errorf("unparsable price must stay nil, got %v", *e.Price)
	}
	// No id field: the URL becomes the stable identity.
	if e.SourceID != "https://www.example.org/mystery" {
		t.Errorf("SourceID = %q", e.SourceID)
	}
	if e.Organizer != "example.org" {
		t.Errorf("Organizer = %q", e.Organizer)
	}
}

func TestOrganizerFromURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://www.meetup.com/group/events/1", "meetup.com"},
		{"https://conf.example.io/2026", "conf.example.io"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalize.OrganizerFromURL(tc.in); got != tc.want {
			t.Errorf("OrganizerFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDatesNormalizedToUTC(t *testing.T) {
	got := normalize.ParseDate("2026-09-15T23:30:00-05:00")
	if got == nil {
		t.Fatal("expected a parsed date")
	}
	want := time.Date(2026, 9, 16, 4, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("dates must be stored in UTC, got %v", got.Location())
	}
}
