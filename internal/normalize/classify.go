package normalize

import "strings"

// Keyword tables for the best-effort classifiers. Kept as named tables,
// not inline conditionals, so each can be unit-tested and swapped. They may
// misclassify; they never drop a record.

var categoryKeywords = map[string][]string{
	"technology": {"tech", "software", "developer", "programming", "ai ", "artificial intelligence", "machine learning", "cloud", "data", "cyber", "devops", "saas"},
	"business":   {"business", "entrepreneur", "startup", "leadership", "marketing", "sales", "finance", "investment"},
	"healthcare": {"health", "medical", "medicine", "clinical", "pharma", "biotech", "nursing"},
	"education":  {"education", "teaching", "learning", "academic", "university", "edtech"},
	"design":     {"design", "ux", "ui ", "creative", "branding"},
	"science":    {"science", "research", "physics", "chemistry", "biology", "engineering"},
}

// Category order keeps classification deterministic when several tables
// match; first match wins.
var categoryOrder = []string{"technology", "healthcare", "business", "education", "design", "science"}

var eventTypeKeywords = map[string][]string{
	"conference": {"conference", "conf "},
	"summit":     {"summit"},
	"workshop":   {"workshop", "masterclass", "bootcamp"},
	"meetup":     {"meetup", "meet-up"},
	"webinar":    {"webinar"},
	"hackathon":  {"hackathon"},
	"expo":       {"expo", "exhibition", "trade show"},
	"seminar":    {"seminar", "symposium"},
}

var eventTypeOrder = []string{"conference", "summit", "workshop", "meetup", "webinar", "hackathon", "expo", "seminar"}

var virtualKeywords = []string{"virtual", "online", "webinar", "remote", "livestream", "live stream", "zoom"}

var freeKeywords = []string{"free admission", "free entry", "free to attend", "no cost", "free event", "admission is free"}

// Category classifies free text into a category, or "" when nothing
// matches. Matching is case-insensitive substring lookup.
func Category(text string) string {
	blob := strings.ToLower(text)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(blob, kw) {
				return cat
			}
		}
	}
	return ""
}

// EventTypes returns every event type hinted at in the text.
func EventTypes(text string) []string {
	blob := strings.ToLower(text)
	var out []string
	for _, typ := range eventTypeOrder {
		for _, kw := range eventTypeKeywords[typ] {
			if strings.Contains(blob, kw) {
				out = append(out, typ)
				break
			}
		}
	}
	return out
}

// IsVirtual guesses whether the event is online-only.
func IsVirtual(text string) bool {
	blob := strings.ToLower(text)
	for _, kw := range virtualKeywords {
		if strings.Contains(blob, kw) {
			return true
		}
	}
	return false
}

// IsFree guesses whether attendance is free. An explicit zero price wins
// over the keyword table.
func IsFree(text string, price *float64) bool {
	if price != nil {
		return *price == 0
	}
	blob := strings.ToLower(text)
	for _, kw := range freeKeywords {
		if strings.Contains(blob, kw) {
			return true
		}
	}
	return false
}
