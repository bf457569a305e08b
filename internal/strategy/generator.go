package strategy

import (
	"log"
	"sort"
	"strings"

	"github.com/amityadav/stagefinder/internal/search"
)

// Suggestion is the structured output of the optional optimizer.
type Suggestion struct {
	PrimaryKeyword    string   `json:"primary_keyword"`
	AlternateKeywords []string `json:"alternate_keywords"`
	ClassificationID  string   `json:"classification_id,omitempty"`
	EventTypes        []string `json:"event_types"`
	AudienceKeywords  []string `json:"audience_keywords"`
}

// Optimizer is the optional text-optimization capability. The generator
// tolerates a nil optimizer and any optimizer failure.
type Optimizer interface {
	Name() string
	OptimizeEventSearch(industry, topic string) (*Suggestion, error)
}

// Generator turns (industry, topic, keyword) into an ordered strategy list.
// The rule-based path is deterministic; the optimizer path is best-effort
// and never propagates failures.
type Generator struct {
	optimizer Optimizer // nil when no optimizer is configured
	tables    *Tables
}

// NewGenerator creates a strategy generator. optimizer may be nil.
func NewGenerator(optimizer Optimizer, tables *Tables) *Generator {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Generator{optimizer: optimizer, tables: tables}
}

// Generate produces the strategy list. The list is never empty: the generic
// template strategy is always appended last.
func (g *Generator) Generate(industry, topic, keyword string) []search.SearchStrategy {
	industry = strings.TrimSpace(industry)
	topic = strings.TrimSpace(topic)
	keyword = strings.TrimSpace(keyword)

	// Free-text only: a single keyword strategy.
	if industry == "" && topic == "" {
		return []search.SearchStrategy{{Keyword: keyword, Priority: 1}}
	}

	entry := g.resolve(industry, topic)

	strategies := make([]search.SearchStrategy, 0, 4+len(entry.alternates)+len(entry.AudienceKeywords))
	strategies = append(strategies, search.SearchStrategy{
		Keyword:            entry.Keyword,
		ClassificationName: entry.ClassificationName,
		ClassificationID:   entry.ClassificationID,
		EventTypes:         entry.EventTypes,
		Priority:           1,
	})

	// Alternates carry priorities 2..k. Only alternates actually present
	// are added; the list is never padded.
	prio := 2
	for _, alt := range entry.alternates {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		strategies = append(strategies, search.SearchStrategy{
			Keyword:            alt,
			ClassificationName: entry.ClassificationName,
			ClassificationID:   entry.ClassificationID,
			EventTypes:         entry.EventTypes,
			Priority:           prio,
		})
		prio++
	}

	for _, audience := range entry.AudienceKeywords {
		audience = strings.TrimSpace(audience)
		if audience == "" {
			continue
		}
		kw := strings.TrimSpace(audience + " " + firstNonEmpty(topic, industry))
		strategies = append(strategies, search.SearchStrategy{
			Keyword:            kw,
			ClassificationName: entry.ClassificationName,
			ClassificationID:   entry.ClassificationID,
			EventTypes:         entry.EventTypes,
			Priority:           prio,
		})
		prio++
	}

	generic := g.tables.Generic(industry, topic)
	strategies = append(strategies, search.SearchStrategy{
		Keyword:            generic.Keyword,
		ClassificationName: generic.ClassificationName,
		EventTypes:         generic.EventTypes,
		Priority:           prio,
	})

	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].Priority < strategies[j].Priority
	})
	return strategies
}

// resolved is an Entry plus optimizer alternates.
type resolved struct {
	Entry
	alternates []string
}

// resolve picks the primary strategy source: optimizer first, then the
// topic table, then the industry table, then the generic template.
func (g *Generator) resolve(industry, topic string) resolved {
	if g.optimizer != nil {
		suggestion, err := g.optimizer.OptimizeEventSearch(industry, topic)
		if err != nil {
			log.Printf("[Strategy] Optimizer %s unavailable: %v, using rule tables", g.optimizer.Name(), err)
		} else if suggestion != nil && strings.TrimSpace(suggestion.PrimaryKeyword) != "" {
			log.Printf("[Strategy] Optimizer %s suggested %q with %d alternates", g.optimizer.Name(), suggestion.PrimaryKeyword, len(suggestion.AlternateKeywords))
			return resolved{
				Entry: Entry{
					Keyword:          strings.TrimSpace(suggestion.PrimaryKeyword),
					ClassificationID: suggestion.ClassificationID,
					EventTypes:       suggestion.EventTypes,
					AudienceKeywords: suggestion.AudienceKeywords,
				},
				alternates: suggestion.AlternateKeywords,
			}
		}
	}

	if topic != "" {
		if entry, ok := g.tables.LookupTopic(topic); ok {
			return resolved{Entry: entry}
		}
	}
	if industry != "" {
		if entry, ok := g.tables.LookupIndustry(industry); ok {
			return resolved{Entry: entry}
		}
	}
	return resolved{Entry: g.tables.Generic(industry, topic)}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
