package strategy

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one rule-table row: the strategy template used when a topic or
// industry string matches exactly.
type Entry struct {
	Keyword            string   `yaml:"keyword"`
	ClassificationName string   `yaml:"classification_name"`
	ClassificationID   string   `yaml:"classification_id"`
	EventTypes         []string `yaml:"event_types"`
	AudienceKeywords   []string `yaml:"audience_keywords"`
}

// Tables holds the rule-based strategy lookups. Lookups are exact-match on
// the lowercased, trimmed input.
type Tables struct {
	Topics     map[string]Entry `yaml:"topics"`
	Industries map[string]Entry `yaml:"industries"`
}

// DefaultTables returns the built-in topic and industry rules.
func DefaultTables() *Tables {
	return &Tables{
		Topics: map[string]Entry{
			"artificial intelligence": {
				Keyword:            "AI conference",
				ClassificationName: "Technology",
				ClassificationID:   "KnvZfZ7vAAa",
				EventTypes:         []string{"conference", "summit"},
				AudienceKeywords:   []string{"machine learning engineers", "data scientists"},
			},
			"machine learning": {
				Keyword:            "machine learning summit",
				ClassificationName: "Technology",
				ClassificationID:   "KnvZfZ7vAAa",
				EventTypes:         []string{"conference", "workshop"},
				AudienceKeywords:   []string{"data scientists"},
			},
			"cybersecurity": {
				Keyword:            "cybersecurity conference",
				ClassificationName: "Technology",
				ClassificationID:   "KnvZfZ7vAAa",
				EventTypes:         []string{"conference", "summit"},
				AudienceKeywords:   []string{"security engineers", "CISOs"},
			},
			"digital marketing": {
				Keyword:            "digital marketing summit",
				ClassificationName: "Business",
				ClassificationID:   "KnvZfZ7vAAe",
				EventTypes:         []string{"summit", "workshop"},
				AudienceKeywords:   []string{"marketers"},
			},
			"leadership": {
				Keyword:            "leadership summit",
				ClassificationName: "Business",
				ClassificationID:   "KnvZfZ7vAAe",
				EventTypes:         []string{"summit", "seminar"},
				AudienceKeywords:   []string{"executives", "managers"},
			},
		},
		Industries: map[string]Entry{
			"technology": {
				Keyword:            "tech conference",
				ClassificationName: "Technology",
				ClassificationID:   "KnvZfZ7vAAa",
				EventTypes:         []string{"conference", "expo"},
				AudienceKeywords:   []string{"developers", "CTOs"},
			},
			"healthcare": {
				Keyword:            "healthcare conference",
				ClassificationName: "Health",
				ClassificationID:   "KnvZfZ7vAAd",
				EventTypes:         []string{"conference", "symposium"},
				AudienceKeywords:   []string{"physicians", "healthcare administrators"},
			},
			"finance": {
				Keyword:            "fintech conference",
				ClassificationName: "Business",
				ClassificationID:   "KnvZfZ7vAAe",
				EventTypes:         []string{"conference", "summit"},
				AudienceKeywords:   []string{"financial analysts"},
			},
			"education": {
				Keyword:            "education conference",
				ClassificationName: "Education",
				ClassificationID:   "KnvZfZ7vAAk",
				EventTypes:         []string{"conference", "workshop"},
				AudienceKeywords:   []string{"educators"},
			},
			"marketing": {
				Keyword:            "marketing conference",
				ClassificationName: "Business",
				ClassificationID:   "KnvZfZ7vAAe",
				EventTypes:         []string{"conference", "summit"},
				AudienceKeywords:   []string{"marketers", "brand managers"},
			},
		},
	}
}

// LoadTables returns the defaults merged with an optional YAML overlay file.
// Overlay entries replace defaults key-by-key; a missing file is not an
// error, a malformed one is logged and ignored.
func LoadTables(path string) *Tables {
	tables := DefaultTables()
	if path == "" {
		return tables
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[Strategy] No overlay at %s, using built-in tables", path)
		return tables
	}

	var overlay Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		log.Printf("[Strategy] Invalid overlay %s: %v, using built-in tables", path, err)
		return tables
	}

	for k, v := range overlay.Topics {
		tables.Topics[normalizeKey(k)] = v
	}
	for k, v := range overlay.Industries {
		tables.Industries[normalizeKey(k)] = v
	}
	log.Printf("[Strategy] Overlay applied: %d topic rules, %d industry rules", len(overlay.Topics), len(overlay.Industries))
	return tables
}

// LookupTopic finds the rule for a topic string, exact match.
func (t *Tables) LookupTopic(topic string) (Entry, bool) {
	e, ok := t.Topics[normalizeKey(topic)]
	return e, ok
}

// LookupIndustry finds the rule for an industry string, exact match.
func (t *Tables) LookupIndustry(industry string) (Entry, bool) {
	e, ok := t.Industries[normalizeKey(industry)]
	return e, ok
}

// Generic builds the lowest-precedence template strategy for a
// topic/industry pair.
func (t *Tables) Generic(industry, topic string) Entry {
	keyword := strings.TrimSpace(fmt.Sprintf("%s %s", strings.TrimSpace(topic), strings.TrimSpace(industry)))
	return Entry{
		Keyword:            keyword,
		ClassificationName: "Miscellaneous",
		EventTypes:         []string{"conference"},
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
