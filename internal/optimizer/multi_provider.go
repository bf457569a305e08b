package optimizer

import (
	"fmt"
	"log"
	"strings"

	"github.com/amityadav/stagefinder/internal/strategy"
)

// MultiProvider tries providers in order until one produces a usable
// suggestion. It exists so a rate-limited primary falls through to a
// secondary instead of dropping to the rule tables immediately.
type MultiProvider struct {
	providers []strategy.Optimizer
}

// NewMultiProvider creates a new multi-provider optimizer.
func NewMultiProvider(providers ...strategy.Optimizer) *MultiProvider {
	if len(providers) == 0 {
		panic("at least one provider required")
	}
	return &MultiProvider{providers: providers}
}

func (m *MultiProvider) Name() string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return "Multi[" + strings.Join(names, "+") + "]"
}

// OptimizeEventSearch tries each provider in order.
func (m *MultiProvider) OptimizeEventSearch(industry, topic string) (*strategy.Suggestion, error) {
	for i, provider := range m.providers {
		log.Printf("[MultiProvider] Trying %s for optimization (attempt %d/%d)...", provider.Name(), i+1, len(m.providers))
		suggestion, err := provider.OptimizeEventSearch(industry, topic)
		if err == nil {
			return suggestion, nil
		}
		log.Printf("[MultiProvider] %s failed: %v", provider.Name(), err)
	}
	return nil, fmt.Errorf("all optimizer providers failed")
}
