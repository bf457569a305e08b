package search

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Policy selects how a list of strategies is tried against one provider.
// The policy is fixed per integration, not per call.
type Policy int

const (
	// FirstSuccess stops at the first strategy yielding a non-empty result.
	FirstSuccess Policy = iota
	// AccumulateUntilFull merges results from the first few strategies
	// until the requested size is reached.
	AccumulateUntilFull
)

// ParsePolicy maps a configuration string to a Policy. Unknown values fall
// back to FirstSuccess.
func ParsePolicy(s string) Policy {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACCUMULATE_UNTIL_FULL", "ACCUMULATE":
		return AccumulateUntilFull
	default:
		return FirstSuccess
	}
}

func (p Policy) String() string {
	if p == AccumulateUntilFull {
		return "ACCUMULATE_UNTIL_FULL"
	}
	return "FIRST_SUCCESS"
}

// NormalizeFunc maps one raw provider record into the canonical shape.
// It must be total: bad input degrades fields, it never fails.
type NormalizeFunc func(record RawRecord, sourceProvider string) NormalizedEvent

// Outcome is what one provider contributed after the fallback run.
type Outcome struct {
	Success      bool
	Events       []NormalizedEvent
	TotalResults int
	TotalPages   int
	CurrentPage  int
	PageSize     int
	Requests     int
	Err          error
}

// Controller iterates strategies in priority order against one provider.
type Controller struct {
	paginator *Paginator
	policy    Policy
	budget    int // max strategies tried under AccumulateUntilFull
	normalize NormalizeFunc
}

// NewController creates a fallback controller. budget bounds the number of
// strategies tried under AccumulateUntilFull; values < 1 default to 3.
func NewController(paginator *Paginator, policy Policy, budget int, normalize NormalizeFunc) *Controller {
	if budget < 1 {
		budget = 3
	}
	return &Controller{paginator: paginator, policy: policy, budget: budget, normalize: normalize}
}

// Run executes the configured policy. Strategies whose keyword text repeats
// an earlier (higher-priority) strategy are skipped before any network call.
func (c *Controller) Run(ctx context.Context, adapter Provider, strategies []SearchStrategy, loc Location, requestedSize, page int) *Outcome {
	strategies = dedupeStrategies(strategies)
	if len(strategies) == 0 {
		return &Outcome{Success: true}
	}

	if c.policy == AccumulateUntilFull {
		return c.runAccumulate(ctx, adapter, strategies, loc, requestedSize, page)
	}
	return c.runFirstSuccess(ctx, adapter, strategies, loc, requestedSize, page)
}

func (c *Controller) runFirstSuccess(ctx context.Context, adapter Provider, strategies []SearchStrategy, loc Location, requestedSize, page int) *Outcome {
	requests := 0
	var last *ProviderSearchResult

	for i, strategy := range strategies {
		log.Printf("[Fallback] %s strategy %d/%d (priority %d): %q", adapter.Name(), i+1, len(strategies), strategy.Priority, strategy.Keyword)

		res, calls := c.fetch(ctx, adapter, strategy, loc, requestedSize, page)
		requests += calls
		last = res

		if res.Success && len(res.RawEvents) > 0 {
			events := make([]NormalizedEvent, 0, len(res.RawEvents))
			for _, raw := range res.RawEvents {
				events = append(events, c.normalize(raw, adapter.Name()))
			}
			return &Outcome{
				Success:      true,
				Events:       events,
				TotalResults: res.TotalResults,
				TotalPages:   res.TotalPages,
				CurrentPage:  res.CurrentPage,
				PageSize:     res.PageSize,
				Requests:     requests,
			}
		}
	}

	out := &Outcome{Requests: requests}
	if last != nil {
		out.Err = last.Err
		// All strategies came back empty but none failed: an empty success.
		out.Success = last.Err == nil
	}
	return out
}

func (c *Controller) runAccumulate(ctx context.Context, adapter Provider, strategies []SearchStrategy, loc Location, requestedSize, page int) *Outcome {
	if len(strategies) > c.budget {
		strategies = strategies[:c.budget]
	}

	out := &Outcome{}
	var lastErr error

	for i, strategy := range strategies {
		log.Printf("[Fallback] %s accumulate %d/%d (priority %d): %q, have %d/%d", adapter.Name(), i+1, len(strategies), strategy.Priority, strategy.Keyword, len(out.Events), requestedSize)

		res, calls := c.fetch(ctx, adapter, strategy, loc, adapter.PageCap(), page)
		out.Requests += calls

		if !res.Success {
			// One strategy failing never aborts the whole run.
			log.Printf("[Fallback] %s strategy %q failed: %v, continuing", adapter.Name(), strategy.Keyword, res.Err)
			lastErr = res.Err
			continue
		}

		for _, raw := range res.RawEvents {
			out.Events = append(out.Events, c.normalize(raw, adapter.Name()))
		}
		if out.TotalResults == 0 {
			out.TotalResults = res.TotalResults
			out.TotalPages = res.TotalPages
			out.CurrentPage = res.CurrentPage
			out.PageSize = res.PageSize
		}

		if len(out.Events) >= requestedSize {
			break
		}
	}

	out.Success = len(out.Events) > 0 || lastErr == nil
	if !out.Success {
		out.Err = fmt.Errorf("all strategies failed: %w", lastErr)
	}
	return out
}

// fetch issues one call when the size fits a single page, otherwise hands
// over to the paginator.
func (c *Controller) fetch(ctx context.Context, adapter Provider, strategy SearchStrategy, loc Location, size, page int) (*ProviderSearchResult, int) {
	if size <= adapter.SinglePageThreshold() {
		return adapter.Search(ctx, strategy, loc, size, page), 1
	}
	return c.paginator.FetchUpTo(ctx, adapter, strategy, loc, size, page)
}

// dedupeStrategies drops strategies repeating an earlier keyword. The list
// arrives sorted by priority, so the numerically lower priority wins.
func dedupeStrategies(strategies []SearchStrategy) []SearchStrategy {
	seen := make(map[string]bool, len(strategies))
	out := make([]SearchStrategy, 0, len(strategies))
	for _, s := range strategies {
		key := strings.ToLower(strings.TrimSpace(s.Keyword))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
