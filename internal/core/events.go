// Package core wires the engine together: strategy generation, per-provider
// fallback, normalization, filtering, and the write-behind sink.
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/amityadav/stagefinder/internal/cache"
	"github.com/amityadav/stagefinder/internal/filter"
	"github.com/amityadav/stagefinder/internal/metrics"
	"github.com/amityadav/stagefinder/internal/search"
	"github.com/amityadav/stagefinder/internal/store"
	"github.com/amityadav/stagefinder/internal/strategy"
)

// EventCore handles one aggregation call end to end. All mutable state is
// per-call; the core itself only holds read-only collaborators.
type EventCore struct {
	registry   *search.Registry
	generator  *strategy.Generator
	controller *search.Controller
	store      *store.PostgresStore // optional
	cache      *cache.RedisCache    // optional
}

// NewEventCore creates the orchestrator. store and cache may be nil.
func NewEventCore(registry *search.Registry, generator *strategy.Generator, controller *search.Controller, st *store.PostgresStore, ca *cache.RedisCache) *EventCore {
	return &EventCore{
		registry:   registry,
		generator:  generator,
		controller: controller,
		store:      st,
		cache:      ca,
	}
}

// Search validates the request, runs every configured provider through the
// fallback controller, merges, filters, and assembles the final result.
// A failure is returned only when the request is invalid or every usable
// provider failed outright.
func (c *EventCore) Search(ctx context.Context, req search.SearchRequest) (*search.AggregatedResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	metrics.SearchesTotal.Inc()

	if c.cache != nil {
		key := cache.BuildKey(req)
		if cached, err := c.cache.Get(ctx, key); err == nil {
			log.Printf("[Core] Cache hit for %q", key)
			return cached, nil
		}
	}

	strategies := c.generator.Generate(req.Industry, req.Topic, req.Keyword)
	loc := search.Location{City: req.City, CountryCode: req.CountryCode}
	now := time.Now().UTC()

	log.Printf("[Core] Search: %d strategies, %d providers, size=%d page=%d", len(strategies), c.registry.Count(), req.RequestedSize, req.Page)

	var merged []search.NormalizedEvent
	var sources []string
	requests := 0
	totalResults := 0
	totalPages := 0
	pageSize := 0
	attempted := 0
	failed := 0
	var lastErr error

	for _, provider := range c.registry.GetAll() {
		if !provider.Configured() {
			log.Printf("[Core] Provider %s not configured, skipping", provider.Name())
			continue
		}
		attempted++

		outcome := c.controller.Run(ctx, provider, strategies, loc, req.RequestedSize, req.Page)
		requests += outcome.Requests
		metrics.ProviderRequests.WithLabelValues(provider.Name()).Add(float64(outcome.Requests))

		if !outcome.Success {
			log.Printf("[Core] Provider %s failed: %v", provider.Name(), outcome.Err)
			metrics.ProviderFailures.WithLabelValues(provider.Name()).Inc()
			failed++
			lastErr = outcome.Err
			continue
		}

		if len(outcome.Events) > 0 {
			merged = append(merged, outcome.Events...)
			sources = append(sources, provider.Name())
		}
		totalResults += outcome.TotalResults
		if outcome.TotalPages > totalPages {
			totalPages = outcome.TotalPages
		}
		if pageSize == 0 {
			pageSize = outcome.PageSize
		}
	}

	if attempted > 0 && failed == attempted && len(merged) == 0 {
		metrics.SearchFailures.Inc()
		return nil, fmt.Errorf("all providers failed: %w", lastErr)
	}

	metrics.EventsFetched.Add(float64(len(merged)))

	final := filter.Apply(merged, now)
	if len(final) > req.RequestedSize {
		final = final[:req.RequestedSize]
	}

	result := &search.AggregatedResult{
		Events:        final,
		TotalResults:  totalResults,
		TotalPages:    totalPages,
		CurrentPage:   req.Page,
		PageSize:      pageSize,
		RequestsMade:  requests,
		EventsFetched: len(merged),
		MaxRequested:  req.RequestedSize,
		Query:         queryText(req),
		Location:      loc.String(),
		Source:        strings.Join(sources, "+"),
	}

	c.writeBehind(final)

	if c.cache != nil && len(final) > 0 {
		if err := c.cache.Set(ctx, cache.BuildKey(req), result); err != nil {
			log.Printf("[Core] Cache set failed: %v", err)
		}
	}

	log.Printf("[Core] Search done: %d events from [%s], %d requests", len(final), result.Source, requests)
	return result, nil
}

// writeBehind saves the final events asynchronously. Sink failures are
// logged, never surfaced to the caller.
func (c *EventCore) writeBehind(events []search.NormalizedEvent) {
	if c.store == nil || len(events) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report := c.store.SaveEvents(ctx, events)
		for _, err := range report.Errors {
			log.Printf("[Core] Write-behind error: %v", err)
		}
	}()
}

func queryText(req search.SearchRequest) string {
	if kw := strings.TrimSpace(req.Keyword); kw != "" {
		return kw
	}
	return strings.TrimSpace(strings.TrimSpace(req.Topic) + " " + strings.TrimSpace(req.Industry))
}

// TrackedTopic is one industry/topic pair refreshed on a schedule.
type TrackedTopic struct {
	Industry string
	Topic    string
}

// ParseTrackedTopics parses "industry:topic,industry:topic" configuration.
// Entries without a colon are treated as a bare topic.
func ParseTrackedTopics(s string) []TrackedTopic {
	var topics []TrackedTopic
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, ":"); idx >= 0 {
			topics = append(topics, TrackedTopic{
				Industry: strings.TrimSpace(part[:idx]),
				Topic:    strings.TrimSpace(part[idx+1:]),
			})
		} else {
			topics = append(topics, TrackedTopic{Topic: part})
		}
	}
	return topics
}

// RefreshTracked re-runs aggregation for each tracked topic so the sink
// stays warm. Topics run sequentially with a fixed pause so a scheduled
// refresh cannot burst the providers.
func (c *EventCore) RefreshTracked(ctx context.Context, topics []TrackedTopic, size int, pause time.Duration) {
	if size < search.MinRequestedSize || size > search.MaxRequestedSize {
		size = 50
	}

	log.Printf("[Core] Refreshing %d tracked topics...", len(topics))
	for i, t := range topics {
		if i > 0 && pause > 0 {
			time.Sleep(pause)
		}

		req := search.SearchRequest{
			Industry:      t.Industry,
			Topic:         t.Topic,
			RequestedSize: size,
		}
		result, err := c.Search(ctx, req)
		if err != nil {
			log.Printf("[Core] Refresh %q/%q failed: %v", t.Industry, t.Topic, err)
			continue
		}
		log.Printf("[Core] Refresh %q/%q: %d events", t.Industry, t.Topic, len(result.Events))
	}
}
