package fx

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/amityadav/stagefinder/internal/batch"
	"github.com/amityadav/stagefinder/internal/cache"
	"github.com/amityadav/stagefinder/internal/config"
	"github.com/amityadav/stagefinder/internal/core"
	"github.com/amityadav/stagefinder/internal/normalize"
	"github.com/amityadav/stagefinder/internal/optimizer"
	"github.com/amityadav/stagefinder/internal/providers/eventbrite"
	"github.com/amityadav/stagefinder/internal/providers/serpevents"
	"github.com/amityadav/stagefinder/internal/providers/ticketmaster"
	"github.com/amityadav/stagefinder/internal/providers/webscrape"
	"github.com/amityadav/stagefinder/internal/search"
	"github.com/amityadav/stagefinder/internal/store"
	"github.com/amityadav/stagefinder/internal/strategy"
	"github.com/amityadav/stagefinder/internal/worker"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// StoreModule provides database connectivity (optional)
var StoreModule = fx.Module("store",
	fx.Provide(NewPostgresStore),
)

// CacheModule provides the Redis result cache (optional)
var CacheModule = fx.Module("cache",
	fx.Provide(NewRedisCache),
)

// StrategyModule provides keyword strategy generation
var StrategyModule = fx.Module("strategy",
	fx.Provide(
		NewOptimizer,
		NewStrategyGenerator,
	),
)

// SearchModule provides the provider registry and fallback controller
var SearchModule = fx.Module("search",
	fx.Provide(
		NewProviderRegistry,
		NewFallbackController,
	),
)

// CoreModule provides the aggregation engine
var CoreModule = fx.Module("core",
	fx.Provide(NewEventCore),
)

// WorkerModule provides the scheduled refresh worker
var WorkerModule = fx.Module("worker",
	fx.Provide(NewRefreshWorker),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewPostgresStore creates database connection (optional - returns nil when
// DATABASE_URL is unset)
func NewPostgresStore(cfg config.Config) *store.PostgresStore {
	if cfg.DatabaseURL == "" {
		log.Printf("[FX] PostgresStore disabled (no DATABASE_URL)")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("[FX] PostgresStore failed: %v", err)
		return nil
	}
	log.Printf("[FX] PostgresStore initialized")
	return st
}

// NewRedisCache creates the result cache (optional - returns nil when
// REDIS_ADDR is unset or unreachable)
func NewRedisCache(cfg config.Config) *cache.RedisCache {
	if cfg.RedisAddr == "" {
		log.Printf("[FX] RedisCache disabled (no REDIS_ADDR)")
		return nil
	}

	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	ca, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
	if err != nil {
		log.Printf("[FX] RedisCache failed: %v", err)
		return nil
	}
	log.Printf("[FX] RedisCache initialized (TTL: %s)", ttl)
	return ca
}

// NewOptimizer creates the LLM keyword optimizer (optional - returns nil
// when no API key is configured; the generator falls back to its tables)
func NewOptimizer(cfg config.Config) strategy.Optimizer {
	if cfg.GroqAPIKey != "" {
		groq := optimizer.NewLLMProvider("groq", cfg.GroqAPIKey)
		if cfg.CerebrasAPIKey != "" {
			cerebras := optimizer.NewLLMProvider("cerebras", cfg.CerebrasAPIKey)
			log.Printf("[FX] Optimizer initialized (MultiProvider: Groq + Cerebras)")
			return optimizer.NewMultiProvider(groq, cerebras)
		}
		log.Printf("[FX] Optimizer initialized (Groq)")
		return groq
	}
	if cfg.CerebrasAPIKey != "" {
		log.Printf("[FX] Optimizer initialized (Cerebras)")
		return optimizer.NewLLMProvider("cerebras", cfg.CerebrasAPIKey)
	}
	log.Printf("[FX] Optimizer disabled (no GROQ_API_KEY or CEREBRAS_API_KEY)")
	return nil
}

// NewStrategyGenerator creates the strategy generator with its rule tables
func NewStrategyGenerator(cfg config.Config, opt strategy.Optimizer) *strategy.Generator {
	tables := strategy.DefaultTables()
	if cfg.StrategyTablePath != "" {
		tables = strategy.LoadTables(cfg.StrategyTablePath)
	}
	g := strategy.NewGenerator(opt, tables)
	log.Printf("[FX] StrategyGenerator initialized")
	return g
}

// NewProviderRegistry creates the registry with all event providers.
// Unconfigured providers are still registered; they report Configured()
// false and are skipped by the engine.
func NewProviderRegistry(cfg config.Config) *search.Registry {
	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	registry := search.NewRegistry()

	registry.Register(ticketmaster.NewClient(cfg.TicketmasterKey, timeout))
	registry.Register(serpevents.NewClient(cfg.SerpAPIKey))

	detailFetcher := batch.NewFetcher(cfg.DetailWindow, time.Duration(cfg.WindowDelayMs)*time.Millisecond)
	registry.Register(eventbrite.NewClient(cfg.EventbriteToken, timeout, detailFetcher))

	var sources []string
	for _, s := range strings.Split(cfg.ScrapeSources, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	registry.Register(webscrape.NewScraper(sources, timeout))

	log.Printf("[FX] ProviderRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewFallbackController creates the controller shared by all providers
func NewFallbackController(cfg config.Config) *search.Controller {
	policy := search.ParsePolicy(cfg.FallbackPolicy)
	paginator := search.NewPaginator(time.Duration(cfg.PageDelayMs) * time.Millisecond)
	c := search.NewController(paginator, policy, cfg.AccumulateBudget, normalize.Event)
	log.Printf("[FX] FallbackController initialized (policy: %s)", policy)
	return c
}

// NewEventCore creates the aggregation engine
func NewEventCore(registry *search.Registry, generator *strategy.Generator, controller *search.Controller, st *store.PostgresStore, ca *cache.RedisCache) *core.EventCore {
	c := core.NewEventCore(registry, generator, controller, st, ca)
	log.Printf("[FX] EventCore initialized")
	return c
}

// NewRefreshWorker creates the scheduled refresh worker
func NewRefreshWorker(eventCore *core.EventCore, cfg config.Config) *worker.Worker {
	w := worker.NewWorker(eventCore, cfg)
	log.Printf("[FX] RefreshWorker initialized")
	return w
}
