package fx

import (
	"context"
	"log"
	"net/http"

	"github.com/amityadav/stagefinder/internal/cache"
	"github.com/amityadav/stagefinder/internal/config"
	"github.com/amityadav/stagefinder/internal/core"
	"github.com/amityadav/stagefinder/internal/metrics"
	"github.com/amityadav/stagefinder/internal/server"
	"github.com/amityadav/stagefinder/internal/store"
	"github.com/amityadav/stagefinder/internal/worker"
	"go.uber.org/fx"
)

// ServerModule provides the HTTP server and background worker lifecycle
var ServerModule = fx.Module("server",
	fx.Invoke(
		RegisterMetrics,
		StartServer,
		StartRefreshWorker,
	),
)

// RegisterMetrics registers Prometheus collectors once at startup
func RegisterMetrics() {
	metrics.Register()
	log.Printf("[FX] Metrics registered")
}

// ServerParams groups dependencies for starting the HTTP server
type ServerParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Store     *store.PostgresStore
	Cache     *cache.RedisCache
	Core      *core.EventCore
	Config    config.Config
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(p ServerParams) {
	restHandler := server.CreateRESTHandler(server.Services{
		Store: p.Store,
		Core:  p.Core,
	}, p.Config)
	rootHandler := server.CreateRootHandler(restHandler)
	recoveryHandler := server.CreateRecoveryHandler(rootHandler)

	srv := &http.Server{
		Addr:    ":" + p.Config.Port,
		Handler: recoveryHandler,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on :%s", p.Config.Port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down server...")
			if p.Cache != nil {
				_ = p.Cache.Close()
			}
			if p.Store != nil {
				p.Store.Close()
			}
			return srv.Shutdown(ctx)
		},
	})
}

// WorkerStartParams for worker lifecycle injection
type WorkerStartParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Worker    *worker.Worker
}

// StartRefreshWorker starts the scheduled refresh worker
func StartRefreshWorker(p WorkerStartParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Worker.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()
			return nil
		},
	})
}
