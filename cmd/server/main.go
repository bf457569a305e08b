package main

import (
	"log"

	appfx "github.com/amityadav/stagefinder/internal/fx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// FX resolves dependencies, manages OnStart/OnStop hooks, and handles
	// graceful shutdown on SIGINT/SIGTERM.
	app := fx.New(
		appfx.ConfigModule,   // Provides: config.Config
		appfx.StoreModule,    // Provides: *store.PostgresStore (nil without DATABASE_URL)
		appfx.CacheModule,    // Provides: *cache.RedisCache (nil without REDIS_ADDR)
		appfx.StrategyModule, // Provides: strategy.Optimizer, *strategy.Generator
		appfx.SearchModule,   // Provides: *search.Registry, *search.Controller
		appfx.CoreModule,     // Provides: *core.EventCore
		appfx.WorkerModule,   // Provides: *worker.Worker
		appfx.ServerModule,   // Starts HTTP server and refresh worker

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
