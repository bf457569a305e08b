// Package worker schedules the periodic refresh of tracked topics.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amityadav/stagefinder/internal/config"
	"github.com/amityadav/stagefinder/internal/core"
)

// Worker handles the scheduled refresh of tracked topics
type Worker struct {
	eventCore *core.EventCore
	cfg       config.Config
	cron      *cron.Cron
}

// NewWorker creates a new refresh worker
func NewWorker(eventCore *core.EventCore, cfg config.Config) *Worker {
	return &Worker{
		eventCore: eventCore,
		cfg:       cfg,
		cron:      cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the refresh job and starts the scheduler. Does nothing
// when TRACKED_TOPICS is empty.
func (w *Worker) Start() {
	topics := core.ParseTrackedTopics(w.cfg.TrackedTopics)
	if len(topics) == 0 {
		log.Println("[Worker] No tracked topics configured, refresh scheduler disabled")
		return
	}

	_, err := w.cron.AddFunc(w.cfg.RefreshCron, func() {
		// Run async to not block the scheduler
		go func() {
			log.Printf("[Worker] Running scheduled refresh of %d topics (async)...", len(topics))
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			w.eventCore.RefreshTracked(ctx, topics, w.cfg.RefreshSize, 5*time.Second)
		}()
	})
	if err != nil {
		log.Printf("[Worker] Failed to schedule refresh job: %v", err)
		return
	}

	w.cron.Start()
	log.Printf("[Worker] Scheduled tracked topic refresh (%q, %d topics)", w.cfg.RefreshCron, len(topics))
}

// Stop stops the refresh worker
func (w *Worker) Stop() {
	w.cron.Stop()
	log.Println("[Worker] Stopped")
}
