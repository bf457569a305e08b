package server

import (
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/amityadav/stagefinder/internal/metrics"
)

// CreateRootHandler routes API paths to the REST handler and mounts the
// Prometheus endpoint.
func CreateRootHandler(restHandler http.HandlerFunc) http.HandlerFunc {
	metricsHandler := metrics.Handler()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metricsHandler.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			restHandler.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	}
}

// CreateRecoveryHandler wraps handler with panic recovery
func CreateRecoveryHandler(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC RECOVERED] %v\n%s", err, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			}
		}()
		handler.ServeHTTP(w, r)
	}
}
