package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/amityadav/stagefinder/internal/config"
	"github.com/amityadav/stagefinder/internal/core"
	"github.com/amityadav/stagefinder/internal/search"
	"github.com/amityadav/stagefinder/internal/store"
)

// Services groups all service dependencies for REST handlers
type Services struct {
	Store *store.PostgresStore
	Core  *core.EventCore
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.URL.Path {
		case "/api/events/search":
			handleSearch(w, r, services.Core)
		case "/api/events/recent":
			handleRecent(w, r, services.Store)
		case "/api/events/refresh":
			handleRefresh(w, r, services.Core, cfg)
		case "/api/health":
			handleHealth(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

// handleSearch runs one aggregation. POST takes a JSON body, GET takes the
// same fields as query parameters.
func handleSearch(w http.ResponseWriter, r *http.Request, eventCore *core.EventCore) {
	var req search.SearchRequest

	switch r.Method {
	case "POST":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
			return
		}
	case "GET":
		q := r.URL.Query()
		req = search.SearchRequest{
			Industry:    q.Get("industry"),
			Topic:       q.Get("topic"),
			Keyword:     q.Get("keyword"),
			City:        q.Get("city"),
			CountryCode: q.Get("country_code"),
		}
		req.RequestedSize, _ = strconv.Atoi(q.Get("size"))
		req.Page, _ = strconv.Atoi(q.Get("page"))
	default:
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	result, err := eventCore.Search(r.Context(), req)
	if err != nil {
		var vErr *search.ValidationError
		status := http.StatusBadGateway
		if errors.As(err, &vErr) {
			status = http.StatusBadRequest
		}
		log.Printf("[REST] Search failed: %v", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRecent serves events saved by the write-behind sink within the
// last day.
func handleRecent(w http.ResponseWriter, r *http.Request, st *store.PostgresStore) {
	if r.Method != "GET" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if st == nil {
		http.Error(w, `{"error": "event storage is disabled"}`, http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	events, err := st.RecentEvents(r.Context(), limit)
	if err != nil {
		log.Printf("[REST] handleRecent - query failed: %v", err)
		http.Error(w, `{"error": "failed to load recent events"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

// handleRefresh triggers a background refresh of the tracked topics.
// Protected by ADMIN_API_KEY since it fans out to all providers.
func handleRefresh(w http.ResponseWriter, r *http.Request, eventCore *core.EventCore, cfg config.Config) {
	if cfg.AdminAPIKey == "" {
		http.Error(w, `{"error": "ADMIN_API_KEY not configured on server"}`, http.StatusServiceUnavailable)
		return
	}
	if r.Header.Get("X-API-Key") != cfg.AdminAPIKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return
	}

	topics := core.ParseTrackedTopics(cfg.TrackedTopics)
	if len(topics) == 0 {
		http.Error(w, `{"error": "TRACKED_TOPICS not configured"}`, http.StatusBadRequest)
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		log.Printf("[REST] Starting background refresh of %d topics", len(topics))
		eventCore.RefreshTracked(bgCtx, topics, cfg.RefreshSize, 5*time.Second)
		log.Println("[REST] Background refresh completed")
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "Tracked topic refresh started in background",
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[REST] Failed to encode response: %v", err)
	}
}
