// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-meet/handlers"
	"github.com/danielhkuo/quickly-meet/metrics"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/service"
)

// healthTimeout bounds the store ping behind /health
const healthTimeout = 2 * time.Second

func NewRouter(svc *service.PollService, collector *metrics.PrometheusCollector) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc)
	responseHandler := handlers.NewResponseHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(collector, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", collector.Handler())

	// Poll management (admin operations require X-Admin-Key)
	route("POST /polls", pollHandler.CreatePoll)
	route("GET /polls", pollHandler.ListPolls)
	route("PATCH /polls/{id}", pollHandler.UpdatePoll)
	route("DELETE /polls/{id}", pollHandler.DeletePoll)

	// Responses (edits require X-Edit-Token)
	route("POST /polls/{slug}/responses", responseHandler.SubmitResponse)
	route("GET /polls/{slug}/responses/{response_id}", responseHandler.GetResponse)
	route("PUT /polls/{slug}/responses/{response_id}", responseHandler.UpdateResponse)

	// Poll views and results (public)
	route("GET /polls/{slug}", pollHandler.GetPoll)
	route("GET /polls/{slug}/results", resultsHandler.GetResults)
	route("GET /polls/{slug}/preview", resultsHandler.GetPreview)
	route("POST /polls/{slug}/selection", resultsHandler.ReplaySelection)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-meet API v1"))
	})

	return mux
}
