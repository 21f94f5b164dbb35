// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/service"
)

type ResultsHandler struct {
	svc *service.PollService
}

func NewResultsHandler(svc *service.PollService) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /polls/:slug/results?tz=&limit=
// Results are live while the poll is open. Clients holding the current
// ETag get 304 Not Modified.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := h.svc.GetPollResults(r.Context(), slug, r.URL.Query().Get("tz"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("ETag", results.ETag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == results.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetPreview handles GET /polls/:slug/preview
// Returns compact poll data for link previews
func (h *ResultsHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	preview, err := h.svc.GetPreview(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, preview)
}

// ReplaySelection handles POST /polls/:slug/selection
func (h *ResultsHandler) ReplaySelection(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.SelectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.ReplaySelection(r.Context(), slug, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
