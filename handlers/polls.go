// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/service"
)

type PollHandler struct {
	svc *service.PollService
}

func NewPollHandler(svc *service.PollService) *PollHandler {
	return &PollHandler{svc: svc}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.CreatePoll(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// ListPolls handles GET /polls?status=
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.svc.ListPolls(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /polls/:slug?tz=
// Returns the poll with its grid rendered in tz, or the poll's timezone
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	view, err := h.svc.GetPoll(r.Context(), slug, r.URL.Query().Get("tz"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// UpdatePoll handles PATCH /polls/:id
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id must be a positive integer")
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.svc.UpdatePoll(r.Context(), pollID, r.Header.Get("X-Admin-Key"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/:id
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id must be a positive integer")
		return
	}

	resp, err := h.svc.DeletePoll(r.Context(), pollID, r.Header.Get("X-Admin-Key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
