// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/service"
)

type ResponseHandler struct {
	svc *service.PollService
}

func NewResponseHandler(svc *service.PollService) *ResponseHandler {
	return &ResponseHandler{svc: svc}
}

// SubmitResponse handles POST /polls/:slug/responses
// The edit token in the reply is shown once; only its hash is stored.
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.SubmitResponse(r.Context(), slug, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// GetResponse handles GET /polls/:slug/responses/:response_id
func (h *ResponseHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	responseID, ok := pathID(r, "response_id")
	if slug == "" || !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug and numeric response_id are required")
		return
	}

	editToken := r.Header.Get("X-Edit-Token")
	if editToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Edit-Token header required")
		return
	}

	resp, err := h.svc.GetResponse(r.Context(), slug, responseID, editToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateResponse handles PUT /polls/:slug/responses/:response_id
// Replaces the response's availability set wholesale.
func (h *ResponseHandler) UpdateResponse(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	responseID, ok := pathID(r, "response_id")
	if slug == "" || !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug and numeric response_id are required")
		return
	}

	editToken := r.Header.Get("X-Edit-Token")
	if editToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Edit-Token header required")
		return
	}

	var req models.UpdateResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.UpdateResponse(r.Context(), slug, responseID, editToken, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
