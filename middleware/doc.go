// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Every request gets an X-Request-ID. An incoming header is reused, otherwise a
UUID is generated. The id is echoed on the response and stored in the request
context, see RequestID. Completion is logged with status and duration_ms.

# Metrics

WithMetrics reports each request to a metrics.Recorder under its registered
ServeMux pattern, so /polls/abc and /polls/xyz share one series:

	mux.HandleFunc("GET /polls/{slug}", middleware.WithMetrics(rec, handler))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, PATCH, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Edit-Token, X-Request-ID and
If-None-Match. ETag and X-Request-ID are exposed to scripts.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
