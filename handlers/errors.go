// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/service"
	"github.com/danielhkuo/quickly-meet/slotgrid"
)

// statusFor maps a service error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, slotgrid.ErrInvalidRange),
		errors.Is(err, slotgrid.ErrInvalidDuration),
		errors.Is(err, slotgrid.ErrInvalidTimezone),
		errors.Is(err, slotgrid.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidAdminKey):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, auth.ErrInvalidEditToken):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrImmutableField),
		errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, service.ErrPollNotOpen):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

// writeServiceError writes err with the matching status. Caller errors
// carry their message verbatim; anything else is reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusServiceUnavailable {
		slog.Error("request failed", "request_id", middleware.RequestID(r.Context()),
			"method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, status, "Service unavailable")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
