// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/db"
	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/metrics"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/service"
	"github.com/danielhkuo/quickly-meet/store"
)

// Default window used by CreateTestPoll: 2024-01-01 09:00-12:00 UTC
var (
	WindowStart = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

// SetupTestDB opens a private in-memory SQLite database with the full
// schema migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	url := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite"
	conn, err := db.Open(ctx, db.SQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseType:   string(db.SQLite),
		AdminKeySalt:   "test-admin-salt",
		PollSlugSalt:   "test-slug-salt",
		BaseURL:        "https://meet.example.com",
		LogLevel:       "info",
		LogFormat:      "text",
		BestSlotsLimit: cliparse.DefaultBestSlotsLimit,
	}
}

// NewTestService wires a PollService over a fresh test database
func NewTestService(t *testing.T, rec metrics.Recorder) (*service.PollService, *store.Store) {
	t.Helper()
	st := store.New(SetupTestDB(t), db.SQLite)
	return service.New(st, GetTestConfig(), rec), st
}

// CreateTestPoll creates a poll over the default window with 30 minute
// slots and moves it to status. status should be "open", "closed",
// "finalized" or "cancelled".
func CreateTestPoll(t *testing.T, svc *service.PollService, status string) models.CreatePollResponse {
	t.Helper()
	ctx := context.Background()

	created, err := svc.CreatePoll(ctx, models.CreatePollRequest{
		Title:               "Test Poll",
		Description:         "A test poll",
		DatetimeStart:       WindowStart,
		DatetimeEnd:         WindowEnd,
		SlotDurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	if status == "" || status == string(lifecycle.Open) {
		return created
	}

	req := models.UpdatePollRequest{Status: &status}
	if status == string(lifecycle.Finalized) {
		ft := WindowStart
		req.FinalizedTime = &ft
	}
	poll, err := svc.UpdatePoll(ctx, created.Poll.ID, created.AdminKey, req)
	if err != nil {
		t.Fatalf("Failed to move test poll to %s: %v", status, err)
	}
	created.Poll = poll
	return created
}

// Slot builds a 30 minute availability slot starting at offset minutes
// past WindowStart
func Slot(offset, level int) models.AvailabilitySlot {
	start := WindowStart.Add(time.Duration(offset) * time.Minute)
	return models.AvailabilitySlot{
		SlotStart:         start,
		SlotEnd:           start.Add(30 * time.Minute),
		AvailabilityLevel: level,
	}
}

// SubmitTestResponse stores a response for name and returns its id and
// edit token
func SubmitTestResponse(t *testing.T, svc *service.PollService, slug, name string, slots ...models.AvailabilitySlot) models.SubmitResponseResponse {
	t.Helper()

	req := models.SubmitResponseRequest{Availabilities: slots}
	if name != "" {
		req.RespondentName = &name
	}
	if req.Availabilities == nil {
		req.Availabilities = []models.AvailabilitySlot{}
	}

	resp, err := svc.SubmitResponse(context.Background(), slug, req)
	if err != nil {
		t.Fatalf("Failed to submit test response: %v", err)
	}
	return resp
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
