// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/testutil"
)

// TestConcurrentSubmissions verifies that simultaneous submissions from
// different respondents are all stored exactly once
func TestConcurrentSubmissions(t *testing.T) {
	svc, st := testutil.NewTestService(t, nil)
	handler := NewResponseHandler(svc)

	created := testutil.CreateTestPoll(t, svc, "open")
	slug := created.Poll.Slug

	numRespondents := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRespondents; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			name := fmt.Sprintf("Respondent%d", idx)
			body := models.SubmitResponseRequest{
				RespondentName: &name,
				Availabilities: []models.AvailabilitySlot{
					testutil.Slot(0, models.LevelAvailable),
					testutil.Slot(30*(idx%6), models.LevelIfNeeded),
				},
			}
			if idx%6 == 0 {
				body.Availabilities = body.Availabilities[:1]
			}

			req := testutil.MakeRequest("POST", "/polls/"+slug+"/responses", body, nil)
			req.SetPathValue("slug", slug)
			w := httptest.NewRecorder()
			handler.SubmitResponse(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else {
				t.Errorf("Respondent %d failed: %d %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numRespondents {
		t.Errorf("Expected %d successful submissions, got %d", numRespondents, successCount.Load())
	}

	responses, err := st.ListResponses(context.Background(), created.Poll.ID)
	if err != nil {
		t.Fatalf("Failed to list responses: %v", err)
	}
	if len(responses) != numRespondents {
		t.Errorf("Expected %d responses in database, got %d", numRespondents, len(responses))
	}

	// Everyone marked 09:00
	results, err := svc.GetPollResults(context.Background(), slug, "", 1)
	if err != nil {
		t.Fatalf("GetPollResults() error = %v", err)
	}
	if results.BestSlots[0].AvailableCount != numRespondents || !results.BestSlots[0].Everyone {
		t.Errorf("Expected all %d available at 09:00, got %+v", numRespondents, results.BestSlots[0])
	}
}

// TestConcurrentCloseAndSubmit verifies that a submission racing a close
// either lands before the close or is rejected, never half-stored
func TestConcurrentCloseAndSubmit(t *testing.T) {
	svc, st := testutil.NewTestService(t, nil)
	responses := NewResponseHandler(svc)
	polls := NewPollHandler(svc)

	created := testutil.CreateTestPoll(t, svc, "open")
	slug := created.Poll.Slug
	id := strconv.FormatInt(created.Poll.ID, 10)

	numSubmitters := 8
	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numSubmitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body := models.SubmitResponseRequest{
				Availabilities: []models.AvailabilitySlot{testutil.Slot(60, models.LevelAvailable)},
			}
			req := testutil.MakeRequest("POST", "/polls/"+slug+"/responses", body, nil)
			req.SetPathValue("slug", slug)
			w := httptest.NewRecorder()
			responses.SubmitResponse(w, req)

			switch w.Code {
			case http.StatusCreated:
				accepted.Add(1)
			case http.StatusConflict:
				rejected.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		req := testutil.MakeRequest("PATCH", "/polls/"+id, map[string]string{"status": "closed"},
			map[string]string{"X-Admin-Key": created.AdminKey})
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		polls.UpdatePoll(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Close failed: %d %s", w.Code, w.Body.String())
		}
	}()

	wg.Wait()

	if got := accepted.Load() + rejected.Load(); int(got) != numSubmitters {
		t.Errorf("Expected %d outcomes, got %d", numSubmitters, got)
	}

	stored, err := st.ListResponses(context.Background(), created.Poll.ID)
	if err != nil {
		t.Fatalf("Failed to list responses: %v", err)
	}
	if len(stored) != int(accepted.Load()) {
		t.Errorf("Expected %d stored responses, got %d", accepted.Load(), len(stored))
	}
	for _, r := range stored {
		if len(r.Availabilities) != 1 {
			t.Errorf("Response %d has %d slots, expected 1", r.ID, len(r.Availabilities))
		}
	}
}

// TestConcurrentResponseUpdates verifies that racing edits of one response
// leave exactly one writer's slot set, not a mix
func TestConcurrentResponseUpdates(t *testing.T) {
	svc, _ := testutil.NewTestService(t, nil)
	handler := NewResponseHandler(svc)

	created := testutil.CreateTestPoll(t, svc, "open")
	slug := created.Poll.Slug
	submitted := testutil.SubmitTestResponse(t, svc, slug, "Updater", testutil.Slot(0, 1))
	id := strconv.FormatInt(submitted.ResponseID, 10)

	numUpdates := 6
	var wg sync.WaitGroup

	for i := 0; i < numUpdates; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Each writer marks one distinct pair of adjacent slots
			body := models.UpdateResponseRequest{
				Availabilities: []models.AvailabilitySlot{
					testutil.Slot(30*(idx%5), models.LevelAvailable),
					testutil.Slot(30*(idx%5+1), models.LevelIfNeeded),
				},
			}
			req := testutil.MakeRequest("PUT", "/polls/"+slug+"/responses/"+id, body,
				map[string]string{"X-Edit-Token": submitted.EditToken})
			req.SetPathValue("slug", slug)
			req.SetPathValue("response_id", id)
			w := httptest.NewRecorder()
			handler.UpdateResponse(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Update %d failed: %d %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	final, err := svc.GetResponse(context.Background(), slug, submitted.ResponseID, submitted.EditToken)
	if err != nil {
		t.Fatalf("GetResponse() error = %v", err)
	}
	if len(final.Availabilities) != 2 {
		t.Fatalf("Expected 2 slots after updates, got %d", len(final.Availabilities))
	}
	first, second := final.Availabilities[0], final.Availabilities[1]
	if !second.SlotStart.Equal(first.SlotEnd) {
		t.Errorf("Expected one writer's adjacent pair, got %v and %v", first.SlotStart, second.SlotStart)
	}
	if first.AvailabilityLevel != models.LevelAvailable || second.AvailabilityLevel != models.LevelIfNeeded {
		t.Errorf("Expected levels 1 then 2, got %d and %d", first.AvailabilityLevel, second.AvailabilityLevel)
	}
}

// TestConcurrentCancel verifies that of several racing cancellations
// exactly one wins and the rest see a terminal poll
func TestConcurrentCancel(t *testing.T) {
	svc, _ := testutil.NewTestService(t, nil)
	handler := NewPollHandler(svc)

	created := testutil.CreateTestPoll(t, svc, "open")
	id := strconv.FormatInt(created.Poll.ID, 10)

	numAttempts := 4
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("PATCH", "/polls/"+id, map[string]string{"status": "cancelled"},
				map[string]string{"X-Admin-Key": created.AdminKey})
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()
			handler.UpdatePoll(w, req)

			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful cancel, got %d", successCount.Load())
	}
	if int(conflictCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}
}

// TestParallelPolls verifies that operations on different polls don't interfere
func TestParallelPolls(t *testing.T) {
	t.Parallel()

	svc, _ := testutil.NewTestService(t, nil)
	pollHandler := NewPollHandler(svc)
	responseHandler := NewResponseHandler(svc)

	numPolls := 5
	var wg sync.WaitGroup

	for i := 0; i < numPolls; i++ {
		wg.Add(1)
		go func(pollIdx int) {
			defer wg.Done()

			createReq := models.CreatePollRequest{
				Title:               fmt.Sprintf("Parallel Poll %d", pollIdx),
				DatetimeStart:       testutil.WindowStart,
				DatetimeEnd:         testutil.WindowEnd,
				SlotDurationMinutes: 60,
			}
			req := testutil.MakeRequest("POST", "/polls", createReq, nil)
			w := httptest.NewRecorder()
			pollHandler.CreatePoll(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Poll %d creation failed: %d", pollIdx, w.Code)
				return
			}

			var createResp models.CreatePollResponse
			if err := json.NewDecoder(w.Body).Decode(&createResp); err != nil {
				t.Errorf("Poll %d decode failed: %v", pollIdx, err)
				return
			}
			slug := createResp.Poll.Slug

			body := models.SubmitResponseRequest{
				Availabilities: []models.AvailabilitySlot{{
					SlotStart:         testutil.WindowStart,
					SlotEnd:           testutil.WindowStart.Add(time.Hour),
					AvailabilityLevel: models.LevelAvailable,
				}},
			}
			req = testutil.MakeRequest("POST", "/polls/"+slug+"/responses", body, nil)
			req.SetPathValue("slug", slug)
			w = httptest.NewRecorder()
			responseHandler.SubmitResponse(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Poll %d submission failed: %d %s", pollIdx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	polls, err := svc.ListPolls(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPolls() error = %v", err)
	}
	if len(polls) != numPolls {
		t.Fatalf("Expected %d polls, got %d", numPolls, len(polls))
	}
	for _, p := range polls {
		if p.ResponseCount != 1 {
			t.Errorf("Poll %d has %d responses, expected 1", p.ID, p.ResponseCount)
		}
	}
}
