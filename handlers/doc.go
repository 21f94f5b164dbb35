// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Meet API.

# Handler Types

Each handler is a thin struct over the poll service:

  - PollHandler: create, list, view, update and delete polls
  - ResponseHandler: submit, fetch and edit availability responses
  - ResultsHandler: aggregated results, previews and selection replay

Handlers are created via constructor functions that accept the service:

	pollHandler := handlers.NewPollHandler(svc)

# Poll Lifecycle

Polls start open and move between open, closed, finalized and cancelled.
Cancelled is terminal.

	POST   /polls        → CreatePoll (returns admin_key and share_url)
	GET    /polls        → ListPolls (?status= filters)
	GET    /polls/{slug} → GetPoll (poll plus grid, ?tz= overrides display)
	PATCH  /polls/{id}   → UpdatePoll
	DELETE /polls/{id}   → DeletePoll

Update and delete require the X-Admin-Key header.

# Responses

	POST /polls/{slug}/responses                → SubmitResponse (returns edit_token)
	GET  /polls/{slug}/responses/{response_id} → GetResponse
	PUT  /polls/{slug}/responses/{response_id} → UpdateResponse

Reading or editing a response requires the X-Edit-Token header. Responses
are only accepted while the poll is open.

# Results

	GET  /polls/{slug}/results   → GetResults (?tz=, ?limit=, ETag aware)
	GET  /polls/{slug}/preview   → GetPreview
	POST /polls/{slug}/selection → ReplaySelection

# Errors

Service errors map onto status codes in one place, statusFor. Bad input is
400, a wrong admin key 401, a wrong edit token 403, a missing poll or
response 404, and a lifecycle conflict 409. Store failures are reported as
503 without detail.
*/
package handlers
