// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Meet API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, collector)

Every API route is wrapped with request logging and Prometheus metrics.
Metrics are labelled with the route pattern, not the raw path.

# Endpoints

Health and metrics:

	GET /health  - Pings the database
	GET /metrics - Prometheus exposition

Poll management (update and delete require X-Admin-Key):

	POST   /polls      - Create poll
	GET    /polls      - List polls, ?status= filters
	PATCH  /polls/{id} - Update poll fields or status
	DELETE /polls/{id} - Delete poll and its responses

Responses (fetch and edit require X-Edit-Token):

	POST /polls/{slug}/responses
	GET  /polls/{slug}/responses/{response_id}
	PUT  /polls/{slug}/responses/{response_id}

Views and results (public):

	GET  /polls/{slug}           - Poll and slot grid, ?tz= display zone
	GET  /polls/{slug}/results   - Aggregated and ranked slots
	GET  /polls/{slug}/preview   - Compact preview data
	POST /polls/{slug}/selection - Replay drag selection events
*/
package router
