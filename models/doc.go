// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, description, window, slot duration, timezone
  - UpdatePollRequest: any subset of status, window, duration, finalized_time
  - SubmitResponseRequest: respondent details and availabilities
  - UpdateResponseRequest: replacement availabilities
  - SelectionRequest: recorded pointer events to replay

Request structs carry validator tags; the service validates them before
touching the store.

# Response Types

  - CreatePollResponse: poll, admin_key, share_url
  - SubmitResponseResponse: response_id, edit_token
  - PollView: poll plus its slot grid
  - PollResults: aggregated slots and best slots
  - PollPreviewResponse: compact summary
  - ErrorResponse: error, message

# Domain Types

  - Poll: window, slot duration, lifecycle status
  - PollResponse: one respondent's availabilities
  - AvailabilitySlot: slot_start, slot_end, availability_level
  - SlotAggregation: per-slot counts and respondent names

# Availability Levels

	LevelAvailable = 1
	LevelIfNeeded  = 2
*/
package models
