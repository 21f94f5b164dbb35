// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zeebo/xxh3"

	"github.com/danielhkuo/quickly-meet/aggregate"
	"github.com/danielhkuo/quickly-meet/models"
)

// GetPollResults aggregates every stored response against the poll's
// current grid and ranks the result. limit <= 0 uses the configured
// default. Slots left outside the grid by a window change are ignored.
func (s *PollService) GetPollResults(ctx context.Context, slug, tz string, limit int) (models.PollResults, error) {
	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.PollResults{}, err
	}

	grid, err := s.gridFor(poll, tz)
	if err != nil {
		return models.PollResults{}, err
	}

	responses, err := s.store.ListResponses(ctx, poll.ID)
	if err != nil {
		slog.Error("failed to load responses", "poll_id", poll.ID, "error", err)
		return models.PollResults{}, translate(err)
	}

	if limit <= 0 {
		limit = s.cfg.BestSlotsLimit
	}
	if limit <= 0 {
		limit = aggregate.DefaultBestSlots
	}

	aggs := aggregate.Aggregate(responses, grid.Has)
	poll.ResponseCount = len(responses)

	results := models.PollResults{
		Poll:          poll,
		ResponseCount: len(responses),
		Aggregated:    aggs,
		BestSlots:     aggregate.BestSlots(aggs, limit, len(responses)),
		Grid:          grid,
	}

	results.ETag, err = resultsETag(results)
	if err != nil {
		return models.PollResults{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return results, nil
}

// resultsETag hashes the serialized results, so any change in poll
// fields, counts, names or grid yields a new tag.
func resultsETag(results models.PollResults) (string, error) {
	b, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	return fmt.Sprintf(`"%016x"`, xxh3.Hash(b)), nil
}
