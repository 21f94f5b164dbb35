// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"

	"github.com/danielhkuo/quickly-meet/models"
)

// DefaultBestSlots is how many best slots results show by default.
const DefaultBestSlots = 5

// Rank returns a sorted copy of aggs, best first.
func Rank(aggs []models.SlotAggregation) []models.SlotAggregation {
	ranked := make([]models.SlotAggregation, len(aggs))
	copy(ranked, aggs)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		// 1. More people available wins
		if a.AvailableCount != b.AvailableCount {
			return a.AvailableCount > b.AvailableCount
		}

		// 2. More if-needed wins
		if a.IfNeededCount != b.IfNeededCount {
			return a.IfNeededCount > b.IfNeededCount
		}

		// 3. Earliest slot wins
		return a.SlotStart.Before(b.SlotStart)
	})

	return ranked
}

// BestSlots ranks aggs and returns the top n. n <= 0 returns all of them.
// Slots every respondent marked available are flagged Everyone.
func BestSlots(aggs []models.SlotAggregation, n, responseCount int) []models.SlotAggregation {
	ranked := Rank(aggs)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Everyone = responseCount > 0 && ranked[i].AvailableCount == responseCount
	}
	return ranked
}
