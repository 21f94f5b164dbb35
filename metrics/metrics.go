// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

// Recorder receives the service's operational metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveRequest records one served HTTP request.
	ObserveRequest(route, method string, status int, seconds float64)

	// RecordResponse counts response submissions by kind (created, updated).
	RecordResponse(kind string)

	// RecordTransition counts applied poll status changes.
	RecordTransition(from, to string)

	// ObserveGridCache records a slot grid cache lookup.
	ObserveGridCache(hit bool)
}

// NopMetrics discards everything. Used by tests and when metrics are off.
type NopMetrics struct{}

var _ Recorder = (*NopMetrics)(nil)

// NewNop creates a new no-op recorder.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) ObserveRequest(_ /* route */, _ /* method */ string, _ /* status */ int, _ /* seconds */ float64) {
}

func (n *NopMetrics) RecordResponse(_ /* kind */ string) {}

func (n *NopMetrics) RecordTransition(_ /* from */, _ /* to */ string) {}

func (n *NopMetrics) ObserveGridCache(_ /* hit */ bool) {}
