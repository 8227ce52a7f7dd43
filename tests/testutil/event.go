package testutil

import (
	"context"
	"sync"

	"github.com/landmarket/backend/internal/domain/shared"
)

// EventRecorder is a bus handler that keeps every event it receives
type EventRecorder struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
}

// NewEventRecorder records events of types, or every event when none are given
func NewEventRecorder(types ...string) *EventRecorder {
	return &EventRecorder{types: types}
}

// EventTypes returns the subscribed event types
func (r *EventRecorder) EventTypes() []string {
	return r.types
}

// Handle records event
func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Types returns the types of the recorded events in arrival order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// Aggregates returns the aggregate ids recorded for eventType
func (r *EventRecorder) Aggregates(eventType string) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint64
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e.AggregateID())
		}
	}
	return out
}

var _ shared.EventHandler = (*EventRecorder)(nil)
