package event

import (
	"slices"
	"sync"

	"github.com/landmarket/backend/internal/domain/shared"
)

// anyEvent keys handlers that receive every event type
const anyEvent = "*"

// subscriptions maps event types to their handlers
type subscriptions struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byType: make(map[string][]shared.EventHandler)}
}

func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(eventTypes) == 0 {
		eventTypes = []string{anyEvent}
	}
	for _, t := range eventTypes {
		if !slices.Contains(s.byType[t], handler) {
			s.byType[t] = append(s.byType[t], handler)
		}
	}
}

func (s *subscriptions) remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, hs := range s.byType {
		hs = slices.DeleteFunc(slices.Clone(hs), func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(s.byType, t)
			continue
		}
		s.byType[t] = hs
	}
}

// forType returns the handlers of eventType followed by the catch-all ones
func (s *subscriptions) forType(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shared.EventHandler, 0, len(s.byType[eventType])+len(s.byType[anyEvent]))
	out = append(out, s.byType[eventType]...)
	return append(out, s.byType[anyEvent]...)
}
