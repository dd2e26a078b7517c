package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sweater-ventures/tally/db"
)

// HandlerFunc processes one event payload. The Querier is transaction-scoped
// when the handler's RunsInTransaction flag is set.
type HandlerFunc func(ctx context.Context, q db.Querier, payload json.RawMessage) error

// Handler is a named unit of work for an event type. Name is the idempotency
// key for completion tracking and must be unique per event type and stable
// across deploys.
type Handler struct {
	Name              string
	RunsInTransaction bool
	Fn                HandlerFunc
}

// Registry maps event types to their ordered handler lists. It is built once
// at startup and frozen before dispatch begins; after Freeze it is read-only
// and safe for concurrent use without locking.
type Registry struct {
	mu       sync.Mutex
	frozen   bool
	handlers map[string][]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]Handler)}
}

// Register appends a handler for the event type. Returns an error after
// Freeze, or if the handler name is already registered for the type.
func (r *Registry) Register(eventType string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen, cannot register %q for %q", h.Name, eventType)
	}
	if h.Name == "" || h.Fn == nil {
		return fmt.Errorf("handler for %q needs a name and a function", eventType)
	}
	for _, existing := range r.handlers[eventType] {
		if existing.Name == h.Name {
			return fmt.Errorf("handler %q already registered for %q", h.Name, eventType)
		}
	}
	r.handlers[eventType] = append(r.handlers[eventType], h)
	return nil
}

// MustRegister is Register that panics on error, for startup wiring.
func (r *Registry) MustRegister(eventType string, h Handler) {
	if err := r.Register(eventType, h); err != nil {
		panic(err)
	}
}

// Freeze marks the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// HandlersFor returns the ordered handlers for an event type. The returned
// slice must not be modified.
func (r *Registry) HandlersFor(eventType string) []Handler {
	if !r.frozen {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return r.handlers[eventType]
}

// EventTypes returns all event types with at least one handler.
func (r *Registry) EventTypes() []string {
	if !r.frozen {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}
