// Package callback provides the registry that stands in for host event
// dispatch.
//
// During a render pass every host fiber that has an "id" prop registers
// its on* handlers here. Dispatch looks the id up and invokes the handler,
// the same way a browser would route a click to the element's listener.
package callback

import (
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/loom/internal/errors"
)

// primaryEvent is the event Dispatch prefers when an id has several.
const primaryEvent = "onclick"

// Handler receives an event payload.
type Handler func(payload any)

// Wrap adapts the handler shapes accepted in props to a Handler.
// Supported: Handler, func(any), func().
func Wrap(v any) (Handler, bool) {
	switch h := v.(type) {
	case Handler:
		return h, h != nil
	case func(any):
		return h, h != nil
	case func():
		if h == nil {
			return nil, false
		}
		return func(any) { h() }, true
	}
	return nil, false
}

// Registry maps element ids to their event handlers.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]map[string]Handler)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register stores h for id and event, replacing any previous handler.
// Event names are case-insensitive.
func (r *Registry) Register(id, event string, h Handler) {
	if h == nil {
		return
	}
	event = strings.ToLower(event)

	r.mu.Lock()
	defer r.mu.Unlock()
	handlers := r.entries[id]
	if handlers == nil {
		handlers = make(map[string]Handler)
		r.entries[id] = handlers
	}
	handlers[event] = h
}

// Unregister removes every handler for id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Reset removes all handlers.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]map[string]Handler)
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Lookup returns the primary handler for id: onClick when present,
// otherwise the handler whose event name sorts first.
func (r *Registry) Lookup(id string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.entries[id]
	if len(handlers) == 0 {
		return nil, false
	}
	if h, ok := handlers[primaryEvent]; ok {
		return h, true
	}
	events := make([]string, 0, len(handlers))
	for ev := range handlers {
		events = append(events, ev)
	}
	sort.Strings(events)
	return handlers[events[0]], true
}

// LookupEvent returns the handler registered for id and event.
func (r *Registry) LookupEvent(id, event string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.entries[id][strings.ToLower(event)]
	return h, ok
}

// Dispatch invokes the primary handler for id. An unknown id is fatal.
func (r *Registry) Dispatch(id string, payload any) {
	h, ok := r.Lookup(id)
	if !ok {
		errors.Fatal("E107", "no handler for id %q", id)
	}
	h(payload)
}

// DispatchEvent invokes the handler for id and event. An unknown pair is
// fatal.
func (r *Registry) DispatchEvent(id, event string, payload any) {
	h, ok := r.LookupEvent(id, event)
	if !ok {
		errors.Fatal("E107", "no %s handler for id %q", event, id)
	}
	h(payload)
}

// Dispatch invokes the primary handler for id in the default registry.
func Dispatch(id string, payload any) {
	defaultRegistry.Dispatch(id, payload)
}
