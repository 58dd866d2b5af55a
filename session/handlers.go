// If you are AI: This file implements the registry for server-initiated calls.
// Callbacks run synchronously on the pump goroutine, in registration order.

package session

import (
	"rtmpcall/protocol/amf0"
)

// Handler is a callback for a server-initiated call. It receives the
// decoded argument values positionally.
type Handler func(args ...amf0.Value)

// Handlers maps inbound method names to an ordered callback list.
type Handlers struct {
	callbacks map[string][]Handler
}

// NewHandlers creates an empty handler registry.
func NewHandlers() *Handlers {
	return &Handlers{
		callbacks: make(map[string][]Handler),
	}
}

// Register appends a callback for the method. Registration never
// replaces: the same callback registered twice runs twice.
func (h *Handlers) Register(method string, fn Handler) {
	h.callbacks[method] = append(h.callbacks[method], fn)
}

// Dispatch invokes every callback registered for the method, in
// registration order. Unknown methods are a no-op.
func (h *Handlers) Dispatch(method string, args ...amf0.Value) {
	for _, fn := range h.callbacks[method] {
		fn(args...)
	}
}

// Count returns the number of callbacks registered for the method.
func (h *Handlers) Count(method string) int {
	return len(h.callbacks[method])
}
