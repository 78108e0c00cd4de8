package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hireloop/concierge/domain"
)

// Handler executes one kind of tool. Store and service faults belong to the
// handler: they come back as errors and the dispatcher degrades them to a
// failure indicator inside the tool output.
type Handler interface {
	Kind() domain.ToolKind
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}

// Registry maps the closed set of tool kinds to their handlers.
type Registry struct {
	handlers map[domain.ToolKind]Handler
}

// NewRegistry builds a registry from the given handlers. Registering two
// handlers for the same kind is a construction error.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[domain.ToolKind]Handler, len(handlers))}
	for _, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler is required")
		}
		if _, exists := r.handlers[h.Kind()]; exists {
			return nil, fmt.Errorf("handler already registered for %s", h.Kind())
		}
		r.handlers[h.Kind()] = h
	}
	return r, nil
}

// Lookup resolves a tool name against the closed kind set.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[domain.ToolKind(name)]
	return h, ok
}
