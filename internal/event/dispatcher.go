// Package event provides a synchronous, in-process event dispatcher.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event names dispatched by stylist.
const (
	// Publishing is dispatched before themes are registered. Its payload is
	// a *theme.Locator that listeners add theme directories to.
	Publishing = "stylist.publishing"
	// Published is dispatched after a publish run. Its payload is a
	// *publish.Report.
	Published = "stylist.published"
	// Wildcard listeners receive every event.
	Wildcard = "*"
)

// Event is a named occurrence with an arbitrary payload.
type Event struct {
	Name      string
	Payload   any
	Timestamp time.Time
}

// Listener handles an event. A returned error stops dispatch.
type Listener func(ctx context.Context, e Event) error

// Dispatcher runs listeners synchronously in registration order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		listeners: make(map[string][]Listener),
		logger:    logger.With("component", "event_dispatcher"),
	}
}

// Listen registers l for events named name. Use Wildcard to receive all events.
func (d *Dispatcher) Listen(name string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[name] = append(d.listeners[name], l)
}

// HasListeners reports whether anything listens for name, wildcards included.
func (d *Dispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[name]) > 0 || len(d.listeners[Wildcard]) > 0
}

// Dispatch sends an event named name to its listeners, then to wildcard
// listeners. The first listener error aborts dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, payload any) error {
	d.mu.RLock()
	targets := make([]Listener, 0, len(d.listeners[name])+len(d.listeners[Wildcard]))
	targets = append(targets, d.listeners[name]...)
	if name != Wildcard {
		targets = append(targets, d.listeners[Wildcard]...)
	}
	d.mu.RUnlock()

	e := Event{Name: name, Payload: payload, Timestamp: time.Now()}

	d.logger.DebugContext(ctx, "dispatching event",
		slog.String("event", name),
		slog.Int("listeners", len(targets)))

	for i, l := range targets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dispatching %s: %w", name, err)
		}
		if err := l(ctx, e); err != nil {
			return fmt.Errorf("dispatching %s (listener %d): %w", name, i, err)
		}
	}
	return nil
}
