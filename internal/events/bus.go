// Package events provides the in-process event bus that connects stores,
// list views, and the panel host. Handlers are registered per
// (component, event type) pair, and dispatch is synchronous on the
// publisher's goroutine, so a store mutation is fully applied before any
// follow-up render event fires.
package events

import (
	"log/slog"
	"sync"
)

// Type names a bus event.
type Type string

const (
	DataChanged Type = "datachanged"
	AfterRender Type = "afterrender"
	// OptionChanged is the typed form of the menu collaborators'
	// optionEvent notification.
	OptionChanged     Type = "optionchanged"
	NewSlice          Type = "newslice"
	MenuButtonClicked Type = "menubuttonclicked"
)

// Event is a single dispatched occurrence. Component identifies the
// originating view or store; Payload carries event-specific data.
type Event struct {
	Type      Type
	Component string
	Payload   any
}

// Handler is a callback invoked for each matching event.
type Handler func(Event)

type subKey struct {
	component string
	typ       Type
}

// Bus dispatches typed events to registered handlers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[subKey][]Handler
	logger *slog.Logger
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subs:   make(map[subKey][]Handler),
		logger: slog.Default().With("component", "event-bus"),
	}
}

// Subscribe registers a handler for events of type t from the named
// component.
func (b *Bus) Subscribe(component string, t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := subKey{component: component, typ: t}
	b.subs[key] = append(b.subs[key], h)
}

// SubscribeAll registers a handler for events of type t from any component.
func (b *Bus) SubscribeAll(t Type, h Handler) {
	b.Subscribe("", t, h)
}

// Publish dispatches the event synchronously, first to component-specific
// handlers, then to wildcard handlers, in registration order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, 4)
	handlers = append(handlers, b.subs[subKey{component: e.Component, typ: e.Type}]...)
	if e.Component != "" {
		handlers = append(handlers, b.subs[subKey{component: "", typ: e.Type}]...)
	}
	b.mu.RUnlock()

	b.logger.Debug("event dispatched",
		"type", string(e.Type),
		"event_component", e.Component,
		"handlers", len(handlers),
	)
	for _, h := range handlers {
		h(e)
	}
}
