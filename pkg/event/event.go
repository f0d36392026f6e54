// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted   Type = "simulation_started"
	SimulationStopped   Type = "simulation_stopped"
	SimulationRestarted Type = "simulation_restarted"
	GearChanged         Type = "gear_changed"
	RevLimiterTripped   Type = "rev_limiter_tripped"
	BoundaryContact     Type = "boundary_contact"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
	// Simulation tick the event was raised on.
	Tick uint64
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// NewEvent creates an event that carries no payload.
func NewEvent(eventType Type, source interface{}, tick uint64) *BaseEvent {
	return &BaseEvent{EventType: eventType, Source: source, Tick: tick}
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a handler registration.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler registration. It reports whether the
// registration existed.
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// GearEvent is raised when the transmission changes gear
type GearEvent struct {
	BaseEvent
	From string
	To   string
}

// NewGearEvent creates a new gear event
func NewGearEvent(source interface{}, tick uint64, from, to string) *GearEvent {
	return &GearEvent{
		BaseEvent: BaseEvent{
			EventType: GearChanged,
			Source:    source,
			Tick:      tick,
		},
		From: from,
		To:   to,
	}
}

// EngineEvent is raised when the rev limiter opens a cut window
type EngineEvent struct {
	BaseEvent
	RPM float64
}

// NewEngineEvent creates a new engine event
func NewEngineEvent(source interface{}, tick uint64, rpm float64) *EngineEvent {
	return &EngineEvent{
		BaseEvent: BaseEvent{
			EventType: RevLimiterTripped,
			Source:    source,
			Tick:      tick,
		},
		RPM: rpm,
	}
}

// ContactEvent is raised when the vehicle reaches a world edge
type ContactEvent struct {
	BaseEvent
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// NewContactEvent creates a new contact event
func NewContactEvent(source interface{}, tick uint64, left, right, top, bottom bool) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: BoundaryContact,
			Source:    source,
			Tick:      tick,
		},
		Left:   left,
		Right:  right,
		Top:    top,
		Bottom: bottom,
	}
}
