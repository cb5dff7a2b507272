package session

import (
	"sync"
	"time"

	"opencode-diag/internal/domain"
)

// EventType classifies messages emitted around diagnostic runs.
type EventType string

const (
	EventTypeRunStarted   EventType = "run-started"
	EventTypeRunCompleted EventType = "run-completed"
	EventTypeCheck        EventType = "check"
	EventTypeError        EventType = "error"
)

// Event is a sequenced payload consumed by UI subscribers.
type Event struct {
	Seq       int64              `json:"seq"`
	Timestamp time.Time          `json:"timestamp"`
	Type      EventType          `json:"type"`
	Message   string             `json:"message,omitempty"`
	Check     string             `json:"check,omitempty"`
	Status    domain.CheckStatus `json:"status,omitempty"`
	Diagnosis string             `json:"diagnosis,omitempty"`
}

// EventBus stores recent events and provides incremental reads.
type EventBus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
	notify    func(Event)
}

// NewEventBus creates a bounded in-memory event buffer.
func NewEventBus(maxEvents int) *EventBus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &EventBus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// SetNotify registers a hook invoked after each publish, outside the bus
// lock. The bootstrap layer points it at the UI push channel.
func (b *EventBus) SetNotify(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notify = fn
}

// Publish appends one event and assigns sequence and timestamp.
func (b *EventBus) Publish(event Event) Event {
	b.mu.Lock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	notify := b.notify
	b.mu.Unlock()

	if notify != nil {
		notify(event)
	}
	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *EventBus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
