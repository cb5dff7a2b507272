package session

import (
	"testing"

	"opencode-diag/internal/domain"
)

// TestEventBusSince verifies incremental event reads by sequence.
func TestEventBusSince(t *testing.T) {
	bus := NewEventBus(3)
	bus.Publish(Event{Type: EventTypeCheck, Message: "1"})
	bus.Publish(Event{Type: EventTypeCheck, Message: "2"})
	bus.Publish(Event{Type: EventTypeCheck, Message: "3"})

	events := bus.Since(1)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Seq != 2 || events[1].Seq != 3 {
		t.Fatalf("unexpected seqs: %+v", events)
	}
}

// TestEventBusCapsHistory verifies buffer limit trimming behavior.
func TestEventBusCapsHistory(t *testing.T) {
	bus := NewEventBus(2)
	bus.Publish(Event{Message: "1"})
	bus.Publish(Event{Message: "2"})
	bus.Publish(Event{Message: "3"})

	events := bus.Since(0)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Message != "2" || events[1].Message != "3" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

// TestEventBusNotify verifies the push hook sees every published event
// with its assigned sequence.
func TestEventBusNotify(t *testing.T) {
	bus := NewEventBus(4)

	var got []Event
	bus.SetNotify(func(event Event) { got = append(got, event) })

	bus.Publish(Event{Type: EventTypeRunStarted})
	bus.Publish(Event{Type: EventTypeCheck, Check: "GPU", Status: domain.CheckStatusWarning})

	if len(got) != 2 {
		t.Fatalf("notified %d times, want 2", len(got))
	}
	if got[0].Type != EventTypeRunStarted || got[0].Seq != 1 {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].Check != "GPU" || got[1].Status != domain.CheckStatusWarning || got[1].Seq != 2 {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
}
