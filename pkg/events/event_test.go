package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	occurred := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	event := NewBaseEvent("DecisionMade", "LoanDecision", aggregateID, occurred)

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}
	if event.EventType() != "DecisionMade" {
		t.Errorf("expected event type %q, got %q", "DecisionMade", event.EventType())
	}
	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}
	if event.AggregateType() != "LoanDecision" {
		t.Errorf("expected aggregate type %q, got %q", "LoanDecision", event.AggregateType())
	}
	if !event.OccurredAt().Equal(occurred) {
		t.Errorf("expected occurredAt %v, got %v", occurred, event.OccurredAt())
	}
}

func TestNewBaseEvent_DefaultsOccurredAt(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("DecisionMade", "LoanDecision", uuid.New(), time.Time{})
	after := time.Now().UTC()

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("X", "Y", uuid.New(), time.Time{})
	b := NewBaseEvent("X", "Y", uuid.New(), time.Time{})
	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs")
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestEventCollector(t *testing.T) {
	var c EventCollector
	c.Record(NewBaseEvent("A", "Agg", uuid.New(), time.Time{}), NewBaseEvent("B", "Agg", uuid.New(), time.Time{}))

	pending := c.Pending()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending events, got %d", len(pending))
	}
	pending[0] = nil
	if c.Pending()[0] == nil {
		t.Fatal("Pending must return a copy")
	}

	drained := c.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained events, got %d", len(drained))
	}
	if drained[0].EventType() != "A" || drained[1].EventType() != "B" {
		t.Errorf("expected events in record order, got %s, %s", drained[0].EventType(), drained[1].EventType())
	}
	if n := len(c.Pending()); n != 0 {
		t.Errorf("expected empty collector after drain, got %d", n)
	}
}
