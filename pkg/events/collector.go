package events

// EventCollector buffers the events an aggregate raises until the
// application layer drains them for publishing.
type EventCollector struct {
	pending []DomainEvent
}

// Record buffers evts in the order given.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Pending returns a copy of the buffered events.
func (c *EventCollector) Pending() []DomainEvent {
	return append([]DomainEvent(nil), c.pending...)
}

// Drain returns the buffered events and empties the buffer.
func (c *EventCollector) Drain() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
