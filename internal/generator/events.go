package generator

// Lifecycle event names published by the generator.
const (
	EventStart      = "generator_start"
	EventStop       = "generator_stop"
	EventTickFailed = "tick_failed"
	EventShutdown   = "generator_shutdown"
)

// Event represents a generator lifecycle event.
// Minimal and stable: name + producer and optional fields via key/values.
type Event struct {
	Name     string
	Producer ProducerName
	Fields   map[string]any
}

// EventPublisher receives events from the generator. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
