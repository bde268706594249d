package events

import (
	"sync"
	"time"

	"github.com/switchyard-cloud/switchyard/internal/directory"
)

// defaultBufferSize is the dispatch channel capacity. Events beyond this
// backlog are dropped rather than blocking the relay's request path.
const defaultBufferSize = 256

// Logger defines the logging interface used by the Bus.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Bus fans relay events out to any number of sinks. It satisfies the
// relay's Events interface: emitting is non-blocking (a full backlog drops
// the event), and a single goroutine dispatches to sinks in order.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Bus struct {
	sinks []Sink
	ch    chan Event

	mu      sync.Mutex
	closed  bool
	done    chan struct{}
	dropped int

	logger Logger
}

// New creates a bus dispatching to the given sinks and starts its dispatch
// goroutine. A bus with no sinks is valid and discards everything.
func New(sinks ...Sink) *Bus {
	return newBus(defaultBufferSize, sinks...)
}

func newBus(bufferSize int, sinks ...Sink) *Bus {
	b := &Bus{
		sinks:  sinks,
		ch:     make(chan Event, bufferSize),
		done:   make(chan struct{}),
		logger: noopLogger{},
	}
	go b.dispatch()
	return b
}

// SetLogger sets the logger for the bus.
func (b *Bus) SetLogger(logger Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// Close stops the bus after draining any buffered events. Emitting after
// Close is a silent no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.ch)
	b.mu.Unlock()

	<-b.done
}

// Dropped returns the number of events discarded due to a full backlog.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *Bus) dispatch() {
	defer close(b.done)

	for event := range b.ch {
		for _, sink := range b.sinks {
			sink.Publish(event)
		}
	}
}

// emit enqueues an event without blocking. Drops are counted and logged;
// they are acceptable by design because events carry no relay state.
func (b *Bus) emit(event Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	select {
	case b.ch <- event:
		b.mu.Unlock()
	default:
		b.dropped++
		dropped := b.dropped
		b.mu.Unlock()
		b.logger.Warn("event dropped: backlog full", "kind", event.Kind, "id", event.DeviceID, "dropped_total", dropped)
	}
}

// DeviceRegistered implements the relay's Events interface.
func (b *Bus) DeviceRegistered(id string, rotated bool) {
	b.emit(Event{
		Kind:      KindDeviceRegistered,
		DeviceID:  id,
		Timestamp: time.Now().UTC(),
		Detail:    map[string]any{"rotated": rotated},
	})
}

// StateReported implements the relay's Events interface. Only the field
// count travels on the event; the state payload itself stays in the
// directory (it may hold readings not meant for broadcast).
func (b *Bus) StateReported(id string, state directory.State) {
	b.emit(Event{
		Kind:      KindStateReported,
		DeviceID:  id,
		Timestamp: time.Now().UTC(),
		Detail:    map[string]any{"fields": len(state)},
	})
}

// CommandQueued implements the relay's Events interface.
func (b *Bus) CommandQueued(id string, command directory.Command) {
	b.emit(Event{
		Kind:      KindCommandQueued,
		DeviceID:  id,
		Timestamp: time.Now().UTC(),
		Detail:    map[string]any{"ts": command.Timestamp()},
	})
}

// CommandsPulled implements the relay's Events interface.
func (b *Bus) CommandsPulled(id string, count int) {
	b.emit(Event{
		Kind:      KindCommandsPulled,
		DeviceID:  id,
		Timestamp: time.Now().UTC(),
		Detail:    map[string]any{"count": count},
	})
}
