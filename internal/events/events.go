package events

import "time"

// Event kinds emitted by the relay.
const (
	KindDeviceRegistered = "device_registered"
	KindStateReported    = "state_reported"
	KindCommandQueued    = "command_queued"
	KindCommandsPulled   = "commands_pulled"
)

// Event is one directory mutation announcement. Events are observability
// signals only: losing one never affects the directory or any queue, and
// command delivery happens solely through device pulls.
type Event struct {
	Kind      string         `json:"kind"`
	DeviceID  string         `json:"device_id"`
	Timestamp time.Time      `json:"ts"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// Sink receives events from the bus. Publish runs on the bus's dispatch
// goroutine, so a sink that can block (network publishers) should fail fast
// rather than stall the stream.
type Sink interface {
	Publish(event Event)
}
