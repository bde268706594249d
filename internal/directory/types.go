package directory

import (
	"sync"
	"time"
)

// State is a device's last-reported state snapshot. Its shape is entirely
// device-defined; the relay stores and returns it without validation.
type State map[string]any

// Command is a queued command envelope: the operator-supplied payload plus
// the server-assigned "ts" enqueue timestamp. The relay does not interpret
// command fields — keys like "type", "ch" and "state" are a convention
// between operators and device firmware, not an enforced schema.
type Command map[string]any

// TimestampField is the envelope key carrying the server enqueue time.
const TimestampField = "ts"

// Timestamp returns the server enqueue time stamped onto the envelope,
// or the zero time if the envelope was not produced by Enqueue.
func (c Command) Timestamp() time.Time {
	ts, _ := c[TimestampField].(time.Time)
	return ts
}

// Device is a single directory record: a relay-switch unit identified by a
// stable string id, authenticated by a shared secret, with a last-reported
// state snapshot and a FIFO queue of pending commands.
//
// Each record carries its own mutex so operations on different devices never
// contend; the Directory's table lock is only taken for membership changes
// and lookups.
type Device struct {
	id string

	mu       sync.Mutex
	secret   string
	lastSeen time.Time
	state    State
	queue    []Command
}

// Summary is a read-only snapshot of one directory record, as produced by
// Directory.Snapshot. Secrets are never included.
type Summary struct {
	ID          string    `json:"id"`
	LastSeen    time.Time `json:"last_seen"`
	State       State     `json:"state,omitempty"`
	QueueLength int       `json:"queue_length"`
}

// copyValue deep-copies JSON-shaped values (maps, slices, scalars) so stored
// state and queued commands are never aliased by caller-held references.
func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return val
	}
}

// copyMap deep-copies a string-keyed map, preserving nil.
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}
