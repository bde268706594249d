package directory

import (
	"crypto/subtle"
	"time"
)

// ID returns the device's stable external identifier.
func (d *Device) ID() string {
	return d.id
}

// SecretEquals reports whether the presented secret matches the stored one.
// The comparison is exact-match (no hashing, no expiry) and constant-time.
func (d *Device) SecretEquals(secret string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return subtle.ConstantTimeCompare([]byte(d.secret), []byte(secret)) == 1
}

// Touch refreshes the device's liveness timestamp. Called after every
// successful device-authenticated operation.
func (d *Device) Touch(now time.Time) {
	d.mu.Lock()
	d.lastSeen = now
	d.mu.Unlock()
}

// rotate overwrites the shared secret and refreshes lastSeen, leaving state
// and queue untouched. This is how secret rotation works: re-registering an
// existing id.
func (d *Device) rotate(secret string, now time.Time) {
	d.mu.Lock()
	d.secret = secret
	d.lastSeen = now
	d.mu.Unlock()
}

// SetState replaces the entire state snapshot with the supplied payload.
// Last write wins: fields omitted in this call are dropped, nothing is
// merged. The payload is deep-copied, and lastSeen is refreshed.
func (d *Device) SetState(state State, now time.Time) {
	copied := State(copyMap(state))

	d.mu.Lock()
	d.state = copied
	d.lastSeen = now
	d.mu.Unlock()
}

// Enqueue appends a command envelope to the tail of the queue, stamping the
// server enqueue time onto the payload's "ts" field. The payload is
// deep-copied before stamping so the caller's map is never mutated.
//
// maxLen bounds the queue; 0 means unbounded. A full queue returns
// ErrQueueFull and leaves the queue unchanged.
func (d *Device) Enqueue(command map[string]any, now time.Time, maxLen int) (Command, error) {
	envelope := Command(copyMap(command))
	envelope[TimestampField] = now

	d.mu.Lock()
	defer d.mu.Unlock()

	if maxLen > 0 && len(d.queue) >= maxLen {
		return nil, ErrQueueFull
	}
	d.queue = append(d.queue, envelope)
	return envelope, nil
}

// Drain atomically removes and returns the entire queue contents in FIFO
// order, refreshing lastSeen. A concurrent Enqueue lands either wholly in
// this drain or wholly in the next one — never both, never neither.
//
// An empty queue drains to an empty (non-nil) slice, not an error.
func (d *Device) Drain(now time.Time) []Command {
	d.mu.Lock()
	drained := d.queue
	d.queue = nil
	d.lastSeen = now
	d.mu.Unlock()

	if drained == nil {
		return []Command{}
	}
	return drained
}

// QueueLength returns the current number of pending commands.
func (d *Device) QueueLength() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// LastSeen returns the device's liveness timestamp.
func (d *Device) LastSeen() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeen
}

// Summary produces a read-only snapshot of the record. The state map is
// deep-copied; callers can safely retain it.
func (d *Device) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Summary{
		ID:          d.id,
		LastSeen:    d.lastSeen,
		State:       State(copyMap(d.state)),
		QueueLength: len(d.queue),
	}
}
