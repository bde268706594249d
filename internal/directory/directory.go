package directory

import (
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Directory.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Directory is the in-memory device table: id → record.
//
// It is an explicit object owned by the service instance, constructed at
// startup and handed to request handlers by reference — never a package
// global — so each test can build its own isolated instance.
//
// Records live for the lifetime of the process. There is no deletion
// operation and no persistence; a restart loses the entire directory and
// every queued command.
//
// All public methods are thread-safe. The table lock guards membership and
// iteration order only; per-record mutation is serialised by each Device's
// own mutex, so traffic for different devices does not contend.
type Directory struct {
	mu      sync.RWMutex
	devices map[string]*Device
	order   []string // insertion order, drives Snapshot iteration

	maxQueueLength int
	logger         Logger
}

// New creates an empty Directory.
//
// maxQueueLength bounds each device's pending command queue; 0 means
// unbounded, which is the documented relay contract.
func New(maxQueueLength int) *Directory {
	return &Directory{
		devices:        make(map[string]*Device),
		maxQueueLength: maxQueueLength,
		logger:         noopLogger{},
	}
}

// SetLogger sets the logger for the directory.
func (dir *Directory) SetLogger(logger Logger) {
	dir.logger = logger
}

// MaxQueueLength returns the configured per-device queue bound (0 = unbounded).
func (dir *Directory) MaxQueueLength() int {
	return dir.maxQueueLength
}

// Register creates a device record, or rotates the secret of an existing one.
//
// For an unknown id a record is created with empty state, an empty queue and
// lastSeen set to now. For a known id the secret is overwritten and lastSeen
// refreshed; state and queue are left untouched. Registration is the only way
// a record comes into existence — report-state, pull and push never create
// one implicitly.
//
// Returns:
//   - created: true if a new record was created, false on secret rotation
//   - error: ErrValidation if id or secret is empty; no other failures
func (dir *Directory) Register(id, secret string) (bool, error) {
	if id == "" || secret == "" {
		return false, fmt.Errorf("%w: id and secret are required", ErrValidation)
	}

	now := time.Now().UTC()

	dir.mu.Lock()
	existing, ok := dir.devices[id]
	if !ok {
		dir.devices[id] = &Device{
			id:       id,
			secret:   secret,
			lastSeen: now,
		}
		dir.order = append(dir.order, id)
	}
	dir.mu.Unlock()

	if ok {
		existing.rotate(secret, now)
		dir.logger.Info("device secret rotated", "id", id)
		return false, nil
	}

	dir.logger.Info("device registered", "id", id)
	return true, nil
}

// Lookup returns the record for id, or ErrDeviceNotFound.
// The returned Device is the live record; mutations go through its methods.
func (dir *Directory) Lookup(id string) (*Device, error) {
	dir.mu.RLock()
	d, ok := dir.devices[id]
	dir.mu.RUnlock()

	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// Snapshot produces a point-in-time listing of every record in registration
// order: {id, lastSeen, state, queueLength}. Read-only, no side effects.
//
// The snapshot is not a single atomic view across devices — each record is
// captured under its own lock — which matches the listing's observability
// purpose.
func (dir *Directory) Snapshot() []Summary {
	dir.mu.RLock()
	ids := make([]string, len(dir.order))
	copy(ids, dir.order)
	devices := make([]*Device, 0, len(ids))
	for _, id := range ids {
		devices = append(devices, dir.devices[id])
	}
	dir.mu.RUnlock()

	out := make([]Summary, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Summary())
	}
	return out
}

// Count returns the number of registered devices.
func (dir *Directory) Count() int {
	dir.mu.RLock()
	defer dir.mu.RUnlock()
	return len(dir.devices)
}
