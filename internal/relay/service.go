package relay

import (
	"fmt"
	"time"

	"github.com/switchyard-cloud/switchyard/internal/auth"
	"github.com/switchyard-cloud/switchyard/internal/directory"
)

// Logger defines the logging interface used by the Service.
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

// Events receives notifications after directory mutations. Implementations
// must be non-blocking; delivery is best-effort observability, never part of
// the relay contract (commands are delivered solely by device pull).
type Events interface {
	DeviceRegistered(id string, rotated bool)
	StateReported(id string, state directory.State)
	CommandQueued(id string, command directory.Command)
	CommandsPulled(id string, count int)
}

// Telemetry receives per-check-in measurements. Implementations must be
// non-blocking.
type Telemetry interface {
	RecordCheckIn(id string, queueLength int, stateFields int)
}

// Service exposes the relay's core operations: register, report-state,
// pull-commands, push-command, and the directory listing. The HTTP layer is
// a thin collaborator over these five calls.
//
// Every error is terminal for its operation — no retries, no partial
// success, nothing queued or escalated. All methods are safe for concurrent
// use; operations on a single device are linearizable with respect to each
// other.
type Service struct {
	directory *directory.Directory
	guard     *auth.Guard
	events    Events
	telemetry Telemetry
	logger    Logger
}

// New creates a relay service over the given directory and guard.
func New(dir *directory.Directory, guard *auth.Guard) *Service {
	return &Service{
		directory: dir,
		guard:     guard,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetEvents attaches an event receiver. Pass nil to detach.
func (s *Service) SetEvents(events Events) {
	s.events = events
}

// SetTelemetry attaches a telemetry sink. Pass nil to detach.
func (s *Service) SetTelemetry(telemetry Telemetry) {
	s.telemetry = telemetry
}

// Register creates a device record or rotates an existing device's secret.
// The only failure is directory.ErrValidation for an empty id or secret.
func (s *Service) Register(id, secret string) error {
	created, err := s.directory.Register(id, secret)
	if err != nil {
		return err
	}

	if s.events != nil {
		s.events.DeviceRegistered(id, !created)
	}
	return nil
}

// ReportState authenticates the device and replaces its entire state
// snapshot with the supplied payload (last-write-wins, no merge, no schema
// check). It returns the server's current time so the device can detect
// clock skew.
func (s *Service) ReportState(id, secret string, state directory.State) (time.Time, error) {
	d, err := s.guard.AuthenticateDevice(id, secret)
	if err != nil {
		s.logger.Debug("report-state rejected", "id", id, "reason", err)
		return time.Time{}, err
	}

	now := time.Now().UTC()
	d.SetState(state, now)

	s.logger.Debug("state reported", "id", id, "fields", len(state))
	if s.events != nil {
		s.events.StateReported(id, state)
	}
	if s.telemetry != nil {
		s.telemetry.RecordCheckIn(id, d.QueueLength(), len(state))
	}
	return now, nil
}

// PullCommands authenticates the device and atomically drains its entire
// queue in FIFO order. The queue is empty immediately after, regardless of
// how many envelopes existed; an empty queue yields an empty sequence, not
// an error. Once drained, commands are permanently gone from the relay —
// delivery is at-most-once with no acknowledgement and no retry.
func (s *Service) PullCommands(id, secret string) ([]directory.Command, time.Time, error) {
	d, err := s.guard.AuthenticateDevice(id, secret)
	if err != nil {
		s.logger.Debug("pull rejected", "id", id, "reason", err)
		return nil, time.Time{}, err
	}

	now := time.Now().UTC()
	commands := d.Drain(now)

	if len(commands) > 0 {
		s.logger.Info("commands pulled", "id", id, "count", len(commands))
	}
	if s.events != nil {
		s.events.CommandsPulled(id, len(commands))
	}
	return commands, now, nil
}

// PushCommand authorises the operator and appends the command to the tail of
// the device's queue, stamped with the server enqueue time.
//
// Failure modes:
//   - auth.ErrBadAdminToken: token does not match the admin credential
//   - directory.ErrDeviceNotFound: deviceID is not registered
//   - directory.ErrValidation: command is absent
//   - directory.ErrQueueFull: only when a queue bound is configured
func (s *Service) PushCommand(adminToken, deviceID string, command map[string]any) (directory.Command, error) {
	if err := s.guard.AuthorizeAdmin(adminToken); err != nil {
		s.logger.Warn("push rejected: bad admin token", "id", deviceID)
		return nil, err
	}

	if command == nil {
		return nil, fmt.Errorf("%w: command payload is required", directory.ErrValidation)
	}

	d, err := s.directory.Lookup(deviceID)
	if err != nil {
		return nil, err
	}

	envelope, err := d.Enqueue(command, time.Now().UTC(), s.directory.MaxQueueLength())
	if err != nil {
		s.logger.Warn("push rejected", "id", deviceID, "reason", err)
		return nil, err
	}

	s.logger.Info("command queued", "id", deviceID, "queue_length", d.QueueLength())
	if s.events != nil {
		s.events.CommandQueued(deviceID, envelope)
	}
	return envelope, nil
}

// ListDevices returns the directory snapshot: {id, lastSeen, state,
// queueLength} per device in registration order. Read-only, no side effects.
func (s *Service) ListDevices() []directory.Summary {
	return s.directory.Snapshot()
}

// AuthorizeAdmin exposes the admin check for collaborators that guard
// non-core surfaces (the optional directory listing guard, the event
// stream).
func (s *Service) AuthorizeAdmin(token string) error {
	return s.guard.AuthorizeAdmin(token)
}

// DeviceCount returns the number of registered devices.
func (s *Service) DeviceCount() int {
	return s.directory.Count()
}
