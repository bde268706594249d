package directory

import "errors"

// Domain errors for the directory package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, directory.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device id is not registered.
	ErrDeviceNotFound = errors.New("directory: device not found")

	// ErrValidation is returned when required input is missing or malformed.
	// Validation failures are always surfaced to the caller and never
	// retried internally.
	ErrValidation = errors.New("directory: invalid input")

	// ErrQueueFull is returned by Enqueue when a configured queue bound is
	// reached. It can only occur when MaxQueueLength is set; the default
	// contract is an unbounded queue.
	ErrQueueFull = errors.New("directory: command queue full")
)
