package auth

import "errors"

// Authentication failures, one sentinel per rejection reason.
//
// Handlers collapse all of these into a single "unauthorised" response so
// callers cannot probe which check failed; the distinct sentinels exist for
// server-side logging and tests.
var (
	// ErrMissingCredentials is returned when the device id or secret is empty.
	ErrMissingCredentials = errors.New("auth: missing credentials")

	// ErrUnknownDevice is returned when the device id is not registered.
	ErrUnknownDevice = errors.New("auth: unknown device")

	// ErrSecretMismatch is returned when the presented secret differs from
	// the stored one.
	ErrSecretMismatch = errors.New("auth: secret mismatch")

	// ErrBadAdminToken is returned when the operator token does not exactly
	// equal the process-wide admin credential.
	ErrBadAdminToken = errors.New("auth: bad admin token")
)

// IsAuthError reports whether err is any authentication failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrUnknownDevice) ||
		errors.Is(err, ErrSecretMismatch) ||
		errors.Is(err, ErrBadAdminToken)
}
