package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/switchyard-cloud/switchyard/internal/directory"
)

// Guard performs the two credential checks of the relay. The checks are
// independent and never unified: device auth proves a device's identity
// against its own rotatable secret, admin auth proves an operator holds the
// single process-wide token.
//
// The admin token is read-only after construction; Guard is safe for
// concurrent use.
type Guard struct {
	directory  *directory.Directory
	adminToken string
}

// NewGuard creates a Guard over the given directory.
//
// adminToken is the process-wide admin credential, configured once at
// startup. There is no per-device scoping: the token grants control over
// every device.
func NewGuard(dir *directory.Directory, adminToken string) *Guard {
	return &Guard{
		directory:  dir,
		adminToken: adminToken,
	}
}

// AuthenticateDevice validates a device's (id, secret) pair.
//
// On success it returns the live directory record; callers are expected to
// refresh lastSeen immediately (directly or through the state/drain
// operations, which refresh it themselves).
//
// Failure modes, in check order:
//   - ErrMissingCredentials: id or secret is empty
//   - ErrUnknownDevice: id is not registered
//   - ErrSecretMismatch: stored secret differs (exact, constant-time match)
func (g *Guard) AuthenticateDevice(id, secret string) (*directory.Device, error) {
	if id == "" || secret == "" {
		return nil, ErrMissingCredentials
	}

	d, err := g.directory.Lookup(id)
	if err != nil {
		if errors.Is(err, directory.ErrDeviceNotFound) {
			return nil, ErrUnknownDevice
		}
		return nil, err
	}

	if !d.SecretEquals(secret) {
		return nil, ErrSecretMismatch
	}

	return d, nil
}

// AuthorizeAdmin validates the operator token against the process-wide admin
// credential. The comparison is exact-match and constant-time.
func (g *Guard) AuthorizeAdmin(token string) error {
	if subtle.ConstantTimeCompare([]byte(token), []byte(g.adminToken)) != 1 {
		return ErrBadAdminToken
	}
	return nil
}
