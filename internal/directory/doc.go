// Package directory implements the in-memory device directory at the heart
// of the Switchyard relay.
//
// A directory maps each device id to its shared secret, liveness timestamp,
// last-reported state snapshot and FIFO queue of pending command envelopes.
// Devices never accept inbound connections; they push state and drain their
// queue by calling out to the relay, so the directory is the only shared
// state in the system.
//
// # Invariants
//
//   - Device ids are unique. Re-registering an existing id rotates the
//     secret and refreshes lastSeen; it never creates a duplicate and never
//     touches state or queue.
//   - Queues are strictly FIFO. Drain removes and returns the entire queue
//     atomically with respect to concurrent enqueues and other drains of the
//     same device: no partial drain, no re-delivery.
//   - Secret comparison is exact-match (constant-time), with no hashing and
//     no expiry.
//
// # Lifetime
//
// Records exist only in process memory for the life of the process. There is
// no deletion and no persistence; this is the documented contract, not an
// omission.
package directory
