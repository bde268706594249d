// Package auth implements the Switchyard authentication guard.
//
// Two independent checks cover the entire surface:
//
//   - Device auth: (id, secret) exact match against the directory record.
//     Secrets are rotatable via re-registration and carry no expiry.
//   - Admin auth: one static process-wide token for every operator-facing
//     operation. Deliberately simple — there is no per-device authorization
//     model in this system.
//
// Both comparisons are constant-time. The guard never creates, caches or
// mutates records; it only reads the directory.
package auth
