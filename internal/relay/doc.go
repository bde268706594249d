// Package relay implements the command-queue relay protocol over the device
// directory.
//
// The protocol is pull-based: operators enqueue commands (FIFO), devices
// drain their whole queue on their next check-in. There are no
// acknowledgements and no retries — once a drain returns, those envelopes
// are gone from the relay whether or not the device acted on them. Delivery
// is at-most-once from the relay's perspective and best-effort overall.
//
// The Service is the boundary the HTTP layer calls into; everything above it
// is presentation glue.
package relay
