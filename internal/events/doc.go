// Package events fans directory mutation announcements out to optional
// sinks: the MQTT broker and the WebSocket stream.
//
// The bus decouples the relay's request path from every sink: emitting
// never blocks, a full backlog drops events, and no sink failure surfaces
// to a device or operator request. Events are observability signals only —
// command delivery to devices happens exclusively through pulls.
package events
