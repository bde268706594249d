// Package mqtt provides the broker client behind the relay's optional event
// announcer.
//
// The client is publish-only by design. Directory events (registrations,
// state reports, queued and pulled commands) and the relay's own retained
// online/offline status are announced for dashboards and fleet tooling;
// nothing is ever consumed from the broker. In particular, command delivery
// to devices does not touch MQTT — devices receive commands exclusively by
// draining their queue over the HTTP pull protocol.
//
// # Topics
//
//	switchyard/event/{kind}/{device_id}   directory events (not retained)
//	switchyard/system/status              relay status (retained, with LWT)
//
// # Lifecycle
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	defer client.Close()
//
// The client auto-reconnects with exponential backoff; publishes while
// disconnected fail fast with ErrNotConnected and are dropped by the
// announcer (events are best-effort observability, never the contract).
package mqtt
