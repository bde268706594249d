// Package influxdb provides the relay's optional telemetry sink.
//
// When enabled, every device state report produces one batched,
// non-blocking point (queue depth, state field count) in the
// device_checkin measurement. The sink is pure observability: the relay's
// directory and queues never depend on it, and a missing or slow InfluxDB
// costs nothing but the telemetry itself.
//
// Disabled by default; see config.InfluxDBConfig.
package influxdb
