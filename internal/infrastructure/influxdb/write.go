package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordCheckIn writes one point per device state report: the queue depth at
// check-in time and the number of fields in the reported snapshot.
//
// This satisfies the relay's Telemetry interface. The write is non-blocking;
// data is batched and sent asynchronously, and a disconnected client drops
// the point silently (telemetry is best-effort observability).
//
// Parameters:
//   - id: Device identifier (e.g., "pump-house-02")
//   - queueLength: Pending commands at check-in time
//   - stateFields: Top-level field count of the reported state
func (c *Client) RecordCheckIn(id string, queueLength int, stateFields int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_checkin",
		map[string]string{
			"device_id": id,
		},
		map[string]interface{}{
			"queue_length": queueLength,
			"state_fields": stateFields,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit RecordCheckIn.
//
// Example:
//
//	client.WritePoint("relay_stats",
//	    map[string]string{"host": "relay-01"},
//	    map[string]interface{}{"devices": 42})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
