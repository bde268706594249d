package events

import (
	"encoding/json"

	"github.com/switchyard-cloud/switchyard/internal/infrastructure/mqtt"
)

// MQTTSink publishes bus events to the MQTT broker, one topic per event
// kind and device: switchyard/event/{kind}/{device_id}.
//
// Publish failures are logged and swallowed; the broker being down never
// affects the relay.
type MQTTSink struct {
	client *mqtt.Client
	topics mqtt.Topics
	logger Logger
}

// NewMQTTSink creates a sink publishing through the given client.
func NewMQTTSink(client *mqtt.Client) *MQTTSink {
	return &MQTTSink{
		client: client,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the sink.
func (s *MQTTSink) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Publish implements Sink.
func (s *MQTTSink) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("event marshal failed", "kind", event.Kind, "error", err)
		return
	}

	topic := s.topics.Event(event.Kind, event.DeviceID)
	if err := s.client.PublishEvent(topic, payload); err != nil {
		s.logger.Debug("event publish failed", "topic", topic, "error", err)
	}
}
