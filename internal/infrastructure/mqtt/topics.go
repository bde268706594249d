package mqtt

import "fmt"

// Topic prefixes for relay announcements.
//
// All event topics use the scheme: switchyard/event/{kind}/{device_id}
// System topics live under switchyard/system.
const (
	// TopicPrefix is the base for all relay topics.
	TopicPrefix = "switchyard"

	// TopicPrefixEvent is the base for directory event topics.
	TopicPrefixEvent = "switchyard/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "switchyard/system"
)

// Topics provides builders for relay MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.Event("command_queued", "r1")
//	// Returns: "switchyard/event/command_queued/r1"
type Topics struct{}

// Event returns the topic for a directory event concerning one device.
//
// Example: switchyard/event/state_reported/r1
func (Topics) Event(kind, deviceID string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixEvent, kind, deviceID)
}

// SystemStatus returns the retained relay online/offline status topic.
//
// Example: switchyard/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
