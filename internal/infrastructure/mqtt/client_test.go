package mqtt

import (
	"errors"
	"strings"
	"testing"

	"github.com/switchyard-cloud/switchyard/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "switchyard-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "event topic",
			got:  topics.Event("command_queued", "r1"),
			want: "switchyard/event/command_queued/r1",
		},
		{
			name: "state reported event",
			got:  topics.Event("state_reported", "pump-house-02"),
			want: "switchyard/event/state_reported/pump-house-02",
		},
		{
			name: "system status",
			got:  topics.SystemStatus(),
			want: "switchyard/system/status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "relay"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("Servers = %v, want exactly one broker", opts.Servers)
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
	}
	if opts.ClientID != "switchyard-test" {
		t.Errorf("ClientID = %q, want switchyard-test", opts.ClientID)
	}
	if opts.Username != "relay" {
		t.Errorf("Username = %q, want relay", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("broker scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig = nil, want configured minimum version")
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("switchyard-test")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload = %s, want status online", online)
	}
	if !strings.Contains(online, "switchyard-test") {
		t.Errorf("online payload = %s, want client id", online)
	}

	offline := buildOfflinePayload("switchyard-test")
	if !strings.Contains(offline, `"status":"offline"`) {
		t.Errorf("offline payload = %s, want status offline", offline)
	}
	if !strings.Contains(offline, "graceful_shutdown") {
		t.Errorf("offline payload = %s, want graceful reason", offline)
	}
}

func TestPublish_Validation(t *testing.T) {
	client := &Client{cfg: testConfig()}

	if err := client.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Publish("switchyard/event/x/y", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad QoS error = %v, want ErrInvalidQoS", err)
	}
	if err := client.Publish("switchyard/event/x/y", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected publish error = %v, want ErrNotConnected", err)
	}

	oversized := make([]byte, maxPayloadSize+1)
	if err := client.Publish("switchyard/event/x/y", oversized, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload error = %v, want ErrPublishFailed", err)
	}
}

func TestClose_NeverConnected(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}
