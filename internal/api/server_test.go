package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/switchyard-cloud/switchyard/internal/auth"
	"github.com/switchyard-cloud/switchyard/internal/directory"
	"github.com/switchyard-cloud/switchyard/internal/events"
	"github.com/switchyard-cloud/switchyard/internal/infrastructure/config"
	"github.com/switchyard-cloud/switchyard/internal/infrastructure/logging"
	"github.com/switchyard-cloud/switchyard/internal/relay"
)

const testAdminToken = "test-admin-token"

// newTestServer builds a server over a fresh directory.
func newTestServer(t *testing.T, cfg config.APIConfig, maxQueueLength int) (*Server, http.Handler) {
	t.Helper()

	dir := directory.New(maxQueueLength)
	guard := auth.NewGuard(dir, testAdminToken)
	svc := relay.New(dir, guard)

	s, err := New(Deps{
		Config:  cfg,
		Logger:  logging.Default(),
		Relay:   svc,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.hub = NewHub(s.logger)

	return s, s.buildRouter()
}

func openConfig() config.APIConfig {
	return config.APIConfig{OpenDirectory: true}
}

// doJSON performs a request with a JSON body and decodes the JSON response.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, decoded
}

func adminHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testAdminToken}
}

func TestRoundTrip(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)

	// Register
	status, _ := doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "r1", "secret": "s1"}, nil)
	if status != http.StatusOK {
		t.Fatalf("register status = %d, want 200", status)
	}

	// Report state
	status, body := doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/state",
		map[string]any{"secret": "s1", "state": map[string]any{"on": true, "load_w": 42}}, nil)
	if status != http.StatusOK {
		t.Fatalf("report state status = %d, want 200", status)
	}
	if _, ok := body["server_time"].(string); !ok {
		t.Errorf("report state response missing server_time: %v", body)
	}

	// Push a command
	status, body = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands",
		map[string]any{"action": "off"}, adminHeader())
	if status != http.StatusAccepted {
		t.Fatalf("push status = %d, want 202", status)
	}
	cmd, ok := body["command"].(map[string]any)
	if !ok {
		t.Fatalf("push response missing command envelope: %v", body)
	}
	if cmd["action"] != "off" {
		t.Errorf("envelope action = %v, want off", cmd["action"])
	}
	if _, ok := cmd["ts"].(string); !ok {
		t.Errorf("envelope missing ts: %v", cmd)
	}

	// Pull drains the queue
	status, body = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands/pull",
		map[string]any{"secret": "s1"}, nil)
	if status != http.StatusOK {
		t.Fatalf("pull status = %d, want 200", status)
	}
	commands, ok := body["commands"].([]any)
	if !ok || len(commands) != 1 {
		t.Fatalf("pull returned %v, want one command", body["commands"])
	}

	// Second pull is empty, not an error
	status, body = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands/pull",
		map[string]any{"secret": "s1"}, nil)
	if status != http.StatusOK {
		t.Fatalf("second pull status = %d, want 200", status)
	}
	if commands, ok := body["commands"].([]any); !ok || len(commands) != 0 {
		t.Errorf("second pull returned %v, want empty array", body["commands"])
	}

	// Listing shows the device with its state and empty queue
	status, body = doJSON(t, handler, http.MethodGet, "/api/v1/devices", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d, want 200", status)
	}
	devices, ok := body["devices"].([]any)
	if !ok || len(devices) != 1 {
		t.Fatalf("list returned %v, want one device", body["devices"])
	}
	entry := devices[0].(map[string]any)
	if entry["id"] != "r1" {
		t.Errorf("listed id = %v, want r1", entry["id"])
	}
	if entry["queue_length"] != float64(0) {
		t.Errorf("listed queue_length = %v, want 0", entry["queue_length"])
	}
	state, ok := entry["state"].(map[string]any)
	if !ok || state["on"] != true {
		t.Errorf("listed state = %v, want on=true", entry["state"])
	}
}

func TestDeviceAuthFailures(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)

	doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "r1", "secret": "s1"}, nil)

	tests := []struct {
		name string
		path string
		body map[string]any
	}{
		{"wrong secret on state", "/api/v1/devices/r1/state", map[string]any{"secret": "bad", "state": map[string]any{}}},
		{"missing secret on state", "/api/v1/devices/r1/state", map[string]any{"state": map[string]any{}}},
		{"unknown device on pull", "/api/v1/devices/ghost/commands/pull", map[string]any{"secret": "s1"}},
		{"wrong secret on pull", "/api/v1/devices/r1/commands/pull", map[string]any{"secret": "bad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, handler, http.MethodPost, tt.path, tt.body, nil)
			if status != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", status)
			}
			// All device-auth failures collapse into one body.
			if body["code"] != ErrCodeUnauthorized || body["message"] != "unauthorised" {
				t.Errorf("error body = %v, want collapsed unauthorised", body)
			}
		})
	}
}

func TestPushFailures(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 1)

	doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "r1", "secret": "s1"}, nil)

	// Bad admin token
	status, _ := doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands",
		map[string]any{"action": "off"}, map[string]string{"Authorization": "Bearer wrong"})
	if status != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", status)
	}

	// Missing Authorization header entirely
	status, _ = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands",
		map[string]any{"action": "off"}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", status)
	}

	// Unknown device
	status, _ = doJSON(t, handler, http.MethodPost, "/api/v1/devices/ghost/commands",
		map[string]any{"action": "off"}, adminHeader())
	if status != http.StatusNotFound {
		t.Errorf("unknown device status = %d, want 404", status)
	}

	// Absent command payload
	status, _ = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands",
		nil, adminHeader())
	if status != http.StatusBadRequest {
		t.Errorf("null command status = %d, want 400", status)
	}

	// Queue bound: capacity 1, second push rejected
	status, _ = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands",
		map[string]any{"action": "on"}, adminHeader())
	if status != http.StatusAccepted {
		t.Fatalf("first push status = %d, want 202", status)
	}
	status, body := doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands",
		map[string]any{"action": "off"}, adminHeader())
	if status != http.StatusConflict {
		t.Errorf("full queue status = %d, want 409", status)
	}
	if body["code"] != ErrCodeConflict {
		t.Errorf("full queue code = %v, want conflict", body["code"])
	}
}

func TestRegisterValidation(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)

	status, _ := doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "", "secret": "s1"}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("empty id status = %d, want 400", status)
	}

	status, _ = doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "r1", "secret": ""}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("empty secret status = %d, want 400", status)
	}
}

func TestRegisterRotation(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)

	doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "r1", "secret": "old"}, nil)
	doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/state",
		map[string]any{"secret": "old", "state": map[string]any{"on": true}}, nil)

	// Re-register rotates the secret in place
	status, _ := doJSON(t, handler, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"id": "r1", "secret": "new"}, nil)
	if status != http.StatusOK {
		t.Fatalf("rotation status = %d, want 200", status)
	}

	// Old secret is dead, new one works, state survived
	status, _ = doJSON(t, handler, http.MethodPost, "/api/v1/devices/r1/commands/pull",
		map[string]any{"secret": "old"}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("old secret status = %d, want 401", status)
	}

	status, body := doJSON(t, handler, http.MethodGet, "/api/v1/devices", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	entry := body["devices"].([]any)[0].(map[string]any)
	if state, ok := entry["state"].(map[string]any); !ok || state["on"] != true {
		t.Errorf("state after rotation = %v, want preserved", entry["state"])
	}
}

func TestListDevices_AdminGuarded(t *testing.T) {
	cfg := config.APIConfig{OpenDirectory: false}
	_, handler := newTestServer(t, cfg, 0)

	status, _ := doJSON(t, handler, http.MethodGet, "/api/v1/devices", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", status)
	}

	status, _ = doJSON(t, handler, http.MethodGet, "/api/v1/devices", nil, adminHeader())
	if status != http.StatusOK {
		t.Errorf("admin list status = %d, want 200", status)
	}
}

func TestHealth(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)

	status, body := doJSON(t, handler, http.MethodGet, "/api/v1/health", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("health status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("health body = %v, want status ok", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing generated X-Request-ID")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "caller-id" {
		t.Errorf("X-Request-ID = %q, want caller-supplied value echoed", got)
	}
}

func TestWebSocket_RequiresAdminToken(t *testing.T) {
	_, handler := newTestServer(t, openConfig(), 0)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"

	//nolint:bodyclose // Dial fails before a body exists
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial without token succeeded, want handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake status = %v, want 401", resp)
	}
}

func TestWebSocket_StreamsEvents(t *testing.T) {
	server, handler := newTestServer(t, openConfig(), 0)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws?token=" + testAdminToken
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v (resp %v)", err, resp)
	}
	defer resp.Body.Close()
	defer conn.Close()

	// Wait for the hub to register the client before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for server.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	server.hub.Publish(events.Event{
		Kind:      events.KindCommandQueued,
		DeviceID:  "r1",
		Timestamp: time.Now().UTC(),
	})

	//nolint:errcheck // Deadline best-effort; read error below is the signal
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}
	if msg.Type != WSTypeEvent || msg.EventType != events.KindCommandQueued {
		t.Errorf("received %+v, want command_queued event", msg)
	}
}
