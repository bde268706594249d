package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/switchyard-cloud/switchyard/internal/directory"
)

// registerRequest is the body for POST /devices/register.
type registerRequest struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// reportStateRequest is the body for POST /devices/{id}/state.
type reportStateRequest struct {
	Secret string          `json:"secret"`
	State  directory.State `json:"state"`
}

// pullRequest is the body for POST /devices/{id}/commands/pull.
type pullRequest struct {
	Secret string `json:"secret"`
}

// handleRegister creates a device record or rotates an existing secret.
//
// Registration is open: the relay trusts the first claim on an id, and a
// later registration with the same id overwrites the secret in place.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.relay.Register(req.ID, req.Secret); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "registered", "id": req.ID})
}

// handleReportState authenticates the device and replaces its state snapshot.
func (s *Server) handleReportState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reportStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.State == nil {
		writeBadRequest(w, "state object is required")
		return
	}

	serverTime, err := s.relay.ReportState(id, req.Secret, req.State)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"server_time": serverTime.Format(time.RFC3339Nano),
	})
}

// handlePullCommands authenticates the device and drains its queue.
// An empty queue yields an empty commands array, not an error.
func (s *Server) handlePullCommands(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req pullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	commands, serverTime, err := s.relay.PullCommands(id, req.Secret)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"commands":    commands,
		"server_time": serverTime.Format(time.RFC3339Nano),
	})
}

// handlePushCommand authorises the operator and queues a command for the
// device. The body is the command object itself; the relay stamps it with
// the enqueue time before appending.
func (s *Server) handlePushCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := bearerToken(r)

	var command map[string]any
	if err := json.NewDecoder(r.Body).Decode(&command); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	envelope, err := s.relay.PushCommand(token, id, command)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "queued",
		"command": envelope,
	})
}

// handleListDevices returns the directory snapshot in registration order.
// Open by default; requires the admin token when api.open_directory is false.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.OpenDirectory {
		if err := s.relay.AuthorizeAdmin(bearerToken(r)); err != nil {
			writeUnauthorized(w, "unauthorised")
			return
		}
	}

	devices := s.relay.ListDevices()
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// bearerToken extracts the credential from an "Authorization: Bearer ..."
// header. Returns the empty string when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
