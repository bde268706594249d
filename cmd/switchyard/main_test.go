package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("SWITCHYARD_CONFIG")
	defer os.Setenv("SWITCHYARD_CONFIG", originalEnv)

	os.Unsetenv("SWITCHYARD_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("SWITCHYARD_CONFIG")
	defer os.Setenv("SWITCHYARD_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("SWITCHYARD_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_InvalidConfig verifies run fails when the config file is invalid.
func TestRun_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	// Port out of range fails validation.
	configContent := `
api:
  host: "127.0.0.1"
  port: 99999

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("SWITCHYARD_CONFIG")
	defer os.Setenv("SWITCHYARD_CONFIG", originalEnv)
	os.Setenv("SWITCHYARD_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with an out-of-range port")
	}
}

// TestRun_StartupAndShutdown tests full startup with external services
// disabled, then clean shutdown on context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
api:
  host: "127.0.0.1"
  port: 18089
  timeouts:
    read: 5
    write: 5
    idle: 30
  open_directory: true

admin:
  token: "test-admin-token"

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("SWITCHYARD_CONFIG")
	defer os.Setenv("SWITCHYARD_CONFIG", originalEnv)
	os.Setenv("SWITCHYARD_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v, want clean shutdown", err)
	}
}

// TestRun_BootsWithoutConfigFile verifies the relay starts from defaults
// plus environment variables when no config file exists.
func TestRun_BootsWithoutConfigFile(t *testing.T) {
	originalConfig := os.Getenv("SWITCHYARD_CONFIG")
	originalPort := os.Getenv("SWITCHYARD_API_PORT")
	defer func() {
		os.Setenv("SWITCHYARD_CONFIG", originalConfig)
		os.Setenv("SWITCHYARD_API_PORT", originalPort)
	}()

	os.Setenv("SWITCHYARD_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	os.Setenv("SWITCHYARD_API_PORT", "18090")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v, want env-only boot", err)
	}
}
