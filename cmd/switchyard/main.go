// Switchyard - Cloud relay for networked relay switches
//
// This is the main entry point for the Switchyard relay. The relay sits
// between low-power relay-switch devices and their operators: devices
// register, report state, and poll for commands; operators push commands
// and inspect the directory. Everything lives in memory for the lifetime
// of the process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/switchyard-cloud/switchyard/internal/api"
	"github.com/switchyard-cloud/switchyard/internal/auth"
	"github.com/switchyard-cloud/switchyard/internal/directory"
	"github.com/switchyard-cloud/switchyard/internal/events"
	"github.com/switchyard-cloud/switchyard/internal/infrastructure/config"
	"github.com/switchyard-cloud/switchyard/internal/infrastructure/influxdb"
	"github.com/switchyard-cloud/switchyard/internal/infrastructure/logging"
	"github.com/switchyard-cloud/switchyard/internal/infrastructure/mqtt"
	"github.com/switchyard-cloud/switchyard/internal/relay"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Switchyard",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. A missing file is fine: the relay boots from
	// built-in defaults plus SWITCHYARD_* environment variables.
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	if cfg.UsesDefaultAdminToken() {
		log.Warn("running with the built-in admin token; set SWITCHYARD_ADMIN_TOKEN before exposing this relay")
	}

	// Build the core: directory, guard, relay service
	dir := directory.New(cfg.Directory.MaxQueueLength)
	dir.SetLogger(log)
	guard := auth.NewGuard(dir, cfg.Admin.Token)
	svc := relay.New(dir, guard)
	svc.SetLogger(log)
	log.Info("directory initialised", "max_queue_length", cfg.Directory.MaxQueueLength)

	// Connect to MQTT broker (optional event announcer)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional telemetry sink)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		svc.SetTelemetry(influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the API server (HTTP + WebSocket hub)
	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		Relay:   svc,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"open_directory", cfg.API.OpenDirectory,
	)

	// Fan directory events out to the WebSocket hub and, when connected,
	// the MQTT announcer.
	sinks := []events.Sink{apiServer.Hub()}
	if mqttClient != nil {
		mqttSink := events.NewMQTTSink(mqttClient)
		mqttSink.SetLogger(log)
		sinks = append(sinks, mqttSink)
	}
	bus := events.New(sinks...)
	bus.SetLogger(log)
	defer bus.Close()
	svc.SetEvents(bus)

	// Verify all connections are healthy
	if err := healthCheck(ctx, apiServer, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Event bus (drains pending announcements)
	// 2. API server
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)

	log.Info("Switchyard stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SWITCHYARD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SWITCHYARD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - apiServer: API server to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, apiServer *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
