// Package config provides configuration loading for the Switchyard relay.
//
// Configuration is layered: hardcoded defaults, then an optional YAML file,
// then SWITCHYARD_* environment variables. The relay is designed to boot with
// no file at all — the two values a deployment genuinely needs are
// SWITCHYARD_ADMIN_TOKEN and SWITCHYARD_API_PORT.
//
// # Example
//
//	api:
//	  host: "0.0.0.0"
//	  port: 8080
//	  open_directory: true   # historical open listing; set false to guard it
//	admin:
//	  token: ""              # leave empty, set SWITCHYARD_ADMIN_TOKEN instead
//	directory:
//	  max_queue_length: 0    # 0 = unbounded (documented contract)
//	mqtt:
//	  enabled: false
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Security
//
// The built-in admin token (DefaultAdminToken) is intentionally weak so the
// relay can run out of the box. Startup logs a prominent warning while it is
// in effect; never deploy with it.
package config
