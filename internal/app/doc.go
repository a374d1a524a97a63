// Package app assembles the HTTP serving side of the pipeline: it wires
// configuration, logging, optional telemetry, the services, and the chi
// router into a runnable application.
//
// The router exposes the API endpoints (/api/health, /api/version,
// /api/summary, /api/manifest), the Prometheus /metrics endpoint when
// telemetry is enabled, and serves the published site directory at the
// root. Run blocks until the context is cancelled, then shuts the server
// down within the configured timeout.
package app
