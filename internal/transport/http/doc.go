// Package http contains the HTTP handlers for the API surface.
//
// HealthHandler serves process health and version information.
// ArtifactHandler serves published summary documents verbatim and the run
// manifest. Failures are reported as RFC 7807 problem documents carrying
// the request's trace ID.
package http
