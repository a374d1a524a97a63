// Package services holds the server-side application services behind the
// HTTP handlers.
//
// HealthService reports process status, version details, and the health of
// the published site directory. ArtifactService reads published summary
// documents and the run manifest for the API endpoints; documents are
// served verbatim, the service never re-interprets a summary.
package services
