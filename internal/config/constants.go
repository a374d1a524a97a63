package config

// Application constants for the TabSum pipeline
const (
	// Application Info
	AppName    = "TabSum"
	AppVersion = "0.3.0"

	// EnvPrefix namespaces all environment variables (TABSUM_*)
	EnvPrefix = "TABSUM"

	// File defaults
	DefaultSourceFile   = "data.csv"
	DefaultArtifactName = "summary.json"
	ManifestFileName    = "manifest.json"

	// Directory defaults (relative to the base directory)
	DefaultDataDir      = "data"
	DefaultArtifactsDir = "artifacts"
	DefaultSiteDir      = "site"
	DefaultLogsDir      = "logs"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints
	APIBasePath      = "/api"
	HealthEndpoint   = "/api/health"
	SummaryEndpoint  = "/api/summary"
	ManifestEndpoint = "/api/manifest"
	MetricsEndpoint  = "/metrics"
)
