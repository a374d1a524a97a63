// Package config provides centralized configuration management for the
// TabSum pipeline. It handles loading configuration from multiple sources,
// validation, and a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// increasing precedence:
//
//	1. Built-in defaults (lowest priority)
//	2. An optional config.yaml file
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TABSUM_* for namespacing:
//
//	TABSUM_SOURCE_FILE=data.csv
//	TABSUM_SERVER_PORT=8080
//	TABSUM_LOGGING_LEVEL=info
//	TABSUM_PATHS_BASE_DIR=/srv/tabsum
//
// # Path Management
//
// The package provides centralized path management through the Paths type.
// Pipeline and server file locations (data, artifacts, site, logs) all
// resolve through it:
//
//	paths, err := cfg.GetPaths()
//	artifact := paths.ArtifactFile("summary.json")
//
// The aggregate CLI's source path is the one deliberate exception: it is
// used exactly as given on the command line so error messages can echo it
// back verbatim.
//
// # Validation
//
// All configuration is validated at load time with struct tags
// (go-playground/validator) plus a few cross-field checks, so invalid
// settings fail fast at startup rather than mid-run.
package config
