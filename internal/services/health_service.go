package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tabsum/internal/config"
	"tabsum/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("site_dir", paths.SiteDir))

	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status with per-component checks
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).String(),
		Services:  make(map[string]ServiceHealth),
	}

	status.Services["site"] = hs.checkSiteHealth()
	status.Services["manifest"] = hs.checkManifestHealth()

	for _, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "degraded"
			break
		}
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status))

	return status
}

// Version returns build and format version information plus the service
// uptime.
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"data_format":  info.DataFormat,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// checkSiteHealth verifies the published site directory is accessible
func (hs *HealthService) checkSiteHealth() ServiceHealth {
	info, err := os.Stat(hs.paths.SiteDir)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("site directory not accessible: %v", err),
		}
	}

	if !info.IsDir() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("site path %s is not a directory", hs.paths.SiteDir),
		}
	}

	return ServiceHealth{Status: "ready"}
}

// checkManifestHealth reports whether a run has been published yet.
// A missing manifest is still ready; the server may come up before the
// first pipeline run completes.
func (hs *HealthService) checkManifestHealth() ServiceHealth {
	if _, err := os.Stat(hs.paths.ManifestJSON); err != nil {
		if os.IsNotExist(err) {
			return ServiceHealth{
				Status:  "ready",
				Message: "no published run yet",
			}
		}
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("manifest not accessible: %v", err),
		}
	}

	return ServiceHealth{Status: "ready"}
}
