package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"tabsum/internal/config"
	"tabsum/internal/pipeline"
)

// ArtifactService reads published summary artifacts and run manifests
type ArtifactService struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewArtifactService creates a new artifact service
func NewArtifactService(paths *config.Paths, logger *slog.Logger) *ArtifactService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ArtifactService{
		paths:  paths,
		logger: logger,
	}
}

// Summary returns the raw bytes of a published summary document. The
// document already carries the reporting contract shape, so it is served
// verbatim. Callers must pass a validated artifact name.
func (s *ArtifactService) Summary(ctx context.Context, name string) ([]byte, error) {
	path := s.paths.SiteFile(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "artifact not published",
				slog.String("artifact", name))
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("artifact %s is not valid JSON", name)
	}

	return data, nil
}

// Manifest returns the manifest of the most recently published run
func (s *ArtifactService) Manifest(ctx context.Context) (*pipeline.Manifest, error) {
	manifest, err := pipeline.LoadManifest(s.paths.ManifestJSON)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.WarnContext(ctx, "no manifest published",
				slog.String("path", s.paths.ManifestJSON))
			return nil, ErrManifestNotFound
		}
		return nil, err
	}

	return manifest, nil
}
