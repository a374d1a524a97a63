package services

import "errors"

// Artifact errors
var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrManifestNotFound = errors.New("manifest not found")
)
