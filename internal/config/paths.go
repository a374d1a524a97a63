package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for pipeline and server file
// locations. The aggregate CLI's source path is exempt: it is used as
// given so failure messages can echo it back verbatim.
type Paths struct {
	BaseDir      string
	DataDir      string
	ArtifactsDir string
	SiteDir      string
	LogsDir      string

	// Well-known files
	SourceCSV    string // converted delimited input (DataDir/data.csv)
	ManifestJSON string // published run manifest (SiteDir/manifest.json)
}

// NewPaths resolves a PathsConfig into absolute paths. Relative directory
// entries are joined to the base directory; absolute entries are kept.
func NewPaths(pc PathsConfig) (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		base = "."
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	dataDir := resolve(pc.DataDir)
	siteDir := resolve(pc.SiteDir)

	paths := &Paths{
		BaseDir:      base,
		DataDir:      dataDir,
		ArtifactsDir: resolve(pc.ArtifactsDir),
		SiteDir:      siteDir,
		LogsDir:      resolve(pc.LogsDir),

		SourceCSV:    filepath.Join(dataDir, DefaultSourceFile),
		ManifestJSON: filepath.Join(siteDir, ManifestFileName),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ArtifactsDir,
		p.SiteDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// DataFile returns the path for a file in the data directory
func (p *Paths) DataFile(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// ArtifactFile returns the path for a captured run artifact
func (p *Paths) ArtifactFile(filename string) string {
	return filepath.Join(p.ArtifactsDir, filename)
}

// SiteFile returns the path for a published site file
func (p *Paths) SiteFile(filename string) string {
	return filepath.Join(p.SiteDir, filename)
}

// LogFile returns the path for a log file
func (p *Paths) LogFile(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("artifacts", p.ArtifactsDir),
			slog.String("site", p.SiteDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("source_csv", p.SourceCSV),
			slog.String("manifest_json", p.ManifestJSON),
		))
}
