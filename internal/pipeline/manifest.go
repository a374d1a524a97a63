package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"tabsum/internal/exporter"
)

// Manifest describes the most recently published run. It is written next
// to the published artifact and served by the manifest endpoint.
type Manifest struct {
	RunID       string        `json:"run_id"`
	Source      string        `json:"source"`
	Artifact    string        `json:"artifact"`
	Status      string        `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	PublishedAt time.Time     `json:"published_at"`
	Steps       []StepSummary `json:"steps"`
}

// StepSummary is the manifest's record of one executed step
type StepSummary struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   StepStatus `json:"status"`
	Duration string     `json:"duration"`
}

// NewManifest builds a manifest from the run state. Steps still active
// when the manifest is built (the publish step itself) are omitted.
func NewManifest(state *RunState, artifactName string) *Manifest {
	manifest := &Manifest{
		RunID:       state.ID,
		Source:      state.GetSourcePath(),
		Artifact:    artifactName,
		Status:      "success",
		StartedAt:   state.StartTime,
		PublishedAt: time.Now(),
	}

	steps := make([]*StepState, 0, len(state.Steps))
	for _, step := range state.Steps {
		if step.GetStatus() == StepStatusActive {
			continue
		}
		steps = append(steps, step)
	}

	// Execution order; steps that never started sort last.
	sort.Slice(steps, func(i, j int) bool {
		si, sj := steps[i].StartTime, steps[j].StartTime
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return si.Before(*sj)
		}
	})

	for _, step := range steps {
		manifest.Steps = append(manifest.Steps, StepSummary{
			ID:       step.ID,
			Name:     step.Name,
			Status:   step.GetStatus(),
			Duration: step.Duration().String(),
		})
	}

	return manifest
}

// Save writes the manifest as indented JSON. The write is atomic so the
// manifest endpoint never serves a partial document.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := exporter.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// LoadManifest loads a manifest from a JSON file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &manifest, nil
}
