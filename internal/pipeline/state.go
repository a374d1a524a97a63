package pipeline

import (
	"sync"
	"time"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState carries the complete state of one run. Steps hand data to
// their successors through it: conversion rewrites the source path, and
// aggregation records where it captured its output.
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Source of the aggregation; the convert step replaces it with the
	// converted file's path.
	SourcePath string `json:"source_path"`

	// Captured aggregation output. ExitCode 0 means a summary document,
	// anything else an error payload.
	ArtifactPath string `json:"artifact_path,omitempty"`
	ExitCode     int    `json:"exit_code"`

	Error error `json:"-"`
}

// NewRunState creates a run state for the given run ID and source path.
func NewRunState(id, sourcePath string) *RunState {
	return &RunState{
		ID:         id,
		Status:     RunStatusPending,
		StartTime:  time.Now(),
		Steps:      make(map[string]*StepState),
		SourcePath: sourcePath,
	}
}

// Start marks the run as running
func (s *RunState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = RunStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *RunState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// GetStep returns the state of a specific step
func (s *RunState) GetStep(stepID string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[stepID]
}

// SetStep registers the state of a specific step
func (s *RunState) SetStep(stepID string, state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps[stepID] = state
}

// GetSourcePath returns the current aggregation source path
func (s *RunState) GetSourcePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SourcePath
}

// SetSourcePath replaces the aggregation source path
func (s *RunState) SetSourcePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SourcePath = path
}

// GetArtifact returns the captured artifact path and the aggregation
// exit code
func (s *RunState) GetArtifact() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ArtifactPath, s.ExitCode
}

// SetArtifact records the captured artifact path and the aggregation
// exit code
func (s *RunState) SetArtifact(path string, exitCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ArtifactPath = path
	s.ExitCode = exitCode
}

// Duration returns the duration of the run
func (s *RunState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// HasFailures returns true if any step has failed
func (s *RunState) HasFailures() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, step := range s.Steps {
		if step.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}
