package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tabsum/internal/aggregator"
	"tabsum/internal/converter"
	"tabsum/internal/errors"
	"tabsum/internal/exporter"
	"tabsum/internal/infrastructure"
	"tabsum/pkg/contracts/domain"
)

// ConvertStep produces the delimited input from a spreadsheet source,
// either a local workbook or a remote worksheet, and points the rest of
// the run at the converted file.
type ConvertStep struct {
	converter *converter.Converter
	client    *converter.SheetsClient
	workbook  string
	sheet     string
	output    string
}

// NewConvertStep creates a conversion step. A non-nil client selects
// remote mode; otherwise the workbook path is read locally. The output
// path should be absolute so the aggregation reads the same file the
// conversion wrote.
func NewConvertStep(conv *converter.Converter, client *converter.SheetsClient, workbook, sheet, output string) *ConvertStep {
	return &ConvertStep{
		converter: conv,
		client:    client,
		workbook:  workbook,
		sheet:     sheet,
		output:    output,
	}
}

func (s *ConvertStep) ID() string   { return StepIDConvert }
func (s *ConvertStep) Name() string { return "Convert source" }

func (s *ConvertStep) Run(ctx context.Context, state *RunState) error {
	var err error
	if s.client != nil {
		err = s.converter.ConvertRemote(ctx, s.client, s.output)
	} else {
		err = s.converter.ConvertWorkbook(ctx, s.workbook, s.sheet, s.output)
	}
	if err != nil {
		return err
	}

	state.SetSourcePath(s.output)
	return nil
}

// AggregateStep runs the aggregation in-process and captures the exact
// document it would print, summary or error payload, into an artifact
// file.
type AggregateStep struct {
	agg          *aggregator.Aggregator
	artifactPath string
	metrics      *infrastructure.PipelineMetrics
}

// NewAggregateStep creates an aggregation step writing its captured
// output to artifactPath.
func NewAggregateStep(agg *aggregator.Aggregator, artifactPath string) *AggregateStep {
	return &AggregateStep{
		agg:          agg,
		artifactPath: artifactPath,
	}
}

// WithMetrics attaches pipeline metrics so the step can report row
// accounting. A nil value leaves recording off.
func (s *AggregateStep) WithMetrics(metrics *infrastructure.PipelineMetrics) *AggregateStep {
	s.metrics = metrics
	return s
}

func (s *AggregateStep) ID() string   { return StepIDAggregate }
func (s *AggregateStep) Name() string { return "Aggregate" }

func (s *AggregateStep) Run(ctx context.Context, state *RunState) error {
	result, runErr := s.agg.Run(ctx, state.GetSourcePath())

	var buf bytes.Buffer
	code := 0
	if runErr != nil {
		code = 1
		payload := domain.ErrorPayload{Error: errors.UserMessage(runErr)}
		if err := domain.WriteJSON(&buf, payload); err != nil {
			return fmt.Errorf("failed to encode error payload: %w", err)
		}
	} else {
		if err := domain.WriteJSON(&buf, result.Summary); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		infrastructure.RecordDatasetMetrics(ctx, s.metrics, int64(result.Loaded), int64(result.Dropped))
	}

	// The artifact is written even for a failed aggregation. The error
	// payload is the run's output and stays inspectable; the failure
	// below keeps it from being published.
	if err := exporter.WriteFileAtomic(s.artifactPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to capture artifact: %w", err)
	}
	state.SetArtifact(s.artifactPath, code)

	if runErr != nil {
		return fmt.Errorf("aggregation of %s exited with code %d: %w", state.GetSourcePath(), code, runErr)
	}
	return nil
}

// PublishStep copies the captured artifact into the site directory and
// writes the run manifest next to it.
type PublishStep struct {
	artifactName string
	siteDir      string
	manifestPath string
	metrics      *infrastructure.PipelineMetrics
}

// NewPublishStep creates a publish step. artifactName is the file name
// the artifact is published under inside siteDir.
func NewPublishStep(artifactName, siteDir, manifestPath string) *PublishStep {
	return &PublishStep{
		artifactName: artifactName,
		siteDir:      siteDir,
		manifestPath: manifestPath,
	}
}

// WithMetrics attaches pipeline metrics so publications are counted.
func (s *PublishStep) WithMetrics(metrics *infrastructure.PipelineMetrics) *PublishStep {
	s.metrics = metrics
	return s
}

func (s *PublishStep) ID() string   { return StepIDPublish }
func (s *PublishStep) Name() string { return "Publish" }

func (s *PublishStep) Run(ctx context.Context, state *RunState) error {
	artifactPath, exitCode := state.GetArtifact()
	if artifactPath == "" {
		return fmt.Errorf("no artifact captured to publish")
	}
	if exitCode != 0 {
		return fmt.Errorf("refusing to publish a failed aggregation (exit code %d)", exitCode)
	}

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	published := filepath.Join(s.siteDir, s.artifactName)
	if err := exporter.WriteFileAtomic(published, data, 0644); err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}

	manifest := NewManifest(state, s.artifactName)
	if err := manifest.Save(s.manifestPath); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	infrastructure.RecordArtifactPublished(ctx, s.metrics, s.artifactName)
	return nil
}
