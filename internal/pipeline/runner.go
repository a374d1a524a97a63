package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tabsum/internal/infrastructure"
)

const TracerName = "tabsum.pipeline"

// Runner executes the steps of one run sequentially.
type Runner struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *infrastructure.PipelineMetrics
	stepTimeout time.Duration
}

// NewRunner creates a runner. Metrics may be nil when telemetry is
// disabled; a zero stepTimeout means no per-step deadline.
func NewRunner(logger *slog.Logger, metrics *infrastructure.PipelineMetrics, stepTimeout time.Duration) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger:      logger,
		tracer:      otel.Tracer(TracerName),
		metrics:     metrics,
		stepTimeout: stepTimeout,
	}
}

// Execute runs the given steps in order under a fresh run ID. The first
// failure marks the remaining steps skipped and fails the run; the
// returned state is complete either way.
func (r *Runner) Execute(ctx context.Context, sourcePath string, steps []Step) (*RunState, error) {
	runID := uuid.New().String()
	state := NewRunState(runID, sourcePath)

	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.source", sourcePath),
			attribute.Int("run.step_count", len(steps)),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "Run started",
		slog.String("run_id", runID),
		slog.String("source", sourcePath),
		slog.Int("step_count", len(steps)))

	state.Start()
	start := time.Now()

	for i, step := range steps {
		select {
		case <-ctx.Done():
			err := fmt.Errorf("run cancelled before step %s: %w", step.ID(), ctx.Err())
			r.skipFrom(state, steps, i, "run cancelled")
			r.finish(ctx, span, state, start, err)
			return state, err
		default:
		}

		if err := r.executeStep(ctx, state, step); err != nil {
			r.logger.ErrorContext(ctx, "Step failed",
				slog.String("run_id", runID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			r.skipFrom(state, steps, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			r.finish(ctx, span, state, start, err)
			return state, err
		}
	}

	r.finish(ctx, span, state, start, nil)
	return state, nil
}

// executeStep runs a single step inside its own span and timeout.
func (r *Runner) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepCtx := ctx
	if r.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, r.stepTimeout)
		defer cancel()
	}

	stepCtx, span := r.tracer.Start(stepCtx, fmt.Sprintf("pipeline.step.%s", step.ID()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	stepState := state.GetStep(step.ID())
	stepState.Start()

	r.logger.InfoContext(stepCtx, "Step started",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()))

	startTime := time.Now()
	err := step.Run(stepCtx, state)
	duration := time.Since(startTime)

	if err != nil {
		stepState.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "step execution failed")
		infrastructure.RecordStepMetrics(stepCtx, r.metrics, state.ID, step.ID(), duration, false)
		return err
	}

	stepState.Complete()
	span.SetStatus(codes.Ok, "step completed")
	infrastructure.RecordStepMetrics(stepCtx, r.metrics, state.ID, step.ID(), duration, true)

	r.logger.InfoContext(stepCtx, "Step completed",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))

	return nil
}

// skipFrom marks every pending step from index on as skipped.
func (r *Runner) skipFrom(state *RunState, steps []Step, from int, reason string) {
	for _, step := range steps[from:] {
		stepState := state.GetStep(step.ID())
		if stepState != nil && stepState.GetStatus() == StepStatusPending {
			stepState.Skip(reason)
		}
	}
}

// finish closes out the run state, span, and metrics.
func (r *Runner) finish(ctx context.Context, span trace.Span, state *RunState, start time.Time, err error) {
	duration := time.Since(start)

	if err != nil {
		state.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "run failed")
	} else {
		state.Complete()
		span.SetStatus(codes.Ok, "run completed")
	}

	infrastructure.RecordRunMetrics(ctx, r.metrics, state.ID, duration, err == nil, err)

	r.logger.InfoContext(ctx, "Run finished",
		slog.String("run_id", state.ID),
		slog.String("status", string(state.Status)),
		slog.Duration("duration", duration))
}
