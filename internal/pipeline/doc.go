// Package pipeline orchestrates one end-to-end aggregation run: an
// optional conversion of a spreadsheet source into the delimited input,
// the aggregation itself, and publication of the result to the site
// directory.
//
// Core components:
//
// Step: a single unit of work. Steps communicate through the shared
// RunState (the converted source path, the captured artifact) rather
// than through return values.
//
// Runner: executes steps sequentially under one uuid run ID with
// per-step tracing, metrics, and state tracking. A step failure marks
// the remaining steps skipped; there are no retries, the outer trigger
// owns those.
//
// The aggregation step always captures the emitted document, error
// payloads included, into an artifact file. Only a successful run is
// published, so the site never serves a failure document while the
// artifact history keeps it for inspection.
//
// Example usage:
//
//	runner := pipeline.NewRunner(logger, metrics, cfg.Pipeline.StepTimeout)
//	state, err := runner.Execute(ctx, cfg.Source.File, []pipeline.Step{
//		pipeline.NewAggregateStep(agg, paths.ArtifactFile("summary.json")),
//		pipeline.NewPublishStep("summary.json", paths.SiteDir, paths.ManifestJSON),
//	})
package pipeline
