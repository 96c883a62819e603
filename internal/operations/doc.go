// Package operations runs the analysis pipeline.
//
// A run executes its steps strictly in order, each consuming the complete
// output of the previous one:
//
//	load → normalize → rfm → segment → recommend → summarize
//
// Summary runs skip the three clustering steps. Every run gets its own id and
// its own PipelineState; nothing is shared between runs.
//
// Each step is wrapped in an OpenTelemetry span and its duration is recorded
// in the pipeline_step_duration_seconds histogram. A failing step stops the
// run, marks the remaining steps as skipped and is reported as an
// *OperationError that wraps the step's cause.
package operations
