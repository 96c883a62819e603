package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"rfmpulse/internal/config"
	"rfmpulse/internal/dataprocessing"
	"rfmpulse/internal/errors"
	"rfmpulse/internal/infrastructure"
	"rfmpulse/internal/rfm"
	"rfmpulse/internal/segmentation"
	"rfmpulse/internal/strategy"
	"rfmpulse/pkg/contracts/domain"
)

// Options configures a Pipeline
type Options struct {
	SalesWorkbook string
	AdsWorkbook   string
	Periods       []domain.Period
	Segmentation  segmentation.Config

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *infrastructure.BusinessMetrics
}

// OptionsFromConfig builds pipeline options from the application config
func OptionsFromConfig(cfg *config.Config, paths *config.Paths) Options {
	return Options{
		SalesWorkbook: paths.SalesWorkbook,
		AdsWorkbook:   paths.AdsWorkbook,
		Periods:       cfg.Analysis.DomainPeriods(),
		Segmentation: segmentation.Config{
			Seed:          cfg.Analysis.Seed,
			Restarts:      cfg.Analysis.Restarts,
			MaxIterations: cfg.Analysis.MaxIterations,
			Tolerance:     cfg.Analysis.Tolerance,
		},
	}
}

// Pipeline executes analysis runs
type Pipeline struct {
	periods []domain.Period
	steps   map[Mode][]Step
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewPipeline wires the pipeline steps
func NewPipeline(opts Options) (*Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	metrics := opts.Metrics
	if metrics == nil {
		m, err := infrastructure.CreateBusinessMetrics(metricnoop.NewMeterProvider().Meter(infrastructure.MeterName))
		if err != nil {
			return nil, err
		}
		metrics = m
	}
	periods := opts.Periods
	if len(periods) == 0 {
		periods = domain.DefaultPeriods()
	}

	recommender, err := strategy.NewRecommender(logger)
	if err != nil {
		return nil, fmt.Errorf("create recommender: %w", err)
	}

	load := &loadStep{
		loader:    dataprocessing.NewLoader(logger),
		salesPath: opts.SalesWorkbook,
		adsPath:   opts.AdsWorkbook,
	}
	normalize := &normalizeStep{normalizer: dataprocessing.NewNormalizer(logger), metrics: metrics}
	summarize := &summarizeStep{summarizer: dataprocessing.NewSummarizer(logger)}

	return &Pipeline{
		periods: periods,
		steps: map[Mode][]Step{
			ModeFull: {
				load,
				normalize,
				&rfmStep{builder: rfm.NewBuilder(logger)},
				&segmentStep{engine: segmentation.NewEngine(opts.Segmentation, logger), metrics: metrics},
				&recommendStep{recommender: recommender},
				summarize,
			},
			ModeSummary: {load, normalize, summarize},
		},
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "pipeline")),
	}, nil
}

// Periods returns the configured analysis periods
func (p *Pipeline) Periods() []domain.Period {
	return p.periods
}

// ParsePeriod resolves a user supplied period name. Empty selects every period.
func (p *Pipeline) ParsePeriod(s string) (domain.Period, error) {
	period, ok := domain.ParsePeriod(s, p.periods)
	if !ok {
		known := make([]string, 0, len(p.periods)+1)
		for _, k := range p.periods {
			known = append(known, string(k))
		}
		known = append(known, string(domain.AllPeriods))
		return "", errors.InvalidPeriodError(s, known)
	}
	return period, nil
}

// Run executes the steps of req.Mode in order and returns their combined
// output. The first failing step ends the run with an *OperationError.
func (p *Pipeline) Run(ctx context.Context, req Request) (*AnalysisResult, error) {
	if req.Mode == "" {
		req.Mode = ModeFull
	}
	steps, ok := p.steps[req.Mode]
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("unknown mode %q", req.Mode), nil)
	}
	period, err := p.ParsePeriod(string(req.Period))
	if err != nil {
		return nil, NewValidationError("invalid period", err)
	}
	req.Period = period

	state := NewPipelineState(uuid.NewString(), req, p.periods, steps)
	ctx = infrastructure.EnsureTraceID(ctx)

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.RunID),
			attribute.String("run.period", string(req.Period)),
			attribute.String("run.mode", string(req.Mode)),
		))
	defer span.End()

	p.logger.InfoContext(ctx, "analysis run started",
		slog.String("run_id", state.RunID),
		slog.String("period", string(req.Period)),
		slog.String("mode", string(req.Mode)))

	runErr := p.execute(ctx, state, steps)
	result := state.result()

	status := "success"
	if runErr != nil {
		status = "failed"
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		p.metrics.PipelineFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("step", runErr.Step),
			attribute.String("type", string(runErr.Type))))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	attrs := metric.WithAttributes(attribute.String("mode", string(req.Mode)), attribute.String("status", status))
	p.metrics.PipelineRunsTotal.Add(ctx, 1, attrs)
	p.metrics.PipelineRunDuration.Record(ctx, float64(result.DurationMS)/1000, attrs)

	if runErr != nil {
		p.logger.ErrorContext(ctx, "analysis run failed",
			slog.String("run_id", state.RunID),
			slog.String("step", runErr.Step),
			slog.String("error", runErr.Error()))
		return result, runErr
	}

	p.logger.InfoContext(ctx, "analysis run completed",
		slog.String("run_id", state.RunID),
		slog.Int("transactions", len(state.Transactions)),
		slog.Int("customers", len(result.Customers)),
		slog.Int("segments", len(result.Profiles)),
		slog.Int64("duration_ms", result.DurationMS))
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, state *PipelineState, steps []Step) *OperationError {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			opErr := NewCancellationError(step.ID(), err)
			p.skipRemaining(state, i, "run cancelled")
			return opErr
		}

		if err := p.executeStep(ctx, state, state.Steps[i], step); err != nil {
			opErr := WrapStepError(step.ID(), err)
			p.skipRemaining(state, i+1, fmt.Sprintf("step %s failed", step.ID()))
			return opErr
		}
	}
	return nil
}

func (p *Pipeline) executeStep(ctx context.Context, state *PipelineState, st *StepState, step Step) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithAttributes(
			attribute.String("run.id", state.RunID),
			attribute.String("step.id", step.ID()),
		))
	defer span.End()

	st.Start()
	start := time.Now()
	err := step.Execute(ctx, state)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "failed"
		st.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.WarnContext(ctx, "step failed",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
	} else {
		st.Complete(stepMessage(step.ID(), state))
		p.logger.DebugContext(ctx, "step completed",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()),
			slog.Duration("elapsed", elapsed))
	}

	p.metrics.PipelineStepDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("step", step.ID()),
		attribute.String("status", status)))
	return err
}

func (p *Pipeline) skipRemaining(state *PipelineState, from int, reason string) {
	for _, st := range state.Steps[from:] {
		st.Skip(reason)
	}
}

func stepMessage(id string, state *PipelineState) string {
	switch id {
	case StepLoad:
		return fmt.Sprintf("%d sales rows, %d ads rows", len(state.Sources.Sales), len(state.Sources.Ads))
	case StepNormalize:
		return fmt.Sprintf("%d transactions retained of %d", state.Sales.Stats.Retained, state.Sales.Stats.Input)
	case StepRFM:
		return fmt.Sprintf("%d customers", len(state.Customers))
	case StepSegment:
		return fmt.Sprintf("%d customers in %d clusters", len(state.Segmentation.Customers), len(state.Segmentation.Clusters))
	case StepRecommend:
		return fmt.Sprintf("%d segment profiles", len(state.Profiles))
	default:
		return "done"
	}
}
