package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rfmpulse/internal/dataprocessing"
	"rfmpulse/internal/infrastructure"
	"rfmpulse/internal/rfm"
	"rfmpulse/internal/segmentation"
	"rfmpulse/internal/strategy"
)

type loadStep struct {
	loader    *dataprocessing.Loader
	salesPath string
	adsPath   string
}

func (s *loadStep) ID() string   { return StepLoad }
func (s *loadStep) Name() string { return "Load Workbooks" }

func (s *loadStep) Execute(ctx context.Context, state *PipelineState) error {
	src, err := s.loader.LoadSources(ctx, s.salesPath, s.adsPath, state.loadPeriods())
	if err != nil {
		return err
	}
	state.Sources = src
	return nil
}

type normalizeStep struct {
	normalizer *dataprocessing.Normalizer
	metrics    *infrastructure.BusinessMetrics
}

func (s *normalizeStep) ID() string   { return StepNormalize }
func (s *normalizeStep) Name() string { return "Normalize Records" }

func (s *normalizeStep) Execute(ctx context.Context, state *PipelineState) error {
	period := state.Request.Period

	sales, err := s.normalizer.NormalizeSales(ctx, dataprocessing.FilterPeriod(state.Sources.Sales, period))
	if err != nil {
		return fmt.Errorf("sales: %w", err)
	}
	ads, err := s.normalizer.NormalizeAds(ctx, dataprocessing.FilterPeriod(state.Sources.Ads, period))
	if err != nil {
		return fmt.Errorf("ads: %w", err)
	}

	state.Sales = sales
	state.Ads = ads
	state.Transactions = sales.Transactions
	state.AdRecords = ads.Records

	s.recordDropped(ctx, "sales", sales.Stats)
	s.recordDropped(ctx, "ads", ads.Stats)
	return nil
}

func (s *normalizeStep) recordDropped(ctx context.Context, dataset string, stats dataprocessing.NormalizeStats) {
	if s.metrics == nil {
		return
	}
	if stats.DroppedStatus > 0 {
		s.metrics.RowsDropped.Add(ctx, int64(stats.DroppedStatus), metric.WithAttributes(
			attribute.String("dataset", dataset), attribute.String("reason", "status")))
	}
	if stats.DroppedUnparsed > 0 {
		s.metrics.RowsDropped.Add(ctx, int64(stats.DroppedUnparsed), metric.WithAttributes(
			attribute.String("dataset", dataset), attribute.String("reason", "unparsed")))
	}
}

type rfmStep struct {
	builder *rfm.Builder
}

func (s *rfmStep) ID() string   { return StepRFM }
func (s *rfmStep) Name() string { return "Build RFM Features" }

func (s *rfmStep) Execute(ctx context.Context, state *PipelineState) error {
	snapshot := rfm.SnapshotDate(state.Transactions)
	customers, err := s.builder.BuildAt(ctx, state.Transactions, snapshot)
	if err != nil {
		return err
	}
	state.Snapshot = snapshot
	state.Customers = customers
	return nil
}

type segmentStep struct {
	engine  *segmentation.Engine
	metrics *infrastructure.BusinessMetrics
}

func (s *segmentStep) ID() string   { return StepSegment }
func (s *segmentStep) Name() string { return "Segment Customers" }

func (s *segmentStep) Execute(ctx context.Context, state *PipelineState) error {
	result, err := s.engine.Segment(ctx, state.Customers)
	if err != nil {
		return err
	}
	state.Segmentation = result
	if s.metrics != nil {
		s.metrics.CustomersSegmented.Add(ctx, int64(len(result.Customers)))
	}
	return nil
}

type recommendStep struct {
	recommender *strategy.Recommender
}

func (s *recommendStep) ID() string   { return StepRecommend }
func (s *recommendStep) Name() string { return "Recommend Strategies" }

func (s *recommendStep) Execute(ctx context.Context, state *PipelineState) error {
	profiles, err := s.recommender.Recommend(ctx, state.Segmentation.Customers, state.Transactions, state.AdRecords)
	if err != nil {
		return err
	}
	state.Profiles = profiles
	return nil
}

type summarizeStep struct {
	summarizer *dataprocessing.Summarizer
}

func (s *summarizeStep) ID() string   { return StepSummarize }
func (s *summarizeStep) Name() string { return "Executive Summary" }

func (s *summarizeStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Summary = s.summarizer.Summarize(ctx, state.Request.Period, state.Periods, state.Transactions, state.AdRecords)
	return nil
}
