package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rfmpulse/internal/errors"
	"rfmpulse/internal/exporter"
	"rfmpulse/internal/operations"
	"rfmpulse/internal/segmentation"
	"rfmpulse/pkg/contracts/domain"
)

// Runner executes analysis runs. *operations.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, req operations.Request) (*operations.AnalysisResult, error)
}

// RunInfo identifies the run that produced a response
type RunInfo struct {
	RunID       string        `json:"run_id"`
	Period      domain.Period `json:"period"`
	GeneratedAt time.Time     `json:"generated_at"`
	DurationMS  int64         `json:"duration_ms"`
}

// CustomersReport lists every customer with its RFM features and segment
type CustomersReport struct {
	RunInfo
	Snapshot  time.Time            `json:"snapshot"`
	Count     int                  `json:"count"`
	Customers []domain.CustomerRFM `json:"customers"`
}

// SegmentsReport describes the segment distribution of a run
type SegmentsReport struct {
	RunInfo
	Insights []domain.SegmentInsight       `json:"insights"`
	Clusters []segmentation.ClusterSummary `json:"clusters"`
}

// StrategiesReport carries the per-segment recommendations
type StrategiesReport struct {
	RunInfo
	Profiles []domain.SegmentProfile `json:"profiles"`
}

// ExportResult lists the files written by an export
type ExportResult struct {
	RunInfo
	StrategiesFile string                  `json:"strategies_file"`
	CustomersFile  string                  `json:"customers_file"`
	Customers      int                     `json:"customers"`
	Profiles       []domain.SegmentProfile `json:"profiles"`
}

// AnalysisService serves analysis results
type AnalysisService struct {
	runner Runner
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// NewAnalysisService creates an analysis service. writer may be nil when
// exports are not needed.
func NewAnalysisService(runner Runner, writer *exporter.CSVWriter, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		runner: runner,
		writer: writer,
		logger: logger.With(slog.String("service", "analysis")),
	}
}

// Summary returns the executive summary of a period without clustering
func (s *AnalysisService) Summary(ctx context.Context, period string) (*domain.ExecutiveSummary, error) {
	result, err := s.runner.Run(ctx, operations.Request{Period: domain.Period(period), Mode: operations.ModeSummary})
	if err != nil {
		return nil, err
	}
	return result.Summary, nil
}

// Analyze runs the full pipeline for a period
func (s *AnalysisService) Analyze(ctx context.Context, period string) (*operations.AnalysisResult, error) {
	return s.runner.Run(ctx, operations.Request{Period: domain.Period(period), Mode: operations.ModeFull})
}

// Customers returns the segmented customers of a period
func (s *AnalysisService) Customers(ctx context.Context, period string) (*CustomersReport, error) {
	result, err := s.Analyze(ctx, period)
	if err != nil {
		return nil, err
	}
	return &CustomersReport{
		RunInfo:   runInfo(result),
		Snapshot:  result.Snapshot,
		Count:     len(result.Customers),
		Customers: result.Customers,
	}, nil
}

// Segments returns the segment distribution of a period
func (s *AnalysisService) Segments(ctx context.Context, period string) (*SegmentsReport, error) {
	result, err := s.Analyze(ctx, period)
	if err != nil {
		return nil, err
	}
	return &SegmentsReport{
		RunInfo:  runInfo(result),
		Insights: result.Insights,
		Clusters: result.Clusters,
	}, nil
}

// Strategies returns the recommendations of a period. A non-empty segments
// list keeps only the named segment labels.
func (s *AnalysisService) Strategies(ctx context.Context, period string, segments []string) (*StrategiesReport, error) {
	wanted := make(map[domain.Segment]bool, len(segments))
	for _, label := range segments {
		seg, err := domain.ParseSegment(label)
		if err != nil {
			return nil, errors.InvalidSegmentError(label)
		}
		wanted[seg] = true
	}

	result, err := s.Analyze(ctx, period)
	if err != nil {
		return nil, err
	}

	profiles := result.Profiles
	if len(wanted) > 0 {
		profiles = make([]domain.SegmentProfile, 0, len(wanted))
		for _, p := range result.Profiles {
			if wanted[p.Segment] {
				profiles = append(profiles, p)
			}
		}
	}
	return &StrategiesReport{RunInfo: runInfo(result), Profiles: profiles}, nil
}

// Export runs the full pipeline and writes the strategy and customer tables
// to the reports directory
func (s *AnalysisService) Export(ctx context.Context, period string) (*ExportResult, error) {
	if s.writer == nil {
		return nil, fmt.Errorf("export: no csv writer configured")
	}

	result, err := s.Analyze(ctx, period)
	if err != nil {
		return nil, err
	}

	strategiesFile, err := s.writer.ExportStrategies(result.Period, result.Profiles)
	if err != nil {
		return nil, fmt.Errorf("export strategies: %w", err)
	}
	customersFile, err := s.writer.ExportCustomers(result.Period, result.Customers)
	if err != nil {
		return nil, fmt.Errorf("export customers: %w", err)
	}

	s.logger.InfoContext(ctx, "analysis exported",
		slog.String("run_id", result.RunID),
		slog.String("strategies_file", strategiesFile),
		slog.String("customers_file", customersFile))

	return &ExportResult{
		RunInfo:        runInfo(result),
		StrategiesFile: strategiesFile,
		CustomersFile:  customersFile,
		Customers:      len(result.Customers),
		Profiles:       result.Profiles,
	}, nil
}

func runInfo(result *operations.AnalysisResult) RunInfo {
	return RunInfo{
		RunID:       result.RunID,
		Period:      result.Period,
		GeneratedAt: result.GeneratedAt,
		DurationMS:  result.DurationMS,
	}
}
