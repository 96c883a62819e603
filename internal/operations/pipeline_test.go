package operations

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "rfmpulse/internal/errors"
	"rfmpulse/internal/infrastructure"
	"rfmpulse/internal/segmentation"
	"rfmpulse/internal/shared/testutil"
	"rfmpulse/pkg/contracts/domain"
)

func writeFixtures(t *testing.T, sales ...testutil.Sheet) (string, string) {
	t.Helper()
	if len(sales) == 0 {
		sales = []testutil.Sheet{testutil.JulySales()}
	}
	salesPath := testutil.WriteWorkbook(t, "sales.xlsx", sales...)
	adsPath := testutil.WriteWorkbook(t, "ads.xlsx", testutil.JulyAds())
	return salesPath, adsPath
}

func newTestPipeline(t *testing.T, salesPath, adsPath string, opts ...func(*Options)) *Pipeline {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	o := Options{
		SalesWorkbook: salesPath,
		AdsWorkbook:   adsPath,
		Periods:       domain.DefaultPeriods(),
		Segmentation:  segmentation.DefaultConfig(),
		Logger:        logger,
	}
	for _, fn := range opts {
		fn(&o)
	}
	p, err := NewPipeline(o)
	require.NoError(t, err)
	return p
}

func TestPipeline_RunFull(t *testing.T) {
	salesPath, adsPath := writeFixtures(t)
	p := newTestPipeline(t, salesPath, adsPath)

	result, err := p.Run(context.Background(), Request{Period: domain.PeriodJuly})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, ModeFull, result.Mode)
	assert.Equal(t, testutil.Day(2025, 7, 31).Add(9*time.Hour), result.Snapshot)

	assert.Equal(t, 1, result.SalesStats.DroppedStatus)
	assert.Equal(t, 1, result.SalesStats.DroppedUnparsed)
	assert.Len(t, result.Customers, 10)
	assert.Len(t, result.Clusters, domain.SegmentCount)
	assert.Len(t, result.Insights, domain.SegmentCount)

	require.Len(t, result.Profiles, domain.SegmentCount)
	champ := result.Profiles[0]
	assert.Equal(t, domain.SegmentChampion, champ.Segment)
	assert.Equal(t, 2, champ.CustomerCount)
	assert.Equal(t, "KOPI ARABICA", champ.DominantProduct)
	assert.Equal(t, "BANDUNG", champ.DominantCity)
	assert.Equal(t, "25-34", champ.TargetAgeBucket)
	assert.Equal(t, domain.StrategyRetention, champ.Strategy)

	last := result.Profiles[len(result.Profiles)-1]
	assert.Equal(t, domain.SegmentHibernating, last.Segment)
	assert.Equal(t, "GULA AREN", last.DominantProduct)
	assert.Equal(t, "All Ages (General)", last.TargetAgeBucket)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 10, result.Summary.TotalCustomers)
	assert.Equal(t, int64(16), result.Summary.AdsPurchases)

	require.Len(t, result.Steps, 6)
	for _, st := range result.Steps {
		assert.Equal(t, StepStatusCompleted, st.Status, st.ID)
	}
}

func TestPipeline_RunIsReproducible(t *testing.T) {
	salesPath, adsPath := writeFixtures(t)
	p := newTestPipeline(t, salesPath, adsPath)

	first, err := p.Run(context.Background(), Request{Period: domain.AllPeriods})
	require.NoError(t, err)
	second, err := p.Run(context.Background(), Request{Period: domain.AllPeriods})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Customers, second.Customers)
	assert.Equal(t, first.Profiles, second.Profiles)
}

func TestPipeline_RunSummaryMode(t *testing.T) {
	salesPath, adsPath := writeFixtures(t)
	p := newTestPipeline(t, salesPath, adsPath)

	result, err := p.Run(context.Background(), Request{Period: "", Mode: ModeSummary})
	require.NoError(t, err)

	assert.Equal(t, domain.AllPeriods, result.Period)
	assert.Empty(t, result.Customers)
	assert.Empty(t, result.Profiles)
	require.NotNil(t, result.Summary)
	require.Len(t, result.Summary.PeriodHighlights, 1)
	assert.Equal(t, domain.PeriodJuly, result.Summary.PeriodHighlights[0].Period)

	ids := make([]string, 0, len(result.Steps))
	for _, st := range result.Steps {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{StepLoad, StepNormalize, StepSummarize}, ids)
}

func TestPipeline_RunErrors(t *testing.T) {
	salesPath, adsPath := writeFixtures(t)
	fewCustomers := testutil.Sheet{Name: "AGUSTUS", Rows: [][]interface{}{
		testutil.SalesHeader,
		{"A-1", "completed", "01/08/2025", "Ani", "Kopi", 1000, "Bandung", "Jabar"},
		{"B-1", "completed", "02/08/2025", "Budi", "Kopi", 2000, "Bandung", "Jabar"},
		{"C-1", "completed", "03/08/2025", "Cici", "Teh", 3000, "Depok", "Jabar"},
	}}
	salesWithAugust, _ := writeFixtures(t, testutil.JulySales(), fewCustomers)

	tests := []struct {
		name     string
		sales    string
		request  Request
		wantType ErrorType
		wantStep string
		checkErr func(t *testing.T, err error)
		skipped  []string
	}{
		{
			name:     "unknown period",
			sales:    salesPath,
			request:  Request{Period: "OKTOBER"},
			wantType: ErrorTypeValidation,
			checkErr: func(t *testing.T, err error) {
				var apiErr *apperrors.APIError
				assert.True(t, errors.As(err, &apiErr))
			},
		},
		{
			name:     "unknown mode",
			sales:    salesPath,
			request:  Request{Period: domain.PeriodJuly, Mode: "partial"},
			wantType: ErrorTypeValidation,
		},
		{
			name:     "missing workbook",
			sales:    filepath.Join(t.TempDir(), "missing.xlsx"),
			request:  Request{Period: domain.PeriodJuly},
			wantType: ErrorTypeExecution,
			wantStep: StepLoad,
			checkErr: func(t *testing.T, err error) {
				var appErr *apperrors.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
			},
			skipped: []string{StepNormalize, StepRFM, StepSegment, StepRecommend, StepSummarize},
		},
		{
			name:     "period without sheet",
			sales:    salesPath,
			request:  Request{Period: domain.PeriodSeptember},
			wantType: ErrorTypeExecution,
			wantStep: StepNormalize,
			checkErr: func(t *testing.T, err error) {
				var empty *apperrors.EmptyInputError
				assert.True(t, errors.As(err, &empty))
			},
			skipped: []string{StepRFM, StepSegment, StepRecommend, StepSummarize},
		},
		{
			name:     "too few customers",
			sales:    salesWithAugust,
			request:  Request{Period: domain.PeriodAugust},
			wantType: ErrorTypeExecution,
			wantStep: StepSegment,
			checkErr: func(t *testing.T, err error) {
				var clusterErr *apperrors.ClusteringError
				require.True(t, errors.As(err, &clusterErr))
				assert.Equal(t, 3, clusterErr.Got)
			},
			skipped: []string{StepRecommend, StepSummarize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, tt.sales, adsPath)

			result, err := p.Run(context.Background(), tt.request)
			require.Error(t, err)

			var opErr *OperationError
			require.True(t, errors.As(err, &opErr))
			assert.Equal(t, tt.wantType, opErr.Type)
			assert.Equal(t, tt.wantStep, opErr.Step)
			if tt.checkErr != nil {
				tt.checkErr(t, err)
			}

			if len(tt.skipped) == 0 {
				return
			}
			require.NotNil(t, result)
			for _, st := range result.Steps {
				switch {
				case st.ID == tt.wantStep:
					assert.Equal(t, StepStatusFailed, st.Status)
					assert.NotEmpty(t, st.Error)
				case contains(tt.skipped, st.ID):
					assert.Equal(t, StepStatusSkipped, st.Status, st.ID)
				default:
					assert.Equal(t, StepStatusCompleted, st.Status, st.ID)
				}
			}
		})
	}
}

func TestPipeline_RunCancelled(t *testing.T) {
	salesPath, adsPath := writeFixtures(t)
	p := newTestPipeline(t, salesPath, adsPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Request{Period: domain.PeriodJuly})
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipeline_Telemetry(t *testing.T) {
	salesPath, adsPath := writeFixtures(t)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	p := newTestPipeline(t, salesPath, adsPath, func(o *Options) {
		o.Tracer = tp.Tracer("test")
		o.Metrics = metrics
	})

	_, err = p.Run(context.Background(), Request{Period: domain.PeriodJuly})
	require.NoError(t, err)

	var names []string
	for _, s := range spans.Ended() {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "pipeline.run")
	assert.Contains(t, names, "pipeline.step.segment")
	assert.Len(t, names, 7)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["pipeline_runs_total"])
	assert.Equal(t, int64(2), sums["pipeline_rows_dropped_total"])
	assert.Equal(t, int64(10), sums["pipeline_customers_segmented_total"])
	assert.Zero(t, sums["pipeline_failures_total"])
}

func TestPipeline_ParsePeriod(t *testing.T) {
	p := newTestPipeline(t, "", "")

	got, err := p.ParsePeriod("agustus")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodAugust, got)

	got, err = p.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, domain.AllPeriods, got)

	_, err = p.ParsePeriod("DESEMBER")
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INVALID_PERIOD", apiErr.ErrorCode)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
