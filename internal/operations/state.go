package operations

import (
	"time"

	"rfmpulse/internal/dataprocessing"
	"rfmpulse/internal/segmentation"
	"rfmpulse/pkg/contracts/domain"
)

// Mode selects which steps a run executes
type Mode string

const (
	// ModeFull runs every step
	ModeFull Mode = "full"
	// ModeSummary loads, normalizes and summarizes only
	ModeSummary Mode = "summary"
)

// Request describes one run
type Request struct {
	Period domain.Period `json:"period"`
	Mode   Mode          `json:"mode"`
}

// PipelineState carries the tables of a single run between steps
type PipelineState struct {
	RunID     string
	Request   Request
	Periods   []domain.Period
	StartTime time.Time

	Sources      *dataprocessing.Sources
	Sales        *dataprocessing.SalesTable
	Ads          *dataprocessing.AdsTable
	Transactions []domain.Transaction
	AdRecords    []domain.AdRecord

	Snapshot     time.Time
	Customers    []domain.CustomerRFM
	Segmentation *segmentation.Result
	Profiles     []domain.SegmentProfile
	Summary      *domain.ExecutiveSummary

	Steps []*StepState
}

// NewPipelineState creates the state of a new run
func NewPipelineState(runID string, req Request, periods []domain.Period, steps []Step) *PipelineState {
	state := &PipelineState{
		RunID:     runID,
		Request:   req,
		Periods:   periods,
		StartTime: time.Now(),
		Steps:     make([]*StepState, 0, len(steps)),
	}
	for _, s := range steps {
		state.Steps = append(state.Steps, NewStepState(s.ID(), s.Name()))
	}
	return state
}

// Step returns the state of the step with the given id
func (s *PipelineState) Step(id string) (*StepState, bool) {
	for _, st := range s.Steps {
		if st.ID == id {
			return st, true
		}
	}
	return nil, false
}

// loadPeriods returns the sheets a run has to read
func (s *PipelineState) loadPeriods() []domain.Period {
	if s.Request.Period == domain.AllPeriods {
		return s.Periods
	}
	return []domain.Period{s.Request.Period}
}

// AnalysisResult is the outcome of a run
type AnalysisResult struct {
	RunID       string                        `json:"run_id"`
	Period      domain.Period                 `json:"period"`
	Mode        Mode                          `json:"mode"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Snapshot    time.Time                     `json:"snapshot,omitempty"`
	DurationMS  int64                         `json:"duration_ms"`
	SalesStats  dataprocessing.NormalizeStats `json:"sales_stats"`
	AdsStats    dataprocessing.NormalizeStats `json:"ads_stats"`

	Customers []domain.CustomerRFM          `json:"customers,omitempty"`
	Clusters  []segmentation.ClusterSummary `json:"clusters,omitempty"`
	Insights  []domain.SegmentInsight       `json:"insights,omitempty"`
	Profiles  []domain.SegmentProfile       `json:"profiles,omitempty"`
	Summary   *domain.ExecutiveSummary      `json:"summary,omitempty"`

	Steps []StepState `json:"steps"`
}

// result assembles the AnalysisResult of a finished run
func (s *PipelineState) result() *AnalysisResult {
	res := &AnalysisResult{
		RunID:       s.RunID,
		Period:      s.Request.Period,
		Mode:        s.Request.Mode,
		GeneratedAt: time.Now(),
		Snapshot:    s.Snapshot,
		Profiles:    s.Profiles,
		Summary:     s.Summary,
	}
	res.DurationMS = res.GeneratedAt.Sub(s.StartTime).Milliseconds()

	if s.Sales != nil {
		res.SalesStats = s.Sales.Stats
	}
	if s.Ads != nil {
		res.AdsStats = s.Ads.Stats
	}
	if s.Segmentation != nil {
		res.Customers = s.Segmentation.Customers
		res.Clusters = s.Segmentation.Clusters
		res.Insights = segmentation.Insights(s.Segmentation.Customers)
	}
	for _, st := range s.Steps {
		res.Steps = append(res.Steps, *st)
	}
	return res
}
