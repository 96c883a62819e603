package segmentation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"rfmpulse/internal/errors"
	"rfmpulse/pkg/contracts/domain"
)

// Config controls the clustering run. The number of clusters is fixed at
// domain.SegmentCount.
type Config struct {
	Seed          int64
	Restarts      int
	MaxIterations int
	Tolerance     float64
}

// DefaultConfig returns seed 42, 10 restarts, 300 iterations and 1e-4 tolerance
func DefaultConfig() Config {
	return Config{Seed: 42, Restarts: 10, MaxIterations: 300, Tolerance: 1e-4}
}

// ClusterSummary describes one cluster after labeling
type ClusterSummary struct {
	ClusterID     int             `json:"cluster_id"`
	Segment       domain.Segment  `json:"segment"`
	Size          int             `json:"size"`
	MeanRecency   float64         `json:"mean_recency"`
	MeanFrequency float64         `json:"mean_frequency"`
	MeanMonetary  decimal.Decimal `json:"mean_monetary"`
}

// Result holds the labeled customers, sorted by customer id, and the cluster
// summaries ordered from lowest to highest mean monetary value
type Result struct {
	Customers []domain.CustomerRFM `json:"customers"`
	Clusters  []ClusterSummary     `json:"clusters"`
	Inertia   float64              `json:"inertia"`
}

// SegmentOf returns the segment assigned to a customer
func (r *Result) SegmentOf(customerID string) (domain.Segment, bool) {
	i := sort.Search(len(r.Customers), func(i int) bool { return r.Customers[i].CustomerID >= customerID })
	if i < len(r.Customers) && r.Customers[i].CustomerID == customerID {
		return r.Customers[i].Segment, true
	}
	return domain.SegmentUnknown, false
}

// Engine assigns customers to value segments
type Engine struct {
	kmeans KMeans
	logger *slog.Logger
}

// NewEngine creates a segmentation engine
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		kmeans: KMeans{
			K:             domain.SegmentCount,
			Seed:          cfg.Seed,
			Restarts:      cfg.Restarts,
			MaxIterations: cfg.MaxIterations,
			Tolerance:     cfg.Tolerance,
		},
		logger: logger.With(slog.String("component", "segmentation")),
	}
}

// Segment clusters the profiles and labels every customer. It fails with
// *errors.ClusteringError when fewer than five distinct customers or five
// distinct feature points are present.
func (e *Engine) Segment(ctx context.Context, profiles []domain.CustomerRFM) (*Result, error) {
	customers := make([]domain.CustomerRFM, len(profiles))
	copy(customers, profiles)
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})

	if n := countDistinctIDs(customers); n < e.kmeans.K {
		return nil, &errors.ClusteringError{Required: e.kmeans.K, Got: n}
	}

	features := make([][]float64, len(customers))
	for i, c := range customers {
		features[i] = c.Features()
	}
	if n := countDistinctPoints(features); n < e.kmeans.K {
		return nil, &errors.ClusteringError{Required: e.kmeans.K, Got: n, Reason: "distinct feature points"}
	}

	clustering, err := e.kmeans.Fit(ctx, StandardScale(features))
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}

	clusters := summarize(customers, clustering)
	labels := make(map[int]domain.Segment, len(clusters))
	order := domain.SegmentsByValue()
	for rank := range clusters {
		clusters[rank].Segment = order[rank]
		labels[clusters[rank].ClusterID] = order[rank]
	}

	for i := range customers {
		customers[i].ClusterID = clustering.Labels[i]
		customers[i].Segment = labels[clustering.Labels[i]]
	}

	e.logger.InfoContext(ctx, "customers segmented",
		slog.Int("customers", len(customers)),
		slog.Float64("inertia", clustering.Inertia),
		slog.Int("iterations", clustering.Iterations))

	return &Result{Customers: customers, Clusters: clusters, Inertia: clustering.Inertia}, nil
}

// summarize aggregates each cluster and sorts ascending by mean monetary,
// breaking ties by cluster id
func summarize(customers []domain.CustomerRFM, clustering *Clustering) []ClusterSummary {
	k := len(clustering.Centroids)
	sizes := clustering.Sizes()
	recency := make([]float64, k)
	frequency := make([]float64, k)
	monetary := make([]decimal.Decimal, k)
	for c := range monetary {
		monetary[c] = decimal.Zero
	}

	for i, cust := range customers {
		l := clustering.Labels[i]
		recency[l] += float64(cust.Recency)
		frequency[l] += float64(cust.Frequency)
		monetary[l] = monetary[l].Add(cust.Monetary)
	}

	out := make([]ClusterSummary, 0, k)
	for c := 0; c < k; c++ {
		s := ClusterSummary{ClusterID: c, Size: sizes[c], MeanMonetary: decimal.Zero}
		if sizes[c] > 0 {
			n := float64(sizes[c])
			s.MeanRecency = recency[c] / n
			s.MeanFrequency = frequency[c] / n
			s.MeanMonetary = monetary[c].Div(decimal.NewFromInt(int64(sizes[c])))
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].MeanMonetary.Cmp(out[j].MeanMonetary); c != 0 {
			return c < 0
		}
		return out[i].ClusterID < out[j].ClusterID
	})
	return out
}

func countDistinctIDs(customers []domain.CustomerRFM) int {
	seen := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		seen[c.CustomerID] = struct{}{}
	}
	return len(seen)
}

func countDistinctPoints(points [][]float64) int {
	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		parts := make([]string, len(p))
		for j, v := range p {
			parts[j] = fmt.Sprintf("%g", v)
		}
		seen[strings.Join(parts, "|")] = struct{}{}
	}
	return len(seen)
}
