package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"rfmpulse/internal/errors"
	"rfmpulse/pkg/contracts/domain"
)

// Recommender builds the per-segment recommendation table
type Recommender struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewRecommender creates a recommender
func NewRecommender(logger *slog.Logger) (*Recommender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Recommender{
		renderer: renderer,
		logger:   logger.With(slog.String("component", "strategy")),
	}, nil
}

type segmentLines struct {
	customers int
	cities    []string
	provinces []string
	products  []string
	revenue   decimal.Decimal
	lines     int
}

// Recommend returns one profile per segment present in segmented, ordered
// from Champion down to Hibernating. Dominant values are taken over the
// transaction lines of the segment's customers.
func (r *Recommender) Recommend(ctx context.Context, segmented []domain.CustomerRFM,
	txs []domain.Transaction, ads []domain.AdRecord) ([]domain.SegmentProfile, error) {

	if len(segmented) == 0 {
		return nil, &errors.EmptyInputError{Stage: "strategy"}
	}

	segmentOf := make(map[string]domain.Segment, len(segmented))
	groups := make(map[domain.Segment]*segmentLines)
	for _, c := range segmented {
		segmentOf[c.CustomerID] = c.Segment
		g, ok := groups[c.Segment]
		if !ok {
			g = &segmentLines{revenue: decimal.Zero}
			groups[c.Segment] = g
		}
		g.customers++
	}

	for _, tx := range txs {
		seg, ok := segmentOf[tx.CustomerID]
		if !ok {
			continue
		}
		g := groups[seg]
		g.cities = append(g.cities, tx.City)
		g.provinces = append(g.provinces, tx.Province)
		g.products = append(g.products, tx.ProductClean)
		g.revenue = g.revenue.Add(tx.NetRevenue)
		g.lines++
	}

	order := domain.SegmentsByValue()
	profiles := make([]domain.SegmentProfile, 0, len(groups))
	for i := len(order) - 1; i >= 0; i-- {
		seg := order[i]
		g, ok := groups[seg]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := domain.SegmentProfile{
			Segment:          seg,
			CustomerCount:    g.customers,
			DominantCity:     Mode(g.cities),
			DominantProvince: Mode(g.provinces),
			DominantProduct:  Mode(g.products),
			Strategy:         StrategyFor(seg),
		}
		if g.lines > 0 {
			p.MeanRevenue = g.revenue.Div(decimal.NewFromInt(int64(g.lines))).InexactFloat64()
		}
		p.TargetAgeBucket = TargetAge(p.DominantProduct, ads)

		text, err := r.renderer.Render(p.Strategy, p.DominantProduct, p.DominantCity, p.TargetAgeBucket)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", seg, err)
		}
		p.StrategyText = text
		profiles = append(profiles, p)
	}

	r.logger.InfoContext(ctx, "strategies recommended",
		slog.Int("segments", len(profiles)),
		slog.Int("ads_rows", len(ads)))

	return profiles, nil
}
