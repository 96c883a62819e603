package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rfmpulse/internal/exporter"
	"rfmpulse/pkg/contracts/domain"
)

const (
	topOverallLimit = 5
	topPeriodLimit  = 3
)

// Summarizer computes the executive summary of an analysis window
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With(slog.String("component", "summarizer"))}
}

// Summarize aggregates the transactions and ads of the selected period.
// Per-period highlights are only produced when every period is selected; they
// follow the order of periods.
func (s *Summarizer) Summarize(ctx context.Context, period domain.Period, periods []domain.Period,
	txs []domain.Transaction, ads []domain.AdRecord) *domain.ExecutiveSummary {

	sum := &domain.ExecutiveSummary{
		Period:       period,
		TotalRevenue: decimal.Zero,
	}

	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	daily := make(map[time.Time]decimal.Decimal)
	for _, tx := range txs {
		sum.TotalRevenue = sum.TotalRevenue.Add(tx.NetRevenue)
		orders[tx.OrderID] = struct{}{}
		customers[tx.CustomerID] = struct{}{}

		day := time.Date(tx.CreatedAt.Year(), tx.CreatedAt.Month(), tx.CreatedAt.Day(), 0, 0, 0, 0, tx.CreatedAt.Location())
		daily[day] = daily[day].Add(tx.NetRevenue)
	}
	for _, ad := range ads {
		sum.AdsPurchases += ad.Purchases
	}

	sum.TotalOrders = len(orders)
	sum.TotalCustomers = len(customers)
	if sum.TotalCustomers > 0 {
		sum.OrdersPerCustomer = float64(sum.TotalOrders) / float64(sum.TotalCustomers)
	}
	sum.TotalRevenueLabel = exporter.FormatRupiah(sum.TotalRevenue)

	sum.DailyRevenue = make([]domain.DailyRevenue, 0, len(daily))
	for day, rev := range daily {
		sum.DailyRevenue = append(sum.DailyRevenue, domain.DailyRevenue{Date: day, Revenue: rev})
	}
	sort.Slice(sum.DailyRevenue, func(i, j int) bool {
		return sum.DailyRevenue[i].Date.Before(sum.DailyRevenue[j].Date)
	})

	sum.TopProducts = topByRevenue(txs, func(tx domain.Transaction) string { return tx.ProductClean }, topOverallLimit)
	sum.TopCities = topByRevenue(txs, func(tx domain.Transaction) string { return tx.City }, topOverallLimit)

	if period == domain.AllPeriods {
		overall := make(map[string]bool, len(sum.TopProducts))
		for _, p := range sum.TopProducts {
			overall[p.Name] = true
		}
		for _, p := range periods {
			subset := FilterTransactions(txs, p)
			if len(subset) == 0 {
				continue
			}
			top := topByRevenue(subset, func(tx domain.Transaction) string { return tx.ProductClean }, topPeriodLimit)
			for i := range top {
				top[i].TopOverall = overall[top[i].Name]
			}
			sum.PeriodHighlights = append(sum.PeriodHighlights, domain.PeriodProducts{Period: p, Products: top})
		}
	}

	s.logger.DebugContext(ctx, "summary computed",
		slog.String("period", string(period)),
		slog.String("total_revenue", sum.TotalRevenue.String()),
		slog.Int("orders", sum.TotalOrders),
		slog.Int("customers", sum.TotalCustomers))

	return sum
}

// topByRevenue ranks the keys by summed revenue, highest first. Equal
// revenue is ordered by name.
func topByRevenue(txs []domain.Transaction, key func(domain.Transaction) string, limit int) []domain.RankedRevenue {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		k := key(tx)
		totals[k] = totals[k].Add(tx.NetRevenue)
	}

	ranked := make([]domain.RankedRevenue, 0, len(totals))
	for name, rev := range totals {
		ranked = append(ranked, domain.RankedRevenue{Name: name, Revenue: rev})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
