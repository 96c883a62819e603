package rfm

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rfmpulse/internal/errors"
	"rfmpulse/pkg/contracts/domain"
)

const day = 24 * time.Hour

// SnapshotDate returns the latest transaction time plus one day. The zero
// time is returned for an empty slice.
func SnapshotDate(txs []domain.Transaction) time.Time {
	var latest time.Time
	for _, tx := range txs {
		if tx.CreatedAt.After(latest) {
			latest = tx.CreatedAt
		}
	}
	if latest.IsZero() {
		return latest
	}
	return latest.Add(day)
}

// Builder computes customer RFM profiles
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates an RFM builder
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger.With(slog.String("component", "rfm_builder"))}
}

// Build computes one profile per customer using SnapshotDate(txs)
func (b *Builder) Build(ctx context.Context, txs []domain.Transaction) ([]domain.CustomerRFM, error) {
	return b.BuildAt(ctx, txs, SnapshotDate(txs))
}

type accumulator struct {
	latest   time.Time
	orders   map[string]struct{}
	monetary decimal.Decimal
}

// BuildAt computes one profile per customer relative to snapshot. Recency is
// the number of whole days between the customer's latest purchase and the
// snapshot, never negative. Profiles are sorted by customer id.
func (b *Builder) BuildAt(ctx context.Context, txs []domain.Transaction, snapshot time.Time) ([]domain.CustomerRFM, error) {
	if len(txs) == 0 {
		return nil, &errors.EmptyInputError{Stage: "rfm"}
	}

	byCustomer := make(map[string]*accumulator)
	for _, tx := range txs {
		acc, ok := byCustomer[tx.CustomerID]
		if !ok {
			acc = &accumulator{orders: make(map[string]struct{}), monetary: decimal.Zero}
			byCustomer[tx.CustomerID] = acc
		}
		if tx.CreatedAt.After(acc.latest) {
			acc.latest = tx.CreatedAt
		}
		acc.orders[tx.OrderID] = struct{}{}
		acc.monetary = acc.monetary.Add(tx.NetRevenue)
	}

	profiles := make([]domain.CustomerRFM, 0, len(byCustomer))
	for id, acc := range byCustomer {
		profiles = append(profiles, domain.CustomerRFM{
			CustomerID: id,
			Recency:    RecencyDays(snapshot, acc.latest),
			Frequency:  len(acc.orders),
			Monetary:   acc.monetary,
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CustomerID < profiles[j].CustomerID
	})

	b.logger.InfoContext(ctx, "rfm profiles built",
		slog.Int("transactions", len(txs)),
		slog.Int("customers", len(profiles)),
		slog.Time("snapshot", snapshot))

	return profiles, nil
}

// RecencyDays returns the whole days from last to snapshot, floored and
// clamped at zero
func RecencyDays(snapshot, last time.Time) int {
	d := snapshot.Sub(last)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}
