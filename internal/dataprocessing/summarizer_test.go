package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfmpulse/internal/shared/testutil"
	"rfmpulse/pkg/contracts/domain"
)

func summaryFixture() []domain.Transaction {
	july := func(tx domain.Transaction) domain.Transaction { tx.Period = domain.PeriodJuly; return tx }
	aug := func(tx domain.Transaction) domain.Transaction { tx.Period = domain.PeriodAugust; return tx }

	return []domain.Transaction{
		july(testutil.Tx("ANI", "O1", time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC), 500_000, "KOPI", "JAKARTA")),
		july(testutil.Tx("ANI", "O1", time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC), 100_000, "TEH", "JAKARTA")),
		july(testutil.Tx("BUDI", "O2", time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC), 300_000, "GULA", "BANDUNG")),
		aug(testutil.Tx("ANI", "O3", time.Date(2025, 8, 3, 9, 0, 0, 0, time.UTC), 900_000, "MADU", "JAKARTA")),
		aug(testutil.Tx("CICI", "O4", time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC), 50_000, "KOPI", "MEDAN")),
	}
}

func TestSummarizer_AllPeriods(t *testing.T) {
	ads := []domain.AdRecord{testutil.Ad("KOPI", "25-34", 10), testutil.Ad("TEH", "18-24", 5)}

	sum := NewSummarizer(nil).Summarize(context.Background(), domain.AllPeriods, domain.DefaultPeriods(), summaryFixture(), ads)

	assert.True(t, decimal.NewFromInt(1_850_000).Equal(sum.TotalRevenue))
	assert.Equal(t, "Rp 1.85 Jt", sum.TotalRevenueLabel)
	assert.Equal(t, 4, sum.TotalOrders)
	assert.Equal(t, 3, sum.TotalCustomers)
	assert.Equal(t, int64(15), sum.AdsPurchases)
	assert.InDelta(t, 4.0/3.0, sum.OrdersPerCustomer, 1e-9)

	require.Len(t, sum.DailyRevenue, 3)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), sum.DailyRevenue[0].Date)
	assert.True(t, decimal.NewFromInt(900_000).Equal(sum.DailyRevenue[0].Revenue))

	require.Len(t, sum.TopProducts, 4)
	assert.Equal(t, "MADU", sum.TopProducts[0].Name)
	assert.Equal(t, 1, sum.TopProducts[0].Rank)
	assert.Equal(t, "KOPI", sum.TopProducts[1].Name)
	assert.Equal(t, "JAKARTA", sum.TopCities[0].Name)

	require.Len(t, sum.PeriodHighlights, 2, "september has no data")
	assert.Equal(t, domain.PeriodJuly, sum.PeriodHighlights[0].Period)
	assert.Len(t, sum.PeriodHighlights[0].Products, 3)
	assert.True(t, sum.PeriodHighlights[0].Products[0].TopOverall)
}

func TestSummarizer_SinglePeriod(t *testing.T) {
	txs := FilterTransactions(summaryFixture(), domain.PeriodAugust)

	sum := NewSummarizer(nil).Summarize(context.Background(), domain.PeriodAugust, domain.DefaultPeriods(), txs, nil)

	assert.Equal(t, 2, sum.TotalOrders)
	assert.Empty(t, sum.PeriodHighlights)
	assert.Equal(t, "Rp 950.00 K", sum.TotalRevenueLabel)
}

func TestSummarizer_Empty(t *testing.T) {
	sum := NewSummarizer(nil).Summarize(context.Background(), domain.PeriodJuly, nil, nil, nil)

	assert.Equal(t, "Rp 0", sum.TotalRevenueLabel)
	assert.Zero(t, sum.OrdersPerCustomer)
	assert.Empty(t, sum.TopProducts)
}

func TestTopByRevenueTies(t *testing.T) {
	txs := []domain.Transaction{
		testutil.Tx("A", "1", time.Now(), 100, "ZETA", "X"),
		testutil.Tx("B", "2", time.Now(), 100, "ALPHA", "X"),
	}

	top := topByRevenue(txs, func(tx domain.Transaction) string { return tx.ProductClean }, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "ALPHA", top[0].Name)
}
