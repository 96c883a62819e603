package segmentation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rfmpulse/internal/errors"
	"rfmpulse/internal/shared/testutil"
	"rfmpulse/pkg/contracts/domain"
)

// groupedCustomers returns five well separated groups of six customers.
// Group g is expected to become domain.SegmentsByValue()[g].
func groupedCustomers() []domain.CustomerRFM {
	recency := []int{80, 60, 40, 20, 5}
	frequency := []int{1, 2, 3, 5, 8}
	monetary := []int64{100, 1000, 5000, 20000, 80000}

	var out []domain.CustomerRFM
	for g := range recency {
		for i := 0; i < 6; i++ {
			out = append(out, domain.CustomerRFM{
				CustomerID: fmt.Sprintf("G%d-C%d", g, i),
				Recency:    recency[g] + i,
				Frequency:  frequency[g],
				Monetary:   decimal.NewFromInt(monetary[g] + int64(i)*10),
			})
		}
	}
	return out
}

func groupOf(id string) int {
	var g, c int
	fmt.Sscanf(id, "G%d-C%d", &g, &c)
	return g
}

func TestEngine_SegmentGroups(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)

	result, err := engine.Segment(context.Background(), groupedCustomers())
	require.NoError(t, err)
	require.Len(t, result.Customers, 30)
	require.Len(t, result.Clusters, domain.SegmentCount)

	order := domain.SegmentsByValue()
	for _, c := range result.Customers {
		assert.Equal(t, order[groupOf(c.CustomerID)], c.Segment, c.CustomerID)
	}

	for i, cl := range result.Clusters {
		assert.Equal(t, order[i], cl.Segment)
		assert.Equal(t, 6, cl.Size)
		if i > 0 {
			assert.True(t, result.Clusters[i-1].MeanMonetary.LessThan(cl.MeanMonetary))
		}
	}

	seg, ok := result.SegmentOf("G4-C0")
	assert.True(t, ok)
	assert.Equal(t, domain.SegmentChampion, seg)
	_, ok = result.SegmentOf("nobody")
	assert.False(t, ok)
}

func TestEngine_SixCustomerScenario(t *testing.T) {
	result, err := NewEngine(DefaultConfig(), nil).Segment(context.Background(), testutil.SixCustomerScenario())
	require.NoError(t, err)

	for _, c := range result.Customers {
		if c.Monetary.GreaterThanOrEqual(decimal.NewFromInt(1500)) {
			assert.Equal(t, domain.SegmentChampion, c.Segment, c.CustomerID)
		}
	}
	seg, _ := result.SegmentOf("A")
	assert.Equal(t, domain.SegmentHibernating, seg)
}

func TestEngine_Coverage(t *testing.T) {
	customers := groupedCustomers()
	result, err := NewEngine(DefaultConfig(), nil).Segment(context.Background(), customers)
	require.NoError(t, err)

	total := 0
	for _, cl := range result.Clusters {
		total += cl.Size
	}
	assert.Equal(t, len(customers), total)

	counted := 0
	for _, in := range Insights(result.Customers) {
		counted += in.CustomerCount
	}
	assert.Equal(t, len(customers), counted)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)

	first, err := engine.Segment(context.Background(), testutil.SixCustomerScenario())
	require.NoError(t, err)
	second, err := engine.Segment(context.Background(), testutil.SixCustomerScenario())
	require.NoError(t, err)

	assert.Equal(t, first.Customers, second.Customers)
}

func TestEngine_LabelsStableUnderShuffle(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)
	base, err := engine.Segment(context.Background(), testutil.SixCustomerScenario())
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("row order does not change segment labels", prop.ForAll(
		func(seed int64) bool {
			shuffled := testutil.SixCustomerScenario()
			r := rand.New(rand.NewSource(seed))
			r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

			got, err := engine.Segment(context.Background(), shuffled)
			if err != nil {
				return false
			}
			for _, c := range base.Customers {
				seg, ok := got.SegmentOf(c.CustomerID)
				if !ok || seg != c.Segment {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestEngine_TooFewCustomers(t *testing.T) {
	tests := []struct {
		name      string
		customers []domain.CustomerRFM
		wantGot   int
	}{
		{
			name:      "four customers",
			customers: testutil.SixCustomerScenario()[:4],
			wantGot:   4,
		},
		{
			name: "identical features",
			customers: []domain.CustomerRFM{
				{CustomerID: "A", Recency: 1, Frequency: 1, Monetary: decimal.NewFromInt(5)},
				{CustomerID: "B", Recency: 1, Frequency: 1, Monetary: decimal.NewFromInt(5)},
				{CustomerID: "C", Recency: 1, Frequency: 1, Monetary: decimal.NewFromInt(5)},
				{CustomerID: "D", Recency: 2, Frequency: 1, Monetary: decimal.NewFromInt(5)},
				{CustomerID: "E", Recency: 2, Frequency: 1, Monetary: decimal.NewFromInt(5)},
				{CustomerID: "F", Recency: 3, Frequency: 1, Monetary: decimal.NewFromInt(5)},
			},
			wantGot: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(DefaultConfig(), nil).Segment(context.Background(), tt.customers)

			var clusterErr *apperrors.ClusteringError
			require.True(t, errors.As(err, &clusterErr))
			assert.Equal(t, domain.SegmentCount, clusterErr.Required)
			assert.Equal(t, tt.wantGot, clusterErr.Got)
		})
	}
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	input := testutil.SixCustomerScenario()
	input[0], input[5] = input[5], input[0]

	_, err := NewEngine(DefaultConfig(), nil).Segment(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "F", input[0].CustomerID)
	assert.Equal(t, domain.SegmentUnknown, input[0].Segment)
}

func TestInsights(t *testing.T) {
	customers := []domain.CustomerRFM{
		{CustomerID: "A", Frequency: 3, Monetary: decimal.NewFromInt(900), Segment: domain.SegmentChampion},
		{CustomerID: "B", Frequency: 1, Monetary: decimal.NewFromInt(600), Segment: domain.SegmentChampion},
		{CustomerID: "C", Frequency: 1, Monetary: decimal.NewFromInt(50), Segment: domain.SegmentHibernating},
		{CustomerID: "D", Frequency: 2, Monetary: decimal.NewFromInt(50), Segment: domain.SegmentHibernating},
	}

	insights := Insights(customers)
	require.Len(t, insights, 2)

	assert.Equal(t, domain.SegmentChampion, insights[0].Segment)
	assert.Equal(t, 2, insights[0].CustomerCount)
	assert.InDelta(t, 0.5, insights[0].Share, 1e-12)
	assert.True(t, decimal.NewFromInt(1500).Equal(insights[0].TotalMonetary))
	assert.InDelta(t, 0.5, insights[0].RepeatRate, 1e-12)

	assert.Equal(t, domain.SegmentHibernating, insights[1].Segment)
	assert.Equal(t, 1, insights[1].RepeatCustomers)
}
