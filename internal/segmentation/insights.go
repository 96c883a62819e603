package segmentation

import (
	"sort"

	"github.com/shopspring/decimal"

	"rfmpulse/pkg/contracts/domain"
)

// Insights aggregates customer count, share, total monetary value and the
// repeat-order rate of every segment present. The result is ordered by total
// monetary value, highest first.
func Insights(customers []domain.CustomerRFM) []domain.SegmentInsight {
	bySegment := make(map[domain.Segment]*domain.SegmentInsight)
	for _, c := range customers {
		in, ok := bySegment[c.Segment]
		if !ok {
			in = &domain.SegmentInsight{Segment: c.Segment, TotalMonetary: decimal.Zero}
			bySegment[c.Segment] = in
		}
		in.CustomerCount++
		in.TotalMonetary = in.TotalMonetary.Add(c.Monetary)
		if c.Frequency > 1 {
			in.RepeatCustomers++
		}
	}

	total := float64(len(customers))
	out := make([]domain.SegmentInsight, 0, len(bySegment))
	for _, in := range bySegment {
		in.Share = float64(in.CustomerCount) / total
		in.RepeatRate = float64(in.RepeatCustomers) / float64(in.CustomerCount)
		out = append(out, *in)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalMonetary.Cmp(out[j].TotalMonetary); c != 0 {
			return c > 0
		}
		return out[i].Segment > out[j].Segment
	})
	return out
}
