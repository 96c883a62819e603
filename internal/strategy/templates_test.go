package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfmpulse/pkg/contracts/domain"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		segment domain.Segment
		want    domain.StrategyKind
	}{
		{domain.SegmentChampion, domain.StrategyRetention},
		{domain.SegmentLoyalCustomer, domain.StrategyRetention},
		{domain.SegmentPotentialLoyalist, domain.StrategyCrossSell},
		{domain.SegmentNewCustomer, domain.StrategyActivation},
		{domain.SegmentHibernating, domain.StrategyWinBack},
		{domain.SegmentUnknown, domain.StrategyGeneral},
		{domain.Segment(42), domain.StrategyGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.segment.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StrategyFor(tt.segment))
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	tests := []struct {
		kind domain.StrategyKind
		want string
	}{
		{
			kind: domain.StrategyRetention,
			want: "RETENTION & EXCLUSIVE UPSELLING: Offer Exclusive Bundle KOPI. Target BANDUNG (Age 25-34). Focus on loyalty retention.",
		},
		{
			kind: domain.StrategyCrossSell,
			want: "CROSS-SELLING: Offer bundle with KOPI to customers in BANDUNG. Target 25-34 audience to raise frequency & value.",
		},
		{
			kind: domain.StrategyActivation,
			want: "ACTIVATION: Drive repeat purchase for KOPI. Use testimonial ads in BANDUNG (Target 25-34).",
		},
		{
			kind: domain.StrategyWinBack,
			want: "WIN-BACK (EFFICIENT): Offer time-limited hard discount on KOPI. Focus only on BANDUNG to conserve budget; halt if no lift.",
		},
		{
			kind: domain.StrategyGeneral,
			want: "GENERAL: Optimize ads for KOPI in BANDUNG.",
		},
		{
			kind: domain.StrategyKind("unheard_of"),
			want: "GENERAL: Optimize ads for KOPI in BANDUNG.",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := r.Render(tt.kind, "KOPI", "BANDUNG", "25-34")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
