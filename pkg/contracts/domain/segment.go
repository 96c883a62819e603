package domain

import (
	"encoding/json"
	"fmt"
)

// Segment is one of the five customer value segments. The zero value is not
// a valid segment.
type Segment int

const (
	SegmentUnknown Segment = iota
	SegmentHibernating
	SegmentNewCustomer
	SegmentPotentialLoyalist
	SegmentLoyalCustomer
	SegmentChampion
)

// SegmentCount is the fixed number of value segments
const SegmentCount = 5

var segmentNames = map[Segment]string{
	SegmentHibernating:       "Hibernating / Low Value",
	SegmentNewCustomer:       "New Customer",
	SegmentPotentialLoyalist: "Potential Loyalist",
	SegmentLoyalCustomer:     "Loyal Customer",
	SegmentChampion:          "Champion (VIP)",
}

// SegmentsByValue returns the segments from lowest to highest mean monetary
// value. Cluster labels are assigned in this order.
func SegmentsByValue() []Segment {
	return []Segment{
		SegmentHibernating,
		SegmentNewCustomer,
		SegmentPotentialLoyalist,
		SegmentLoyalCustomer,
		SegmentChampion,
	}
}

// String returns the display label
func (s Segment) String() string {
	if name, ok := segmentNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsValid reports whether s is one of the five labels
func (s Segment) IsValid() bool {
	_, ok := segmentNames[s]
	return ok
}

// ParseSegment resolves a display label back to its Segment
func ParseSegment(label string) (Segment, error) {
	for seg, name := range segmentNames {
		if name == label {
			return seg, nil
		}
	}
	return SegmentUnknown, fmt.Errorf("unknown segment %q", label)
}

// MarshalJSON encodes the segment as its label
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a label
func (s *Segment) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	seg, err := ParseSegment(label)
	if err != nil {
		return err
	}
	*s = seg
	return nil
}

// StrategyKind is the marketing action family chosen for a segment
type StrategyKind string

const (
	StrategyRetention  StrategyKind = "retention"
	StrategyCrossSell  StrategyKind = "cross_sell"
	StrategyActivation StrategyKind = "activation"
	StrategyWinBack    StrategyKind = "win_back"
	StrategyGeneral    StrategyKind = "general"
)

// SegmentProfile summarises one segment and carries its recommendation
type SegmentProfile struct {
	Segment          Segment      `json:"segment"`
	CustomerCount    int          `json:"customer_count"`
	DominantCity     string       `json:"dominant_city"`
	DominantProvince string       `json:"dominant_province"`
	DominantProduct  string       `json:"dominant_product"`
	MeanRevenue      float64      `json:"mean_revenue"`
	TargetAgeBucket  string       `json:"target_age_bucket"`
	Strategy         StrategyKind `json:"strategy"`
	StrategyText     string       `json:"strategy_text"`
}
