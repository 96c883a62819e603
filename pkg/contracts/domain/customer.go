package domain

import (
	"github.com/shopspring/decimal"
)

// CustomerRFM holds the Recency/Frequency/Monetary features of one customer.
// ClusterID and Segment are zero until the segmentation engine has run.
type CustomerRFM struct {
	CustomerID string          `json:"customer_id"`
	Recency    int             `json:"recency"`
	Frequency  int             `json:"frequency"`
	Monetary   decimal.Decimal `json:"monetary"`
	ClusterID  int             `json:"cluster_id"`
	Segment    Segment         `json:"segment"`
}

// IsValid checks the feature invariants
func (c CustomerRFM) IsValid() bool {
	return c.CustomerID != "" && c.Recency >= 0 && c.Frequency >= 1 && !c.Monetary.IsNegative()
}

// Features returns the feature vector used for clustering
func (c CustomerRFM) Features() []float64 {
	return []float64{float64(c.Recency), float64(c.Frequency), c.Monetary.InexactFloat64()}
}
