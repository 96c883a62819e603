package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExecutiveSummary contains the headline business figures of an analysis window
type ExecutiveSummary struct {
	Period            Period           `json:"period"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	TotalRevenueLabel string           `json:"total_revenue_label"`
	TotalOrders       int              `json:"total_orders"`
	TotalCustomers    int              `json:"total_customers"`
	AdsPurchases      int64            `json:"ads_purchases"`
	OrdersPerCustomer float64          `json:"orders_per_customer"`
	DailyRevenue      []DailyRevenue   `json:"daily_revenue"`
	TopProducts       []RankedRevenue  `json:"top_products"`
	TopCities         []RankedRevenue  `json:"top_cities"`
	PeriodHighlights  []PeriodProducts `json:"period_highlights,omitempty"`
}

// DailyRevenue is the net revenue of one calendar day
type DailyRevenue struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RankedRevenue is one entry of a top-N revenue ranking
type RankedRevenue struct {
	Rank    int             `json:"rank"`
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	// TopOverall marks a per-period entry that is also in the overall top list
	TopOverall bool `json:"top_overall,omitempty"`
}

// PeriodProducts lists the best-selling products of a single period
type PeriodProducts struct {
	Period   Period          `json:"period"`
	Products []RankedRevenue `json:"products"`
}

// SegmentInsight aggregates value and loyalty figures of one segment
type SegmentInsight struct {
	Segment         Segment         `json:"segment"`
	CustomerCount   int             `json:"customer_count"`
	Share           float64         `json:"share"`
	TotalMonetary   decimal.Decimal `json:"total_monetary"`
	RepeatRate      float64         `json:"repeat_rate"`
	RepeatCustomers int             `json:"repeat_customers"`
}
