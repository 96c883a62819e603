package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period identifies a time bucket of the source workbooks (one sheet per month)
type Period string

const (
	// PeriodJuly is the July sheet of the Q3 workbooks
	PeriodJuly Period = "JULI"
	// PeriodAugust is the August sheet of the Q3 workbooks
	PeriodAugust Period = "AGUSTUS"
	// PeriodSeptember is the September sheet of the Q3 workbooks
	PeriodSeptember Period = "SEPTEMBER"

	// AllPeriods selects every loaded period
	AllPeriods Period = "Semua Data (Q3)"
)

// DefaultPeriods returns the month sheets in calendar order
func DefaultPeriods() []Period {
	return []Period{PeriodJuly, PeriodAugust, PeriodSeptember}
}

// ParsePeriod resolves a user supplied period name. An empty value or any
// spelling of "all" selects AllPeriods.
func ParsePeriod(s string, known []Period) (Period, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "all") || trimmed == string(AllPeriods) {
		return AllPeriods, true
	}
	for _, p := range known {
		if strings.EqualFold(trimmed, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Includes reports whether a row tagged with other belongs to the selection p
func (p Period) Includes(other Period) bool {
	return p == AllPeriods || p == other
}

// Transaction is one completed, cleaned sale line
type Transaction struct {
	CustomerID   string          `json:"customer_id" validate:"required"`
	CreatedAt    time.Time       `json:"created_at" validate:"required"`
	OrderID      string          `json:"order_id"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	ProductRaw   string          `json:"product_raw"`
	ProductClean string          `json:"product_clean"`
	Status       string          `json:"status"`
	City         string          `json:"city"`
	Province     string          `json:"province"`
	Period       Period          `json:"period"`
}

// StatusCompleted is the only status retained by the normalizer
const StatusCompleted = "completed"

// AdRecord is one campaign / age bucket row of the ads performance export
type AdRecord struct {
	CampaignRaw   string `json:"campaign_raw"`
	CampaignClean string `json:"campaign_clean"`
	AgeBucket     string `json:"age_bucket"`
	Purchases     int64  `json:"purchases"`
	Period        Period `json:"period"`
}
