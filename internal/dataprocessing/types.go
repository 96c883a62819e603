package dataprocessing

import (
	"sort"
	"strings"

	"rfmpulse/internal/errors"
	"rfmpulse/pkg/contracts/domain"
)

// Sales columns
const (
	ColStatus     = "status"
	ColCreatedAt  = "created_at"
	ColOrderID    = "order_id"
	ColNetRevenue = "net_revenue"
	ColProduct    = "product"
	ColVariation  = "variation"
	ColName       = "name"
	ColCity       = "city"
	ColProvince   = "province"
)

// Ads columns
const (
	ColCampaignName = "Campaign Name"
	ColAge          = "Age"
	ColPurchases    = "Purchases"
)

// maxErrorSamples bounds the number of row errors kept in NormalizeStats
const maxErrorSamples = 20

// RawRow is one data row of a workbook sheet keyed by trimmed header name.
// Every header of the sheet is present in Values, possibly with "".
type RawRow struct {
	Row    int
	Period domain.Period
	Values map[string]string

	columns columnIndex
}

// Get returns the value of a column. An exact header match wins, otherwise
// the first sheet column whose header matches case-insensitively is used.
func (r RawRow) Get(column string) (string, bool) {
	if v, ok := r.Values[column]; ok {
		return v, true
	}
	columns := r.columns
	if columns == nil {
		columns = indexValues(r.Values)
	}
	if h, ok := columns[strings.ToLower(column)]; ok {
		return r.Values[h], true
	}
	return "", false
}

// columnIndex maps a lower-cased header to the header it resolves to
type columnIndex map[string]string

// newColumnIndex resolves headers in sheet order, first column wins
func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for _, h := range header {
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if _, ok := idx[key]; !ok {
			idx[key] = h
		}
	}
	return idx
}

// indexValues resolves rows built without a sheet header in sorted order
func indexValues(values map[string]string) columnIndex {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return newColumnIndex(keys)
}

// NormalizeStats records what happened to the input rows of one table
type NormalizeStats struct {
	Input           int                  `json:"input"`
	Retained        int                  `json:"retained"`
	DroppedStatus   int                  `json:"dropped_status"`
	DroppedUnparsed int                  `json:"dropped_unparsed"`
	Errors          []*errors.ParseError `json:"-"`
}

func (s *NormalizeStats) recordParseError(err *errors.ParseError) {
	s.DroppedUnparsed++
	if len(s.Errors) < maxErrorSamples {
		s.Errors = append(s.Errors, err)
	}
}

// SalesTable is the cleaned transaction table
type SalesTable struct {
	Transactions []domain.Transaction
	Stats        NormalizeStats
}

// AdsTable is the cleaned ads performance table
type AdsTable struct {
	Records []domain.AdRecord
	Stats   NormalizeStats
}

// FilterPeriod keeps the rows that belong to the selected period
func FilterPeriod(rows []RawRow, period domain.Period) []RawRow {
	if period == domain.AllPeriods {
		return rows
	}
	out := make([]RawRow, 0, len(rows))
	for _, r := range rows {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

// FilterTransactions keeps the transactions that belong to the selected period
func FilterTransactions(txs []domain.Transaction, period domain.Period) []domain.Transaction {
	if period == domain.AllPeriods {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Period == period {
			out = append(out, tx)
		}
	}
	return out
}

// headerSet collects the lower-cased column names seen across rows
func headerSet(rows []RawRow) map[string]bool {
	set := make(map[string]bool)
	for _, r := range rows {
		for k := range r.Values {
			set[strings.ToLower(k)] = true
		}
	}
	return set
}
