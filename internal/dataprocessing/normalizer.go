package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rfmpulse/internal/errors"
	"rfmpulse/pkg/contracts/domain"
)

var (
	parenGroupRe   = regexp.MustCompile(`[\s\p{Zs}]*\(.*?\)`)
	leadingDigitRe = regexp.MustCompile(`^[\p{L}\p{N}_]*\p{Nd}[\p{L}\p{N}_]*[\s\p{Zs}]+`)
)

// NormalizeName reduces a product or campaign name to its canonical form so
// that sales and ads names can be compared.
//
//	"SKU123 - Blue (Limited Edition)" -> "BLUE"
//	"2PCS Kopi Arabica"               -> "KOPI ARABICA"
func NormalizeName(s string) string {
	if s == "" {
		return ""
	}
	text := cases.Upper(language.Und).String(s)
	text = parenGroupRe.ReplaceAllString(text, "")
	if i := strings.LastIndex(text, " - "); i >= 0 {
		text = text[i+len(" - "):]
	}
	text = leadingDigitRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// upperTrim upper-cases and trims a location or customer name
func upperTrim(s string) string {
	return strings.TrimSpace(cases.Upper(language.Und).String(s))
}

// Normalizer cleans raw workbook rows into canonical tables
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// NormalizeSales validates the sales header set and converts every completed
// row into a Transaction. Rows whose timestamp, revenue or customer cannot be
// read are dropped and counted.
func (n *Normalizer) NormalizeSales(ctx context.Context, rows []RawRow) (*SalesTable, error) {
	if len(rows) == 0 {
		return nil, &errors.EmptyInputError{Stage: "normalize_sales"}
	}

	headers := headerSet(rows)
	productCol := ColProduct
	if !headers[ColProduct] {
		productCol = ColVariation
	}
	if !headers[productCol] {
		return nil, &errors.SchemaError{Dataset: "sales", Field: ColProduct + "|" + ColVariation}
	}
	for _, col := range []string{ColStatus, ColCreatedAt, ColOrderID, ColNetRevenue, ColName} {
		if !headers[col] {
			return nil, &errors.SchemaError{Dataset: "sales", Field: col}
		}
	}

	table := &SalesTable{
		Transactions: make([]domain.Transaction, 0, len(rows)),
		Stats:        NormalizeStats{Input: len(rows)},
	}

	for _, row := range rows {
		status, _ := row.Get(ColStatus)
		status = strings.ToLower(strings.TrimSpace(status))
		if status != domain.StatusCompleted {
			table.Stats.DroppedStatus++
			continue
		}

		rawDate, _ := row.Get(ColCreatedAt)
		createdAt, err := ParseDayFirst(rawDate)
		if err != nil {
			table.Stats.recordParseError(&errors.ParseError{Row: row.Row, Field: ColCreatedAt, Value: rawDate, Cause: err})
			continue
		}

		rawRevenue, _ := row.Get(ColNetRevenue)
		revenue, err := ParseAmount(rawRevenue)
		if err != nil {
			table.Stats.recordParseError(&errors.ParseError{Row: row.Row, Field: ColNetRevenue, Value: rawRevenue, Cause: err})
			continue
		}
		if revenue.IsNegative() {
			table.Stats.recordParseError(&errors.ParseError{Row: row.Row, Field: ColNetRevenue, Value: rawRevenue,
				Cause: fmt.Errorf("negative revenue")})
			continue
		}

		rawName, _ := row.Get(ColName)
		customer := upperTrim(rawName)
		if customer == "" {
			table.Stats.recordParseError(&errors.ParseError{Row: row.Row, Field: ColName, Value: rawName,
				Cause: fmt.Errorf("empty customer id")})
			continue
		}

		orderID, _ := row.Get(ColOrderID)
		product, _ := row.Get(productCol)
		city, _ := row.Get(ColCity)
		province, _ := row.Get(ColProvince)

		table.Transactions = append(table.Transactions, domain.Transaction{
			CustomerID:   customer,
			CreatedAt:    createdAt,
			OrderID:      strings.TrimSpace(orderID),
			NetRevenue:   revenue,
			ProductRaw:   product,
			ProductClean: NormalizeName(product),
			Status:       status,
			City:         upperTrim(city),
			Province:     upperTrim(province),
			Period:       row.Period,
		})
	}

	table.Stats.Retained = len(table.Transactions)
	n.logStats(ctx, "sales", table.Stats)

	if table.Stats.Retained == 0 {
		return nil, &errors.EmptyInputError{Stage: "normalize_sales"}
	}
	return table, nil
}

// NormalizeAds validates the ads header set and converts every row into an
// AdRecord. Missing or unreadable purchase counts become 0.
func (n *Normalizer) NormalizeAds(ctx context.Context, rows []RawRow) (*AdsTable, error) {
	table := &AdsTable{Stats: NormalizeStats{Input: len(rows)}}
	if len(rows) == 0 {
		n.logger.WarnContext(ctx, "ads table is empty, targeting falls back to general audience")
		return table, nil
	}

	headers := headerSet(rows)
	for _, col := range []string{ColCampaignName, ColAge, ColPurchases} {
		if !headers[strings.ToLower(col)] {
			return nil, &errors.SchemaError{Dataset: "ads", Field: col}
		}
	}

	table.Records = make([]domain.AdRecord, 0, len(rows))
	for _, row := range rows {
		campaign, _ := row.Get(ColCampaignName)
		age, _ := row.Get(ColAge)
		rawPurchases, _ := row.Get(ColPurchases)

		table.Records = append(table.Records, domain.AdRecord{
			CampaignRaw:   campaign,
			CampaignClean: NormalizeName(campaign),
			AgeBucket:     strings.TrimSpace(age),
			Purchases:     parsePurchases(rawPurchases),
			Period:        row.Period,
		})
	}

	table.Stats.Retained = len(table.Records)
	n.logStats(ctx, "ads", table.Stats)
	return table, nil
}

func (n *Normalizer) logStats(ctx context.Context, dataset string, stats NormalizeStats) {
	attrs := []any{
		slog.String("dataset", dataset),
		slog.Int("input", stats.Input),
		slog.Int("retained", stats.Retained),
		slog.Int("dropped_status", stats.DroppedStatus),
		slog.Int("dropped_unparsed", stats.DroppedUnparsed),
	}
	if stats.DroppedUnparsed > 0 {
		attrs = append(attrs, slog.String("sample_errors", errors.ParseErrors(stats.Errors)))
		n.logger.WarnContext(ctx, "rows dropped during normalization", attrs...)
		return
	}
	n.logger.InfoContext(ctx, "normalization complete", attrs...)
}

// ParseAmount parses a revenue cell. A currency prefix, spaces and comma
// thousand separators are tolerated.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

// parsePurchases reads a purchase count. Unreadable or negative values are 0
// and fractional values are floored.
func parsePurchases(value string) int64 {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return int64(math.Floor(f))
}
