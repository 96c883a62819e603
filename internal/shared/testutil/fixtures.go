package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rfmpulse/pkg/contracts/domain"
)

// Sheet is one worksheet of a fixture workbook. The first row is the header.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// SalesHeader is the header row of a typical sales export
var SalesHeader = []interface{}{"order_id", "status", "created_at", "name", "product", "net_revenue", "city", "province"}

// AdsHeader is the header row of a typical ads export
var AdsHeader = []interface{}{"Campaign Name", "Age", "Purchases"}

// WriteWorkbook writes the sheets to a new workbook in a temporary directory
// and returns its path
func WriteWorkbook(t *testing.T, name string, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("create sheet %s: %v", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			row := row
			if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
				t.Fatalf("write row %d of %s: %v", r+1, sheet.Name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// Day returns midnight UTC of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Tx builds a completed transaction
func Tx(customer, order string, at time.Time, revenue int64, product, city string) domain.Transaction {
	return domain.Transaction{
		CustomerID:   customer,
		CreatedAt:    at,
		OrderID:      order,
		NetRevenue:   decimal.NewFromInt(revenue),
		ProductRaw:   product,
		ProductClean: product,
		Status:       domain.StatusCompleted,
		City:         city,
		Province:     city + " PROVINCE",
		Period:       domain.PeriodJuly,
	}
}

// Ad builds an ads row for an already clean campaign name
func Ad(campaign, age string, purchases int64) domain.AdRecord {
	return domain.AdRecord{
		CampaignRaw:   campaign,
		CampaignClean: campaign,
		AgeBucket:     age,
		Purchases:     purchases,
		Period:        domain.PeriodJuly,
	}
}

// SixCustomerScenario returns customers whose monetary values are
// 10, 20, 30, 1000, 1500 and 2000 with distinguishable recency and frequency.
// The two highest spenders share recency and frequency so they are the
// closest pair after scaling.
func SixCustomerScenario() []domain.CustomerRFM {
	return []domain.CustomerRFM{
		{CustomerID: "A", Recency: 5, Frequency: 1, Monetary: decimal.NewFromInt(10)},
		{CustomerID: "B", Recency: 90, Frequency: 1, Monetary: decimal.NewFromInt(20)},
		{CustomerID: "C", Recency: 45, Frequency: 4, Monetary: decimal.NewFromInt(30)},
		{CustomerID: "D", Recency: 30, Frequency: 2, Monetary: decimal.NewFromInt(1000)},
		{CustomerID: "E", Recency: 10, Frequency: 3, Monetary: decimal.NewFromInt(1500)},
		{CustomerID: "F", Recency: 10, Frequency: 3, Monetary: decimal.NewFromInt(2000)},
	}
}

// JulySales is a JULI sales sheet with five groups of two identical
// customers. Group 4 buys the most and lives in Bandung. It also carries one
// pending order and one row with an unparseable date.
func JulySales() Sheet {
	lastDay := []int{1, 8, 15, 22, 30}
	orders := []int{1, 1, 2, 4, 8}
	revenue := []int{10000, 50000, 200000, 800000, 3000000}
	products := []string{"Gula Aren", "Teh Hijau", "Madu Hutan", "Kopi Robusta", "Kopi Arabica (250g)"}
	cities := []string{"Medan", "Surabaya", "Depok", "Jakarta", "Bandung"}

	rows := [][]interface{}{SalesHeader}
	for g := range lastDay {
		for i := 0; i < 2; i++ {
			for o := 0; o < orders[g]; o++ {
				rows = append(rows, []interface{}{
					fmt.Sprintf("ORD-%d-%d-%d", g, i, o),
					"Completed ",
					fmt.Sprintf("%02d/07/2025 09:00", lastDay[g]),
					fmt.Sprintf("Customer %d%d", g, i),
					products[g],
					revenue[g],
					cities[g],
					"Province " + cities[g],
				})
			}
		}
	}
	rows = append(rows,
		[]interface{}{"ORD-X", "pending", "02/07/2025", "Customer 00", "Gula Aren", 1, "Medan", "Sumut"},
		[]interface{}{"ORD-Y", "completed", "not a date", "Customer 00", "Gula Aren", 1, "Medan", "Sumut"},
	)
	return Sheet{Name: "JULI", Rows: rows}
}

// JulyAds is the JULI ads sheet matching JulySales. Kopi Arabica converts
// best in the 25-34 bucket.
func JulyAds() Sheet {
	return Sheet{Name: "JULI", Rows: [][]interface{}{
		AdsHeader,
		{"Kopi Arabica", "25-34", 9},
		{"Kopi Arabica", "18-24", 3},
		{"Teh Hijau", "35-44", 4},
	}}
}
