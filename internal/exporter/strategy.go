package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rfmpulse/pkg/contracts/domain"
)

// StrategyHeaders are the columns of the strategy export
var StrategyHeaders = []string{"Segment", "Customer Count", "Dominant Product", "Dominant City", "Target Age", "Strategy"}

// CustomerHeaders are the columns of the customer export
var CustomerHeaders = []string{"Customer", "Recency", "Frequency", "Monetary", "Cluster", "Segment"}

// StrategyFileName returns the download name of a period's strategy export
func StrategyFileName(period domain.Period) string {
	return fmt.Sprintf("Strategi_Bisnis_%s.csv", fileSafe(string(period)))
}

// CustomerFileName returns the file name of a period's customer export
func CustomerFileName(period domain.Period) string {
	return fmt.Sprintf("rfm_customers_%s.csv", fileSafe(string(period)))
}

func fileSafe(s string) string {
	r := strings.NewReplacer(" ", "_", "/", "-", "(", "", ")", "")
	return r.Replace(s)
}

// StrategyRecords converts segment profiles to CSV rows
func StrategyRecords(profiles []domain.SegmentProfile) [][]string {
	records := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, []string{
			p.Segment.String(),
			strconv.Itoa(p.CustomerCount),
			p.DominantProduct,
			p.DominantCity,
			p.TargetAgeBucket,
			p.StrategyText,
		})
	}
	return records
}

// CustomerRecords converts customer profiles to CSV rows
func CustomerRecords(customers []domain.CustomerRFM) [][]string {
	records := make([][]string, 0, len(customers))
	for _, c := range customers {
		records = append(records, []string{
			c.CustomerID,
			strconv.Itoa(c.Recency),
			strconv.Itoa(c.Frequency),
			formatDecimal(c.Monetary),
			strconv.Itoa(c.ClusterID),
			c.Segment.String(),
		})
	}
	return records
}

// EncodeStrategies writes the strategy table with a BOM to out
func EncodeStrategies(out io.Writer, profiles []domain.SegmentProfile) error {
	return Encode(out, WriteOptions{
		Headers:   StrategyHeaders,
		Records:   StrategyRecords(profiles),
		BOMPrefix: true,
	})
}

// ExportStrategies writes the strategy table of a period to the reports directory
func (w *CSVWriter) ExportStrategies(period domain.Period, profiles []domain.SegmentProfile) (string, error) {
	return w.WriteCSV(StrategyFileName(period), WriteOptions{
		Headers:   StrategyHeaders,
		Records:   StrategyRecords(profiles),
		BOMPrefix: true,
	})
}

// ExportCustomers writes the per-customer RFM table of a period
func (w *CSVWriter) ExportCustomers(period domain.Period, customers []domain.CustomerRFM) (string, error) {
	return w.WriteCSV(CustomerFileName(period), WriteOptions{
		Headers:   CustomerHeaders,
		Records:   CustomerRecords(customers),
		BOMPrefix: true,
	})
}
