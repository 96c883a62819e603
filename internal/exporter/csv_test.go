package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfmpulse/internal/config"
	"rfmpulse/pkg/contracts/domain"
)

func setupTestWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	cfg := config.Default()
	paths := config.NewPaths(t.TempDir(), cfg.Paths, cfg.Analysis)
	return NewCSVWriter(paths, nil), paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func sampleProfiles() []domain.SegmentProfile {
	return []domain.SegmentProfile{
		{
			Segment:         domain.SegmentChampion,
			CustomerCount:   12,
			DominantProduct: "KOPI ARABICA",
			DominantCity:    "JAKARTA",
			TargetAgeBucket: "25-34",
			StrategyText:    "RETENTION & EXCLUSIVE UPSELLING: Offer Exclusive Bundle KOPI ARABICA. Target JAKARTA (Age 25-34). Focus on loyalty retention.",
		},
		{
			Segment:         domain.SegmentHibernating,
			CustomerCount:   40,
			DominantProduct: "TEH HIJAU",
			DominantCity:    "BANDUNG",
			TargetAgeBucket: "All Ages (General)",
			StrategyText:    "WIN-BACK (EFFICIENT): Offer time-limited hard discount on TEH HIJAU. Focus only on BANDUNG to conserve budget; halt if no lift.",
		},
	}
}

func TestCSVWriter_ExportStrategies(t *testing.T) {
	w, paths := setupTestWriter(t)

	path, err := w.ExportStrategies(domain.PeriodJuly, sampleProfiles())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "Strategi_Bisnis_JULI.csv"), path)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, StrategyHeaders, records[0])
	assert.Equal(t, "Champion (VIP)", records[1][0])
	assert.Equal(t, "12", records[1][1])
	assert.Contains(t, records[2][5], "halt if no lift")
}

func TestCSVWriter_ExportCustomers(t *testing.T) {
	w, _ := setupTestWriter(t)

	customers := []domain.CustomerRFM{
		{CustomerID: "ANI", Recency: 3, Frequency: 2, Monetary: decimal.NewFromInt(150000), ClusterID: 4, Segment: domain.SegmentChampion},
	}
	path, err := w.ExportCustomers(domain.AllPeriods, customers)
	require.NoError(t, err)
	assert.Equal(t, "rfm_customers_Semua_Data_Q3.csv", filepath.Base(path))

	records := readCSV(t, path)
	assert.Equal(t, []string{"ANI", "3", "2", "150000.00", "4", "Champion (VIP)"}, records[1])
}

func TestEncodeStrategies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeStrategies(&buf, sampleProfiles()))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	w, _ := setupTestWriter(t)
	target := filepath.Join(t.TempDir(), "nested", "plain.csv")

	path, err := w.WriteCSV(target, WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}}})
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}
