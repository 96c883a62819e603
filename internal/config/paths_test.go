package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.ReportsDir = filepath.Join(base, "out")

	p := NewPaths(base, cfg.Paths, cfg.Analysis)

	assert.Equal(t, filepath.Join(base, "data"), p.DataDir)
	assert.Equal(t, filepath.Join(base, "out"), p.ReportsDir)
	assert.Equal(t, filepath.Join(base, "data", DefaultSalesWorkbook), p.SalesWorkbook)
	assert.Equal(t, filepath.Join(base, "data", DefaultAdsWorkbook), p.AdsWorkbook)
	assert.Equal(t, filepath.Join(base, "out", "x.csv"), p.GetReportPath("x.csv"))
	assert.Equal(t, filepath.Join(base, "logs", "app.log"), p.GetLogPath("app.log"))
}

func TestGetPathsWithBaseDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.BaseDir = t.TempDir()

	p, err := GetPaths(cfg)
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
