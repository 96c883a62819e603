package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string

	SalesWorkbook string
	AdsWorkbook   string
}

// GetPaths resolves the configured paths against the base directory. An
// empty base directory means the directory of the running executable.
func GetPaths(cfg *Config) (*Paths, error) {
	base := cfg.Paths.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		if exe, err = filepath.EvalSymlinks(exe); err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		base = filepath.Dir(exe)
	}
	return NewPaths(base, cfg.Paths, cfg.Analysis), nil
}

// NewPaths builds Paths rooted at baseDir
func NewPaths(baseDir string, pc PathsConfig, ac AnalysisConfig) *Paths {
	resolve := func(root, p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	dataDir := resolve(baseDir, pc.DataDir)
	return &Paths{
		BaseDir:       baseDir,
		DataDir:       dataDir,
		ReportsDir:    resolve(baseDir, pc.ReportsDir),
		LogsDir:       resolve(baseDir, pc.LogsDir),
		SalesWorkbook: resolve(dataDir, ac.SalesWorkbook),
		AdsWorkbook:   resolve(dataDir, ac.AdsWorkbook),
	}
}

// EnsureDirectories creates the writable directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the full path of a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path of a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("paths resolved",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("sales_workbook", p.SalesWorkbook),
		slog.String("ads_workbook", p.AdsWorkbook))
}
