package config

import (
	"time"

	"rfmpulse/pkg/contracts"
)

const (
	AppName    = "RFM Pulse"
	AppVersion = contracts.Version

	EnvPrefix      = "RFM"
	EnvConfigFile  = "RFM_CONFIG_FILE"
	ConfigFileName = "config.yaml"

	DefaultSalesWorkbook = "Data Penjualan.xlsx"
	DefaultAdsWorkbook   = "Data Campaign.xlsx"

	// Clustering defaults
	DefaultSeed          = 42
	DefaultRestarts      = 10
	DefaultMaxIterations = 300
	DefaultTolerance     = 1e-4

	DefaultRequestTimeout = 60 * time.Second
)

// DefaultPeriods are the month sheets of the Q3 workbooks
var DefaultPeriods = []string{"JULI", "AGUSTUS", "SEPTEMBER"}
