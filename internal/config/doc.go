// Package config provides configuration management for RFM Pulse.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//	1. Default values (Default)
//	2. YAML configuration file (config.yaml or the path in RFM_CONFIG_FILE)
//	3. Environment variables (RFM_* prefix)
//
// # Environment Variables
//
//	RFM_SERVER_PORT=8080
//	RFM_LOGGING_LEVEL=debug
//	RFM_ANALYSIS_SEED=42
//	RFM_ANALYSIS_PERIODS=JULI,AGUSTUS,SEPTEMBER
//	RFM_ANALYSIS_SALES_WORKBOOK=data/Data Penjualan.xlsx
//
// The resulting Config is validated with struct tags before use.
package config
