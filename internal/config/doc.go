// Package config provides centralized configuration management for welldata.
// It loads configuration from multiple sources, validates it, and exposes a
// type-safe struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//  1. Default values (Default)
//  2. YAML file (welldata.yaml, configs/welldata.yaml, or an explicit path)
//  3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern WELLDATA_<SECTION>_<FIELD>:
//
//	WELLDATA_SERVER_PORT=8080
//	WELLDATA_SERVER_RATE_LIMIT=0
//	WELLDATA_LOGGING_LEVEL=debug
//	WELLDATA_INGEST_PROGRESS_EVERY=5000
//	WELLDATA_INGEST_COLUMNS_NAME="@Name( )"
//	WELLDATA_EXPORT_SHEET_NAME_LIMIT=30
//	WELLDATA_JOBS_POLL_INTERVAL=100ms
//
// # Column names
//
// The ingest column headers are matched exactly, case-sensitively. The
// default temperature header starts with a Cyrillic capital Te (U+0422), not
// a Latin T; it must be preserved byte for byte.
package config
