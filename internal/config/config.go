package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. WELLDATA_SERVER_PORT.
const EnvPrefix = "WELLDATA"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Ingest    IngestConfig    `yaml:"ingest" envconfig:"INGEST"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Jobs      JobsConfig      `yaml:"jobs" envconfig:"JOBS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// RateLimit is the steady request rate per second; zero disables limiting.
	RateLimit float64 `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" envconfig:"RATE_BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ColumnsConfig names the header cells of a year sheet. The export writes
// the same names so its output can be loaded again.
type ColumnsConfig struct {
	Name        string `yaml:"name" envconfig:"NAME"`
	Date        string `yaml:"date" envconfig:"DATE"`
	Liquid      string `yaml:"liquid" envconfig:"LIQUID"`
	Oil         string `yaml:"oil" envconfig:"OIL"`
	Temperature string `yaml:"temperature" envconfig:"TEMPERATURE"`
}

// IngestConfig tunes workbook ingestion
type IngestConfig struct {
	Columns ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`
	// ProgressEvery is the number of rows between local progress reports.
	ProgressEvery int `yaml:"progress_every" envconfig:"PROGRESS_EVERY"`
}

// ExportConfig tunes workbook export
type ExportConfig struct {
	SheetNameLimit int    `yaml:"sheet_name_limit" envconfig:"SHEET_NAME_LIMIT"`
	DateLayout     string `yaml:"date_layout" envconfig:"DATE_LAYOUT"`
	ProgressEvery  int    `yaml:"progress_every" envconfig:"PROGRESS_EVERY"`
}

// JobsConfig tunes the observer side of background jobs
type JobsConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty path
// searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalises output modes
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server rate limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return fmt.Errorf("server rate burst must be positive when rate limiting")
	}

	cols := c.Ingest.Columns
	if cols.Name == "" || cols.Date == "" {
		return fmt.Errorf("name and date column headers are required")
	}
	if cols.Name == cols.Date {
		return fmt.Errorf("name and date column headers must differ")
	}

	if c.Ingest.ProgressEvery <= 0 {
		return fmt.Errorf("ingest progress_every must be positive")
	}
	if c.Export.ProgressEvery <= 0 {
		return fmt.Errorf("export progress_every must be positive")
	}

	// Worksheet names are capped at 31 characters by the xlsx format.
	if c.Export.SheetNameLimit <= 0 || c.Export.SheetNameLimit > 31 {
		return fmt.Errorf("invalid sheet name limit: %d", c.Export.SheetNameLimit)
	}

	if c.Export.DateLayout == "" {
		c.Export.DateLayout = DefaultDateLayout
	}

	if c.Jobs.PollInterval <= 0 {
		return fmt.Errorf("jobs poll interval must be positive")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/welldata.log"
	}

	return nil
}

// getConfigFilePath returns the first config file found in the common locations
func getConfigFilePath() string {
	locations := []string{
		"welldata.yaml",
		"configs/welldata.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// DefaultDateLayout renders exported timestamps as YYYY-MM-DD HH:MM:SS.
const DefaultDateLayout = "2006-01-02 15:04:05"

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       DefaultRateLimit,
			RateBurst:       DefaultBurstSize,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/welldata.log",
		},
		Ingest: IngestConfig{
			Columns: ColumnsConfig{
				Name:        "@Name( )",
				Date:        "Date",
				Liquid:      "PdLiq",
				Oil:         "PdOil",
				Temperature: "Тemperature",
			},
			ProgressEvery: 2000,
		},
		Export: ExportConfig{
			SheetNameLimit: 30,
			DateLayout:     DefaultDateLayout,
			ProgressEvery:  500,
		},
		Jobs: JobsConfig{
			PollInterval: 50 * time.Millisecond,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "welldata",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
