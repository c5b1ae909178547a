package config

import (
	"fmt"
	"strings"
)

// Config is the full configuration tree. Values resolve in three layers:
// defaults, then an optional YAML file, then environment variables with
// the loader's prefix.
type Config struct {
	// Ingest configures file reading and encoding handling.
	Ingest IngestConfig `yaml:"ingest" env:"INGEST"`

	// Scan configures directory batch ingestion.
	Scan ScanConfig `yaml:"scan" env:"SCAN"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log" env:"LOG"`
}

// IngestConfig configures the readers.
type IngestConfig struct {
	// Preferred encoding tried before the fallback chain: utf-8, latin-1,
	// cp1252, utf-16, or any IANA charset name.
	PreferredEncoding string `yaml:"preferred_encoding" env:"PREFERRED_ENCODING"`
	// Disable charset auto-detection and go straight to the preferred
	// encoding and fallbacks.
	DisableDetection bool `yaml:"disable_detection" env:"DISABLE_DETECTION"`
	// Bytes sampled from the head of a file for charset detection.
	DetectionSampleSize int `yaml:"detection_sample_size" env:"DETECTION_SAMPLE_SIZE"`
	// Reject empty files instead of producing empty documents.
	DisallowEmpty bool `yaml:"disallow_empty" env:"DISALLOW_EMPTY"`

	// CSV reader settings.
	CSV CSVConfig `yaml:"csv" env:"CSV"`
	// DOCX reader settings.
	DOCX DOCXConfig `yaml:"docx" env:"DOCX"`
}

// CSVConfig configures the CSV reader.
type CSVConfig struct {
	// Field delimiter. Empty means sniff it from the file.
	Delimiter string `yaml:"delimiter" env:"DELIMITER"`
	// Disable delimiter sniffing.
	DisableDelimiterDetection bool `yaml:"disable_delimiter_detection" env:"DISABLE_DELIMITER_DETECTION"`
	// Cap on rows read per file. Zero or negative means the default cap.
	MaxRows int `yaml:"max_rows" env:"MAX_ROWS"`
}

// DOCXConfig configures the DOCX reader.
type DOCXConfig struct {
	// Skip table text extraction.
	ExcludeTables bool `yaml:"exclude_tables" env:"EXCLUDE_TABLES"`
}

// ScanConfig configures directory scans.
type ScanConfig struct {
	// Files read in parallel during a scan.
	Concurrency int `yaml:"concurrency" env:"CONCURRENCY"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled toggles registration of the Prometheus collectors.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console.
	Format string `yaml:"format" env:"FORMAT"`
	// Output paths handed to zap (stdout, stderr, or file paths).
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	// Annotate entries with the calling function.
	EnableCaller bool `yaml:"enable_caller" env:"ENABLE_CALLER"`
}

// Validate checks the configuration for values no component could run with.
func (c *Config) Validate() error {
	var errs []string

	if c.Ingest.DetectionSampleSize < 0 {
		errs = append(errs, "detection_sample_size must not be negative")
	}
	if len(c.Ingest.CSV.Delimiter) > 1 {
		errs = append(errs, "csv delimiter must be a single character")
	}
	if c.Scan.Concurrency <= 0 {
		errs = append(errs, "scan concurrency must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
