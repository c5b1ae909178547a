package config

// DefaultConfig returns the configuration every layer starts from.
func DefaultConfig() *Config {
	return &Config{
		Ingest:  DefaultIngestConfig(),
		Scan:    DefaultScanConfig(),
		Metrics: DefaultMetricsConfig(),
		Log:     DefaultLogConfig(),
	}
}

// DefaultIngestConfig returns the default reader settings.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		PreferredEncoding:   "utf-8",
		DisableDetection:    false,
		DetectionSampleSize: 10000,
		DisallowEmpty:       false,
		CSV: CSVConfig{
			Delimiter:                 "",
			DisableDelimiterDetection: false,
			MaxRows:                   1000,
		},
		DOCX: DOCXConfig{
			ExcludeTables: false,
		},
	}
}

// DefaultScanConfig returns the default scan settings.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Concurrency: 4,
	}
}

// DefaultMetricsConfig returns the default metrics settings.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "ragcriator",
	}
}

// DefaultLogConfig returns the default logger settings.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "console",
		OutputPaths:  []string{"stderr"},
		EnableCaller: false,
	}
}
