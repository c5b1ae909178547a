// Package config manages the configuration of the ingestion pipeline.
//
// Values resolve in three layers: built-in defaults, an optional YAML
// file, and environment variables prefixed with RAGCRIATOR.
package config
