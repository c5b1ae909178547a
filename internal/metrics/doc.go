// Package metrics records Prometheus metrics for the ingestion pipeline:
// per-reader document counts, read durations and bytes ingested.
//
// The Collector registers its vectors through promauto on the registerer
// it is given, so tests and embedding applications control the registry.
// This package is internal and not part of the public API.
package metrics
