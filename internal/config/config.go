// Package config defines the JSON-serializable run configuration for the
// cleaning application. It is intentionally small and explicit so that runs
// can be loaded from disk and passed through the program without additional
// glue code.
//
// Example (trimmed):
//
//	{
//	  "job":        "energy_etl",
//	  "input_dir":  "data/raw",
//	  "output_dir": "data/cleaned",
//	  "datasets":   ["co2_emissions", "nymex_gas_prices"],
//	  "runtime":    { "dataset_workers": 2 },
//	  "logging":    { "level": "info", "format": "console" },
//	  "metrics":    { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" },
//	  "storage":    { "kind": "postgres", "dsn": "postgresql://..." }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Run is the top-level object decoded from a run configuration file.
type Run struct {
	// Job names the run for metrics labeling (Pushgateway job, statsd
	// namespace). Required.
	Job string `json:"job"`

	// InputDir holds the raw CSV exports and their metadata sidecars.
	InputDir string `json:"input_dir"`

	// OutputDir receives cleaned CSVs and the run artifacts.
	OutputDir string `json:"output_dir"`

	// Datasets selects which registered datasets to clean. Empty means all,
	// in registry order.
	Datasets []string `json:"datasets,omitempty"`

	Runtime Runtime `json:"runtime"`
	Logging Logging `json:"logging"`
	Metrics Metrics `json:"metrics"`
	Storage Storage `json:"storage"`
}

// Runtime controls concurrency.
type Runtime struct {
	// DatasetWorkers caps how many datasets clean in parallel. Zero means
	// the default of 2.
	DatasetWorkers int `json:"dataset_workers"`
}

// Logging configures the logger.
type Logging struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // console or json
}

// Metrics selects and configures the metrics backend.
type Metrics struct {
	// Backend is "pushgateway", "datadog", or "none"/empty.
	Backend string `json:"backend"`

	// PushgatewayURL is required for the pushgateway backend.
	PushgatewayURL string `json:"pushgateway_url,omitempty"`

	// StatsdAddr is the DogStatsD address for the datadog backend,
	// e.g. "127.0.0.1:8125".
	StatsdAddr string `json:"statsd_addr,omitempty"`

	// StatsdNamespace optionally prefixes all datadog metric names.
	StatsdNamespace string `json:"statsd_namespace,omitempty"`
}

// Storage configures the optional database load step.
type Storage struct {
	// Kind selects the storage implementation ("postgres", "sqlite").
	// Empty disables loading.
	Kind string `json:"kind"`

	// DSN is the connection string for the selected kind.
	DSN string `json:"dsn"`

	// BatchSize is the rows-per-batch for bulk loading. Zero means the
	// loader default.
	BatchSize int `json:"batch_size,omitempty"`

	// Verify enables post-load row count verification.
	Verify bool `json:"verify,omitempty"`

	// ExpectedCounts maps dataset name to the row count the verification
	// step asserts after loading. Only consulted when Verify is set.
	ExpectedCounts map[string]int `json:"expected_counts,omitempty"`
}

// DefaultDatasetWorkers is used when runtime.dataset_workers is unset.
const DefaultDatasetWorkers = 2

// Load reads and decodes a run configuration file.
func Load(path string) (Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("read config: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return Run{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return r, nil
}

// Workers resolves the effective dataset worker count.
func (r Run) Workers() int {
	if r.Runtime.DatasetWorkers > 0 {
		return r.Runtime.DatasetWorkers
	}
	return DefaultDatasetWorkers
}
