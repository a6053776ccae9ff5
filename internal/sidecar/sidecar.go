// Package sidecar reads the optional JSON metadata files shipped next to
// the grapher CSV exports. The sidecar is not required for transformation
// correctness; it only feeds source citations into the run summary.
package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ColumnMeta is the per-column slice of the upstream metadata document.
type ColumnMeta struct {
	Type             string `json:"type,omitempty"`
	Unit             string `json:"unit,omitempty"`
	Timespan         string `json:"timespan,omitempty"`
	DescriptionShort string `json:"descriptionShort,omitempty"`
}

// Metadata is the subset of the sidecar document the pipeline consumes.
type Metadata struct {
	Citation    string                `json:"citation,omitempty"`
	LastUpdated string                `json:"lastUpdated,omitempty"`
	Columns     map[string]ColumnMeta `json:"columns,omitempty"`
}

// Load reads a sidecar file. A missing file is not an error (the price
// series ships without one); both return values are nil in that case.
func Load(path string) (*Metadata, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode sidecar %s: %w", path, err)
	}
	return &m, nil
}
