// Package lineage records every operation the pipeline performs as an
// ordered, append-only sequence. The log is the run's sole audit trail: it
// is serialized verbatim to a structured JSON artifact for machines and
// condensed into a plain-text summary for humans, so a reader can
// reconstruct the exact sequence and effect of every operation for any
// dataset without re-running the pipeline.
package lineage

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Entry describes one operation applied to one dataset. Entries are never
// mutated once appended.
type Entry struct {
	Operation  string    `json:"operation"`
	Dataset    string    `json:"dataset"`
	RowsBefore int       `json:"rows_before"`
	RowsAfter  int       `json:"rows_after"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Log is an append-only entry sequence. Appends are mutex-guarded so the
// per-dataset worker goroutines can share one log; global order is whatever
// the scheduler produced, but per-dataset order is always preserved.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// Append adds an entry to the log.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Record is a convenience for the common append shape.
func (l *Log) Record(op, dataset string, before, after int, at time.Time) {
	l.Append(Entry{Operation: op, Dataset: dataset, RowsBefore: before, RowsAfter: after, Timestamp: at})
}

// Entries returns a copy of the log in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ForDataset returns the entries for one dataset, preserving their order.
func (l *Log) ForDataset(name string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Dataset == name {
			out = append(out, e)
		}
	}
	return out
}

// Artifact is the machine-readable execution log written at the end of a
// run. Datasets appear in registry order regardless of worker completion
// order, so reruns produce identical artifacts.
type Artifact struct {
	RunID    string         `json:"run_id"`
	Started  time.Time      `json:"started"`
	Datasets []DatasetTrace `json:"datasets"`
}

// DatasetTrace groups one dataset's entries.
type DatasetTrace struct {
	Dataset string  `json:"dataset"`
	Entries []Entry `json:"entries"`
}

// WriteJSON serializes the log to path, grouped by the given dataset order.
func (l *Log) WriteJSON(path, runID string, started time.Time, order []string) error {
	art := Artifact{RunID: runID, Started: started}
	for _, name := range order {
		art.Datasets = append(art.Datasets, DatasetTrace{Dataset: name, Entries: l.ForDataset(name)})
	}
	b, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
