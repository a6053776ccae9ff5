// Package pipeline wires the cleaning stages end-to-end for each dataset:
// read raw table → normalize headers → resolve/coerce/resolve → dedup →
// derive → verify → classify → enrich → write, with the lineage log
// observing every stage and the quality record counting every mutation.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"energyetl/internal/lineage"
	"energyetl/internal/metrics"
	csvparser "energyetl/internal/parser/csv"
	"energyetl/internal/quality"
	"energyetl/internal/schema"
	"energyetl/internal/sidecar"
	"energyetl/internal/transformer"
	"energyetl/internal/transformer/builtin"
	"energyetl/internal/writer"
	"energyetl/pkg/records"
)

// RunContext carries the run-wide values threaded into each component call:
// one ID and one timestamp per run, identical across all rows and datasets.
// It is explicit state, never ambient, so concurrent dataset workers cannot
// interfere and a fixed context reproduces byte-identical outputs.
type RunContext struct {
	RunID     string
	Timestamp time.Time
}

// NewRunContext creates a context for a fresh run.
func NewRunContext() RunContext {
	return RunContext{RunID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

// Pipeline transforms datasets registered in its schema registry.
type Pipeline struct {
	Registry   *schema.Registry
	InputDir   string
	OutputDir  string
	Lineage    *lineage.Log
	Log        *zap.Logger
	Classifier builtin.Classifier // nil selects the keyword heuristic
}

// DatasetResult is the outcome of one dataset's run.
type DatasetResult struct {
	Dataset    schema.Dataset
	Columns    []string // final output column order
	Quality    *quality.Record
	Citation   string
	OutputPath string
}

// RunDataset executes the full cleaning pipeline for one registered dataset
// and writes its output file. Structural errors (unknown dataset, unmapped
// column) and write failures are returned; row-scoped data errors are
// recovered, counted, and never abort the dataset.
func (p *Pipeline) RunDataset(ctx context.Context, rc RunContext, name string) (*DatasetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := p.Registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	q := &quality.Record{Dataset: ds.Name}
	log := p.Log.With(zap.String("dataset", ds.Name))

	table, err := csvparser.ReadFile(filepath.Join(p.InputDir, ds.File), csvparser.Options{TrimSpace: true})
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	q.RowsIn = len(table.Rows)
	metrics.RecordRows(ds.Name, "in", int64(q.RowsIn))
	log.Info("loaded raw table",
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Header)))

	meta, err := sidecar.Load(p.sidecarPath(ds))
	if err != nil {
		// Metadata is documentation-only; a broken sidecar must not cost
		// the dataset.
		log.Warn("sidecar unreadable", zap.Error(err))
	}

	rows, err := p.normalize(rc, ds, table)
	if err != nil {
		return nil, err
	}

	rows = p.applyStages(rc, ds, q, rows, log)

	q.RowsOut = len(rows)
	metrics.RecordRows(ds.Name, "out", int64(q.RowsOut))
	metrics.RecordRows(ds.Name, "rejected", int64(q.RowsRejected))
	metrics.RecordRows(ds.Name, "duplicates_removed", int64(q.DuplicatesRemoved))
	metrics.RecordRows(ds.Name, "nulls_converted", int64(q.NullsConverted))
	metrics.RecordRows(ds.Name, "coercion_failures", int64(q.CoercionFailures))
	metrics.RecordRows(ds.Name, "degraded_timestamps", int64(q.DegradedTimestamps))

	columns := outputColumns(ds)
	outPath := filepath.Join(p.OutputDir, ds.Name+"_cleaned.csv")

	start := time.Now()
	err = writer.WriteCSV(ds.Name, outPath, columns, rows)
	metrics.RecordStage(ds.Name, "write_output", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	p.Lineage.Record("write_output", ds.Name, len(rows), len(rows), rc.Timestamp)

	res := &DatasetResult{
		Dataset:    ds,
		Columns:    columns,
		Quality:    q,
		OutputPath: outPath,
	}
	if meta != nil {
		res.Citation = meta.Citation
	}
	log.Info("dataset cleaned",
		zap.Int("rows_in", q.RowsIn),
		zap.Int("rows_out", q.RowsOut),
		zap.Int("rejected", q.RowsRejected),
		zap.Int("duplicates", q.DuplicatesRemoved),
		zap.String("quality_flag", q.Flag()))
	return res, nil
}

// normalize canonicalizes the header row and materializes records keyed by
// canonical column name. Droppable columns are discarded here, with a
// lineage entry recording the drop.
func (p *Pipeline) normalize(rc RunContext, ds schema.Dataset, table csvparser.Table) ([]records.Record, error) {
	start := time.Now()
	mapping, err := builtin.MapHeader(ds, table.Header)
	metrics.RecordStage(ds.Name, "normalize_columns", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	rows := make([]records.Record, 0, len(table.Rows))
	for _, raw := range table.Rows {
		rec := make(records.Record, len(mapping.Columns))
		for _, col := range mapping.Columns {
			if col.Drop {
				continue
			}
			rec[col.Canonical] = raw[col.Index]
		}
		rows = append(rows, rec)
	}

	e := lineage.Entry{
		Operation:  "normalize_columns",
		Dataset:    ds.Name,
		RowsBefore: len(rows),
		RowsAfter:  len(rows),
		Timestamp:  rc.Timestamp,
	}
	if len(mapping.Dropped) > 0 {
		e.Detail = "dropped: " + strings.Join(mapping.Dropped, ", ")
	}
	p.Lineage.Append(e)
	return rows, nil
}

// applyStages runs the row-level stage chain in its fixed order, recording
// one lineage entry and one metrics observation per stage.
func (p *Pipeline) applyStages(rc RunContext, ds schema.Dataset, q *quality.Record, rows []records.Record, log *zap.Logger) []records.Record {
	classifier := p.Classifier
	if classifier == nil {
		classifier = builtin.NewKeywordClassifier(builtin.AggregateKeywords())
	}

	stages := transformer.Chain{
		builtin.ResolveNulls{Dataset: ds, Phase: builtin.PreCoerce, Quality: q},
		builtin.Coerce{Dataset: ds, MaxYear: schema.MaxYear(rc.Timestamp), Quality: q},
		builtin.ResolveNulls{Dataset: ds, Phase: builtin.PostCoerce, Quality: q},
		builtin.DeDup{Keys: ds.Key, Quality: q},
		builtin.Derive{Specs: ds.Derived},
		builtin.VerifyShares{Triple: ds.Pct, Quality: q},
	}
	if ds.HasEntity {
		stages = append(stages,
			builtin.VerifyEntityCodes{EntityField: "entity", CodeField: "code", Quality: q},
			builtin.Classify{Field: "entity", Target: builtin.ColEntityType, Classifier: classifier},
		)
	}
	stages = append(stages, builtin.Enrich{Source: ds.Name, Timestamp: rc.Timestamp, Quality: q})

	for _, stage := range stages {
		before := len(rows)
		start := time.Now()
		rows = stage.Apply(rows)
		metrics.RecordStage(ds.Name, stage.Name(), nil, time.Since(start))
		p.Lineage.Record(stage.Name(), ds.Name, before, len(rows), rc.Timestamp)
		if len(rows) != before {
			log.Debug("stage removed rows",
				zap.String("stage", stage.Name()),
				zap.Int("before", before),
				zap.Int("after", len(rows)))
		}
	}
	return rows
}

func (p *Pipeline) sidecarPath(ds schema.Dataset) string {
	if ds.Sidecar == "" {
		return ""
	}
	return filepath.Join(p.InputDir, ds.Sidecar)
}

// outputColumns is the fixed output order: canonical source columns, then
// derived columns, then the trailing metadata columns. The price series has
// no entity dimension, so no entity_type.
func outputColumns(ds schema.Dataset) []string {
	cols := ds.CanonicalColumns()
	for _, spec := range ds.Derived {
		cols = append(cols, spec.Name)
	}
	cols = append(cols, builtin.ColDataSource, builtin.ColQualityFlag, builtin.ColLastUpdated)
	if ds.HasEntity {
		cols = append(cols, builtin.ColEntityType)
	}
	return cols
}
