package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"energyetl/internal/lineage"
	"energyetl/internal/quality"
)

// RunResult summarizes a whole run across datasets.
type RunResult struct {
	Reports []lineage.DatasetReport
	Quality []*quality.Record
	Score   float64
	Failed  int
}

// Run cleans the named datasets, up to workers at a time, then writes the
// run artifacts (execution log JSON and cleaning summary text) into the
// output directory.
//
// A dataset failure marks that dataset failed in the report and moves on;
// the other datasets still complete and the artifacts still get written.
// Run itself only errors when the run cannot proceed at all (bad output
// directory, artifact write failure).
func (p *Pipeline) Run(ctx context.Context, rc RunContext, names []string, workers int) (*RunResult, error) {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]*DatasetResult, len(names))
	failures := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			res, err := p.RunDataset(gctx, rc, name)
			if err != nil {
				p.Log.Error("dataset failed", zap.String("dataset", name), zap.Error(err))
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Workers never return errors into the group; Wait only surfaces
	// context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RunResult{}
	for i, name := range names {
		rep := lineage.DatasetReport{Dataset: name, Steps: p.Lineage.ForDataset(name)}
		if res := results[i]; res != nil {
			rep.Quality = res.Quality
			rep.Columns = res.Columns
			rep.Citation = res.Citation
			out.Quality = append(out.Quality, res.Quality)
		} else {
			rep.Failed = failures[i]
			out.Failed++
		}
		out.Reports = append(out.Reports, rep)
	}
	out.Score = quality.Score(out.Quality)

	logPath := filepath.Join(p.OutputDir, "execution_log.json")
	if err := p.Lineage.WriteJSON(logPath, rc.RunID, rc.Timestamp, names); err != nil {
		return nil, fmt.Errorf("write execution log: %w", err)
	}
	sumPath := filepath.Join(p.OutputDir, "cleaning_summary_report.txt")
	if err := lineage.WriteSummary(sumPath, rc.RunID, rc.Timestamp, out.Reports); err != nil {
		return nil, fmt.Errorf("write summary report: %w", err)
	}

	p.Log.Info("run complete",
		zap.String("run_id", rc.RunID),
		zap.Int("datasets", len(names)),
		zap.Int("failed", out.Failed),
		zap.Float64("quality_score", out.Score))
	return out, nil
}
