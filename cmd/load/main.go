// Command load bulk-loads cleaned CSVs into a database through the storage
// factory, then optionally verifies row counts against expectations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"energyetl/internal/config"
	"energyetl/internal/logger"
	csvparser "energyetl/internal/parser/csv"
	"energyetl/internal/schema"
	"energyetl/internal/storage"

	// Register all backends with the storage factory. The config selects
	// which one to use, but the binary supports all of them.
	_ "energyetl/internal/storage/all"
)

const defaultBatchSize = 5000

func main() {
	var (
		cfgPath string
		dir     string
	)
	flag.StringVar(&cfgPath, "config", "configs/run.json", "run config JSON path")
	flag.StringVar(&dir, "dir", "", "directory of cleaned CSVs (defaults to the config's output_dir)")
	verify := flag.Bool("verify", false, "verify row counts after loading; overrides config")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if *verify {
		cfg.Storage.Verify = true
	}
	if cfg.Storage.Kind == "" {
		fatalf("storage.kind is empty; nothing to load")
	}
	if dir == "" {
		dir = cfg.OutputDir
	}

	registry, err := schema.Default()
	if err != nil {
		fatalf("schema registry: %v", err)
	}

	logCfg := logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if *verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fatalf("logger: %v", err)
	}
	defer log.Sync()

	names := cfg.Datasets
	if len(names) == 0 {
		names = registry.Names()
	}

	ctx := context.Background()
	start := time.Now()
	failed := 0
	for _, name := range names {
		if err := loadDataset(ctx, cfg, dir, name, log); err != nil {
			log.Error("load failed", zap.String("dataset", name), zap.Error(err))
			failed++
		}
	}
	log.Info("load complete",
		zap.Int("datasets", len(names)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
	if failed > 0 {
		os.Exit(1)
	}
}

// loadDataset streams one cleaned CSV into its destination table. The CSV
// header defines the destination columns; cell values load as text and rely
// on the database's input conversions for typed columns.
func loadDataset(ctx context.Context, cfg config.Run, dir, name string, log *zap.Logger) error {
	path := filepath.Join(dir, name+"_cleaned.csv")
	table, err := csvparser.ReadFile(path, csvparser.Options{})
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	repo, err := storage.New(ctx, storage.Config{
		Kind:    cfg.Storage.Kind,
		DSN:     cfg.Storage.DSN,
		Table:   name,
		Columns: table.Header,
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	batchSize := cfg.Storage.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	in := make(chan []any, batchSize)
	go func() {
		defer close(in)
		for _, row := range table.Rows {
			vals := make([]any, len(row))
			for i, cell := range row {
				if cell == "" {
					// Empty cells are nulls in the cleaned output.
					vals[i] = nil
					continue
				}
				vals[i] = cell
			}
			select {
			case in <- vals:
			case <-ctx.Done():
				return
			}
		}
	}()

	loaded, err := storage.LoadBatches(ctx, log.With(zap.String("dataset", name)), in, batchSize, repo.CopyFrom)
	if err != nil {
		return err
	}
	log.Info("dataset loaded",
		zap.String("dataset", name),
		zap.Int64("rows", loaded))

	if !cfg.Storage.Verify {
		return nil
	}
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	want := int64(len(table.Rows))
	if expected, ok := cfg.Storage.ExpectedCounts[name]; ok {
		want = int64(expected)
	}
	if count != want {
		return fmt.Errorf("verify: table %s has %d rows, want %d", name, count, want)
	}
	log.Info("count verified", zap.String("dataset", name), zap.Int64("rows", count))
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
