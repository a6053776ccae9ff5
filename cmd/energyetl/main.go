package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"energyetl/internal/config"
	"energyetl/internal/lineage"
	"energyetl/internal/logger"
	"energyetl/internal/metrics"
	"energyetl/internal/metrics/datadog"
	"energyetl/internal/metrics/prompush"
	"energyetl/internal/pipeline"
	"energyetl/internal/schema"
)

// main is the entry point for the cleaning binary. It loads the run config,
// optionally initializes a metrics backend, and executes the run.
func main() {
	var (
		cfgPath           string
		inputDirFlg       string
		outputDirFlg      string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/run.json", "run config JSON path")
	flag.StringVar(&inputDirFlg, "input-dir", "", "directory of raw CSVs; overrides config")
	flag.StringVar(&outputDirFlg, "output-dir", "", "directory for cleaned CSVs and reports; overrides config")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none); overrides config")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides config and env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if inputDirFlg != "" {
		cfg.InputDir = inputDirFlg
	}
	if outputDirFlg != "" {
		cfg.OutputDir = outputDirFlg
	}

	// A broken registry is a programming error; fail before touching data.
	registry, err := schema.Default()
	if err != nil {
		fatalf("schema registry: %v", err)
	}

	issues := config.ValidateRun(cfg, registry.Names())
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		fmt.Printf("configuration is valid: %v\n", cfgPath)
		return
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

	setupMetrics(cfg, metricsBackendFlg, pushGatewayURLFlg, log)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
	}()

	names := cfg.Datasets
	if len(names) == 0 {
		names = registry.Names()
	}

	p := &pipeline.Pipeline{
		Registry:  registry,
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Lineage:   &lineage.Log{},
		Log:       log,
	}

	rc := pipeline.NewRunContext()
	start := time.Now()
	res, err := p.Run(context.Background(), rc, names, cfg.Workers())
	if err != nil {
		log.Fatal("run failed", zap.Error(err))
	}
	log.Info("done",
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		zap.Float64("quality_score", res.Score))
	if res.Failed > 0 {
		os.Exit(1)
	}
}

// setupMetrics decides the metrics backend: flag, then config, then env.
func setupMetrics(cfg config.Run, backendFlag, gwFlag string, log *zap.Logger) {
	name := backendFlag
	if name == "" {
		name = cfg.Metrics.Backend
	}
	if name == "" {
		name = os.Getenv("METRICS_BACKEND")
	}

	switch name {
	case "pushgateway":
		gwURL := gwFlag
		if gwURL == "" {
			gwURL = cfg.Metrics.PushgatewayURL
		}
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		jobName := cfg.Job
		if jobName == "" {
			jobName = "energy_etl"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Warn("metrics backend init failed; using nop", zap.Error(err))
			return
		}
		log.Info("metrics enabled",
			zap.String("backend", name),
			zap.String("url", gwURL),
			zap.String("job", jobName))
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      cfg.Metrics.StatsdAddr,
			Namespace: cfg.Metrics.StatsdNamespace,
		})
		if err != nil {
			log.Warn("metrics backend init failed; using nop", zap.Error(err))
			return
		}
		log.Info("metrics enabled",
			zap.String("backend", name),
			zap.String("addr", cfg.Metrics.StatsdAddr))
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Warn("unknown metrics backend; metrics disabled", zap.String("backend", name))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
