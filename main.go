package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/field"
	"github.com/pthm-cable/latnoise/telemetry"
)

// Options are the run settings that come from flags rather than config.
type Options struct {
	Runs     int  // Run i samples the field at seed+i
	LogStats bool // Log field and perf stats after every run
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (overrides config)")
	kind := flag.String("kind", "", "Field kind (empty = use config)")
	seed := flag.Int("seed", 0, "Base seed (0 = use config)")
	runs := flag.Int("runs", 1, "Number of runs, each at the next seed")
	logStats := flag.Bool("log-stats", false, "Output per-run stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(2)
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides, re-validated so derived values follow
	if *kind != "" {
		cfg.Field.Kind = *kind
	}
	if *seed != 0 {
		cfg.Field.Seed = int32(*seed)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	opts := Options{Runs: *runs, LogStats: *logStats}
	if _, err := run(cfg, opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// run samples the configured grid opts.Runs times and writes the results.
// It returns the stats of each run.
func run(cfg *config.Config, opts Options) ([]telemetry.FieldStats, error) {
	fld, err := field.New(cfg)
	if err != nil {
		return nil, err
	}
	if opts.Runs < 1 {
		opts.Runs = 1
	}

	pool := field.NewPool(cfg.Grid.Workers)
	defer pool.Close()

	om, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := om.Close(); err != nil {
			slog.Error("closing output", "error", err)
		}
	}()
	if err := om.WriteConfig(cfg); err != nil {
		return nil, err
	}

	slog.Info("starting run",
		"kind", fld.Kind.String(),
		"seed", fld.Seed,
		"frequency", fld.Frequency,
		"period", fld.Period.String(),
		"grid", []int{cfg.Grid.Width, cfg.Grid.Height},
		"workers", pool.Workers(),
		"runs", opts.Runs,
		"output_dir", om.Dir(),
	)

	w, h := cfg.Grid.Width, cfg.Grid.Height
	values := make([]float32, w*h)
	var neighbor []float32
	if cfg.Telemetry.CorrelateSeeds {
		neighbor = make([]float32, w*h)
	}
	lo, hi := 0.0, 1.0
	if fld.Kind.Signed() {
		lo = -1
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	all := make([]telemetry.FieldStats, 0, opts.Runs)
	baseSeed := fld.Seed

	for i := 0; i < opts.Runs; i++ {
		fld.Seed = baseSeed + int32(i)
		perf.StartRun()

		perf.StartPhase(telemetry.PhaseFill)
		if err := pool.Fill(fld, values, w, h); err != nil {
			return all, err
		}
		evaluations := w * h

		perf.StartPhase(telemetry.PhaseStats)
		stats := telemetry.ComputeFieldStats(values)
		stats.Kind = fld.Kind.String()
		stats.Seed = fld.Seed
		stats.Width, stats.Height = w, h
		var hist []float64
		if cfg.Output.HistogramBins > 0 {
			hist = telemetry.Histogram(values, cfg.Output.HistogramBins, lo, hi)
		}

		if neighbor != nil {
			perf.StartPhase(telemetry.PhaseCorrelate)
			next := *fld
			next.Seed++
			if err := pool.Fill(&next, neighbor, w, h); err != nil {
				return all, err
			}
			evaluations += w * h
			stats.SeedCorrelation = telemetry.SeedCorrelation(values, neighbor)
		}

		perf.StartPhase(telemetry.PhaseWrite)
		if err := writeRun(om, cfg, stats, values, hist, lo, hi, i == 0); err != nil {
			return all, err
		}
		perf.EndRun(evaluations)

		ps := perf.Stats()
		if err := om.WritePerf(ps, i); err != nil {
			return all, err
		}
		if opts.LogStats {
			stats.LogStats()
			ps.LogStats()
		}
		all = append(all, stats)
	}

	perf.Stats().LogStats()
	return all, nil
}

// writeRun writes one run's output. Samples are written for the first run only.
func writeRun(om *telemetry.OutputManager, cfg *config.Config, stats telemetry.FieldStats,
	values []float32, hist []float64, lo, hi float64, first bool) error {
	if first && cfg.Output.Samples {
		if err := om.WriteSamples(values, cfg.Grid.Width, cfg.Grid.Height, cfg.Output.SampleStride); err != nil {
			return err
		}
	}
	if cfg.Output.Stats {
		if err := om.WriteStats(stats); err != nil {
			return err
		}
	}
	return om.WriteHistogram(stats.Kind, stats.Seed, hist, lo, hi)
}
