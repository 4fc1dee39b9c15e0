package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/latnoise/config"
)

// SampleRecord is one grid sample in samples.csv.
type SampleRecord struct {
	X     int     `csv:"x"`
	Y     int     `csv:"y"`
	U     float32 `csv:"u"`
	V     float32 `csv:"v"`
	Value float32 `csv:"value"`
}

// HistogramRecord is one bin in histogram.csv.
type HistogramRecord struct {
	Kind  string  `csv:"kind"`
	Seed  int32   `csv:"seed"`
	Lo    float64 `csv:"lo"`
	Hi    float64 `csv:"hi"`
	Count float64 `csv:"count"`
}

// csvFile is an output file whose header is written with the first record.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any, name string) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	samples   csvFile
	stats     csvFile
	perf      csvFile
	histogram csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  *csvFile
	}{
		{"samples.csv", &om.samples},
		{"stats.csv", &om.stats},
		{"perf.csv", &om.perf},
		{"histogram.csv", &om.histogram},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", file.name, err)
		}
		file.dst.f = f
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSamples writes every stride-th row and column of a w x h grid to
// samples.csv. u and v are pixel centers in tile space.
func (om *OutputManager) WriteSamples(values []float32, w, h, stride int) error {
	if om == nil {
		return nil
	}
	if len(values) != w*h {
		return fmt.Errorf("writing samples.csv: %d values for a %dx%d grid", len(values), w, h)
	}
	if stride < 1 {
		stride = 1
	}

	records := make([]SampleRecord, 0, ((w+stride-1)/stride)*((h+stride-1)/stride))
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			records = append(records, SampleRecord{
				X:     x,
				Y:     y,
				U:     (float32(x) + 0.5) / float32(w),
				V:     (float32(y) + 0.5) / float32(h),
				Value: values[y*w+x],
			})
		}
	}
	return om.samples.write(records, "samples.csv")
}

// WriteStats writes a field stats record to stats.csv.
func (om *OutputManager) WriteStats(stats FieldStats) error {
	if om == nil {
		return nil
	}
	return om.stats.write([]FieldStats{stats}, "stats.csv")
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, run int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(run)}, "perf.csv")
}

// WriteHistogram writes histogram bins spanning [lo, hi] to histogram.csv.
func (om *OutputManager) WriteHistogram(kind string, seed int32, counts []float64, lo, hi float64) error {
	if om == nil || len(counts) == 0 {
		return nil
	}
	width := (hi - lo) / float64(len(counts))
	records := make([]HistogramRecord, len(counts))
	for i, c := range counts {
		records[i] = HistogramRecord{
			Kind:  kind,
			Seed:  seed,
			Lo:    lo + float64(i)*width,
			Hi:    lo + float64(i+1)*width,
			Count: c,
		}
	}
	return om.histogram.write(records, "histogram.csv")
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{&om.samples, &om.stats, &om.perf, &om.histogram} {
		if c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
