package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/latnoise/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Nil manager methods are no-ops.
	if err := om.WriteStats(FieldStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteSamples(nil, 0, 0, 1); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should report empty dir")
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	values := make([]float32, 4*3)
	for i := range values {
		values[i] = float32(i) / 10
	}
	if err := om.WriteSamples(values, 4, 3, 2); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteSamples(values[:5], 4, 3, 1); err == nil {
		t.Error("expected error for short sample buffer")
	}

	s := ComputeFieldStats(values)
	s.Kind = "gradient"
	s.Width, s.Height = 4, 3
	for i := 0; i < 2; i++ {
		if err := om.WriteStats(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteHistogram("gradient", 0, []float64{1, 2}, -1, 1); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var samples []SampleRecord
	readCSV(t, filepath.Join(dir, "samples.csv"), &samples)
	// stride 2 over 4x3 keeps x in {0, 2}, y in {0, 2}
	if len(samples) != 4 {
		t.Fatalf("got %d sample rows, want 4", len(samples))
	}
	last := samples[3]
	if last.X != 2 || last.Y != 2 || last.Value != values[2*4+2] {
		t.Errorf("unexpected last sample %+v", last)
	}
	if last.U != 0.625 || last.V != 2.5/3 {
		t.Errorf("unexpected tile coords %v, %v", last.U, last.V)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("stats.csv should have a header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "kind,seed,width,height") {
		t.Errorf("unexpected header %q", lines[0])
	}

	var bins []HistogramRecord
	readCSV(t, filepath.Join(dir, "histogram.csv"), &bins)
	if len(bins) != 2 || bins[1].Lo != 0 || bins[1].Hi != 1 || bins[1].Count != 2 {
		t.Errorf("unexpected histogram rows %+v", bins)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func readCSV(t *testing.T, path string, out any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		t.Fatal(err)
	}
}
