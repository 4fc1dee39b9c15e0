package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FieldStats holds distribution statistics for one sampled grid.
type FieldStats struct {
	Kind   string `csv:"kind"`
	Seed   int32  `csv:"seed"`
	Width  int    `csv:"width"`
	Height int    `csv:"height"`

	Min  float64 `csv:"min"`
	Max  float64 `csv:"max"`
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`

	OverUnit int `csv:"over_unit"` // Samples with |v| > 1

	// Correlation with the same grid at seed+1 (NaN when not measured)
	SeedCorrelation float64 `csv:"seed_corr"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// widen converts samples to float64 for gonum.
func widen(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// ComputeFieldStats calculates the distribution of a sampled grid.
// Kind, Seed and the grid size are left for the caller.
func ComputeFieldStats(values []float32) FieldStats {
	s := FieldStats{SeedCorrelation: math.NaN()}
	if len(values) == 0 {
		return s
	}

	sorted := widen(values)
	sort.Float64s(sorted)

	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Mean, s.Std = stat.PopMeanStdDev(sorted, nil)
	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)

	for _, v := range sorted {
		if math.Abs(v) > 1 {
			s.OverUnit++
		}
	}
	return s
}

// SeedCorrelation returns the Pearson correlation between two grids sampled
// at the same points. Returns NaN if the lengths differ or either is empty.
func SeedCorrelation(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}
	return stat.Correlation(widen(a), widen(b), nil)
}

// Histogram counts values into bins equal-width bins over [lo, hi].
// Values outside the range are clamped into the end bins.
func Histogram(values []float32, bins int, lo, hi float64) []float64 {
	if bins < 1 || hi <= lo {
		return nil
	}
	sorted := widen(values)
	for i, v := range sorted {
		sorted[i] = math.Min(math.Max(v, lo), hi)
	}
	sort.Float64s(sorted)

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// Histogram excludes the upper divider, so nudge it past hi.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return stat.Histogram(nil, dividers, sorted, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", s.Kind),
		slog.Int("seed", int(s.Seed)),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Int("over_unit", s.OverUnit),
	}
	if !math.IsNaN(s.SeedCorrelation) {
		attrs = append(attrs, slog.Float64("seed_corr", s.SeedCorrelation))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("stats", "field", s)
}
