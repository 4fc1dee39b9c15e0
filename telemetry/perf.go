package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one grid generation run.
const (
	PhaseFill      = "fill"
	PhaseStats     = "stats"
	PhaseCorrelate = "correlate"
	PhaseWrite     = "write"
	PhaseUpload    = "upload"
)

var allPhases = []string{PhaseFill, PhaseStats, PhaseCorrelate, PhaseWrite, PhaseUpload}

// PerfSample holds timing data for a single run.
type PerfSample struct {
	RunDuration time.Duration
	Samples     int // Noise evaluations during the run
	Phases      map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of runs.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	runStart      time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (previewer)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector averaging over
// windowSize runs.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartRun begins timing a new run.
func (p *PerfCollector) StartRun() {
	p.runStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndRun finishes timing the current run. evaluations is the number of noise
// samples the run produced.
func (p *PerfCollector) EndRun(evaluations int) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		RunDuration: now.Sub(p.runStart),
		Samples:     evaluations,
		Phases:      p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for the previewer.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Runs int

	AvgRunDuration time.Duration
	MinRunDuration time.Duration
	MaxRunDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total run time
	PhasePct map[string]float64

	// Noise evaluations per second of fill time
	SamplesPerSec float64

	// Frame timing (previewer)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalRun time.Duration
	var minRun, maxRun time.Duration
	var evaluations int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalRun += s.RunDuration
		evaluations += s.Samples

		if i == 0 || s.RunDuration < minRun {
			minRun = s.RunDuration
		}
		if s.RunDuration > maxRun {
			maxRun = s.RunDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgRun := totalRun / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgRun > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgRun) * 100
		}
	}

	// Throughput counts fill time only; without a fill phase, the whole run.
	fillTime := phaseSum[PhaseFill]
	if fillTime == 0 {
		fillTime = totalRun
	}
	var samplesPerSec float64
	if fillTime > 0 {
		samplesPerSec = float64(evaluations) / fillTime.Seconds()
	}

	return PerfStats{
		Runs:           p.sampleCount,
		AvgRunDuration: avgRun,
		MinRunDuration: minRun,
		MaxRunDuration: maxRun,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		SamplesPerSec:  samplesPerSec,
		FrameDuration:  p.frameDuration,
		FPS:            fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"runs", s.Runs,
		"avg_run_us", s.AvgRunDuration.Microseconds(),
		"min_run_us", s.MinRunDuration.Microseconds(),
		"max_run_us", s.MaxRunDuration.Microseconds(),
		"samples_per_sec", int64(s.SamplesPerSec),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range allPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("runs", s.Runs),
		slog.Int64("avg_run_us", s.AvgRunDuration.Microseconds()),
		slog.Int64("min_run_us", s.MinRunDuration.Microseconds()),
		slog.Int64("max_run_us", s.MaxRunDuration.Microseconds()),
		slog.Float64("samples_per_sec", s.SamplesPerSec),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Run           int     `csv:"run"`
	AvgRunUS      int64   `csv:"avg_run_us"`
	MinRunUS      int64   `csv:"min_run_us"`
	MaxRunUS      int64   `csv:"max_run_us"`
	SamplesPerSec float64 `csv:"samples_per_sec"`
	FPS           float64 `csv:"fps"`
	FillPct       float64 `csv:"fill_pct"`
	StatsPct      float64 `csv:"stats_pct"`
	CorrelatePct  float64 `csv:"correlate_pct"`
	WritePct      float64 `csv:"write_pct"`
	UploadPct     float64 `csv:"upload_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(run int) PerfStatsCSV {
	return PerfStatsCSV{
		Run:           run,
		AvgRunUS:      s.AvgRunDuration.Microseconds(),
		MinRunUS:      s.MinRunDuration.Microseconds(),
		MaxRunUS:      s.MaxRunDuration.Microseconds(),
		SamplesPerSec: s.SamplesPerSec,
		FPS:           s.FPS,
		FillPct:       s.PhasePct[PhaseFill],
		StatsPct:      s.PhasePct[PhaseStats],
		CorrelatePct:  s.PhasePct[PhaseCorrelate],
		WritePct:      s.PhasePct[PhaseWrite],
		UploadPct:     s.PhasePct[PhaseUpload],
	}
}
