package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseFill)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseStats)
		time.Sleep(100 * time.Microsecond)
		pc.EndRun(1000)
	}

	stats := pc.Stats()

	if stats.Runs != 5 {
		t.Errorf("runs = %d, want 5", stats.Runs)
	}
	if stats.AvgRunDuration <= 0 {
		t.Error("expected positive average run duration")
	}
	if _, ok := stats.PhaseAvg[PhaseFill]; !ok {
		t.Error("expected fill phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseStats]; !ok {
		t.Error("expected stats phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseFill)
		time.Sleep(10 * time.Microsecond)
		pc.EndRun(64)
	}

	stats := pc.Stats()

	if stats.Runs != 5 {
		t.Errorf("runs = %d, want window size 5", stats.Runs)
	}
	if stats.SamplesPerSec <= 0 {
		t.Error("expected positive samples per second")
	}
}

func TestPerfCollector_ThroughputUsesFillTime(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartRun()
	pc.StartPhase(PhaseFill)
	time.Sleep(2 * time.Millisecond)
	pc.StartPhase(PhaseWrite)
	time.Sleep(20 * time.Millisecond)
	pc.EndRun(1000)

	stats := pc.Stats()
	fill := stats.PhaseAvg[PhaseFill]
	want := 1000 / fill.Seconds()
	if diff := stats.SamplesPerSec - want; diff > 1 || diff < -1 {
		t.Errorf("samples/sec = %v, want %v from fill time %v", stats.SamplesPerSec, want, fill)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseStats)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseFill)
		time.Sleep(100 * time.Microsecond)
		pc.EndRun(1)
	}

	stats := pc.Stats()

	if stats.PhasePct[PhaseFill] <= stats.PhasePct[PhaseStats] {
		t.Errorf("expected fill phase (%v%%) > stats phase (%v%%)",
			stats.PhasePct[PhaseFill], stats.PhasePct[PhaseStats])
	}

	row := stats.ToCSV(7)
	if row.Run != 7 || row.FillPct != stats.PhasePct[PhaseFill] {
		t.Errorf("unexpected CSV row %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgRunDuration != 0 {
		t.Error("expected zero avg run duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}
}
