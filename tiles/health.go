package tiles

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
)

// processStats reports uptime and resource use of the server process.
type processStats struct {
	start time.Time
	proc  *process.Process // nil when the platform does not expose it
}

func newProcessStats(log *slog.Logger) *processStats {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("process stats unavailable", "error", err)
		proc = nil
	}
	return &processStats{start: time.Now(), proc: proc}
}

// fill adds the stats to a health response. Unreadable values are omitted.
func (ps *processStats) fill(ctx context.Context, h gin.H) {
	h["uptime"] = time.Since(ps.start).Round(time.Second).String()
	if ps.proc == nil {
		return
	}
	if cpu, err := ps.proc.CPUPercentWithContext(ctx); err == nil {
		h["cpu_percent"] = cpu
	}
	if mem, err := ps.proc.MemoryInfoWithContext(ctx); err == nil {
		h["rss_mb"] = float64(mem.RSS) / (1 << 20)
	}
}
