package telemetry

import (
	"context"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
)

const (
	report_perf_rss_mb      = "perf.rss_mb"
	report_perf_cpu_percent = "perf.cpu_percent"
	report_perf_live_object = "perf.live_objects"
	report_perf_goroutines  = "perf.goroutines"
)

// ReportPerfStats reports a snapshot of the resource usage of the current
// process as counts.
func ReportPerfStats(ctx context.Context, tel API) {
	tel = OrDefault(tel)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	tel.ReportCount(report_perf_live_object, int64(memStats.Mallocs)-int64(memStats.Frees))
	tel.ReportCount(report_perf_goroutines, int64(runtime.NumGoroutine()))

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		tel.ReportDebug("failed to inspect process", err)
		return
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err == nil {
		tel.ReportCount(report_perf_rss_mb, int64(mem.RSS/1_000_000))
	} else {
		tel.ReportDebug("failed to read memory usage", err)
	}
	cpu, err := proc.CPUPercentWithContext(ctx)
	if err == nil {
		tel.ReportCount(report_perf_cpu_percent, int64(cpu))
	} else {
		tel.ReportDebug("failed to read cpu usage", err)
	}
}
