package app

import (
	"os"
	"runtime"
	"time"

	"github.com/labstack/gommon/bytes"
	"github.com/shirou/gopsutil/process"
)

// SystemStatus is the process part of the status page.
type SystemStatus struct {
	Appid      string `json:"appid"`
	Driver     string `json:"driver"`
	Uptime     string `json:"uptime"`
	StartedAt  string `json:"started_at"`
	Goroutines int    `json:"goroutines"`
	MemRSS     string `json:"mem_rss"`
	GoVersion  string `json:"go_version"`
}

func (a *Application) SystemStatus() SystemStatus {
	st := SystemStatus{
		Appid:      a.appConfig.System.Appid,
		Driver:     a.appConfig.Store.Driver,
		Uptime:     time.Since(a.startedAt).Truncate(time.Second).String(),
		StartedAt:  a.startedAt.Format(time.RFC3339),
		Goroutines: runtime.NumGoroutine(),
		GoVersion:  runtime.Version(),
		MemRSS:     "N/A",
	}
	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			st.MemRSS = bytes.Format(int64(mem.RSS)) //nolint:gosec // G115: RSS fits in int64
		}
	}
	return st
}
