package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/brickstore/brickstore/internal/metrics"
	"github.com/brickstore/brickstore/internal/report"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StartJobs schedules the background jobs and starts the scheduler.
func (a *Application) StartJobs() error {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	if a.appConfig.Cache.Enabled && a.appConfig.Cache.Revalidate != "" {
		if _, err := a.sched.AddFunc(a.appConfig.Cache.Revalidate, a.SchedRevalidateCacheTask); err != nil {
			zap.S().Errorf("init job error %s", err.Error())
			return err
		}
	}

	_, err := a.sched.AddFunc("@every 30s", func() {
		go a.SchedProcessMonitorTask()
		go a.SchedCollectionMetricsTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
		return err
	}

	a.sched.Start()
	return nil
}

// SchedRevalidateCacheTask refetches the cached list from the store.
func (a *Application) SchedRevalidateCacheTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.cache.Revalidate(ctx); err != nil {
		zap.L().Warn("cache revalidation failed", zap.Error(err))
	}
}

// SchedCollectionMetricsTask records collection size and value gauges.
func (a *Application) SchedCollectionMetricsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sets, err := a.service.GetAll(ctx)
	if err != nil {
		zap.L().Warn("collection metrics skipped", zap.Error(err))
		return
	}
	st, err := report.Summarize(sets)
	if err != nil {
		zap.L().Warn("collection metrics skipped", zap.Error(err))
		return
	}
	metrics.SetGauge(metrics.CollectionSets, int64(st.Total))
	metrics.SetGauge(metrics.CollectionPieces, int64(st.Pieces))
	metrics.SetGaugeFloat(metrics.CollectionValue, st.Value)
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge(metrics.ProcessCPUUse, int64(cpuuse*100)) // Store as percentage * 100
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge(metrics.ProcessMemUse, int64(meminfo.RSS/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}
