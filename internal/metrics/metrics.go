package metrics

import (
	"errors"
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

// Gauge names sampled by the application jobs.
const (
	CollectionSets   = "collection_sets"
	CollectionPieces = "collection_pieces"
	CollectionValue  = "collection_value"
	ProcessMemUse    = "brickstore_memuse" // MB
	ProcessCPUUse    = "brickstore_cpuuse" // percent * 100
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// Point is a single sample.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// InitMetrics opens the time-series storage under <workdir>/data/metrics.
// An empty workdir keeps samples in memory only.
func InitMetrics(workdir string) error {
	opts := []tstorage.Option{
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30 * 24 * time.Hour),
		tstorage.WithPartitionDuration(6 * time.Hour),
	}
	if workdir != "" {
		opts = append(opts, tstorage.WithDataPath(path.Join(workdir, "data", "metrics")))
	}
	s, err := tstorage.NewStorage(opts...)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		_ = storage.Close()
	}
	storage = s
	return nil
}

// SetGauge records value for name at the current second. It is a no-op
// until InitMetrics succeeded.
func SetGauge(name string, value int64) {
	SetGaugeFloat(name, float64(value))
}

func SetGaugeFloat(name string, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
	if err != nil {
		zap.S().Warnf("metrics insert %s: %v", name, err)
	}
}

// Query returns the samples of name recorded within the last window,
// oldest first.
func Query(name string, window time.Duration) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	points := make([]Point, 0)
	if storage == nil {
		return points, nil
	}
	end := time.Now().Unix() + 1
	start := end - int64(window/time.Second) - 1
	dps, err := storage.Select(name, nil, start, end)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return points, nil
	}
	if err != nil {
		return nil, err
	}
	for _, dp := range dps {
		points = append(points, Point{Time: time.Unix(dp.Timestamp, 0).UTC(), Value: dp.Value})
	}
	return points, nil
}

// Close flushes and releases the storage.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
