// Package perf measures the bounded day walks so unusually wide bounds show
// up in the debug log.
package perf

import (
	"log/slog"
	"sync/atomic"
	"time"
)

type Timer struct {
	name      string
	logger    *slog.Logger
	start     time.Time
	threshold time.Duration
	recorder  *Recorder
}

type Stats struct {
	Name          string
	Count         int64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	SlowOps       int64
}

// Recorder accumulates durations for one named operation.
type Recorder struct {
	name      string
	count     int64
	totalDur  int64
	maxDur    int64
	slowOps   int64
	threshold time.Duration
}

// NewTimer starts a timer. A nil recorder only logs.
func NewTimer(name string, logger *slog.Logger, threshold time.Duration, recorder *Recorder) *Timer {
	return &Timer{
		name:      name,
		logger:    logger,
		start:     time.Now(),
		threshold: threshold,
		recorder:  recorder,
	}
}

// Stop logs the elapsed time, warning when it exceeds the threshold.
func (t *Timer) Stop(attrs ...any) time.Duration {
	elapsed := time.Since(t.start)
	if t.recorder != nil {
		t.recorder.Record(elapsed)
	}
	if t.logger != nil {
		args := append([]any{"duration_us", elapsed.Microseconds()}, attrs...)
		t.logger.Debug(t.name, args...)
		if elapsed > t.threshold {
			t.logger.Warn(t.name+"_slow", append(args, "threshold_us", t.threshold.Microseconds())...)
		}
	}
	return elapsed
}

func NewRecorder(name string, threshold time.Duration) *Recorder {
	return &Recorder{
		name:      name,
		threshold: threshold,
	}
}

func (r *Recorder) Record(elapsed time.Duration) {
	elapsedNs := elapsed.Nanoseconds()
	atomic.AddInt64(&r.count, 1)
	atomic.AddInt64(&r.totalDur, elapsedNs)

	for {
		maxDur := atomic.LoadInt64(&r.maxDur)
		if elapsedNs <= maxDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.maxDur, maxDur, elapsedNs) {
			break
		}
	}

	if elapsed >= r.threshold {
		atomic.AddInt64(&r.slowOps, 1)
	}
}

func (r *Recorder) Stats() Stats {
	return Stats{
		Name:          r.name,
		Count:         atomic.LoadInt64(&r.count),
		TotalDuration: time.Duration(atomic.LoadInt64(&r.totalDur)),
		MaxDuration:   time.Duration(atomic.LoadInt64(&r.maxDur)),
		SlowOps:       atomic.LoadInt64(&r.slowOps),
	}
}

func (s *Stats) AvgDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

// LogStats writes the accumulated stats at debug level.
func (r *Recorder) LogStats(logger *slog.Logger) {
	stats := r.Stats()
	if stats.Count == 0 || logger == nil {
		return
	}
	logger.Debug(r.name+"_stats",
		"count", stats.Count,
		"total_us", stats.TotalDuration.Microseconds(),
		"avg_us", stats.AvgDuration().Microseconds(),
		"max_us", stats.MaxDuration.Microseconds(),
		"slow_ops", stats.SlowOps,
	)
}
