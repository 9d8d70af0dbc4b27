package perf

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorderStats(t *testing.T) {
	r := NewRecorder("walk", 10*time.Millisecond)

	r.Record(2 * time.Millisecond)
	r.Record(4 * time.Millisecond)
	r.Record(12 * time.Millisecond)

	stats := r.Stats()
	assert.Equal(t, "walk", stats.Name)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 18*time.Millisecond, stats.TotalDuration)
	assert.Equal(t, 12*time.Millisecond, stats.MaxDuration)
	assert.Equal(t, int64(1), stats.SlowOps)
	assert.Equal(t, 6*time.Millisecond, stats.AvgDuration())
}

func TestEmptyStatsAverage(t *testing.T) {
	stats := NewRecorder("idle", time.Second).Stats()
	assert.Equal(t, time.Duration(0), stats.AvgDuration())
}

func TestTimerLogsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRecorder("enumerate", time.Hour)

	timer := NewTimer("enumerate", logger, -time.Nanosecond, r)
	timer.Stop("steps", 31)

	assert.Equal(t, int64(1), r.Stats().Count)
	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=enumerate "), out)
	assert.True(t, strings.Contains(out, "steps=31"), out)
	assert.True(t, strings.Contains(out, "enumerate_slow"), out)

	buf.Reset()
	r.LogStats(logger)
	assert.Contains(t, buf.String(), "enumerate_stats")
}
