package benchmark

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/banshee-data/pose-overlay/internal/overlay"
	"github.com/banshee-data/pose-overlay/internal/timeutil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LatencyOptions controls a latency run.
type LatencyOptions struct {
	Iterations       int
	Subjects         int
	PointsPerSubject int
	Seed             int64
	Clock            timeutil.Clock // defaults to RealClock
}

// LatencyResult summarises per-frame mapping durations.
type LatencyResult struct {
	Iterations  int           `json:"iterations"`
	Points      int           `json:"points_per_frame"`
	Mean        time.Duration `json:"mean_ns"`
	Median      time.Duration `json:"median_ns"`
	P95         time.Duration `json:"p95_ns"`
	Max         time.Duration `json:"max_ns"`
	PointsPerMs float64       `json:"points_per_ms"`

	Samples []time.Duration `json:"-"`
}

// RunLatency maps a synthetic frame Iterations times through engine, reusing
// one output buffer, and reports the distribution of per-frame durations.
func RunLatency(ctx context.Context, engine *overlay.Engine, opts LatencyOptions) (LatencyResult, error) {
	if opts.Iterations < 1 || opts.Subjects < 1 || opts.PointsPerSubject < 1 {
		return LatencyResult{}, fmt.Errorf("latency run needs positive iterations, subjects and points, got %d/%d/%d",
			opts.Iterations, opts.Subjects, opts.PointsPerSubject)
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	frame := SyntheticFrame(opts.Subjects, opts.PointsPerSubject, opts.Seed)
	buf := make([]overlay.PixelPoint, 0, opts.PointsPerSubject)
	samples := make([]time.Duration, 0, opts.Iterations)

	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return LatencyResult{}, fmt.Errorf("latency run interrupted after %d iterations: %w", i, err)
		}
		start := clock.Now()
		for _, subject := range frame.Subjects {
			buf = engine.AppendPixels(buf[:0], subject)
		}
		samples = append(samples, clock.Since(start))
	}

	res := summariseLatency(samples, frame.PointCount())
	logf("latency: %d iterations x %d points, mean=%v p95=%v max=%v (%.0f points/ms)",
		res.Iterations, res.Points, res.Mean, res.P95, res.Max, res.PointsPerMs)
	return res, nil
}

func summariseLatency(samples []time.Duration, points int) LatencyResult {
	res := LatencyResult{Iterations: len(samples), Points: points, Samples: samples}
	if len(samples) == 0 {
		return res
	}

	ns := make([]float64, len(samples))
	for i, d := range samples {
		ns[i] = float64(d)
	}
	sort.Float64s(ns)

	res.Mean = time.Duration(stat.Mean(ns, nil))
	res.Median = time.Duration(stat.Quantile(0.5, stat.Empirical, ns, nil))
	res.P95 = time.Duration(stat.Quantile(0.95, stat.Empirical, ns, nil))
	res.Max = time.Duration(floats.Max(ns))

	total := floats.Sum(ns)
	if total > 0 {
		res.PointsPerMs = float64(points*len(samples)) / (total / float64(time.Millisecond))
	}
	return res
}
