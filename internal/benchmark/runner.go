package benchmark

import (
	"context"
	"fmt"

	"github.com/banshee-data/pose-overlay/internal/config"
	"github.com/banshee-data/pose-overlay/internal/fsutil"
	"github.com/banshee-data/pose-overlay/internal/overlay"
	"github.com/banshee-data/pose-overlay/internal/timeutil"
)

// Run executes a full benchmark for cfg: a latency run on a live engine, a
// reprojection sweep, and an evaluation against the baseline at
// cfg.GetBaselinePath() read from fsys. Nil fsys and clock default to the
// OS filesystem and the real clock.
func Run(ctx context.Context, cfg *config.OverlayConfig, fsys fsutil.FileSystem, clock timeutil.Clock) (*Report, error) {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	tc := cfg.TransformConfig()

	var opts []overlay.Option
	var rec *overlay.Recorder
	if cfg.GetMetricsEnabled() {
		rec = overlay.NewRecorder(
			overlay.WithClock(clock),
			overlay.WithSampleInterval(cfg.GetMetricsSampleInterval()),
		)
		opts = append(opts, overlay.WithObserver(rec))
	}
	engine := overlay.NewEngine(tc, opts...)

	logf("running %d iterations on %s", cfg.GetBenchIterations(), tc)
	lat, err := RunLatency(ctx, engine, LatencyOptions{
		Iterations:       cfg.GetBenchIterations(),
		Subjects:         cfg.GetSubjectsPerFrame(),
		PointsPerSubject: cfg.GetPointsPerSubject(),
		Seed:             1,
		Clock:            clock,
	})
	if err != nil {
		return nil, err
	}

	sweep := SweepReprojection(tc, cfg.GetSweepGrid())

	baseline, err := LoadBaseline(fsys, cfg.GetBaselinePath())
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	report := Evaluate(tc, lat, sweep, baseline, Gates{
		RegressionRatio:  cfg.GetRegressionRatio(),
		ImprovementRatio: cfg.GetImprovementRatio(),
		Thresholds: Thresholds{
			MaxBatchMean:      cfg.GetMaxBatchLatency(),
			FrameBudget:       cfg.GetFrameBudget(),
			MaxReprojectionPx: cfg.GetMaxReprojectionPx(),
		},
	}, clock.Now())
	if rec != nil {
		snap := rec.Snapshot()
		report.Live = &snap
	}

	if report.Passed() {
		logf("run %s passed (%d improvements)", report.RunID, len(report.Improvements))
	} else {
		logf("run %s failed: %d regressions, %d critical failures",
			report.RunID, len(report.Regressions), len(report.CriticalFailures))
	}
	return report, nil
}
