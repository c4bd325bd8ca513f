package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/pose-overlay/internal/config"
	"github.com/banshee-data/pose-overlay/internal/fsutil"
	"github.com/banshee-data/pose-overlay/internal/timeutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaselineMissingUsesDefaults(t *testing.T) {
	t.Parallel()

	m, err := LoadBaseline(fsutil.OSFileSystem{}, filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseline(), m)
}

func TestSaveAndLoadBaseline(t *testing.T) {
	t.Parallel()

	want := Metrics{MetricBatchMeanNs: 12345, MetricReprojectionMaxPx: 0.25}

	path := filepath.Join(t.TempDir(), "ci", "baselines", "overlay.json")
	require.NoError(t, SaveBaseline(fsutil.OSFileSystem{}, path, want))
	got, err := LoadBaseline(fsutil.OSFileSystem{}, path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, SaveBaseline(mfs, "ci/overlay.json", want))
	got, err = LoadBaseline(mfs, "ci/overlay.json")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadBaselineCorrupt(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("broken.json", []byte(`{"batch_mean_ns": "fast"}`), 0644))
	_, err := LoadBaseline(mfs, "broken.json")
	assert.Error(t, err)
}

func sampleReport(t *testing.T, baseline Metrics) *Report {
	t.Helper()
	lat := summariseLatency([]time.Duration{
		100 * time.Microsecond, 120 * time.Microsecond, 80 * time.Microsecond, 300 * time.Microsecond,
	}, 33)
	sweep := SweepReprojection(benchConfig(), 5)
	now := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	return Evaluate(benchConfig(), lat, sweep, baseline, Gates{
		RegressionRatio:  1.05,
		ImprovementRatio: 0.95,
		Thresholds:       DefaultThresholds(),
	}, now)
}

func TestEvaluateAgainstDefaults(t *testing.T) {
	t.Parallel()

	r := sampleReport(t, DefaultBaseline())
	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err)
	assert.True(t, r.CriticalPassed)
	assert.Empty(t, r.Regressions)
	assert.NotEmpty(t, r.Improvements, "150us mean is well under the 1ms default")
	assert.True(t, r.Passed())
	assert.Len(t, r.Current, 7)
	assert.Equal(t, float64(150*time.Microsecond), r.Current[MetricBatchMeanNs])
}

func TestEvaluateDetectsRegression(t *testing.T) {
	t.Parallel()

	baseline := DefaultBaseline()
	baseline[MetricBatchMeanNs] = float64(10 * time.Microsecond)
	r := sampleReport(t, baseline)
	assert.True(t, r.CriticalPassed)
	require.Len(t, r.Regressions, 1)
	assert.Equal(t, MetricBatchMeanNs, r.Regressions[0].Metric)
	assert.False(t, r.Passed())

	r2 := sampleReport(t, DefaultBaseline())
	assert.NotEqual(t, r.RunID, r2.RunID)
}

func TestReportMarkdown(t *testing.T) {
	t.Parallel()

	baseline := DefaultBaseline()
	baseline[MetricBatchMeanNs] = float64(10 * time.Microsecond)
	delete(baseline, MetricBatchMedianNs)
	md := sampleReport(t, baseline).Markdown()

	assert.Contains(t, md, "# Overlay Benchmark Report")
	assert.Contains(t, md, "Generated: 2026-10-01 09:30:00")
	assert.Contains(t, md, "## Regressions Detected")
	assert.Contains(t, md, "- **batch_mean_ns**: 150000.00 (+1400.0% from baseline 10000.00)")
	assert.Contains(t, md, "## Performance Improvements")
	assert.Contains(t, md, "| batch_mean_ns | 150000.00 | 10000.00 | regression |")
	assert.Contains(t, md, "| batch_median_ns | 100000.00 | N/A | no baseline |")
	assert.Contains(t, md, "| 90m/center_crop |")
	assert.NotContains(t, md, "Critical Failures")
}

func TestReportWriteJSON(t *testing.T) {
	t.Parallel()

	r := sampleReport(t, DefaultBaseline())
	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded["run_id"])
	assert.Equal(t, true, decoded["critical_threshold_passed"])
	assert.Equal(t, "2026-10-01T09:30:00Z", decoded["timestamp"])
	cfg, ok := decoded["config"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "center_crop", cfg["fit_mode"])
	assert.NotContains(t, buf.String(), "Samples", "raw latency samples stay out of the JSON")
	assert.Len(t, decoded["sweep"], 24)
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	baselinePath := filepath.Join(dir, "baseline.json")
	cfgPath := filepath.Join(dir, "overlay.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
  "metrics_enabled": true,
  "metrics_sample_interval": 3,
  "bench_iterations": 50,
  "sweep_grid": 5,
  "baseline_path": "`+filepath.ToSlash(baselinePath)+`"
}`), 0644))
	cfg, err := config.LoadOverlayConfig(cfgPath)
	require.NoError(t, err)

	clock := timeutil.NewMockClock(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	clock.SetAutoAdvance(10 * time.Microsecond)

	report, err := Run(context.Background(), cfg, nil, clock)
	require.NoError(t, err)
	assert.True(t, report.Passed(), strings.Join(report.CriticalFailures, "; "))
	assert.Equal(t, 50, report.Latency.Iterations)
	assert.Equal(t, report.Latency.Mean, report.Latency.Max, "mock clock gives identical samples")
	assert.Len(t, report.Sweep, 24)

	require.NotNil(t, report.Live)
	assert.Equal(t, uint64(50), report.Live.Calls)
	assert.Equal(t, uint64(50*33), report.Live.Points)
	assert.Equal(t, uint64(50*33/3), report.Live.Samples+report.Live.ClampedSamples)

	// Persist as baseline, then a slower run is flagged.
	require.NoError(t, SaveBaseline(fsutil.OSFileSystem{}, baselinePath, report.Current))
	clock.SetAutoAdvance(time.Millisecond)
	slower, err := Run(context.Background(), cfg, nil, clock)
	require.NoError(t, err)
	assert.False(t, slower.Passed())
	assert.NotEmpty(t, slower.Regressions)
	assert.True(t, slower.CriticalPassed)
}

func TestRunWithoutMetrics(t *testing.T) {
	t.Parallel()

	baselinePath := "baselines/overlay.json"
	iterations, grid := 5, 3
	cfg := &config.OverlayConfig{
		BenchIterations: &iterations,
		SweepGrid:       &grid,
		BaselinePath:    &baselinePath,
	}
	mfs := fsutil.NewMemoryFileSystem()
	report, err := Run(context.Background(), cfg, mfs, nil)
	require.NoError(t, err)
	assert.Nil(t, report.Live)
	assert.Equal(t, DefaultBaseline(), report.Baseline)

	stored := DefaultBaseline()
	stored[MetricBatchMeanNs] = 1
	require.NoError(t, SaveBaseline(mfs, baselinePath, stored))
	report, err = Run(context.Background(), cfg, mfs, nil)
	require.NoError(t, err)
	assert.Equal(t, stored, report.Baseline)
	assert.False(t, report.Passed(), "a 1ns baseline mean cannot be met")
}
