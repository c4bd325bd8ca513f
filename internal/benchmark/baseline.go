package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/banshee-data/pose-overlay/internal/fsutil"
)

// Metric names shared by measurements, baselines and reports.
const (
	MetricBatchMeanNs       = "batch_mean_ns"
	MetricBatchMedianNs     = "batch_median_ns"
	MetricBatchP95Ns        = "batch_p95_ns"
	MetricBatchMaxNs        = "batch_max_ns"
	MetricPointsPerMs       = "points_per_ms"
	MetricReprojectionAvgPx = "reprojection_avg_px"
	MetricReprojectionMaxPx = "reprojection_max_px"
)

// higherIsBetter lists metrics where a drop, not a rise, is a regression.
var higherIsBetter = map[string]bool{
	MetricPointsPerMs: true,
}

// noiseFloor is the smallest value treated as significant per metric.
// Reprojection error sits at floating-point noise, so ratios between two
// near-zero values are meaningless.
var noiseFloor = map[string]float64{
	MetricReprojectionAvgPx: 1e-3,
	MetricReprojectionMaxPx: 1e-3,
}

// Metrics maps metric name to value.
type Metrics map[string]float64

// Names returns the metric names in sorted order.
func (m Metrics) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// CollectMetrics flattens a latency run and a sweep into Metrics.
func CollectMetrics(lat LatencyResult, sweep []SweepResult) Metrics {
	avg, worst := SweepSummary(sweep)
	return Metrics{
		MetricBatchMeanNs:       float64(lat.Mean),
		MetricBatchMedianNs:     float64(lat.Median),
		MetricBatchP95Ns:        float64(lat.P95),
		MetricBatchMaxNs:        float64(lat.Max),
		MetricPointsPerMs:       lat.PointsPerMs,
		MetricReprojectionAvgPx: avg,
		MetricReprojectionMaxPx: worst,
	}
}

// DefaultBaseline is used when no baseline file exists yet.
func DefaultBaseline() Metrics {
	return Metrics{
		MetricBatchMeanNs:       float64(1 * time.Millisecond),
		MetricBatchMedianNs:     float64(1 * time.Millisecond),
		MetricBatchP95Ns:        float64(2 * time.Millisecond),
		MetricBatchMaxNs:        float64(5 * time.Millisecond),
		MetricPointsPerMs:       100,
		MetricReprojectionAvgPx: 0.001,
		MetricReprojectionMaxPx: 0.01,
	}
}

// LoadBaseline reads a baseline file. A missing file yields DefaultBaseline.
func LoadBaseline(fsys fsutil.FileSystem, path string) (Metrics, error) {
	data, err := fsys.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		logf("no baseline at %s, using built-in defaults", path)
		return DefaultBaseline(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}
	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse baseline %s: %w", path, err)
	}
	return m, nil
}

// SaveBaseline writes m as indented JSON, creating parent directories.
func SaveBaseline(fsys fsutil.FileSystem, path string, m Metrics) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create baseline directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}
	if err := fsys.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	return nil
}
