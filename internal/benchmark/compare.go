package benchmark

import (
	"fmt"
	"math"
	"time"
)

// Change describes one metric that moved past a threshold.
type Change struct {
	Metric        string  `json:"metric"`
	Current       float64 `json:"current"`
	Baseline      float64 `json:"baseline"`
	Ratio         float64 `json:"ratio"`
	PercentChange float64 `json:"percentage_change"`
}

// Comparison holds the regressions and improvements of a run.
type Comparison struct {
	Regressions  []Change `json:"regressions"`
	Improvements []Change `json:"improvements"`
}

// Status of a single metric against its baseline.
type Status string

const (
	StatusOK          Status = "ok"
	StatusRegression  Status = "regression"
	StatusImprovement Status = "improvement"
	StatusNoBaseline  Status = "no baseline"
)

// costRatio returns how much worse current is than baseline: above 1 is
// worse, below 1 is better, whatever the metric's direction.
func costRatio(metric string, current, baseline float64) (float64, bool) {
	if floor := noiseFloor[metric]; floor > 0 {
		current = math.Max(current, floor)
		baseline = math.Max(baseline, floor)
	}
	if baseline <= 0 || current < 0 || math.IsNaN(current) || math.IsNaN(baseline) {
		return 0, false
	}
	if higherIsBetter[metric] {
		if current == 0 {
			return math.Inf(1), true
		}
		return baseline / current, true
	}
	return current / baseline, true
}

// Classify compares one metric value with its baseline.
func Classify(metric string, current float64, baseline Metrics, regressionRatio, improvementRatio float64) Status {
	b, ok := baseline[metric]
	if !ok {
		return StatusNoBaseline
	}
	ratio, ok := costRatio(metric, current, b)
	switch {
	case !ok:
		return StatusNoBaseline
	case ratio >= regressionRatio:
		return StatusRegression
	case ratio <= improvementRatio:
		return StatusImprovement
	default:
		return StatusOK
	}
}

// DetectRegressions flags every metric whose cost ratio reaches
// regressionRatio (e.g. 1.05 for +5%) as a regression and every metric at or
// below improvementRatio (e.g. 0.95) as an improvement. Metrics missing from
// the baseline are skipped. Results are ordered by metric name.
func DetectRegressions(current, baseline Metrics, regressionRatio, improvementRatio float64) Comparison {
	var cmp Comparison
	for _, name := range current.Names() {
		b, ok := baseline[name]
		if !ok {
			logf("no baseline for metric %s", name)
			continue
		}
		cur := current[name]
		ratio, ok := costRatio(name, cur, b)
		if !ok {
			continue
		}
		ch := Change{Metric: name, Current: cur, Baseline: b, Ratio: ratio}
		switch {
		case ratio >= regressionRatio:
			ch.PercentChange = (ratio - 1) * 100
			cmp.Regressions = append(cmp.Regressions, ch)
		case ratio <= improvementRatio:
			ch.PercentChange = (1 - ratio) * 100
			cmp.Improvements = append(cmp.Improvements, ch)
		}
	}
	return cmp
}

// Thresholds are absolute budgets that fail a run regardless of baseline.
type Thresholds struct {
	MaxBatchMean      time.Duration
	FrameBudget       time.Duration
	MaxReprojectionPx float64
}

// DefaultThresholds: 5ms mean batch latency, p95 within one 60 FPS frame and
// sub-2px reprojection error.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxBatchMean:      5 * time.Millisecond,
		FrameBudget:       16666666 * time.Nanosecond,
		MaxReprojectionPx: 2,
	}
}

// CheckCritical returns a description of every budget current exceeds.
func CheckCritical(current Metrics, th Thresholds) []string {
	var failures []string
	check := func(metric string, limit float64, format string) {
		v, ok := current[metric]
		if !ok {
			return
		}
		if v > limit || math.IsNaN(v) {
			failures = append(failures, fmt.Sprintf("%s: "+format+" > "+format, metric, v, limit))
		}
	}
	check(MetricBatchMeanNs, float64(th.MaxBatchMean), "%.0f")
	check(MetricBatchP95Ns, float64(th.FrameBudget), "%.0f")
	check(MetricReprojectionMaxPx, th.MaxReprojectionPx, "%.4f")
	return failures
}
