package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/pose-overlay/internal/overlay"
	"github.com/google/uuid"
)

// Report is the outcome of one benchmark run.
type Report struct {
	RunID            string                       `json:"run_id"`
	Timestamp        time.Time                    `json:"timestamp"`
	Config           overlay.TransformConfig      `json:"config"`
	Current          Metrics                      `json:"current_metrics"`
	Baseline         Metrics                      `json:"baseline_metrics"`
	Regressions      []Change                     `json:"regressions"`
	Improvements     []Change                     `json:"improvements"`
	CriticalFailures []string                     `json:"critical_failures,omitempty"`
	CriticalPassed   bool                         `json:"critical_threshold_passed"`
	Latency          LatencyResult                `json:"latency"`
	Sweep            []SweepResult                `json:"sweep"`
	Live             *overlay.PerformanceSnapshot `json:"live_metrics,omitempty"`

	regressionRatio  float64
	improvementRatio float64
}

// Gates are the regression ratios and absolute thresholds applied by Evaluate.
type Gates struct {
	RegressionRatio  float64
	ImprovementRatio float64
	Thresholds       Thresholds
}

// Evaluate compares a run with baseline and builds its report.
func Evaluate(cfg overlay.TransformConfig, lat LatencyResult, sweep []SweepResult, baseline Metrics, gates Gates, now time.Time) *Report {
	current := CollectMetrics(lat, sweep)
	cmp := DetectRegressions(current, baseline, gates.RegressionRatio, gates.ImprovementRatio)
	failures := CheckCritical(current, gates.Thresholds)
	return &Report{
		RunID:            uuid.New().String(),
		Timestamp:        now,
		Config:           cfg,
		Current:          current,
		Baseline:         baseline,
		Regressions:      cmp.Regressions,
		Improvements:     cmp.Improvements,
		CriticalFailures: failures,
		CriticalPassed:   len(failures) == 0,
		Latency:          lat,
		Sweep:            sweep,
		regressionRatio:  gates.RegressionRatio,
		improvementRatio: gates.ImprovementRatio,
	}
}

// Passed reports whether the run met every budget without regressions.
func (r *Report) Passed() bool {
	return r.CriticalPassed && len(r.Regressions) == 0
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Markdown renders a human-readable summary.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Overlay Benchmark Report\n")
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated: %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Config: %s\n\n", r.Config)

	if len(r.CriticalFailures) > 0 {
		b.WriteString("## Critical Failures\n")
		for _, f := range r.CriticalFailures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if len(r.Regressions) > 0 {
		b.WriteString("## Regressions Detected\n")
		for _, c := range r.Regressions {
			fmt.Fprintf(&b, "- **%s**: %.2f (+%.1f%% from baseline %.2f)\n", c.Metric, c.Current, c.PercentChange, c.Baseline)
		}
		b.WriteString("\n")
	}

	if len(r.Improvements) > 0 {
		b.WriteString("## Performance Improvements\n")
		for _, c := range r.Improvements {
			fmt.Fprintf(&b, "- **%s**: %.2f (-%.1f%% from baseline %.2f)\n", c.Metric, c.Current, c.PercentChange, c.Baseline)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Detailed Metrics\n")
	b.WriteString("| Metric | Current | Baseline | Status |\n")
	b.WriteString("|--------|---------|----------|--------|\n")
	for _, name := range r.Current.Names() {
		cur := r.Current[name]
		base := "N/A"
		if v, ok := r.Baseline[name]; ok {
			base = fmt.Sprintf("%.2f", v)
		}
		status := Classify(name, cur, r.Baseline, r.regressionRatio, r.improvementRatio)
		fmt.Fprintf(&b, "| %s | %.2f | %s | %s |\n", name, cur, base, status)
	}

	if len(r.Sweep) > 0 {
		b.WriteString("\n## Reprojection Sweep\n")
		b.WriteString("| Combination | Samples | Clamped | Avg px | Max px |\n")
		b.WriteString("|-------------|---------|---------|--------|--------|\n")
		for _, s := range r.Sweep {
			fmt.Fprintf(&b, "| %s | %d | %d | %.2e | %.2e |\n", s.Label(), s.Samples, s.Clamped, s.AvgErrorPx, s.MaxErrorPx)
		}
	}

	return b.String()
}
