// Package benchmark measures the overlay engine: batch latency, reprojection
// error across every orientation and fit combination, and regressions
// against a stored baseline. Results are reported as markdown, JSON and
// charts.
package benchmark

import (
	"math/rand"

	"github.com/banshee-data/pose-overlay/internal/monitoring"
	"github.com/banshee-data/pose-overlay/internal/overlay"
)

var logf = monitoring.Tagged("Bench")

// SyntheticFrame builds a deterministic frame of subjects×points landmarks.
// Points spread slightly past the unit square so the clamp path is
// exercised alongside the common case.
func SyntheticFrame(subjects, points int, seed int64) overlay.Frame {
	rng := rand.New(rand.NewSource(seed))
	f := overlay.Frame{Subjects: make([][]overlay.NormalizedPoint, subjects)}
	for s := range f.Subjects {
		pts := make([]overlay.NormalizedPoint, points)
		for i := range pts {
			pts[i] = overlay.NormalizedPoint{
				X: rng.Float64()*1.1 - 0.05,
				Y: rng.Float64()*1.1 - 0.05,
			}
		}
		f.Subjects[s] = pts
	}
	return f
}

// unitGrid returns n×n evenly spaced points covering [0,1]² inclusive.
func unitGrid(n int) []overlay.NormalizedPoint {
	if n < 2 {
		return []overlay.NormalizedPoint{{X: 0.5, Y: 0.5}}
	}
	pts := make([]overlay.NormalizedPoint, 0, n*n)
	step := 1.0 / float64(n-1)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			pts = append(pts, overlay.NormalizedPoint{X: float64(i) * step, Y: float64(j) * step})
		}
	}
	return pts
}
