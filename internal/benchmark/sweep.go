package benchmark

import (
	"fmt"

	"github.com/banshee-data/pose-overlay/internal/overlay"
)

// SweepResult is the reprojection error of one orientation/fit combination.
type SweepResult struct {
	RotationDegrees int             `json:"rotation_degrees"`
	Mirrored        bool            `json:"mirrored"`
	FitMode         overlay.FitMode `json:"fit_mode"`
	Samples         uint64          `json:"samples"`
	Clamped         uint64          `json:"clamped"`
	AvgErrorPx      float64         `json:"avg_error_px"`
	MaxErrorPx      float64         `json:"max_error_px"`
}

// Label is a short human-readable name for the combination.
func (r SweepResult) Label() string {
	m := ""
	if r.Mirrored {
		m = "m"
	}
	return fmt.Sprintf("%d%s/%s", r.RotationDegrees, m, r.FitMode)
}

var (
	sweepRotations = []int{0, 90, 180, 270}
	sweepFitModes  = []overlay.FitMode{overlay.FitFill, overlay.FitCenterCrop, overlay.FitCenterInside}
)

// SweepReprojection maps a grid×grid lattice of normalized points forward and
// back for every canonical rotation, mirror flag and fit mode, keeping the
// view and image dimensions of base. Points hidden by the fit are counted as
// clamped and excluded from the error aggregate.
func SweepReprojection(base overlay.TransformConfig, grid int) []SweepResult {
	pts := unitGrid(grid)
	results := make([]SweepResult, 0, len(sweepRotations)*2*len(sweepFitModes))

	for _, deg := range sweepRotations {
		for _, mirrored := range []bool{false, true} {
			for _, mode := range sweepFitModes {
				cfg := base
				cfg.RotationDegrees, cfg.Mirrored, cfg.FitMode = deg, mirrored, mode

				rec := overlay.NewRecorder()
				tr := overlay.NewEffectiveTransform(cfg)
				for _, p := range pts {
					rec.Observe(tr, p)
				}
				snap := rec.Snapshot()
				results = append(results, SweepResult{
					RotationDegrees: deg,
					Mirrored:        mirrored,
					FitMode:         mode,
					Samples:         snap.Samples,
					Clamped:         snap.ClampedSamples,
					AvgErrorPx:      snap.AvgErrorPx,
					MaxErrorPx:      snap.MaxErrorPx,
				})
			}
		}
	}
	return results
}

// SweepSummary aggregates a sweep: the sample-weighted mean error and the
// worst error of any combination.
func SweepSummary(results []SweepResult) (avg, worst float64) {
	var total float64
	var n uint64
	for _, r := range results {
		total += r.AvgErrorPx * float64(r.Samples)
		n += r.Samples
		if r.MaxErrorPx > worst {
			worst = r.MaxErrorPx
		}
	}
	if n > 0 {
		avg = total / float64(n)
	}
	return avg, worst
}
