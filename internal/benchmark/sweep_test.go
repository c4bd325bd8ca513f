package benchmark

import (
	"testing"

	"github.com/banshee-data/pose-overlay/internal/overlay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepReprojectionCoversEveryCombination(t *testing.T) {
	t.Parallel()

	const grid = 11
	results := SweepReprojection(benchConfig(), grid)
	require.Len(t, results, 24)

	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Label()] = true
		assert.Equal(t, uint64(grid*grid), r.Samples+r.Clamped, r.Label())
		assert.Less(t, r.MaxErrorPx, 1e-6, r.Label())
		assert.LessOrEqual(t, r.AvgErrorPx, r.MaxErrorPx, r.Label())
		if r.FitMode != overlay.FitCenterCrop {
			assert.Zero(t, r.Clamped, "%s shows the whole image", r.Label())
		}
	}
	assert.Len(t, seen, 24)
}

func TestSweepReprojectionCropClampsOffAxis(t *testing.T) {
	t.Parallel()

	// A landscape sensor shown upright in a portrait view loses its sides to
	// the crop; rotated a quarter turn it matches the view exactly.
	for _, r := range SweepReprojection(benchConfig(), 21) {
		if r.FitMode != overlay.FitCenterCrop {
			continue
		}
		switch r.RotationDegrees {
		case 0, 180:
			assert.NotZero(t, r.Clamped, r.Label())
		case 90, 270:
			assert.Zero(t, r.Clamped, r.Label())
		}
	}
}

func TestSweepSummary(t *testing.T) {
	t.Parallel()

	avg, worst := SweepSummary([]SweepResult{
		{Samples: 10, AvgErrorPx: 0.1, MaxErrorPx: 0.3},
		{Samples: 30, AvgErrorPx: 0.2, MaxErrorPx: 0.5},
		{Samples: 0, Clamped: 5},
	})
	assert.InDelta(t, 0.175, avg, 1e-12)
	assert.Equal(t, 0.5, worst)

	avg, worst = SweepSummary(nil)
	assert.Zero(t, avg)
	assert.Zero(t, worst)
}

func TestSweepResultLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "90m/center_crop", SweepResult{RotationDegrees: 90, Mirrored: true, FitMode: overlay.FitCenterCrop}.Label())
	assert.Equal(t, "0/fill", SweepResult{}.Label())
}
