package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertRect(t *testing.T, want, got Rect) {
	t.Helper()
	assert.InDelta(t, want.MinX, got.MinX, 1e-9, "MinX")
	assert.InDelta(t, want.MinY, got.MinY, 1e-9, "MinY")
	assert.InDelta(t, want.MaxX, got.MaxX, 1e-9, "MaxX")
	assert.InDelta(t, want.MaxY, got.MaxY, 1e-9, "MaxY")
}

func TestVisibleRegion(t *testing.T) {
	t.Parallel()

	// Landscape 1280x720 image cropped into a 1080x1920 view keeps the
	// central 1080/3413.33 of its width.
	s := 1920.0 / 720.0
	lo := (1280*s - 1080) / 2 / (1280 * s)
	hi := 1 - lo

	t.Run("fill is full", func(t *testing.T) {
		t.Parallel()
		cfg := portraitConfig()
		cfg.RotationDegrees = 90
		assertRect(t, UnitRect, NewEffectiveTransform(cfg).VisibleRegion())
	})

	t.Run("inside is full", func(t *testing.T) {
		t.Parallel()
		cfg := portraitConfig()
		cfg.RotationDegrees = 90
		cfg.FitMode = FitCenterInside
		assertRect(t, UnitRect, NewEffectiveTransform(cfg).VisibleRegion())
	})

	t.Run("crop without rotation crops x", func(t *testing.T) {
		t.Parallel()
		cfg := portraitConfig()
		cfg.ImageWidth, cfg.ImageHeight = 1280, 720
		cfg.FitMode = FitCenterCrop
		assertRect(t, Rect{MinX: lo, MinY: 0, MaxX: hi, MaxY: 1}, NewEffectiveTransform(cfg).VisibleRegion())
	})

	t.Run("crop with quarter turn crops source y", func(t *testing.T) {
		t.Parallel()
		for _, deg := range []int{90, 270} {
			for _, mirrored := range []bool{false, true} {
				cfg := portraitConfig()
				cfg.RotationDegrees, cfg.Mirrored = deg, mirrored
				cfg.FitMode = FitCenterCrop
				assertRect(t, Rect{MinX: 0, MinY: lo, MaxX: 1, MaxY: hi}, NewEffectiveTransform(cfg).VisibleRegion())
			}
		}
	})

	t.Run("matching aspect crop is full", func(t *testing.T) {
		t.Parallel()
		cfg := portraitConfig()
		cfg.FitMode = FitCenterCrop
		assertRect(t, UnitRect, NewEffectiveTransform(cfg).VisibleRegion())
	})
}

func TestIsVisible(t *testing.T) {
	t.Parallel()

	cfg := portraitConfig()
	cfg.RotationDegrees = 90
	cfg.FitMode = FitCenterCrop
	tr := NewEffectiveTransform(cfg)

	assert.True(t, tr.IsVisible(NormalizedPoint{X: 0.5, Y: 0.5}))
	assert.True(t, tr.IsVisible(NormalizedPoint{X: 0, Y: 0.5}))
	assert.True(t, tr.IsVisible(NormalizedPoint{X: 1, Y: 0.5}))
	assert.False(t, tr.IsVisible(NormalizedPoint{X: 0.5, Y: 0.1}))
	assert.False(t, tr.IsVisible(NormalizedPoint{X: 0.5, Y: 0.9}))
	assert.False(t, tr.IsVisible(NormalizedPoint{X: -0.1, Y: 0.5}))
	assert.False(t, tr.IsVisible(NormalizedPoint{X: math.NaN(), Y: 0.5}))

	// Every visible point maps inside the view without clamping.
	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		for _, y := range []float64{0.35, 0.5, 0.65} {
			p := NormalizedPoint{X: x, Y: y}
			assert.True(t, tr.IsVisible(p))
			px, py := tr.forward.apply(x, y)
			assert.GreaterOrEqual(t, px, -1e-6)
			assert.LessOrEqual(t, px, 1080+1e-6)
			assert.GreaterOrEqual(t, py, -1e-6)
			assert.LessOrEqual(t, py, 1920+1e-6)
		}
	}
}

func TestIsVisibleNonCanonical(t *testing.T) {
	t.Parallel()

	cfg := portraitConfig()
	cfg.RotationDegrees = 45
	cfg.FitMode = FitCenterCrop
	tr := NewEffectiveTransform(cfg)

	assert.True(t, tr.IsVisible(NormalizedPoint{X: 0.5, Y: 0.5}))
	// Rotating by 45° pushes the top-right and bottom-left corners to the
	// left and right edges of the bounding box, which the crop removes.
	assert.False(t, tr.IsVisible(NormalizedPoint{X: 1, Y: 0}))
	assert.False(t, tr.IsVisible(NormalizedPoint{X: 0, Y: 1}))
	assert.False(t, tr.IsVisible(NormalizedPoint{X: 1.2, Y: 0.5}))

	r := tr.VisibleRegion()
	assert.False(t, r.Empty())
	assert.True(t, r.Contains(0.5, 0.5))
}

func TestRectContains(t *testing.T) {
	t.Parallel()

	r := Rect{MinX: 0.25, MinY: 0, MaxX: 0.75, MaxY: 1}
	assert.True(t, r.Contains(0.25, 0))
	assert.True(t, r.Contains(0.75, 1))
	assert.False(t, r.Contains(0.2, 0.5))
	assert.False(t, Rect{}.Contains(0, 0))
	assert.True(t, Rect{}.Empty())
}
