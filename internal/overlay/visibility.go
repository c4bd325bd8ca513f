package overlay

import "math"

// VisibleRegion returns the part of the normalized source image that lands
// inside the view. It is the unit square for FitFill and FitCenterInside and
// a sub-rectangle cropped on the overflowing axis for FitCenterCrop. For
// non-canonical rotations it is the bounding box of the visible area.
// Degenerate transforms return the empty Rect.
func (t *EffectiveTransform) VisibleRegion() Rect {
	return t.visible
}

// IsVisible reports whether p is drawn inside the view without clamping.
func (t *EffectiveTransform) IsVisible(p NormalizedPoint) bool {
	if t.degenerate || !finite(p.X) || !finite(p.Y) {
		return false
	}
	if t.canonical {
		return t.visible.Contains(p.X, p.Y)
	}
	if !UnitRect.Contains(p.X, p.Y) {
		return false
	}
	const eps = 1e-6
	px, py := t.forward.apply(p.X, p.Y)
	return px >= -eps && px <= t.viewW+eps && py >= -eps && py <= t.viewH+eps
}

// computeVisibleRegion intersects the view with the placed image in rotated
// space and maps the result back to source coordinates.
func (t *EffectiveTransform) computeVisibleRegion() Rect {
	spanX := t.rotW * t.fit.ScaleX
	spanY := t.rotH * t.fit.ScaleY
	u0 := clamp(-t.fit.OffsetX/spanX, 0, 1)
	u1 := clamp((t.viewW-t.fit.OffsetX)/spanX, 0, 1)
	v0 := clamp(-t.fit.OffsetY/spanY, 0, 1)
	v1 := clamp((t.viewH-t.fit.OffsetY)/spanY, 0, 1)

	corners := [4][2]float64{{u0, v0}, {u1, v0}, {u0, v1}, {u1, v1}}
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, c := range corners {
		x, y := t.unrotate.apply(c[0], c[1])
		r.MinX = math.Min(r.MinX, x)
		r.MinY = math.Min(r.MinY, y)
		r.MaxX = math.Max(r.MaxX, x)
		r.MaxY = math.Max(r.MaxY, y)
	}
	r.MinX, r.MaxX = clamp(r.MinX, 0, 1), clamp(r.MaxX, 0, 1)
	r.MinY, r.MaxY = clamp(r.MinY, 0, 1), clamp(r.MaxY, 0, 1)
	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
