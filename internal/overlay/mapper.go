package overlay

import "math"

// ToPixel maps a normalized source coordinate to viewport pixels: rotation
// remap, fit scale and offset, optional horizontal mirror, then clamp to the
// view. Non-finite input is replaced by the nearest boundary of [0,1] before
// any arithmetic.
func (t *EffectiveTransform) ToPixel(p NormalizedPoint) PixelPoint {
	x, y := sanitizeUnit(p.X), sanitizeUnit(p.Y)
	if t.degenerate {
		return PixelPoint{X: clamp(x, 0, t.viewW), Y: clamp(y, 0, t.viewH)}
	}
	px, py := t.forward.apply(x, y)
	return PixelPoint{X: clamp(px, 0, t.viewW), Y: clamp(py, 0, t.viewH)}
}

// ToNormalized is the algebraic inverse of ToPixel: unmirror, remove offset
// and scale, then undo the rotation. The result is not clamped, so pixels in
// letterbox margins map outside [0,1]. Points clamped by ToPixel cannot be
// recovered exactly.
func (t *EffectiveTransform) ToNormalized(p PixelPoint) NormalizedPoint {
	if t.degenerate {
		return NormalizedPoint{X: clamp(sanitizeUnit(p.X), 0, 1), Y: clamp(sanitizeUnit(p.Y), 0, 1)}
	}
	px := sanitizeBounded(p.X, t.viewW)
	py := sanitizeBounded(p.Y, t.viewH)
	x, y := t.inverse.apply(px, py)
	return NormalizedPoint{X: x, Y: y}
}

// ReprojectionError returns |p - ToNormalized(ToPixel(p))| in pixel-equivalent
// units (the normalized delta scaled by the view dimensions). ok is false
// for points that ToPixel would clamp, where the error is not meaningful.
func (t *EffectiveTransform) ReprojectionError(p NormalizedPoint) (float64, bool) {
	if !t.IsVisible(p) {
		return 0, false
	}
	return t.reprojectionErrorOf(p, t.ToPixel(p))
}

func (t *EffectiveTransform) reprojectionErrorOf(in NormalizedPoint, out PixelPoint) (float64, bool) {
	back := t.ToNormalized(out)
	e := math.Hypot((back.X-in.X)*t.viewW, (back.Y-in.Y)*t.viewH)
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, false
	}
	return e, true
}

// sanitizeUnit replaces non-finite values with the nearest boundary of [0,1].
// NaN has no nearest boundary and maps to 0.
func sanitizeUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return 0
	case math.IsInf(v, 1):
		return 1
	default:
		return v
	}
}

func sanitizeBounded(v, hi float64) float64 {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return 0
	case math.IsInf(v, 1):
		return hi
	default:
		return v
	}
}

// clamp limits v to [lo, hi]. NaN clamps to lo so results stay finite.
func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
