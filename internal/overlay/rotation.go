package overlay

import "math"

// NormalizeDegrees reduces any angle into [0, 360).
func NormalizeDegrees(deg int) int {
	d := deg % 360
	if d < 0 {
		d += 360
	}
	return d
}

// IsCanonical reports whether deg is an exact multiple of 90 after
// normalization.
func IsCanonical(deg int) bool {
	return NormalizeDegrees(deg)%90 == 0
}

// Remap applies a clockwise rotation of deg to a normalized coordinate:
//
//	  0°: (x, y) -> (x, y)
//	 90°: (x, y) -> (1-y, x)
//	180°: (x, y) -> (1-x, 1-y)
//	270°: (x, y) -> (y, 1-x)
//
// Non-canonical angles rotate about the centre of a square image; use an
// EffectiveTransform when the image aspect ratio matters.
func Remap(x, y float64, deg int) (float64, float64) {
	switch NormalizeDegrees(deg) {
	case 0:
		return x, y
	case 90:
		return 1 - y, x
	case 180:
		return 1 - x, 1 - y
	case 270:
		return y, 1 - x
	default:
		rot, _, _ := generalRotation(1, 1, float64(NormalizeDegrees(deg)))
		return rot.apply(x, y)
	}
}

// Unmap is the inverse of Remap.
func Unmap(u, v float64, deg int) (float64, float64) {
	switch NormalizeDegrees(deg) {
	case 0:
		return u, v
	case 90:
		return v, 1 - u
	case 180:
		return 1 - u, 1 - v
	case 270:
		return 1 - v, u
	default:
		rot, _, _ := generalRotation(1, 1, float64(NormalizeDegrees(deg)))
		inv, ok := rot.invert()
		if !ok {
			return u, v
		}
		return inv.apply(u, v)
	}
}

// RotatedDimensions returns the dimensions of a w×h image after a clockwise
// rotation of deg. Quarter turns swap width and height. Other angles return
// the rounded bounding box of the rotated image.
func RotatedDimensions(w, h, deg int) (int, int) {
	switch d := NormalizeDegrees(deg); d {
	case 0, 180:
		return w, h
	case 90, 270:
		return h, w
	default:
		rw, rh := boundingDimensions(float64(w), float64(h), float64(d))
		return int(math.Round(rw)), int(math.Round(rh))
	}
}

// canonicalRotation returns the remap of a quarter turn as an affine map in
// normalized space. deg must already be normalized.
func canonicalRotation(deg int) affine {
	switch deg {
	case 90:
		return affine{a: 0, b: -1, tx: 1, c: 1, d: 0, ty: 0}
	case 180:
		return affine{a: -1, b: 0, tx: 1, c: 0, d: -1, ty: 1}
	case 270:
		return affine{a: 0, b: 1, tx: 0, c: -1, d: 0, ty: 1}
	default:
		return identityAffine()
	}
}

func boundingDimensions(w, h, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	cos := math.Abs(math.Cos(rad))
	sin := math.Abs(math.Sin(rad))
	return w*cos + h*sin, w*sin + h*cos
}
