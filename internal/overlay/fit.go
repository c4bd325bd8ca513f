package overlay

import "math"

// Fit holds the scale and offset that place a (rotated) image inside a view.
// Scales are view pixels per image pixel; offsets are view pixels.
type Fit struct {
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// ResolveFit computes the fit of an imageW×imageH image (post-rotation) into a
// viewW×viewH view.
//
//   - FitFill scales each axis independently with zero offsets.
//   - FitCenterCrop scales uniformly by the larger ratio; the overflowing axis
//     gets a negative offset so the crop is centred.
//   - FitCenterInside scales uniformly by the smaller ratio; both offsets are
//     non-negative letterbox margins.
//
// Non-positive or non-finite dimensions yield the zero Fit.
func ResolveFit(mode FitMode, viewW, viewH, imageW, imageH float64) Fit {
	if !positive(viewW) || !positive(viewH) || !positive(imageW) || !positive(imageH) {
		return Fit{}
	}
	rx := viewW / imageW
	ry := viewH / imageH

	var s float64
	switch mode {
	case FitCenterCrop:
		s = math.Max(rx, ry)
	case FitCenterInside:
		s = math.Min(rx, ry)
	default:
		return Fit{ScaleX: rx, ScaleY: ry}
	}
	return Fit{
		ScaleX:  s,
		ScaleY:  s,
		OffsetX: (viewW - imageW*s) / 2,
		OffsetY: (viewH - imageH*s) / 2,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
