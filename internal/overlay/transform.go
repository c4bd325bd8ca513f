package overlay

import "math"

// EffectiveTransform is the immutable mapping derived from a TransformConfig.
// Rotation, fit and mirroring are composed into a single forward affine map
// with an explicitly composed inverse. Values are safe for concurrent use and
// are replaced, never mutated, when the configuration changes.
type EffectiveTransform struct {
	config     TransformConfig
	degenerate bool
	canonical  bool
	rotation   int

	// Post-rotation image dimensions in pixels.
	rotW, rotH float64
	// Clamp bounds; zero when a view dimension is non-positive.
	viewW, viewH float64

	fit Fit

	rotate   affine // source normalized -> rotated normalized
	unrotate affine
	forward  affine // source normalized -> view pixels, mirroring included
	inverse  affine // view pixels -> source normalized

	visible Rect
}

// NewEffectiveTransform derives the transform for cfg. It never fails:
// non-positive dimensions produce a degenerate transform that clamps instead
// of dividing by zero.
func NewEffectiveTransform(cfg TransformConfig) *EffectiveTransform {
	t := &EffectiveTransform{
		config:     cfg,
		degenerate: cfg.Degenerate(),
		rotation:   NormalizeDegrees(cfg.RotationDegrees),
		viewW:      math.Max(0, float64(cfg.ViewWidth)),
		viewH:      math.Max(0, float64(cfg.ViewHeight)),
		rotate:     identityAffine(),
		unrotate:   identityAffine(),
		forward:    identityAffine(),
		inverse:    identityAffine(),
	}
	t.canonical = t.rotation%90 == 0
	if t.degenerate {
		return t
	}

	iw, ih := float64(cfg.ImageWidth), float64(cfg.ImageHeight)
	if t.canonical {
		t.rotate = canonicalRotation(t.rotation)
		t.unrotate = canonicalRotation(NormalizeDegrees(-t.rotation))
		t.rotW, t.rotH = iw, ih
		if t.rotation == 90 || t.rotation == 270 {
			t.rotW, t.rotH = ih, iw
		}
	} else {
		m, rw, rh := generalRotationMatrix(iw, ih, float64(t.rotation))
		t.rotate = affineFromDense(m)
		t.rotW, t.rotH = rw, rh
		inv, ok := invertDense(m)
		if !ok {
			t.degenerate = true
			return t
		}
		t.unrotate = inv
	}

	t.fit = ResolveFit(cfg.FitMode, t.viewW, t.viewH, t.rotW, t.rotH)
	spanX := t.rotW * t.fit.ScaleX
	spanY := t.rotH * t.fit.ScaleY
	if !positive(spanX) || !positive(spanY) {
		t.degenerate = true
		return t
	}

	place := affine{a: spanX, tx: t.fit.OffsetX, d: spanY, ty: t.fit.OffsetY}
	unplace := affine{a: 1 / spanX, tx: -t.fit.OffsetX / spanX, d: 1 / spanY, ty: -t.fit.OffsetY / spanY}
	mirror := identityAffine()
	if cfg.Mirrored {
		mirror = affine{a: -1, tx: t.viewW, d: 1}
	}

	t.forward = t.rotate.then(place).then(mirror)
	// A mirror about the view centre is its own inverse.
	t.inverse = mirror.then(unplace).then(t.unrotate)
	t.visible = t.computeVisibleRegion()
	return t
}

// Config returns the configuration the transform was derived from.
func (t *EffectiveTransform) Config() TransformConfig { return t.config }

// Degenerate reports whether the transform is in the degenerate state.
func (t *EffectiveTransform) Degenerate() bool { return t.degenerate }

// Canonical reports whether the rotation is a quarter turn and the fast
// remap path is used.
func (t *EffectiveTransform) Canonical() bool { return t.canonical }

// Rotation returns the normalized rotation in [0, 360).
func (t *EffectiveTransform) Rotation() int { return t.rotation }

// Fit returns the resolved scale and offsets.
func (t *EffectiveTransform) Fit() Fit { return t.fit }

// RotatedImageSize returns the post-rotation image dimensions in pixels.
func (t *EffectiveTransform) RotatedImageSize() (float64, float64) { return t.rotW, t.rotH }
