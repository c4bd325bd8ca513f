package overlay

// ToPixelBatch maps every point with this transform and returns the results
// in input order. Each result equals ToPixel for the same point.
func (t *EffectiveTransform) ToPixelBatch(points []NormalizedPoint) []PixelPoint {
	return t.AppendPixels(make([]PixelPoint, 0, len(points)), points)
}

// AppendPixels maps points and appends the results to dst, growing it only
// when its capacity is insufficient. Callers can reuse dst[:0] across frames.
func (t *EffectiveTransform) AppendPixels(dst []PixelPoint, points []NormalizedPoint) []PixelPoint {
	if t.degenerate {
		for _, p := range points {
			dst = append(dst, t.ToPixel(p))
		}
		return dst
	}

	m := t.forward
	w, h := t.viewW, t.viewH
	for _, p := range points {
		x, y := sanitizeUnit(p.X), sanitizeUnit(p.Y)
		dst = append(dst, PixelPoint{
			X: clamp(m.a*x+m.b*y+m.tx, 0, w),
			Y: clamp(m.c*x+m.d*y+m.ty, 0, h),
		})
	}
	return dst
}

// ToPixelFrame maps every subject of a detector frame. The output keeps the
// timestamp, subject order and per-subject cardinality. All subjects share a
// single backing array.
func (t *EffectiveTransform) ToPixelFrame(f Frame) PixelFrame {
	out := PixelFrame{
		TimestampNanos: f.TimestampNanos,
		Subjects:       make([][]PixelPoint, len(f.Subjects)),
	}
	buf := make([]PixelPoint, 0, f.PointCount())
	for i, subject := range f.Subjects {
		start := len(buf)
		buf = t.AppendPixels(buf, subject)
		out.Subjects[i] = buf[start:len(buf):len(buf)]
	}
	return out
}
