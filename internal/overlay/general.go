package overlay

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// affine is a 2D affine map:
//
//	x' = a*x + b*y + tx
//	y' = c*x + d*y + ty
type affine struct {
	a, b, tx float64
	c, d, ty float64
}

func identityAffine() affine {
	return affine{a: 1, d: 1}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.tx, m.c*x + m.d*y + m.ty
}

// then returns the map that applies m first and n second.
func (m affine) then(n affine) affine {
	return affine{
		a:  n.a*m.a + n.b*m.c,
		b:  n.a*m.b + n.b*m.d,
		tx: n.a*m.tx + n.b*m.ty + n.tx,
		c:  n.c*m.a + n.d*m.c,
		d:  n.c*m.b + n.d*m.d,
		ty: n.c*m.tx + n.d*m.ty + n.ty,
	}
}

// invert returns the inverse map. ok is false for singular maps.
func (m affine) invert() (affine, bool) {
	det := m.a*m.d - m.b*m.c
	if math.Abs(det) < 1e-12 || math.IsNaN(det) || math.IsInf(det, 0) {
		return identityAffine(), false
	}
	inv := 1 / det
	return affine{
		a:  m.d * inv,
		b:  -m.b * inv,
		tx: (m.b*m.ty - m.d*m.tx) * inv,
		c:  -m.c * inv,
		d:  m.a * inv,
		ty: (m.c*m.tx - m.a*m.ty) * inv,
	}, true
}

func affineFromDense(m mat.Matrix) affine {
	return affine{
		a: m.At(0, 0), b: m.At(0, 1), tx: m.At(0, 2),
		c: m.At(1, 0), d: m.At(1, 1), ty: m.At(1, 2),
	}
}

func homogeneous(a, b, tx, c, d, ty float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		a, b, tx,
		c, d, ty,
		0, 0, 1,
	})
}

// chain multiplies matrices left to right, so the last matrix is applied
// to a point first.
func chain(ms ...*mat.Dense) *mat.Dense {
	acc := mat.DenseCopyOf(ms[0])
	for _, m := range ms[1:] {
		var next mat.Dense
		next.Mul(acc, m)
		acc = &next
	}
	return acc
}

// generalRotationMatrix builds the homogeneous map that rotates a normalized
// iw×ih image clockwise by deg about its centre and re-normalizes against
// the rotated bounding box. It also returns the bounding box dimensions.
func generalRotationMatrix(iw, ih, deg float64) (*mat.Dense, float64, float64) {
	rw, rh := boundingDimensions(iw, ih, deg)
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	toPixels := homogeneous(iw, 0, 0, 0, ih, 0)
	toCentre := homogeneous(1, 0, -iw/2, 0, 1, -ih/2)
	// Clockwise on screen because y grows downward.
	rotate := homogeneous(cos, -sin, 0, sin, cos, 0)
	fromCentre := homogeneous(1, 0, rw/2, 0, 1, rh/2)
	toNormalized := homogeneous(1/rw, 0, 0, 0, 1/rh, 0)

	return chain(toNormalized, fromCentre, rotate, toCentre, toPixels), rw, rh
}

func generalRotation(iw, ih, deg float64) (affine, float64, float64) {
	m, rw, rh := generalRotationMatrix(iw, ih, deg)
	return affineFromDense(m), rw, rh
}

// invertDense inverts a homogeneous map with gonum, falling back to the
// closed form if the factorization reports a failure.
func invertDense(m *mat.Dense) (affine, bool) {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return affineFromDense(m).invert()
	}
	return affineFromDense(&inv), true
}
