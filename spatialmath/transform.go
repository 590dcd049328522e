package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Transform is a rigid 4x4 homogeneous transformation matrix. Per section 3 of the
// specification, the bottom row is always (0, 0, 0, 1) and the top-left 3x3 rotational
// block is orthonormal with determinant +1.
type Transform struct {
	m *mat.Dense
}

// NewIdentityTransform returns the identity transform.
func NewIdentityTransform() Transform {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return Transform{m: m}
}

// NewTransform builds a Transform from a 3x3 rotation block and a translation vector.
func NewTransform(rotation *mat.Dense, translation r3.Vector) Transform {
	m := mat.NewDense(4, 4, nil)
	m.Slice(0, 3, 0, 3).(*mat.Dense).Copy(rotation)
	m.Set(0, 3, translation.X)
	m.Set(1, 3, translation.Y)
	m.Set(2, 3, translation.Z)
	m.Set(3, 3, 1)
	return Transform{m: m}
}

// Matrix returns the underlying 4x4 matrix. Callers must not mutate the returned value.
func (t Transform) Matrix() *mat.Dense {
	return t.m
}

// Rotation returns the top-left 3x3 rotational block.
func (t Transform) Rotation() *mat.Dense {
	r := mat.NewDense(3, 3, nil)
	r.Copy(t.m.Slice(0, 3, 0, 3))
	return r
}

// Translation returns the translation component.
func (t Transform) Translation() r3.Vector {
	return r3.Vector{X: t.m.At(0, 3), Y: t.m.At(1, 3), Z: t.m.At(2, 3)}
}

// Apply transforms a point by this transform: R*p + t.
func (t Transform) Apply(p r3.Vector) r3.Vector {
	r := t.Rotation()
	translation := t.Translation()
	x := r.At(0, 0)*p.X + r.At(0, 1)*p.Y + r.At(0, 2)*p.Z + translation.X
	y := r.At(1, 0)*p.X + r.At(1, 1)*p.Y + r.At(1, 2)*p.Z + translation.Y
	z := r.At(2, 0)*p.X + r.At(2, 1)*p.Y + r.At(2, 2)*p.Z + translation.Z
	return r3.Vector{X: x, Y: y, Z: z}
}

// ApplyRotation rotates a vector without translating it, used to carry normals through a transform.
func (t Transform) ApplyRotation(v r3.Vector) r3.Vector {
	r := t.Rotation()
	return r3.Vector{
		X: r.At(0, 0)*v.X + r.At(0, 1)*v.Y + r.At(0, 2)*v.Z,
		Y: r.At(1, 0)*v.X + r.At(1, 1)*v.Y + r.At(1, 2)*v.Z,
		Z: r.At(2, 0)*v.X + r.At(2, 1)*v.Y + r.At(2, 2)*v.Z,
	}
}

// Compose returns t * other: applying the result to a point first applies other, then t.
// Used by the registration loop's T_cur <- ΔT * T_cur update (section 4.E, step 6).
func (t Transform) Compose(other Transform) Transform {
	var m mat.Dense
	m.Mul(t.m, other.m)
	return Transform{m: &m}
}

// Inverse returns the inverse of a rigid transform: R^T, -R^T*t.
func (t Transform) Inverse() Transform {
	r := t.Rotation()
	var rt mat.Dense
	rt.CloneFrom(r.T())
	translation := t.Translation()
	var negT mat.VecDense
	negT.MulVec(&rt, mat.NewVecDense(3, []float64{-translation.X, -translation.Y, -translation.Z}))
	return NewTransform(&rt, r3.Vector{X: negT.AtVec(0), Y: negT.AtVec(1), Z: negT.AtVec(2)})
}

// FrobeniusNormDiff returns ||a - b||_F, used both for the registration loop's
// transformation-epsilon convergence check (section 4.E, step 7) and for the
// rotation-validity testable property (section 8, property 2).
func FrobeniusNormDiff(a, b *mat.Dense) float64 {
	ra, ca := a.Dims()
	var diff mat.Dense
	diff.Sub(a, b)
	var sumSq float64
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			v := diff.At(i, j)
			sumSq += v * v
		}
	}
	return math.Sqrt(sumSq)
}

// IsOrthonormalRotation reports whether r satisfies the rotation-validity testable property
// (section 8, property 2): ||R^T R - I||_F < tol and det(R) is approximately +1.
func IsOrthonormalRotation(r *mat.Dense, tol float64) bool {
	var rtr mat.Dense
	rtr.Mul(r.T(), r)
	if FrobeniusNormDiff(&rtr, Identity3()) >= tol {
		return false
	}
	return math.Abs(mat.Det(r)-1) < tol
}
