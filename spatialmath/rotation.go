package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotationVectorToMatrix converts an R3 rotation vector (axis scaled by angle, the
// parameterization used by the non-linear ICP variant in 4.D) directly into a 3x3
// rotation matrix via Rodrigues' formula.
func RotationVectorToMatrix(rx, ry, rz float64) *mat.Dense {
	theta := math.Sqrt(rx*rx + ry*ry + rz*rz)
	if theta == 0 {
		return Identity3()
	}
	kx, ky, kz := rx/theta, ry/theta, rz/theta
	k := mat.NewDense(3, 3, []float64{
		0, -kz, ky,
		kz, 0, -kx,
		-ky, kx, 0,
	})
	var k2 mat.Dense
	k2.Mul(k, k)

	r := Identity3()
	var sinTerm, cosTerm mat.Dense
	sinTerm.Scale(math.Sin(theta), k)
	cosTerm.Scale(1-math.Cos(theta), &k2)
	r.Add(r, &sinTerm)
	r.Add(r, &cosTerm)
	return r
}

// Identity3 returns a new 3x3 identity matrix.
func Identity3() *mat.Dense {
	r := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		r.Set(i, i, 1)
	}
	return r
}
