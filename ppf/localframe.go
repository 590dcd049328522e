package ppf

import (
	"math"

	"github.com/go-pcl/registration/spatialmath"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

var xHat = r3.Vector{X: 1, Y: 0, Z: 0}

// localFrame returns the rigid transform that sends point to the origin and normal to +x,
// the T_sg / T_mg construction of section 4.K step 1a.
func localFrame(point, normal r3.Vector) spatialmath.Transform {
	n := normal.Normalize()
	rotation := alignToXAxis(n)
	t := spatialmath.NewTransform(rotation, r3.Vector{})
	origin := t.ApplyRotation(point)
	return spatialmath.NewTransform(rotation, r3.Vector{X: -origin.X, Y: -origin.Y, Z: -origin.Z})
}

// alignToXAxis returns the rotation matrix mapping unit vector n onto +x via the shortest
// great-circle rotation (Rodrigues' formula around the n × x axis).
func alignToXAxis(n r3.Vector) *mat.Dense {
	cos := n.Dot(xHat)
	axis := n.Cross(xHat)
	sin := axis.Norm()

	if sin < 1e-12 {
		if cos > 0 {
			return spatialmath.Identity3()
		}
		// n is antiparallel to +x: rotate 180 degrees around any axis perpendicular to x.
		return spatialmath.RotationVectorToMatrix(0, math.Pi, 0)
	}
	angle := math.Atan2(sin, cos)
	unitAxis := axis.Mul(1 / sin)
	return spatialmath.RotationVectorToMatrix(unitAxis.X*angle, unitAxis.Y*angle, unitAxis.Z*angle)
}

// rotationAboutX returns the 3x3 rotation matrix for a rotation of angle radians about +x,
// the R_x(α*) of section 4.K step 2.
func rotationAboutX(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// rotationAngleDiff returns the rotation angle, in [0, π], between two 3x3 rotation
// matrices: acos((trace(a^T b) - 1) / 2).
func rotationAngleDiff(a, b *mat.Dense) float64 {
	var atb mat.Dense
	atb.Mul(a.T(), b)
	trace := atb.At(0, 0) + atb.At(1, 1) + atb.At(2, 2)
	cos := (trace - 1) / 2
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// angleAroundX returns the angle, in [0, 2π), that rotates vs's projection onto the y-z
// plane onto vm's projection: the α of section 4.K step 1c.
func angleAroundX(vs, vm r3.Vector) float64 {
	phiScene := math.Atan2(vs.Z, vs.Y)
	phiModel := math.Atan2(vm.Z, vm.Y)
	alpha := phiModel - phiScene
	for alpha < 0 {
		alpha += 2 * math.Pi
	}
	for alpha >= 2*math.Pi {
		alpha -= 2 * math.Pi
	}
	return alpha
}
