package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRotationVectorToMatrixZeroIsIdentity(t *testing.T) {
	r := RotationVectorToMatrix(0, 0, 0)
	test.That(t, FrobeniusNormDiff(r, Identity3()), test.ShouldBeLessThan, 1e-12)
}

func TestRotationVectorToMatrixIsOrthonormal(t *testing.T) {
	r := RotationVectorToMatrix(0.3, -0.6, 0.9)
	test.That(t, IsOrthonormalRotation(r, 1e-9), test.ShouldBeTrue)
}

func TestRotationVectorToMatrixAboutZ(t *testing.T) {
	angle := math.Pi / 2
	r := RotationVectorToMatrix(0, 0, angle)
	t0 := NewTransform(r, r3.Vector{})
	rotated := t0.Apply(r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, rotated.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, rotated.Y, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, rotated.Z, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestTransformComposeAndInverse(t *testing.T) {
	r := RotationVectorToMatrix(0, 0, math.Pi/2)
	t1 := NewTransform(r, r3.Vector{X: 1, Y: 2, Z: 3})

	roundTrip := t1.Compose(t1.Inverse())
	test.That(t, FrobeniusNormDiff(roundTrip.Matrix(), NewIdentityTransform().Matrix()), test.ShouldBeLessThan, 1e-9)
}

func TestTransformApplyRotationIgnoresTranslation(t *testing.T) {
	r := RotationVectorToMatrix(0, 0, math.Pi/2)
	tr := NewTransform(r, r3.Vector{X: 10, Y: -5, Z: 2})

	rotatedOnly := tr.ApplyRotation(r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, rotatedOnly.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, rotatedOnly.Y, test.ShouldAlmostEqual, 1, 1e-9)
}

func TestIsOrthonormalRotationRejectsScaledMatrix(t *testing.T) {
	r := Identity3()
	r.Set(0, 0, 2)
	test.That(t, IsOrthonormalRotation(r, 1e-9), test.ShouldBeFalse)
}
