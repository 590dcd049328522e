package registration

import (
	"math"
	"testing"

	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/spatialmath"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func rotateZ(angle float64) func(r3.Vector) r3.Vector {
	c, s := math.Cos(angle), math.Sin(angle)
	return func(v r3.Vector) r3.Vector {
		return r3.Vector{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
	}
}

func TestEstimateSVDRecoversKnownRotation(t *testing.T) {
	coords := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}}
	source := pointcloud.MakeTestPointCloud(coords)
	rotated := pointcloud.TransformCoords(coords, rotateZ(math.Pi/6))
	target := pointcloud.MakeTestPointCloud(rotated)

	correspondences := make([]Correspondence, len(coords))
	for i := range coords {
		correspondences[i] = Correspondence{SourceIndex: i, TargetIndex: i}
	}

	transform, err := EstimateSVD(source, target, correspondences)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.IsOrthonormalRotation(transform.Rotation(), 1e-6), test.ShouldBeTrue)

	for _, c := range coords {
		got := transform.Apply(r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		want := rotateZ(math.Pi / 6)(r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		test.That(t, got.Sub(want).Norm(), test.ShouldBeLessThan, 1e-9)
	}
}

func TestEstimateSVDFailsWithTooFewCorrespondences(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {1, 0, 0}}
	source := pointcloud.MakeTestPointCloud(coords)
	target := source
	_, err := EstimateSVD(source, target, []Correspondence{{SourceIndex: 0, TargetIndex: 0}})
	test.That(t, err, test.ShouldEqual, ErrTooFewCorrespondences)
}

func TestEstimateLMRecoversKnownRotation(t *testing.T) {
	coords := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {2, 0, 1}}
	source := pointcloud.MakeTestPointCloud(coords)
	rotated := pointcloud.TransformCoords(coords, rotateZ(math.Pi/8))
	target := pointcloud.MakeTestPointCloud(rotated)

	correspondences := make([]Correspondence, len(coords))
	for i := range coords {
		correspondences[i] = Correspondence{SourceIndex: i, TargetIndex: i}
	}

	transform, err := EstimateLM(source, target, correspondences, 50, 1e-10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.IsOrthonormalRotation(transform.Rotation(), 1e-4), test.ShouldBeTrue)

	for _, c := range coords {
		got := transform.Apply(r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		want := rotateZ(math.Pi / 8)(r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		test.That(t, got.Sub(want).Norm(), test.ShouldBeLessThan, 1e-4)
	}
}
