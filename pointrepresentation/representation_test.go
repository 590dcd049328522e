package pointrepresentation

import (
	"math"
	"testing"

	"github.com/go-pcl/registration/pointcloud"
	"go.viam.com/test"
)

func TestDefaultPointRepresentation(t *testing.T) {
	rep := DefaultPointRepresentation()
	test.That(t, rep.Dims(), test.ShouldEqual, 3)

	p := pointcloud.NewPoint(1, 2, 3)
	test.That(t, rep.Project(p), test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, rep.IsValid(p), test.ShouldBeTrue)

	bad := pointcloud.NewPoint(math.NaN(), 2, 3)
	test.That(t, rep.IsValid(bad), test.ShouldBeFalse)
}

func TestVectorizeIdempotence(t *testing.T) {
	rep := DefaultPointRepresentation()
	p := pointcloud.NewPoint(2, 4, 6)

	out := make([]float64, 3)
	test.That(t, rep.Vectorize(p, out), test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, rep.Project(p))

	test.That(t, rep.SetRescale([]float64{1, 1, 1}), test.ShouldBeNil)
	out2 := make([]float64, 3)
	test.That(t, rep.Vectorize(p, out2), test.ShouldBeNil)
	test.That(t, out2, test.ShouldResemble, rep.Project(p))
}

func TestVectorizeAppliesRescale(t *testing.T) {
	rep := DefaultPointRepresentation()
	test.That(t, rep.SetRescale([]float64{2, 0.5, 1}), test.ShouldBeNil)

	p := pointcloud.NewPoint(1, 1, 1)
	out := make([]float64, 3)
	test.That(t, rep.Vectorize(p, out), test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, []float64{2, 0.5, 1})
}

func TestSetRescaleRejectsBadInput(t *testing.T) {
	rep := DefaultPointRepresentation()
	test.That(t, rep.SetRescale([]float64{1, 1}), test.ShouldNotBeNil)
	test.That(t, rep.SetRescale([]float64{1, -1, 1}), test.ShouldNotBeNil)
}

func TestVectorizeRejectsWrongLengthOut(t *testing.T) {
	rep := DefaultPointRepresentation()
	p := pointcloud.NewPoint(1, 2, 3)
	err := rep.Vectorize(p, make([]float64, 2))
	test.That(t, err, test.ShouldNotBeNil)
}
