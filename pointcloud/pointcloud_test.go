package pointcloud

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestNewValidatesDimensions(t *testing.T) {
	points := []Point{NewPoint(0, 0, 0), NewPoint(1, 0, 0)}
	_, err := New(points, 1, 1)
	test.That(t, err, test.ShouldNotBeNil)

	pc, err := New(points, 2, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pc.Size(), test.ShouldEqual, 2)
	test.That(t, pc.IsDense, test.ShouldBeTrue)
}

func TestNewUnorganized(t *testing.T) {
	points := []Point{NewPoint(0, 0, 0), NewPoint(1, 1, 1), NewPoint(2, 2, 2)}
	pc := NewUnorganized(points)
	test.That(t, pc.Width, test.ShouldEqual, 3)
	test.That(t, pc.Height, test.ShouldEqual, 1)
	test.That(t, pc.Size(), test.ShouldEqual, 3)
}

func TestFiniteIndicesDenseCloud(t *testing.T) {
	pc := NewUnorganized([]Point{NewPoint(0, 0, 0), NewPoint(1, 1, 1)})
	test.That(t, pc.FiniteIndices(), test.ShouldResemble, []int{0, 1})
}

func TestFiniteIndicesSparseCloud(t *testing.T) {
	points := []Point{NewPoint(0, 0, 0), NewPoint(math.NaN(), 0, 0), NewPoint(2, 2, 2)}
	pc, err := New(points, 3, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pc.IsDense, test.ShouldBeFalse)
	test.That(t, pc.FiniteIndices(), test.ShouldResemble, []int{0, 2})
}
