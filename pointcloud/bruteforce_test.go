package pointcloud

import (
	"testing"

	"go.viam.com/test"
)

func TestBruteForceIndexMatchesKDTree(t *testing.T) {
	vectors := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}, {5, 5, 5}}
	bf := NewBruteForceIndex(vectors)
	kd := NewKDTreeIndex(vectors)

	query := []float64{0.1, 0.1, 0}
	bfResult := bf.NearestK(query, 2)
	kdResult := kd.NearestK(query, 2)

	test.That(t, len(bfResult), test.ShouldEqual, len(kdResult))
	for i := range bfResult {
		test.That(t, bfResult[i].Index, test.ShouldEqual, kdResult[i].Index)
		test.That(t, bfResult[i].SqDist, test.ShouldAlmostEqual, kdResult[i].SqDist, 1e-9)
	}
}

func TestBruteForceIndexRadiusSearch(t *testing.T) {
	vectors := [][]float64{{0, 0, 0}, {1, 0, 0}, {10, 0, 0}}
	bf := NewBruteForceIndex(vectors)
	results := bf.RadiusSearch([]float64{0, 0, 0}, 2)
	test.That(t, len(results), test.ShouldEqual, 2)
}

func TestBruteForceIndexEmpty(t *testing.T) {
	bf := NewBruteForceIndex(nil)
	test.That(t, bf.NearestK([]float64{0, 0, 0}, 3), test.ShouldBeNil)
}
