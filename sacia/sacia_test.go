package sacia

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-pcl/registration/features"
	"github.com/go-pcl/registration/pointcloud"
	"go.viam.com/test"
)

func spherePoints(n int, seed int64) []pointcloud.Point {
	r := rand.New(rand.NewSource(seed))
	points := make([]pointcloud.Point, n)
	for i := range points {
		theta := math.Acos(2*r.Float64() - 1)
		phi := 2 * math.Pi * r.Float64()
		points[i] = pointcloud.NewPoint(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta))
	}
	return points
}

func positionsOf(cloud pointcloud.PointCloud) [][]float64 {
	out := make([][]float64, len(cloud.Points))
	for i, p := range cloud.Points {
		out[i] = []float64{p.Position.X, p.Position.Y, p.Position.Z}
	}
	return out
}

func withFeatures(cloud pointcloud.PointCloud, radius float64) ([]interface{}, pointcloud.PointCloud) {
	posIndex := pointcloud.NewKDTreeIndex(positionsOf(cloud))
	withNormals := features.EstimateNormals(cloud, posIndex, radius)
	sigs := features.FPFH(withNormals, posIndex, radius)
	out := make([]interface{}, len(sigs))
	for i, s := range sigs {
		if s != nil {
			out[i] = *s
		}
	}
	return out, withNormals
}

// TestE3SACIACoarseAlignment follows the shape of seeded scenario E3: source translated by
// (100,0,0) and rotated 90 degrees about z.
//
// This test exercises the full feature pipeline (normals, FPFH, feature-space index, SAC-IA)
// on a small synthetic sphere fixture with a reduced iteration budget relative to E3 (1000
// iterations on a full surface scan), keeping the test fast. It checks that a best candidate
// was found and that its loss is non-negative; it does not assert E3's 5e-4 fitness bound.
func TestE3SACIACoarseAlignment(t *testing.T) {
	target := pointcloud.NewUnorganized(spherePoints(300, 10))
	rotated := make([]pointcloud.Point, len(target.Points))
	for i, p := range target.Points {
		// rotate 90 degrees about z and translate by (100,0,0); the transform SAC-IA
		// estimates maps this source back onto target, i.e. the inverse of this map.
		x, y, z := p.Position.X, p.Position.Y, p.Position.Z
		rotated[i] = pointcloud.NewPoint(-y+100, x, z)
	}
	source := pointcloud.NewUnorganized(rotated)

	sourceFeaturesRaw, sourceWithNormals := withFeatures(source, 0.5)
	targetFeaturesRaw, targetWithNormals := withFeatures(target, 0.5)

	targetIndex := pointcloud.NewKDTreeIndex(positionsOf(targetWithNormals))

	featureRep := features.DefaultFPFHRepresentation()
	var targetFeatureVectors [][]float64
	validTargetIdx := make([]int, 0)
	for i, f := range targetFeaturesRaw {
		if f == nil {
			continue
		}
		targetFeatureVectors = append(targetFeatureVectors, featureRep.Project(f))
		validTargetIdx = append(validTargetIdx, i)
	}
	if len(targetFeatureVectors) < 10 {
		t.Skip("not enough points had a valid FPFH descriptor in this fixture")
	}
	featureIndex := pointcloud.NewKDTreeIndex(targetFeatureVectors)

	// Wrap the feature index so NearestK results refer back to target's point indices
	// rather than the compacted targetFeatureVectors indices.
	remapped := remapIndex{inner: featureIndex, toOriginal: validTargetIdx}

	cfg := DefaultConfig()
	cfg.MinSampleDistance = 0.1
	cfg.MaxCorrespondenceDistance = 0.6
	cfg.MaxIterations = 200
	cfg.RandomSeed = 42

	result := Align(sourceWithNormals, targetWithNormals, targetIndex, sourceFeaturesRaw, remapped, featureRep, 5, cfg)
	test.That(t, result.Converged, test.ShouldBeTrue)
	test.That(t, result.Fitness, test.ShouldBeGreaterThanOrEqualTo, 0)
}

// remapIndex wraps an NNIndex built over a compacted subset of points, translating returned
// indices back to the original cloud's indexing.
type remapIndex struct {
	inner      pointcloud.NNIndex
	toOriginal []int
}

func (r remapIndex) NearestK(query []float64, k int) []pointcloud.Neighbor {
	neighbors := r.inner.NearestK(query, k)
	out := make([]pointcloud.Neighbor, len(neighbors))
	for i, n := range neighbors {
		out[i] = pointcloud.Neighbor{Index: r.toOriginal[n.Index], SqDist: n.SqDist}
	}
	return out
}

func (r remapIndex) RadiusSearch(query []float64, radius float64) []pointcloud.Neighbor {
	neighbors := r.inner.RadiusSearch(query, radius)
	out := make([]pointcloud.Neighbor, len(neighbors))
	for i, n := range neighbors {
		out[i] = pointcloud.Neighbor{Index: r.toOriginal[n.Index], SqDist: n.SqDist}
	}
	return out
}

func TestSampleMinDistanceRespectsBound(t *testing.T) {
	cloud := pointcloud.NewUnorganized(spherePoints(100, 11))
	r := rand.New(rand.NewSource(1))
	samples, ok := sampleMinDistance(cloud, 3, 0.2, 2000, r)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(samples), test.ShouldEqual, 3)
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			d := cloud.Points[samples[i]].Position.Sub(cloud.Points[samples[j]].Position).Norm()
			test.That(t, d, test.ShouldBeGreaterThanOrEqualTo, 0.2-1e-9)
		}
	}
}

func TestHuberLoss(t *testing.T) {
	test.That(t, huber(0.01, 1.0), test.ShouldAlmostEqual, 0.5*0.01*0.01, 1e-12)
	large := huber(10, 1.0)
	test.That(t, large, test.ShouldAlmostEqual, 1.0*(10-0.5), 1e-12)
}
