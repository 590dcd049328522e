package registration

import (
	"testing"

	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/pointrepresentation"
	"go.viam.com/test"
)

func TestEstimateCorrespondencesFiltersByDistance(t *testing.T) {
	target := pointcloud.NewUnorganized([]pointcloud.Point{
		pointcloud.NewPoint(0, 0, 0),
		pointcloud.NewPoint(10, 10, 10),
	})
	index := pointcloud.NewKDTreeIndex(cloudPositions(target))

	source := pointcloud.NewUnorganized([]pointcloud.Point{
		pointcloud.NewPoint(0.01, 0, 0),
		pointcloud.NewPoint(5, 5, 5),
	})

	rep := pointrepresentation.DefaultPointRepresentation()
	correspondences := EstimateCorrespondences(source, index, rep, 0.05)
	test.That(t, len(correspondences), test.ShouldEqual, 1)
	test.That(t, correspondences[0].SourceIndex, test.ShouldEqual, 0)
	test.That(t, correspondences[0].TargetIndex, test.ShouldEqual, 0)
}

func TestEstimateCorrespondencesStableOrdering(t *testing.T) {
	target := pointcloud.NewUnorganized([]pointcloud.Point{
		pointcloud.NewPoint(0, 0, 0),
		pointcloud.NewPoint(1, 1, 1),
		pointcloud.NewPoint(2, 2, 2),
	})
	index := pointcloud.NewKDTreeIndex(cloudPositions(target))
	source := target
	rep := pointrepresentation.DefaultPointRepresentation()
	correspondences := EstimateCorrespondences(source, index, rep, 1)
	test.That(t, len(correspondences), test.ShouldEqual, 3)
	for i, c := range correspondences {
		test.That(t, c.SourceIndex, test.ShouldEqual, i)
	}
}

func TestMultiFeatureCorrespondenceEstimatorEqualWeights(t *testing.T) {
	target := pointcloud.NewUnorganized([]pointcloud.Point{
		pointcloud.NewPoint(0, 0, 0),
		pointcloud.NewPoint(5, 5, 5),
	})
	positionIndex := pointcloud.NewKDTreeIndex(cloudPositions(target))

	source := pointcloud.NewUnorganized([]pointcloud.Point{pointcloud.NewPoint(0.1, 0, 0)})
	rep := pointrepresentation.DefaultPointRepresentation()

	modalities := EqualWeights([]pointcloud.NNIndex{positionIndex}, []*pointrepresentation.Representation{rep})
	test.That(t, modalities[0].Weight, test.ShouldEqual, 1.0)

	correspondences := MultiFeatureCorrespondenceEstimator(source, modalities, 1)
	test.That(t, len(correspondences), test.ShouldEqual, 1)
	test.That(t, correspondences[0].TargetIndex, test.ShouldEqual, 0)
}
