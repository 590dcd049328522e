package registration

import (
	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/pointrepresentation"
)

// ICP runs Iterative Closest Point (section 4.F): the Registration Base alignment loop with
// the closed-form SVD transform estimator. Neither ICP nor ICP-NL uses point normals.
func ICP(source, target pointcloud.PointCloud, targetIndex pointcloud.NNIndex, cfg Config) Result {
	cfg.Estimator = SVDEstimator
	return Align(source, target, targetIndex, pointrepresentation.DefaultPointRepresentation(), cfg)
}

// ICPNL runs the non-linear ICP variant (section 4.F): the same alignment loop with the
// Levenberg-Marquardt transform estimator.
func ICPNL(source, target pointcloud.PointCloud, targetIndex pointcloud.NNIndex, cfg Config) Result {
	cfg.Estimator = LMEstimator
	return Align(source, target, targetIndex, pointrepresentation.DefaultPointRepresentation(), cfg)
}
