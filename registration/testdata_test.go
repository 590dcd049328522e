package registration

import (
	"math"
	"math/rand"

	"github.com/go-pcl/registration/pointcloud"
)

// sphereCloud returns n points sampled on a unit sphere using a seeded RNG, the synthetic
// fixture E1/E2's scenarios describe ("synthetic 1000-point sphere").
func sphereCloud(n int, seed int64) pointcloud.PointCloud {
	r := rand.New(rand.NewSource(seed))
	points := make([]pointcloud.Point, n)
	for i := range points {
		theta := math.Acos(2*r.Float64() - 1)
		phi := 2 * math.Pi * r.Float64()
		x := math.Sin(theta) * math.Cos(phi)
		y := math.Sin(theta) * math.Sin(phi)
		z := math.Cos(theta)
		points[i] = pointcloud.NewPoint(x, y, z)
	}
	return pointcloud.NewUnorganized(points)
}

func cloudPositions(cloud pointcloud.PointCloud) [][]float64 {
	out := make([][]float64, len(cloud.Points))
	for i, p := range cloud.Points {
		out[i] = []float64{p.Position.X, p.Position.Y, p.Position.Z}
	}
	return out
}
