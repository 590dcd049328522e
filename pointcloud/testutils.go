package pointcloud

import "github.com/golang/geo/r3"

// MakeTestPointCloud builds a small unorganized cloud from raw coordinates, for use as a
// fixture across this module's registration tests.
func MakeTestPointCloud(coords [][3]float64) PointCloud {
	points := make([]Point, len(coords))
	for i, c := range coords {
		points[i] = NewPoint(c[0], c[1], c[2])
	}
	return NewUnorganized(points)
}

// TransformCoords applies f to every coordinate triple, for building a target cloud as a
// known transformation of a source cloud in seeded test scenarios.
func TransformCoords(coords [][3]float64, f func(r3.Vector) r3.Vector) [][3]float64 {
	out := make([][3]float64, len(coords))
	for i, c := range coords {
		v := f(r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}
