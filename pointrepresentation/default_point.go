package pointrepresentation

import "github.com/go-pcl/registration/pointcloud"

// DefaultPointRepresentation returns the k=3, identity-projection representation for
// positional point clouds (section 4.A's default for (x,y,z) points).
func DefaultPointRepresentation() *Representation {
	return New(3, func(point interface{}) []float64 {
		p := point.(pointcloud.Point)
		return []float64{p.Position.X, p.Position.Y, p.Position.Z}
	})
}
