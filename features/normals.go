package features

import (
	"context"
	"math"

	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/utils"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// EstimateNormals computes a surface normal for every point in cloud by principal
// component analysis of its radius-neighborhood: the eigenvector of the neighborhood's
// covariance matrix with the smallest eigenvalue approximates the local surface normal.
// index must already be built over cloud's positions (e.g. pointcloud.NewKDTreeIndex of
// each point's (x,y,z)). Points whose neighborhood has fewer than 3 members (degenerate,
// per section 4.G) are returned with HasNormal left false rather than aborting the batch,
// matching section 7's Non-finite-input handling.
//
// Per-point normal fitting is independent across points (read-only cloud and index, one
// output slot per point), so it is farmed out via GroupWorkParallel per section 5's
// pleasingly-parallel per-point feature computation.
func EstimateNormals(cloud pointcloud.PointCloud, index pointcloud.NNIndex, radius float64) pointcloud.PointCloud {
	out := make([]pointcloud.Point, len(cloud.Points))
	copy(out, cloud.Points)

	utils.GroupWorkParallel(context.Background(), len(cloud.Points), func(int) {}, func(_, _, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
		return func(_, workNum int) {
			p := cloud.Points[workNum]
			if !p.IsFinite() {
				return
			}
			query := []float64{p.Position.X, p.Position.Y, p.Position.Z}
			neighbors := index.RadiusSearch(query, radius)
			if len(neighbors) < 3 {
				return
			}
			n, ok := localNormal(cloud, p.Position, neighbors)
			if !ok {
				return
			}
			out[workNum] = p.WithNormal(n)
		}, nil
	})
	return pointcloud.PointCloud{Points: out, Width: cloud.Width, Height: cloud.Height, IsDense: cloud.IsDense}
}

// localNormal fits a plane to the neighborhood of center via covariance eigendecomposition.
func localNormal(cloud pointcloud.PointCloud, center r3.Vector, neighbors []pointcloud.Neighbor) (r3.Vector, bool) {
	n := len(neighbors)
	var centroid r3.Vector
	positions := make([]r3.Vector, n)
	for i, nb := range neighbors {
		positions[i] = cloud.Points[nb.Index].Position
		centroid = centroid.Add(positions[i])
	}
	centroid = centroid.Mul(1.0 / float64(n))

	var cov mat.SymDense
	cov.Reset()
	data := make([]float64, 9)
	for _, p := range positions {
		d := p.Sub(centroid)
		data[0] += d.X * d.X
		data[1] += d.X * d.Y
		data[2] += d.X * d.Z
		data[4] += d.Y * d.Y
		data[5] += d.Y * d.Z
		data[8] += d.Z * d.Z
	}
	cov = *mat.NewSymDense(3, []float64{
		data[0], data[1], data[2],
		data[1], data[4], data[5],
		data[2], data[5], data[8],
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return r3.Vector{}, false
	}
	values := eig.Values(nil)
	minIdx := 0
	for i, v := range values {
		if v < values[minIdx] {
			minIdx = i
		}
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	normal := r3.Vector{X: vecs.At(0, minIdx), Y: vecs.At(1, minIdx), Z: vecs.At(2, minIdx)}
	norm := normal.Norm()
	if norm == 0 || math.IsNaN(norm) {
		return r3.Vector{}, false
	}
	return normal.Mul(1 / norm), true
}
