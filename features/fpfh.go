package features

import (
	"context"
	"math"

	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/utils"
	"github.com/golang/geo/r3"
)

const fpfhBinsPerThird = 11

// FPFH computes a 33-bin Fast Point Feature Histogram for every point in cloud (section
// 4.G), given an NN index built over cloud's positions. Points lacking a normal, or whose
// radius-neighborhood has fewer than 2 members, are skipped (left without a descriptor)
// rather than aborting the batch, per section 7.
//
// The computation follows PCL's two-stage scheme: a per-point Simplified Point Feature
// Histogram (SPFH) over a Darboux-frame angle triple (alpha, phi, theta) for each neighbor
// pair, then a distance-weighted combination of each point's own SPFH with its neighbors'.
//
// Both stages are independent per point against the shared, immutable cloud and index, so
// each runs via GroupWorkParallel per section 5's pleasingly-parallel per-point feature
// computation; stage two only starts once stage one's full spfh slice is in place, since it
// reads neighbors' intermediate histograms.
func FPFH(cloud pointcloud.PointCloud, index pointcloud.NNIndex, radius float64) []*FPFHSignature {
	n := len(cloud.Points)
	spfh := make([]*[33]float64, n)
	utils.GroupWorkParallel(context.Background(), n, func(int) {}, func(_, _, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
		return func(_, workNum int) {
			p := cloud.Points[workNum]
			if !p.IsFinite() || !p.HasNormal {
				return
			}
			query := []float64{p.Position.X, p.Position.Y, p.Position.Z}
			neighbors := index.RadiusSearch(query, radius)
			if len(neighbors) < 2 {
				return
			}
			spfh[workNum] = simplifiedHistogram(cloud, workNum, neighbors)
		}, nil
	})

	out := make([]*FPFHSignature, n)
	utils.GroupWorkParallel(context.Background(), n, func(int) {}, func(_, _, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
		return func(_, i int) {
			h := spfh[i]
			if h == nil {
				return
			}
			query := []float64{cloud.Points[i].Position.X, cloud.Points[i].Position.Y, cloud.Points[i].Position.Z}
			neighbors := index.RadiusSearch(query, radius)

			combined := *h
			var weightSum float64
			for _, nb := range neighbors {
				if nb.Index == i || spfh[nb.Index] == nil {
					continue
				}
				dist := math.Sqrt(nb.SqDist)
				if dist == 0 {
					continue
				}
				weight := 1 / dist
				weightSum += weight
				for b := 0; b < 33; b++ {
					combined[b] += weight * spfh[nb.Index][b]
				}
			}
			if weightSum > 0 {
				for b := 0; b < 33; b++ {
					combined[b] /= 1 + weightSum
				}
			}
			out[i] = &FPFHSignature{Histogram: combined}
		}, nil
	})
	return out
}

// simplifiedHistogram computes point i's SPFH over its neighborhood.
func simplifiedHistogram(cloud pointcloud.PointCloud, i int, neighbors []pointcloud.Neighbor) *[33]float64 {
	p := cloud.Points[i]
	var hist [33]float64
	var counted float64
	for _, nb := range neighbors {
		if nb.Index == i {
			continue
		}
		q := cloud.Points[nb.Index]
		if !q.HasNormal {
			continue
		}
		alpha, phi, theta, ok := darbouxAngles(p.Position, p.Normal, q.Position, q.Normal)
		if !ok {
			continue
		}
		binInto(&hist, 0, alpha, -1, 1)
		binInto(&hist, fpfhBinsPerThird, phi, -1, 1)
		binInto(&hist, 2*fpfhBinsPerThird, theta, -math.Pi, math.Pi)
		counted++
	}
	if counted > 0 {
		for third := 0; third < 3; third++ {
			base := third * fpfhBinsPerThird
			for b := 0; b < fpfhBinsPerThird; b++ {
				hist[base+b] /= counted
			}
		}
	}
	return &hist
}

// darbouxAngles computes PCL's (alpha, phi, theta) triple for a source/target point pair,
// the same Darboux-frame decomposition underlying both FPFH's SPFH and the PPF signature.
func darbouxAngles(p1, n1, p2, n2 r3.Vector) (alpha, phi, theta float64, ok bool) {
	d := p2.Sub(p1)
	dist := d.Norm()
	if dist == 0 {
		return 0, 0, 0, false
	}
	d = d.Mul(1 / dist)

	// Use the pair whose connecting line is more perpendicular to its own normal as the
	// Darboux frame's u axis, per PCL's numerical-stability swap.
	u, v2 := n1, n2
	dd := d
	if math.Abs(n1.Dot(d)) > math.Abs(n2.Dot(d)) {
		u, v2 = n2, n1
		dd = d.Mul(-1)
	}

	vAxis := dd.Cross(u)
	vNorm := vAxis.Norm()
	if vNorm == 0 {
		return 0, 0, 0, false
	}
	vAxis = vAxis.Mul(1 / vNorm)
	wAxis := u.Cross(vAxis)

	alpha = vAxis.Dot(v2)
	phi = dd.Dot(u)
	theta = math.Atan2(wAxis.Dot(v2), u.Dot(v2))
	return alpha, phi, theta, true
}

func binInto(hist *[33]float64, base int, value, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		return
	}
	frac := (value - lo) / span
	bin := int(frac * fpfhBinsPerThird)
	if bin < 0 {
		bin = 0
	}
	if bin >= fpfhBinsPerThird {
		bin = fpfhBinsPerThird - 1
	}
	hist[base+bin]++
}
