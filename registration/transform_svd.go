package registration

import (
	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/spatialmath"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewCorrespondences is returned by EstimateSVD and EstimateLM when fewer than 3
// correspondences are supplied, per section 4.D: "Fails when fewer than 3 non-collinear
// correspondences remain; the caller must abort iteration."
var ErrTooFewCorrespondences = errors.New("registration: fewer than 3 correspondences")

// EstimateSVD computes the point-to-point rigid transform minimizing mean squared error
// over the given correspondences (section 4.D, SVD variant): centroids are subtracted,
// the 3x3 cross-covariance H is formed and decomposed by SVD, and the rotation is built
// with a determinant-sign correction so det(R) = +1 (never a reflection). This follows the
// same Umeyama-style construction as this ecosystem's transform.Umeyama, specialized to a
// rigid transform (no scale factor, which Umeyama computes but this estimator fixes at 1).
func EstimateSVD(source, target pointcloud.PointCloud, correspondences []Correspondence) (spatialmath.Transform, error) {
	n := len(correspondences)
	if n < 3 {
		return spatialmath.Transform{}, ErrTooFewCorrespondences
	}

	sx, sy, sz := make([]float64, n), make([]float64, n), make([]float64, n)
	tx, ty, tz := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, c := range correspondences {
		sp := source.Points[c.SourceIndex].Position
		tp := target.Points[c.TargetIndex].Position
		sx[i], sy[i], sz[i] = sp.X, sp.Y, sp.Z
		tx[i], ty[i], tz[i] = tp.X, tp.Y, tp.Z
	}

	centroidS := r3.Vector{X: stat.Mean(sx, nil), Y: stat.Mean(sy, nil), Z: stat.Mean(sz, nil)}
	centroidT := r3.Vector{X: stat.Mean(tx, nil), Y: stat.Mean(ty, nil), Z: stat.Mean(tz, nil)}

	var h mat.Dense
	h.Reset()
	hData := make([]float64, 9)
	for i := 0; i < n; i++ {
		ds := r3.Vector{X: sx[i], Y: sy[i], Z: sz[i]}.Sub(centroidS)
		dt := r3.Vector{X: tx[i], Y: ty[i], Z: tz[i]}.Sub(centroidT)
		hData[0] += ds.X * dt.X
		hData[1] += ds.X * dt.Y
		hData[2] += ds.X * dt.Z
		hData[3] += ds.Y * dt.X
		hData[4] += ds.Y * dt.Y
		hData[5] += ds.Y * dt.Z
		hData[6] += ds.Z * dt.X
		hData[7] += ds.Z * dt.Y
		hData[8] += ds.Z * dt.Z
	}
	h = *mat.NewDense(3, 3, hData)

	var svd mat.SVD
	if !svd.Factorize(&h, mat.SVDFull) {
		return spatialmath.Transform{}, errors.New("registration: SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	d := 1.0
	if mat.Det(&v)*mat.Det(&u) < 0 {
		d = -1.0
	}
	diag := mat.NewDiagDense(3, []float64{1, 1, d})

	var r mat.Dense
	r.Product(&v, diag, u.T())

	translation := centroidT.Sub(applyRotation(&r, centroidS))
	return spatialmath.NewTransform(&r, translation), nil
}

func applyRotation(r *mat.Dense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: r.At(0, 0)*v.X + r.At(0, 1)*v.Y + r.At(0, 2)*v.Z,
		Y: r.At(1, 0)*v.X + r.At(1, 1)*v.Y + r.At(1, 2)*v.Z,
		Z: r.At(2, 0)*v.X + r.At(2, 1)*v.Y + r.At(2, 2)*v.Z,
	}
}
