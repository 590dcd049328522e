package registration

import (
	"math"

	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/spatialmath"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrLMDiverged is returned when a Levenberg-Marquardt step produces a non-finite parameter
// update, the Numerical-failure error kind of section 7 ("LM diverges (parameter update
// NaN)"). The caller keeps the previous transform and treats the iteration as unsuccessful.
var ErrLMDiverged = errors.New("registration: LM parameter update diverged")

const lmFiniteDiffStep = 1e-6

// lmParams is the non-linear ICP parameterization of section 4.D: translation plus a
// rotation vector (axis scaled by angle).
type lmParams [6]float64

func (p lmParams) transform() spatialmath.Transform {
	r := spatialmath.RotationVectorToMatrix(p[3], p[4], p[5])
	return spatialmath.NewTransform(r, r3.Vector{X: p[0], Y: p[1], Z: p[2]})
}

// EstimateLM computes the rigid transform minimizing the sum of squared point-to-point
// residuals over the given correspondences via damped Gauss-Newton (Levenberg-Marquardt),
// per section 4.D's non-linear variant. maxIter and epsParam are the LM inner-loop bounds;
// termination is "parameter update norm < epsParam or iteration bound reached", per spec.
//
// The Jacobian is estimated by central finite differences rather than an analytic Rodrigues
// derivative: this keeps the solver correct regardless of the exact rotation parameterization
// in use, at the cost of 12 extra residual evaluations per LM iteration, a cost this module's
// expected correspondence-set sizes make negligible next to the nearest-neighbor search that
// dominates each outer ICP iteration.
func EstimateLM(source, target pointcloud.PointCloud, correspondences []Correspondence, maxIter int, epsParam float64) (spatialmath.Transform, error) {
	n := len(correspondences)
	if n < 3 {
		return spatialmath.Transform{}, ErrTooFewCorrespondences
	}

	srcPts := make([]r3.Vector, n)
	dstPts := make([]r3.Vector, n)
	for i, c := range correspondences {
		srcPts[i] = source.Points[c.SourceIndex].Position
		dstPts[i] = target.Points[c.TargetIndex].Position
	}

	residual := func(p lmParams) *mat.VecDense {
		t := p.transform()
		out := mat.NewVecDense(3*n, nil)
		for i := range srcPts {
			transformed := t.Apply(srcPts[i])
			d := transformed.Sub(dstPts[i])
			out.SetVec(3*i, d.X)
			out.SetVec(3*i+1, d.Y)
			out.SetVec(3*i+2, d.Z)
		}
		return out
	}

	jacobian := func(p lmParams, f0 *mat.VecDense) *mat.Dense {
		j := mat.NewDense(3*n, 6, nil)
		for k := 0; k < 6; k++ {
			pPlus := p
			pPlus[k] += lmFiniteDiffStep
			pMinus := p
			pMinus[k] -= lmFiniteDiffStep
			fPlus := residual(pPlus)
			fMinus := residual(pMinus)
			for row := 0; row < 3*n; row++ {
				j.Set(row, k, (fPlus.AtVec(row)-fMinus.AtVec(row))/(2*lmFiniteDiffStep))
			}
		}
		_ = f0
		return j
	}

	sumSq := func(v *mat.VecDense) float64 {
		return mat.Dot(v, v)
	}

	p := lmParams{}
	lambda := 1e-3
	f := residual(p)
	cost := sumSq(f)

	for iter := 0; iter < maxIter; iter++ {
		j := jacobian(p, f)
		var jt mat.Dense
		jt.CloneFrom(j.T())

		var jtj mat.Dense
		jtj.Mul(&jt, j)
		for i := 0; i < 6; i++ {
			jtj.Set(i, i, jtj.At(i, i)+lambda)
		}

		var jtf mat.VecDense
		jtf.MulVec(&jt, f)
		var negJtf mat.VecDense
		negJtf.ScaleVec(-1, &jtf)

		var delta mat.VecDense
		if err := delta.SolveVec(&jtj, &negJtf); err != nil {
			return spatialmath.Transform{}, ErrLMDiverged
		}

		deltaNorm := 0.0
		var candidate lmParams
		for i := 0; i < 6; i++ {
			v := delta.AtVec(i)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return spatialmath.Transform{}, ErrLMDiverged
			}
			deltaNorm += v * v
			candidate[i] = p[i] + v
		}
		deltaNorm = math.Sqrt(deltaNorm)

		candidateF := residual(candidate)
		candidateCost := sumSq(candidateF)
		if candidateCost < cost {
			p = candidate
			f = candidateF
			cost = candidateCost
			lambda = math.Max(lambda/10, 1e-12)
		} else {
			lambda *= 10
		}

		if deltaNorm < epsParam {
			break
		}
	}

	return p.transform(), nil
}
