package sacia

import (
	"math"
	"math/rand"

	"github.com/go-pcl/registration/logging"
	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/pointrepresentation"
	"github.com/go-pcl/registration/registration"
	"github.com/go-pcl/registration/spatialmath"
	"github.com/go-pcl/registration/utils"
)

func noopLogger() logging.Logger { return logging.NewNoopLogger() }

// Result is SAC-IA's outcome, matching the common Outputs contract of section 6.
type Result struct {
	Transform  spatialmath.Transform
	Fitness    float64
	Converged  bool
	Iterations int
}

// Align runs SAC-IA (section 4.H). source and target are the position clouds; sourceFeatures
// and targetFeatureIndex are their feature descriptors and a feature-space NN index built
// over targetFeatures, using featureRep to project a descriptor into the feature-index's
// ℝᵏ. The random pick in step 2 is SAC-IA's only stochastic input; given the same
// cfg.RandomSeed, Align is deterministic.
func Align(
	source, target pointcloud.PointCloud,
	targetIndex pointcloud.NNIndex,
	sourceFeatures []interface{},
	targetFeatureIndex pointcloud.NNIndex,
	featureRep *pointrepresentation.Representation,
	featureK int,
	cfg Config,
) Result {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger()
	}

	r := rand.New(rand.NewSource(cfg.RandomSeed))
	best := spatialmath.NewIdentityTransform()
	bestLoss := math.Inf(1)
	found := false

	huberThreshold := (cfg.MaxCorrespondenceDistance / 2) * (cfg.MaxCorrespondenceDistance / 2)
	positionRep := pointrepresentation.DefaultPointRepresentation()

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		samples, ok := sampleMinDistance(source, cfg.NumSamples, cfg.MinSampleDistance, cfg.MaxResampleTries, r)
		if !ok {
			continue
		}

		correspondences := make([]registration.Correspondence, 0, len(samples))
		for _, si := range samples {
			if sourceFeatures[si] == nil {
				continue
			}
			candidates := targetFeatureIndex.NearestK(featureRep.Project(sourceFeatures[si]), featureK)
			if len(candidates) == 0 {
				continue
			}
			chosen := candidates[r.Intn(len(candidates))]
			correspondences = append(correspondences, registration.Correspondence{
				SourceIndex: si,
				TargetIndex: chosen.Index,
				SqDist:      chosen.SqDist,
			})
		}
		if len(correspondences) < 3 {
			continue
		}

		candidate, err := registration.EstimateSVD(source, target, correspondences)
		if err != nil {
			continue
		}

		loss := scoreTransform(source, targetIndex, positionRep, candidate, cfg.MaxCorrespondenceDistance, huberThreshold)
		if loss < bestLoss {
			bestLoss = loss
			best = candidate
			found = true
			logger.Debugw("sacia: new best candidate", "iteration", iter, "loss", loss)
		}
	}

	return Result{Transform: best, Fitness: bestLoss, Converged: found, Iterations: cfg.MaxIterations}
}

// sampleMinDistance greedily draws numSamples distinct source indices such that every pair
// is at least minDist apart in 3D (section 4.H step 1), resampling individual draws up to
// maxTries times before giving up on this round.
func sampleMinDistance(cloud pointcloud.PointCloud, numSamples int, minDist float64, maxTries int, r *rand.Rand) ([]int, bool) {
	if len(cloud.Points) < numSamples {
		return nil, false
	}
	minDistSq := minDist * minDist
	chosen := make([]int, 0, numSamples)
	for len(chosen) < numSamples {
		accepted := false
		for try := 0; try < maxTries; try++ {
			idx := utils.SampleRandomIntRange(0, len(cloud.Points)-1, r)
			if !cloud.Points[idx].IsFinite() {
				continue
			}
			if farEnough(cloud, idx, chosen, minDistSq) {
				chosen = append(chosen, idx)
				accepted = true
				break
			}
		}
		if !accepted {
			return nil, false
		}
	}
	return chosen, true
}

func farEnough(cloud pointcloud.PointCloud, idx int, chosen []int, minDistSq float64) bool {
	for _, c := range chosen {
		if c == idx {
			return false
		}
		d := cloud.Points[idx].Position.Sub(cloud.Points[c].Position)
		if d.Dot(d) < minDistSq {
			return false
		}
	}
	return true
}

// scoreTransform implements section 4.H step 4: transform source, for each point find the
// nearest target within maxCorrDist, and sum Huber(sq_dist) over the accepted points.
func scoreTransform(
	source pointcloud.PointCloud,
	targetIndex pointcloud.NNIndex,
	positionRep *pointrepresentation.Representation,
	transform spatialmath.Transform,
	maxCorrDist, huberThreshold float64,
) float64 {
	maxSq := maxCorrDist * maxCorrDist
	var loss float64
	for _, p := range source.Points {
		if !p.IsFinite() {
			continue
		}
		moved := transform.Apply(p.Position)
		neighbors := targetIndex.NearestK(positionRep.Project(pointcloud.NewPoint(moved.X, moved.Y, moved.Z)), 1)
		if len(neighbors) == 0 || neighbors[0].SqDist > maxSq {
			continue
		}
		loss += huber(neighbors[0].SqDist, huberThreshold)
	}
	return loss
}

// huber applies the Huber loss to x with threshold delta: quadratic below delta, linear
// above it. Section 4.H applies this to dist² directly (not to the unsquared distance), so
// the "residual" huber operates on is already squared.
func huber(x, delta float64) float64 {
	if x <= delta {
		return 0.5 * x * x
	}
	return delta * (x - 0.5*delta)
}
