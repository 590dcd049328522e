package registration

import (
	"github.com/go-pcl/registration/logging"
	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/pointrepresentation"
	"github.com/go-pcl/registration/spatialmath"
	"github.com/pkg/errors"
)

// EstimatorKind selects which Transform Estimator (section 4.D) a Base alignment loop uses.
type EstimatorKind int

const (
	// SVDEstimator uses the closed-form point-to-point SVD fit.
	SVDEstimator EstimatorKind = iota
	// LMEstimator uses the non-linear Levenberg-Marquardt fit.
	LMEstimator
)

// Config holds the Registration Base parameters of section 4.E and the per-algorithm
// configuration surface of section 6 common to ICP and ICP-NL.
type Config struct {
	MaxIterations             int
	TransformationEpsilon     float64
	MaxCorrespondenceDistance float64
	InitialTransform          *spatialmath.Transform

	// LMMaxInnerIterations and LMParamEpsilon bound the inner Levenberg-Marquardt solve
	// when Estimator is LMEstimator; unused by SVDEstimator.
	LMMaxInnerIterations int
	LMParamEpsilon       float64

	Estimator EstimatorKind
	Logger    logging.Logger
}

// DefaultConfig returns ICP's conventional defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:             50,
		TransformationEpsilon:     1e-8,
		MaxCorrespondenceDistance: 0.05,
		LMMaxInnerIterations:      20,
		LMParamEpsilon:            1e-8,
		Estimator:                 SVDEstimator,
		Logger:                    logging.NewNoopLogger(),
	}
}

// Validate checks the Invalid-configuration error kind of section 7: negative distances,
// zero iteration bounds, and non-positive epsilons fail fast here.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return errInvalidConfig("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.TransformationEpsilon <= 0 {
		return errInvalidConfig("transformation_epsilon must be positive, got %v", c.TransformationEpsilon)
	}
	if c.MaxCorrespondenceDistance <= 0 {
		return errInvalidConfig("max_correspondence_distance must be positive, got %v", c.MaxCorrespondenceDistance)
	}
	if c.Estimator == LMEstimator {
		if c.LMMaxInnerIterations <= 0 {
			return errInvalidConfig("lm_max_inner_iterations must be positive, got %d", c.LMMaxInnerIterations)
		}
		if c.LMParamEpsilon <= 0 {
			return errInvalidConfig("lm_param_epsilon must be positive, got %v", c.LMParamEpsilon)
		}
	}
	return nil
}

// Result is the alignment outcome common to every algorithm in this module, per section 6's
// "Outputs" boundary contract: a 4x4 transform, a fitness score, a convergence flag, and the
// reason iteration stopped when it did not converge.
type Result struct {
	Transform     spatialmath.Transform
	Fitness       float64
	Converged     bool
	FailureReason string
	Iterations    int
}

// errInvalidConfig constructs an Invalid-configuration error via github.com/pkg/errors,
// this module's ambient error-construction idiom.
func errInvalidConfig(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Align runs the generic alignment loop of section 4.E against source and target, using cfg's
// chosen Transform Estimator. rep projects points for correspondence search; targetIndex must
// already be built over rep's projection of target.
func Align(
	source, target pointcloud.PointCloud,
	targetIndex pointcloud.NNIndex,
	rep *pointrepresentation.Representation,
	cfg Config,
) Result {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	tCur := spatialmath.NewIdentityTransform()
	if cfg.InitialTransform != nil {
		tCur = *cfg.InitialTransform
	}

	if len(source.Points) == 0 || len(target.Points) == 0 {
		return Result{Transform: tCur, Converged: false, FailureReason: "insufficient-data: empty input cloud"}
	}

	var lastCorrespondences []Correspondence
	var lastMoved pointcloud.PointCloud

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		moved := applyTransform(source, tCur)
		correspondences := EstimateCorrespondences(moved, targetIndex, rep, cfg.MaxCorrespondenceDistance)
		lastCorrespondences = correspondences
		lastMoved = moved

		if len(correspondences) < 3 {
			logger.Warnw("registration: insufficient correspondences", "iteration", iter, "count", len(correspondences))
			return Result{
				Transform:     tCur,
				Converged:     false,
				FailureReason: "insufficient-data: fewer than 3 correspondences",
				Iterations:    iter,
				Fitness:       fitness(lastMoved, target, lastCorrespondences),
			}
		}

		delta, err := estimateDelta(cfg, moved, target, correspondences)
		if err != nil {
			logger.Warnw("registration: transform estimation failed", "iteration", iter, "err", err)
			return Result{
				Transform:     tCur,
				Converged:     false,
				FailureReason: "numerical-failure: " + err.Error(),
				Iterations:    iter,
				Fitness:       fitness(lastMoved, target, lastCorrespondences),
			}
		}

		tCur = delta.Compose(tCur)

		deltaNorm := spatialmath.FrobeniusNormDiff(delta.Matrix(), spatialmath.NewIdentityTransform().Matrix())
		logger.Debugw("registration: iteration complete", "iteration", iter, "correspondences", len(correspondences), "delta_norm", deltaNorm)
		if deltaNorm < cfg.TransformationEpsilon {
			return Result{
				Transform:  tCur,
				Converged:  true,
				Iterations: iter + 1,
				Fitness:    fitness(applyTransform(source, tCur), target, correspondences),
			}
		}
	}

	return Result{
		Transform:  tCur,
		Converged:  true,
		Iterations: cfg.MaxIterations,
		Fitness:    fitness(applyTransform(source, tCur), target, lastCorrespondences),
	}
}

func estimateDelta(cfg Config, moved, target pointcloud.PointCloud, correspondences []Correspondence) (spatialmath.Transform, error) {
	if cfg.Estimator == LMEstimator {
		return EstimateLM(moved, target, correspondences, cfg.LMMaxInnerIterations, cfg.LMParamEpsilon)
	}
	return EstimateSVD(moved, target, correspondences)
}

func applyTransform(cloud pointcloud.PointCloud, t spatialmath.Transform) pointcloud.PointCloud {
	points := make([]pointcloud.Point, len(cloud.Points))
	for i, p := range cloud.Points {
		moved := p
		moved.Position = t.Apply(p.Position)
		if p.HasNormal {
			moved.Normal = t.ApplyRotation(p.Normal)
		}
		points[i] = moved
	}
	return pointcloud.PointCloud{Points: points, Width: cloud.Width, Height: cloud.Height, IsDense: cloud.IsDense}
}

// fitness returns the mean squared distance of accepted correspondences after the final
// transform, per section 4.E's "Fitness score" definition.
func fitness(moved, target pointcloud.PointCloud, correspondences []Correspondence) float64 {
	if len(correspondences) == 0 {
		return 0
	}
	var sum float64
	for _, c := range correspondences {
		d := moved.Points[c.SourceIndex].Position.Sub(target.Points[c.TargetIndex].Position)
		sum += d.Dot(d)
	}
	return sum / float64(len(correspondences))
}
