// Package registration implements the Correspondence Estimator, Transform Estimator,
// Registration Base, and ICP/ICP-NL components of sections 4.C through 4.F.
package registration

import (
	"context"

	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/pointrepresentation"
	"github.com/go-pcl/registration/utils"
)

// Correspondence is a matched (source index, target index) pair, optionally carrying the
// squared Euclidean distance between the matched points (section 3).
type Correspondence struct {
	SourceIndex int
	TargetIndex int
	SqDist      float64
}

// EstimateCorrespondences implements section 4.C: for each finite, validly-projected source
// point, query the target index for its single nearest neighbor and emit a correspondence
// iff the squared distance is within maxCorrDist². Each source index appears at most once;
// output is ordered by source index.
//
// The per-source-point lookup is independent across points against the shared, immutable
// targetIndex, so it is farmed out via GroupWorkParallel per section 5; each worker writes
// into its own slot of a pre-sized scratch slice (no shared append under a lock), and a final
// sequential compaction pass restores the ordered-by-source-index output contract.
func EstimateCorrespondences(
	source pointcloud.PointCloud,
	targetIndex pointcloud.NNIndex,
	rep *pointrepresentation.Representation,
	maxCorrDist float64,
) []Correspondence {
	maxSq := maxCorrDist * maxCorrDist
	scratch := make([]*Correspondence, len(source.Points))

	utils.GroupWorkParallel(context.Background(), len(source.Points), func(int) {}, func(_, _, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
		return func(_, workNum int) {
			p := source.Points[workNum]
			if !p.IsFinite() || !rep.IsValid(p) {
				return
			}
			neighbors := targetIndex.NearestK(rep.Project(p), 1)
			if len(neighbors) == 0 {
				return
			}
			nb := neighbors[0]
			if nb.SqDist > maxSq {
				return
			}
			scratch[workNum] = &Correspondence{SourceIndex: workNum, TargetIndex: nb.Index, SqDist: nb.SqDist}
		}, nil
	})

	out := make([]Correspondence, 0, len(source.Points))
	for _, c := range scratch {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// FeatureIndex pairs a feature-space NN index with the representation used to project
// points into it, one per feature modality searched by MultiFeatureCorrespondenceEstimator.
type FeatureIndex struct {
	Index          pointcloud.NNIndex
	Representation *pointrepresentation.Representation
	// Weight scales this modality's contribution to the combined distance score used to
	// pick among each source point's per-modality nearest-neighbor candidates. Section 9's
	// Open Question on multi-feature weighting defaults every modality to equal weight;
	// set explicitly to bias the estimator toward a more reliable feature.
	Weight float64
}

// EqualWeights returns a []FeatureIndex with every Weight set to 1/len(indices), the
// default multi-feature weighting policy from section 9's Open Question resolution.
func EqualWeights(indices []pointcloud.NNIndex, reps []*pointrepresentation.Representation) []FeatureIndex {
	out := make([]FeatureIndex, len(indices))
	w := 1.0 / float64(len(indices))
	for i := range indices {
		out[i] = FeatureIndex{Index: indices[i], Representation: reps[i], Weight: w}
	}
	return out
}

// MultiFeatureCorrespondenceEstimator generalizes EstimateCorrespondences to search several
// feature clouds simultaneously (section 9's restoration of the source's commented-out
// findFeatureCorrespondences test): for each source point, every modality's nearest target
// candidate is found independently, then the candidate with the lowest weight-scaled squared
// distance is kept as that source point's correspondence.
func MultiFeatureCorrespondenceEstimator(
	source pointcloud.PointCloud,
	modalities []FeatureIndex,
	maxCorrDist float64,
) []Correspondence {
	maxSq := maxCorrDist * maxCorrDist
	out := make([]Correspondence, 0, len(source.Points))
	for i, p := range source.Points {
		if !p.IsFinite() {
			continue
		}
		bestTarget := -1
		bestScore := 0.0
		bestSq := 0.0
		for _, m := range modalities {
			if !m.Representation.IsValid(p) {
				continue
			}
			neighbors := m.Index.NearestK(m.Representation.Project(p), 1)
			if len(neighbors) == 0 {
				continue
			}
			nb := neighbors[0]
			score := m.Weight * nb.SqDist
			if bestTarget == -1 || score < bestScore {
				bestTarget = nb.Index
				bestScore = score
				bestSq = nb.SqDist
			}
		}
		if bestTarget == -1 || bestSq > maxSq {
			continue
		}
		out = append(out, Correspondence{SourceIndex: i, TargetIndex: bestTarget, SqDist: bestSq})
	}
	return out
}
