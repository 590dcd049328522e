package ppf

import (
	"context"
	"math"
	"sync"

	"github.com/go-pcl/registration/features"
	"github.com/go-pcl/registration/pointcloud"
	"github.com/go-pcl/registration/spatialmath"
	"github.com/go-pcl/registration/utils"
	"github.com/golang/geo/r3"
)

// Result is PPF registration's outcome, matching the common Outputs contract of section 6.
// Fitness has no natural analogue for a voting scheme, so it is derived as 1/(1+weight): it
// decreases monotonically as the winning cluster's vote weight grows, staying in (0, 1] and
// comparable in spirit ("lower is better") to the other algorithms' fitness scores.
type Result struct {
	Transform spatialmath.Transform
	Fitness   float64
	Converged bool
	Weight    int
}

type candidate struct {
	transform spatialmath.Transform
	weight    int
}

type voteKey struct {
	modelRef int
	bin      int
}

// Register runs PPF-based coarse registration (section 4.K): scene reference points vote,
// via the model's PPF hash table, for a candidate pose; candidates are then clustered across
// reference points and the heaviest cluster's pose is returned.
//
// Per-reference voting (section 4.K step 1) is independent across reference points against
// the shared, immutable model, scene, and hash, so it runs via GroupWorkParallel per section
// 5: each worker accumulates its own local vote grid and candidate, and the single candidate
// it produces is appended into the shared list under a mutex-guarded critical region (the
// appending-region discipline section 5 calls for, as an alternative to thread-local-then-merge).
func Register(model, scene pointcloud.PointCloud, hash *HashTable, cfg RegistrationConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	modelFrames := make([]spatialmath.Transform, len(model.Points))
	for i, p := range model.Points {
		if p.HasNormal && p.IsFinite() {
			modelFrames[i] = localFrame(p.Position, p.Normal)
		}
	}

	numRefs := (len(scene.Points) + cfg.SceneReferenceSamplingRate - 1) / cfg.SceneReferenceSamplingRate
	var candidates []candidate
	var mu sync.Mutex

	utils.GroupWorkParallel(context.Background(), numRefs, func(int) {}, func(_, _, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
		return func(_, refNum int) {
			r := refNum * cfg.SceneReferenceSamplingRate
			ref := scene.Points[r]
			if !ref.HasNormal || !ref.IsFinite() {
				return
			}
			tsg := localFrame(ref.Position, ref.Normal)

			votes := make(map[voteKey]int)
			for i, pt := range scene.Points {
				if i == r || !pt.HasNormal || !pt.IsFinite() {
					continue
				}
				sig, ok := features.PPF(ref.Position, ref.Normal, pt.Position, pt.Normal)
				if !ok {
					continue
				}
				for _, m := range hash.Query(sig) {
					tmg := modelFrames[m.I]
					vs := tsg.Apply(pt.Position)
					vm := tmg.Apply(model.Points[m.J].Position)
					alpha := angleAroundX(vm, vs)
					bin := int(math.Floor(alpha / cfg.RotationClusteringThreshold))
					votes[voteKey{modelRef: m.I, bin: bin}]++
				}
			}

			peak := voteKey{-1, 0}
			peakCount := 0
			for k, count := range votes {
				if count > peakCount {
					peakCount = count
					peak = k
				}
			}
			if peak.modelRef < 0 {
				return
			}

			alphaStar := (float64(peak.bin) + 0.5) * cfg.RotationClusteringThreshold
			tmgStar := modelFrames[peak.modelRef]
			rx := spatialmath.NewTransform(rotationAboutX(alphaStar), r3.Vector{})
			tCand := tsg.Inverse().Compose(rx).Compose(tmgStar)

			mu.Lock()
			candidates = append(candidates, candidate{transform: tCand, weight: peakCount})
			mu.Unlock()
		}, nil
	})

	clusters := clusterCandidates(candidates, cfg.PositionClusteringThreshold, cfg.RotationClusteringThreshold)
	if len(clusters) == 0 {
		return Result{Transform: spatialmath.NewIdentityTransform(), Fitness: 1, Converged: false}, nil
	}

	heaviest := clusters[0]
	for _, c := range clusters[1:] {
		if c.weight > heaviest.weight {
			heaviest = c
		}
	}

	return Result{
		Transform: heaviest.representative,
		Fitness:   1 / (1 + float64(heaviest.weight)),
		Converged: true,
		Weight:    heaviest.weight,
	}, nil
}

type poseCluster struct {
	representative spatialmath.Transform
	weight         int
}

// clusterCandidates groups candidate poses that pairwise agree (translation distance below
// posThreshold and rotation angle difference below rotThreshold), per section 4.K's
// clustering rule. Within a cluster, the representative returned is the member with the
// largest individual vote weight, resolving the spec's "member ... or the mean pose" choice
// in favor of the simpler, numerically uncontroversial option (mean-pose would require
// quaternion averaging with no natural tie-break of its own).
func clusterCandidates(candidates []candidate, posThreshold, rotThreshold float64) []poseCluster {
	type group struct {
		members []candidate
	}
	var groups []group

	for _, c := range candidates {
		placed := false
		for gi := range groups {
			if agrees(c.transform, groups[gi].members[0].transform, posThreshold, rotThreshold) {
				groups[gi].members = append(groups[gi].members, c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, group{members: []candidate{c}})
		}
	}

	clusters := make([]poseCluster, 0, len(groups))
	for _, g := range groups {
		weight := 0
		best := g.members[0]
		for _, m := range g.members {
			weight += m.weight
			if m.weight > best.weight {
				best = m
			}
		}
		clusters = append(clusters, poseCluster{representative: best.transform, weight: weight})
	}
	return clusters
}

func agrees(a, b spatialmath.Transform, posThreshold, rotThreshold float64) bool {
	dt := a.Translation().Sub(b.Translation()).Norm()
	if dt >= posThreshold {
		return false
	}
	return rotationAngleDiff(a.Rotation(), b.Rotation()) < rotThreshold
}

