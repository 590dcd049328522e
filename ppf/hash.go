package ppf

import (
	"math"

	"github.com/go-pcl/registration/features"
	"github.com/go-pcl/registration/pointcloud"
)

// Key is a PPF hash bucket's address: the discretized (f1, f2, f3, f4) of section 4.J.
type Key struct {
	A1, A2, A3, D int
}

func computeKey(sig features.PPFSignature, cfg HashConfig) Key {
	return Key{
		A1: int(math.Floor(sig.F1 / cfg.AngleDiscretizationStep)),
		A2: int(math.Floor(sig.F2 / cfg.AngleDiscretizationStep)),
		A3: int(math.Floor(sig.F3 / cfg.AngleDiscretizationStep)),
		D:  int(math.Floor(sig.F4 / cfg.DistanceDiscretizationStep)),
	}
}

// PairIndex names an ordered pair of model point indices (i, j) whose PPF produced a given
// hash key.
type PairIndex struct {
	I, J int
}

// HashTable is a multiset, keyed by discretized PPF, of the model point-pairs that produced
// each key (section 4.J).
type HashTable struct {
	cfg    HashConfig
	buckets map[Key][]PairIndex
}

// BuildHash computes the PPF of every ordered pair of finite, normal-bearing points in model
// and inserts each pair's index into the table at its discretized key.
func BuildHash(model pointcloud.PointCloud, cfg HashConfig) (*HashTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &HashTable{cfg: cfg, buckets: make(map[Key][]PairIndex)}
	n := len(model.Points)
	for i := 0; i < n; i++ {
		pi := model.Points[i]
		if !pi.HasNormal || !pi.IsFinite() {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			pj := model.Points[j]
			if !pj.HasNormal || !pj.IsFinite() {
				continue
			}
			sig, ok := features.PPF(pi.Position, pi.Normal, pj.Position, pj.Normal)
			if !ok {
				continue
			}
			key := computeKey(sig, cfg)
			h.buckets[key] = append(h.buckets[key], PairIndex{I: i, J: j})
		}
	}
	return h, nil
}

// Query returns the multiset of model pairs whose PPF discretizes to sig's key, or nil if
// none are present.
func (h *HashTable) Query(sig features.PPFSignature) []PairIndex {
	return h.buckets[computeKey(sig, h.cfg)]
}
