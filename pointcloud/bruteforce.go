package pointcloud

import (
	"sort"

	"github.com/go-pcl/registration/utils"
)

// BruteForceIndex is a brute-force NNIndex: O(n) per query, pairwise distances computed via
// utils.ComputeDistance. It trades the kd-tree's build/query asymptotics for simplicity, and
// is the right choice for the small feature clouds SAC-IA (4.H) samples against per
// iteration, where n rarely exceeds a few hundred and a tree's construction cost would
// dominate.
type BruteForceIndex struct {
	vectors [][]float64
}

// NewBruteForceIndex builds a BruteForceIndex over vectors.
func NewBruteForceIndex(vectors [][]float64) *BruteForceIndex {
	return &BruteForceIndex{vectors: vectors}
}

// NearestK returns the k nearest vectors to query by Euclidean distance, ascending.
func (b *BruteForceIndex) NearestK(query []float64, k int) []Neighbor {
	if len(b.vectors) == 0 || k <= 0 {
		return nil
	}
	row := make([][]float64, len(b.vectors))
	copy(row, b.vectors)
	distances, err := utils.PairwiseDistance([][]float64{query}, row, utils.Euclidean)
	if err != nil {
		return nil
	}

	neighbors := make([]Neighbor, len(b.vectors))
	for i := range b.vectors {
		d := distances.At(0, i)
		neighbors[i] = Neighbor{Index: i, SqDist: d * d}
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].SqDist < neighbors[j].SqDist })
	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k]
}

// RadiusSearch returns every vector within radius of query, sorted by ascending distance.
func (b *BruteForceIndex) RadiusSearch(query []float64, radius float64) []Neighbor {
	all := b.NearestK(query, len(b.vectors))
	sqRadius := radius * radius
	out := make([]Neighbor, 0, len(all))
	for _, n := range all {
		if n.SqDist <= sqRadius {
			out = append(out, n)
		}
	}
	return out
}
