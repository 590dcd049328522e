package pyramid

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Pyramid is a dyadic multi-resolution histogram over length-D feature vectors (section 4.I).
// Level 0 is the finest resolution (cell edge length 1 in rescaled coordinates); level ℓ has
// cell edge length 2^ℓ.
type Pyramid struct {
	cfg       Config
	levels    []map[string]int
	numPoints int
}

// numLevels returns L = ceil(log2(max target span)) + 1.
func numLevels(cfg Config) int {
	maxSpan := 0.0
	for _, r := range cfg.TargetRange {
		if r.Span() > maxSpan {
			maxSpan = r.Span()
		}
	}
	if maxSpan <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(maxSpan))) + 1
}

// Build constructs a pyramid over features (each of length len(cfg.InputRange)) per section
// 4.I's construction rule: coordinates are mapped from input_range into target_range, then
// shifted so target_range starts at 0, before being binned at each dyadic resolution.
func Build(features [][]float64, cfg Config) (*Pyramid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := len(cfg.InputRange)
	l := numLevels(cfg)

	p := &Pyramid{cfg: cfg, levels: make([]map[string]int, l), numPoints: len(features)}
	for lvl := range p.levels {
		p.levels[lvl] = make(map[string]int)
	}

	for _, f := range features {
		if len(f) != d {
			return nil, errors.Errorf("pyramid: feature has dimension %d, expected %d", len(f), d)
		}
		coord := make([]float64, d)
		finite := true
		for i, v := range f {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				finite = false
				break
			}
			coord[i] = (v - cfg.InputRange[i].Min) / cfg.InputRange[i].Span() * cfg.TargetRange[i].Span()
		}
		if !finite {
			p.numPoints--
			continue
		}
		for lvl := 0; lvl < l; lvl++ {
			edge := math.Pow(2, float64(lvl))
			key := cellKey(coord, edge)
			p.levels[lvl][key]++
		}
	}
	return p, nil
}

func cellKey(coord []float64, edge float64) string {
	indices := make([]string, len(coord))
	for i, c := range coord {
		indices[i] = fmt.Sprintf("%d", int(math.Floor(c/edge)))
	}
	return strings.Join(indices, ",")
}

// Len returns the number of finite feature vectors the pyramid was built from.
func (p *Pyramid) Len() int {
	return p.numPoints
}

// Similarity computes the weighted histogram-intersection similarity between p and q
// (section 4.I's comparison rule). p and q must share the same number of levels and
// dimensionality, i.e. be built with the same Config.
func Similarity(p, q *Pyramid) (float64, error) {
	if len(p.levels) != len(q.levels) {
		return 0, errors.Errorf("pyramid: level count mismatch, %d vs %d", len(p.levels), len(q.levels))
	}
	denom := p.numPoints
	if q.numPoints < denom {
		denom = q.numPoints
	}
	if denom <= 0 {
		return 0, errors.New("pyramid: cannot compare an empty pyramid")
	}

	var similarity float64
	prevIntersection := 0.0
	for lvl := 0; lvl < len(p.levels); lvl++ {
		intersection := kernelIntersection(p.levels[lvl], q.levels[lvl])
		newMatches := intersection
		if lvl > 0 {
			newMatches = intersection - prevIntersection
		}
		weight := 1 / math.Pow(2, float64(lvl))
		similarity += weight * newMatches
		prevIntersection = intersection
	}
	return similarity / float64(denom), nil
}

func kernelIntersection(a, b map[string]int) float64 {
	var sum float64
	for key, countA := range a {
		if countB, ok := b[key]; ok {
			if countA < countB {
				sum += float64(countA)
			} else {
				sum += float64(countB)
			}
		}
	}
	return sum
}
