// Package pointcloud defines the point and point-cloud data model the registration
// algorithms operate on (section 3 of the specification), plus the nearest-neighbor
// index contract (section 4.B) those algorithms consume.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point is a single record within a PointCloud. Per section 3, a point is
// finite iff all of its set semantic fields are finite floats; optional fields
// (Normal, Intensity, Curvature, Descriptor) are tracked with explicit presence
// flags rather than sentinel values, so that a zero normal is distinguishable
// from "no normal computed."
type Point struct {
	Position r3.Vector

	Normal    r3.Vector
	HasNormal bool

	Intensity    float64
	HasIntensity bool

	Curvature    float64
	HasCurvature bool

	// Descriptor holds a feature vector (e.g. an FPFH or PPF signature) computed
	// for this point. Points carrying a descriptor are the elements of a feature
	// cloud as consumed by SAC-IA (4.H) and PPF registration (4.K).
	Descriptor []float64
}

// NewPoint returns a Point with only a position set.
func NewPoint(x, y, z float64) Point {
	return Point{Position: r3.Vector{X: x, Y: y, Z: z}}
}

// WithNormal returns a copy of p with the given normal set.
func (p Point) WithNormal(n r3.Vector) Point {
	p.Normal = n
	p.HasNormal = true
	return p
}

// WithDescriptor returns a copy of p carrying the given feature descriptor.
func (p Point) WithDescriptor(d []float64) Point {
	p.Descriptor = d
	return p
}

// IsFinite reports whether every semantic field currently set on p is a finite float,
// per section 3's finiteness invariant. Unset optional fields do not affect the result.
func (p Point) IsFinite() bool {
	if !finiteVec(p.Position) {
		return false
	}
	if p.HasNormal && !finiteVec(p.Normal) {
		return false
	}
	if p.HasIntensity && !isFinite(p.Intensity) {
		return false
	}
	if p.HasCurvature && !isFinite(p.Curvature) {
		return false
	}
	for _, v := range p.Descriptor {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func finiteVec(v r3.Vector) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
