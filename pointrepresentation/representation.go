// Package pointrepresentation implements the PointRepresentation contract (section 4.A):
// mapping a point or feature record into a length-k float vector, with an optional
// per-dimension rescale applied before it is handed to a distance-based consumer such as
// a nearest-neighbor index.
//
// Per this module's design notes, representations are expressed as a capability value
// (project + dims) built from a static descriptor table rather than runtime type-switch
// polymorphism, mirroring how this ecosystem prefers small interfaces and explicit
// construction over a base-class hierarchy.
package pointrepresentation

import (
	"math"

	"github.com/pkg/errors"
)

// Representation implements the section 4.A contract: dims, project, is_valid, vectorize,
// set_rescale. Its zero value is not usable; construct with New or one of the default
// constructors below.
type Representation struct {
	k       int
	project func(point interface{}) []float64
	rescale []float64
}

// New builds a Representation of dimensionality k from a projection function. project
// must always return a slice of length k.
func New(k int, project func(point interface{}) []float64) *Representation {
	return &Representation{k: k, project: project}
}

// Dims returns k, the target vector dimensionality.
func (r *Representation) Dims() int { return r.k }

// Project maps point to its length-k float vector, unscaled.
func (r *Representation) Project(point interface{}) []float64 {
	return r.project(point)
}

// IsValid reports whether every projected component of point is finite.
func (r *Representation) IsValid(point interface{}) bool {
	for _, f := range r.Project(point) {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// SetRescale copies k positive floats; subsequent Vectorize calls multiply the projection
// element-wise by them. Per section 7's Invalid-configuration error kind, a mis-sized or
// non-positive rescale array fails fast here rather than corrupting later vectorize calls.
func (r *Representation) SetRescale(values []float64) error {
	if len(values) != r.k {
		return errors.Errorf("pointrepresentation: rescale length %d does not match dims %d", len(values), r.k)
	}
	for i, v := range values {
		if v <= 0 {
			return errors.Errorf("pointrepresentation: rescale[%d] = %v must be positive", i, v)
		}
	}
	r.rescale = append([]float64(nil), values...)
	return nil
}

// Vectorize writes project(point), rescaled if a rescale has been set, into out. out must
// already have length k.
func (r *Representation) Vectorize(point interface{}, out []float64) error {
	if len(out) != r.k {
		return errors.Errorf("pointrepresentation: out length %d does not match dims %d", len(out), r.k)
	}
	copy(out, r.Project(point))
	if r.rescale != nil {
		for i := range out {
			out[i] *= r.rescale[i]
		}
	}
	return nil
}
