package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPointIsFinite(t *testing.T) {
	p := NewPoint(1, 2, 3)
	test.That(t, p.IsFinite(), test.ShouldBeTrue)

	p = NewPoint(math.NaN(), 2, 3)
	test.That(t, p.IsFinite(), test.ShouldBeFalse)

	p = NewPoint(1, 2, math.Inf(1))
	test.That(t, p.IsFinite(), test.ShouldBeFalse)
}

func TestPointIsFiniteOptionalFields(t *testing.T) {
	p := NewPoint(0, 0, 0)
	test.That(t, p.IsFinite(), test.ShouldBeTrue)

	withNormal := p.WithNormal(r3.Vector{X: 0, Y: 0, Z: 1})
	test.That(t, withNormal.IsFinite(), test.ShouldBeTrue)

	badNormal := p.WithNormal(r3.Vector{X: math.NaN(), Y: 0, Z: 1})
	test.That(t, badNormal.IsFinite(), test.ShouldBeFalse)

	withDescriptor := p.WithDescriptor([]float64{1, 2, 3})
	test.That(t, withDescriptor.IsFinite(), test.ShouldBeTrue)

	badDescriptor := p.WithDescriptor([]float64{1, math.Inf(-1), 3})
	test.That(t, badDescriptor.IsFinite(), test.ShouldBeFalse)
}

func TestPointIsFiniteUnsetFieldsIgnored(t *testing.T) {
	p := NewPoint(1, 2, 3)
	p.Normal = r3.Vector{X: math.NaN(), Y: 0, Z: 0}
	// HasNormal is false, so the garbage Normal value must not affect finiteness.
	test.That(t, p.IsFinite(), test.ShouldBeTrue)
}
